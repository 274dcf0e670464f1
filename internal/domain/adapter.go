package domain

import "context"

// Capabilities describes what an adapter can do. Callers branch on
// this data rather than on the adapter's concrete type. Available may
// be computed dynamically (an adapter that re-authenticates can
// transition true -> false -> true); the other two flags are constant
// per adapter type.
type Capabilities struct {
	Available        bool `json:"is_available"`
	SupportsDownload bool `json:"supports_download"`
	SupportsBPM      bool `json:"supports_bpm"`
}

// Adapter is implemented once per backend. All operations return
// structured errors (PlatformError); converting failures into empty
// results and logging them is the caller's concern.
type Adapter interface {
	// Source returns the platform identity. Pure, constant.
	Source() PlatformSource

	// Capabilities returns the adapter's capability descriptor.
	Capabilities() Capabilities

	// Search finds tracks matching the query. Adapters validate and
	// clamp limit to the backend's accepted range, decode and trim the
	// query, and return an empty slice for empty queries without a
	// remote call.
	Search(ctx context.Context, query string, limit int) ([]Track, error)

	// GetTrack resolves a single track. It accepts the namespaced id,
	// the bare native id, or (for some backends) a full canonical URL,
	// and validates the native id shape before issuing any remote
	// call. Unresolvable tracks yield KindNotFound; malformed input
	// yields KindMalformedID without a remote call.
	GetTrack(ctx context.Context, id string) (*Track, error)

	// Download produces a playable audio artifact under outputDir at a
	// deterministic path derived from the sanitized "artist - title".
	// An already-present artifact is returned as success without
	// re-fetching. Adapters without download capability return
	// KindUnsupported.
	Download(ctx context.Context, track Track, outputDir string) (string, error)

	// GetBPM is best-effort tempo lookup. Backends without the
	// capability, and backends whose remote value is missing or
	// non-positive, return 0 with a nil error.
	GetBPM(ctx context.Context, track Track) (float64, error)
}
