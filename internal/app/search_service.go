package app

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/yourusername/djdeck-go/internal/domain"
)

// SearchService fans search queries out across the registered
// adapters and merges the results. Adapter failures are absorbed into
// empty contributions; the aggregate call itself never fails because
// of one backend.
type SearchService struct {
	registry *Registry
	timeouts domain.TimeoutConfig
	logger   *zap.Logger
}

// NewSearchService creates a new search service
func NewSearchService(registry *Registry, timeouts domain.TimeoutConfig, logger *zap.Logger) *SearchService {
	return &SearchService{
		registry: registry,
		timeouts: timeouts,
		logger:   logger,
	}
}

// ResolveSubset validates an explicit platform subset against the
// closed enum. An unrecognized name is a caller error, not a partial
// failure. An empty subset resolves to every currently available
// adapter.
func (s *SearchService) ResolveSubset(subset []string) ([]domain.Adapter, error) {
	if len(subset) == 0 {
		return s.registry.Available(), nil
	}

	adapters := make([]domain.Adapter, 0, len(subset))
	for _, name := range subset {
		source, err := domain.ParsePlatformSource(name)
		if err != nil {
			return nil, err
		}
		adapter, ok := s.registry.Get(source)
		if !ok {
			return nil, fmt.Errorf("platform not registered: %s", source)
		}
		if adapter.Capabilities().Available {
			adapters = append(adapters, adapter)
		}
	}
	return adapters, nil
}

// SearchAll dispatches the query to every resolved adapter
// concurrently and concatenates their results in adapter-resolution
// order, then each adapter's own order. No cross-adapter deduplication
// or re-ranking is performed.
func (s *SearchService) SearchAll(ctx context.Context, query string, limitPerPlatform int, subset []string) ([]domain.Track, error) {
	adapters, err := s.ResolveSubset(subset)
	if err != nil {
		return nil, err
	}

	// Results are collected per adapter index so completion timing
	// never affects merge order.
	results := make([][]domain.Track, len(adapters))

	var wg sync.WaitGroup
	for i, adapter := range adapters {
		wg.Add(1)
		go func(i int, adapter domain.Adapter) {
			defer wg.Done()
			results[i] = s.searchOne(ctx, adapter, query, limitPerPlatform)
		}(i, adapter)
	}
	wg.Wait()

	merged := make([]domain.Track, 0)
	for _, tracks := range results {
		merged = append(merged, tracks...)
	}
	return merged, nil
}

// searchOne runs a single adapter's search under the search budget,
// isolating failures and panics so one backend cannot corrupt or
// cancel the others.
func (s *SearchService) searchOne(ctx context.Context, adapter domain.Adapter, query string, limit int) (tracks []domain.Track) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("adapter panicked during search",
				zap.String("platform", string(adapter.Source())),
				zap.Any("panic", r))
			tracks = nil
		}
	}()

	searchCtx, cancel := context.WithTimeout(ctx, s.timeouts.Search)
	defer cancel()

	tracks, err := adapter.Search(searchCtx, query, limit)
	if err != nil {
		s.logger.Warn("platform search failed",
			zap.String("platform", string(adapter.Source())),
			zap.String("kind", string(domain.KindOf(err))),
			zap.String("query", query),
			zap.Error(err))
		return nil
	}
	return tracks
}

// SearchPlatform searches a single platform without fan-out. An
// unavailable or unregistered platform contributes an empty result,
// never an error.
func (s *SearchService) SearchPlatform(ctx context.Context, query string, platform domain.PlatformSource, limit int) []domain.Track {
	adapter, ok := s.registry.Get(platform)
	if !ok || !adapter.Capabilities().Available {
		return nil
	}
	return s.searchOne(ctx, adapter, query, limit)
}

// GetTrack resolves a single track through its owning adapter. Unlike
// search, lookup failures propagate to the caller as typed errors.
func (s *SearchService) GetTrack(ctx context.Context, source domain.PlatformSource, id string) (*domain.Track, error) {
	adapter, ok := s.registry.Get(source)
	if !ok {
		return nil, domain.Errf(domain.KindUnavailable, source, "get_track", "platform not registered")
	}
	if !adapter.Capabilities().Available {
		return nil, domain.Errf(domain.KindUnavailable, source, "get_track", "platform not available")
	}

	trackCtx, cancel := context.WithTimeout(ctx, s.timeouts.Track)
	defer cancel()

	track, err := adapter.GetTrack(trackCtx, id)
	if err != nil {
		s.logger.Warn("track lookup failed",
			zap.String("platform", string(source)),
			zap.String("track_id", id),
			zap.String("kind", string(domain.KindOf(err))),
			zap.Error(err))
		return nil, err
	}
	return track, nil
}

// Capabilities reports every registered platform's capability
// descriptor in resolution order.
func (s *SearchService) Capabilities() []PlatformInfo {
	adapters := s.registry.All()
	out := make([]PlatformInfo, 0, len(adapters))
	for _, a := range adapters {
		out = append(out, PlatformInfo{
			Name:         a.Source(),
			Capabilities: a.Capabilities(),
		})
	}
	return out
}

// AvailableSources lists the platforms currently able to serve
// searches.
func (s *SearchService) AvailableSources() []domain.PlatformSource {
	return s.registry.AvailableSources()
}

// PlatformInfo pairs a platform name with its capability descriptor
// for the /platforms endpoint.
type PlatformInfo struct {
	Name         domain.PlatformSource `json:"name"`
	Capabilities domain.Capabilities   `json:"capabilities"`
}
