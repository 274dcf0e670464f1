package infrastructure

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/djdeck-go/internal/domain"
)

func newDeezerTestAdapter(t *testing.T, handler http.Handler) *DeezerAdapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewDeezerAdapter(domain.DeezerConfig{BaseURL: server.URL}, &stubRunner{}, 2*time.Second, 1024)
}

func TestDeezerSearch_EnrichesTempo(t *testing.T) {
	var trackCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "harder better", r.URL.Query().Get("q"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		fmt.Fprint(w, `{"data":[
			{"id":101,"title":"Harder Better Faster Stronger","link":"https://deezer.com/track/101","duration":224,
			 "artist":{"name":"Daft Punk"},"album":{"cover_xl":"https://img/xl.jpg"}},
			{"id":102,"title":"Robot Rock","link":"https://deezer.com/track/102","duration":287,
			 "artist":{"name":"Daft Punk"},"album":{"cover_big":"https://img/big.jpg"}}
		]}`)
	})
	mux.HandleFunc("/track/101", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&trackCalls, 1)
		fmt.Fprint(w, `{"id":101,"title":"Harder Better Faster Stronger","bpm":123.4}`)
	})
	mux.HandleFunc("/track/102", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&trackCalls, 1)
		fmt.Fprint(w, `{"id":102,"title":"Robot Rock","bpm":0}`)
	})

	adapter := newDeezerTestAdapter(t, mux)
	tracks, err := adapter.Search(context.Background(), "harder better", 10)
	require.NoError(t, err)
	require.Len(t, tracks, 2)

	assert.Equal(t, "dz_101", tracks[0].ID)
	assert.Equal(t, "Daft Punk", tracks[0].Artist)
	assert.Equal(t, "https://img/xl.jpg", tracks[0].ArtworkURL)
	assert.Equal(t, 123.4, tracks[0].BPM)

	// Unknown tempo stays absent.
	assert.Equal(t, "https://img/big.jpg", tracks[1].ArtworkURL)
	assert.Zero(t, tracks[1].BPM)

	assert.Equal(t, int32(2), atomic.LoadInt32(&trackCalls))
}

func TestDeezerGetTrack_CarriesBPM(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/track/3135556", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":3135556,"title":"Aerodynamic","link":"https://deezer.com/track/3135556",
			"duration":212,"bpm":123.1,"artist":{"name":"Daft Punk"}}`)
	})

	adapter := newDeezerTestAdapter(t, mux)
	track, err := adapter.GetTrack(context.Background(), "dz_3135556")
	require.NoError(t, err)
	assert.Equal(t, "dz_3135556", track.ID)
	assert.Equal(t, "Aerodynamic", track.Title)
	assert.Equal(t, 123.1, track.BPM)
}

func TestDeezerGetTrack_UnknownIDBody(t *testing.T) {
	// Deezer answers unknown ids with 200 and an error payload.
	mux := http.NewServeMux()
	mux.HandleFunc("/track/999", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":{"type":"DataException","message":"no data"}}`)
	})

	adapter := newDeezerTestAdapter(t, mux)
	_, err := adapter.GetTrack(context.Background(), "dz_999")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestDeezerGetTrack_MalformedIDSkipsAPI(t *testing.T) {
	var calls int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	adapter := newDeezerTestAdapter(t, handler)
	_, err := adapter.GetTrack(context.Background(), "dz_abc")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindMalformedID))
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestDeezerSearch_RemoteFailure(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	adapter := newDeezerTestAdapter(t, handler)
	_, err := adapter.Search(context.Background(), "query", 5)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindRemote))
}

func TestDeezerDownload_DelegatesToFallbackSearch(t *testing.T) {
	runner := &stubRunner{artifactExt: ".mp3", artifactBody: make([]byte, 2048)}
	adapter := NewDeezerAdapter(domain.DeezerConfig{BaseURL: "http://unused"}, runner, time.Second, 1024)

	track := domain.Track{ID: "dz_101", Title: "Harder Better Faster Stronger", Artist: "Daft Punk"}
	path, err := adapter.Download(context.Background(), track, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "ytsearch1:Daft Punk Harder Better Faster Stronger", runner.lastTarget)
	assert.FileExists(t, path)
}
