package occupancy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/crowd-alarm/internal/config"
)

// TestHTTP_Count reads the configured field from the JSON body.
func TestHTTP_Count(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"camera": "hall", "people": 38}`))
	}))
	defer server.Close()

	source := NewHTTP(&config.HTTPSource{URL: server.URL, Field: "people"}, time.Second)

	defer func() {
		_ = source.Close()
	}()

	count, err := source.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, 38, count)
}

// TestHTTP_Errors covers error statuses, malformed bodies and timeouts.
func TestHTTP_Errors(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/down", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	})
	mux.HandleFunc("/garbage", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html></html>`))
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}

		_, _ = w.Write([]byte(`{"person_count": 1}`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	ctx := context.Background()

	_, err := NewHTTP(&config.HTTPSource{URL: server.URL + "/down"}, 0).Count(ctx)
	require.ErrorIs(t, err, ErrUnexpectedStatus)

	_, err = NewHTTP(&config.HTTPSource{URL: server.URL + "/garbage"}, 0).Count(ctx)
	require.ErrorIs(t, err, ErrMalformedCount)

	_, err = NewHTTP(&config.HTTPSource{URL: server.URL + "/slow"}, 50*time.Millisecond).Count(ctx)
	require.Error(t, err)
}
