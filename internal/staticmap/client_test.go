package staticmap

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/papers3/paperctl/pkg/models"
	"go.uber.org/zap"
)

func TestFetch(t *testing.T) {
	geom := models.ScreenGeometry{Width: 800, Height: 480}

	t.Run("builds the tile request", func(t *testing.T) {
		tile := []byte("png-bytes")
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/stamen_toner.png" {
				t.Errorf("path = %q, want /stamen_toner.png", r.URL.Path)
			}
			q := r.URL.Query()
			if got := q.Get("center"); got != "52.5,13.4" {
				t.Errorf("center = %q, want 52.5,13.4", got)
			}
			if got := q.Get("zoom"); got != "10" {
				t.Errorf("zoom = %q, want 10", got)
			}
			if got := q.Get("size"); got != "800x480@2x" {
				t.Errorf("size = %q, want 800x480@2x", got)
			}
			if got := q.Get("markers"); got != "52.5,13.4" {
				t.Errorf("markers = %q, want 52.5,13.4", got)
			}
			if got := q.Get("api_key"); got != "test-key" {
				t.Errorf("api_key = %q, want test-key", got)
			}
			w.Write(tile)
		}))
		defer server.Close()

		client := NewClientWithBaseURL(server.URL, "test-key", "stamen_toner", zap.NewNop())
		data, err := client.Fetch(context.Background(), 52.5, 13.4, 10, geom)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !bytes.Equal(data, tile) {
			t.Errorf("got %q, want %q", data, tile)
		}
	})

	t.Run("401 is ErrUnauthorized", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad key", http.StatusUnauthorized)
		}))
		defer server.Close()

		client := NewClientWithBaseURL(server.URL, "bad", "stamen_toner", zap.NewNop())
		if _, err := client.Fetch(context.Background(), 0, 0, 5, geom); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("got %v, want ErrUnauthorized", err)
		}
	})

	t.Run("other failures surface as errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := NewClientWithBaseURL(server.URL, "key", "stamen_toner", zap.NewNop())
		if _, err := client.Fetch(context.Background(), 0, 0, 5, geom); err == nil {
			t.Error("expected an error")
		}
	})
}
