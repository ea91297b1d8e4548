package imagecache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestFetcher(t *testing.T) {
	t.Run("fetches and caches", func(t *testing.T) {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			hits.Add(1)
			w.Write([]byte("image-bytes"))
		}))
		defer server.Close()

		f := NewFetcher(New(0, 0), server.Client())

		data, err := f.Fetch(context.Background(), server.URL+"/cover.jpg")
		if err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
		if string(data) != "image-bytes" {
			t.Errorf("unexpected body: %q", data)
		}

		if _, err := f.Fetch(context.Background(), server.URL+"/cover.jpg"); err != nil {
			t.Fatalf("cached Fetch failed: %v", err)
		}
		if hits.Load() != 1 {
			t.Errorf("expected 1 upstream hit, got %d", hits.Load())
		}
	})

	t.Run("non-200 is an error and is not cached", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		f := NewFetcher(New(0, 0), server.Client())

		if _, err := f.Fetch(context.Background(), server.URL+"/missing.jpg"); err == nil {
			t.Fatal("expected error for 404")
		}
		if f.cache.Len() != 0 {
			t.Errorf("failed fetch must not populate the cache, len=%d", f.cache.Len())
		}
	})
}
