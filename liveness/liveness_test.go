package liveness

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHasSupportedScheme(t *testing.T) {

	assert.True(t, HasSupportedScheme("http://example.com/a.jpg"))
	assert.True(t, HasSupportedScheme("https://example.com/a.jpg"))

	assert.False(t, HasSupportedScheme(""))
	assert.False(t, HasSupportedScheme("ftp://example.com/a.jpg"))
	assert.False(t, HasSupportedScheme("HTTP://example.com/a.jpg"))
	assert.False(t, HasSupportedScheme("/images/a.jpg"))
	assert.False(t, HasSupportedScheme("data:image/png;base64,AAAA"))
}

func TestHTTPCheckerRejectsWithoutRequest(t *testing.T) {

	var hits int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	c := NewHTTPChecker(&HTTPCheckerOptions{Client: srv.Client()})
	ctx := context.Background()

	assert.False(t, c.IsAlive(ctx, ""))
	assert.False(t, c.IsAlive(ctx, "ftp://example.com/a.jpg"))
	assert.False(t, c.IsAlive(ctx, "example.com/a.jpg"))

	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestHTTPCheckerStatus(t *testing.T) {

	var method string
	var user_agent string

	mux := http.NewServeMux()

	mux.HandleFunc("/ok.jpg", func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		user_agent = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("/missing.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	mux.HandleFunc("/error.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	mux.HandleFunc("/empty.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("/moved.jpg", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ok.jpg", http.StatusMovedPermanently)
	})

	mux.HandleFunc("/gone.jpg", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/missing.jpg", http.StatusFound)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewHTTPChecker(&HTTPCheckerOptions{
		Timeout:   time.Second,
		UserAgent: "spots-test",
	})

	ctx := context.Background()

	assert.True(t, c.IsAlive(ctx, srv.URL+"/ok.jpg"))
	assert.Equal(t, http.MethodHead, method)
	assert.Equal(t, "spots-test", user_agent)

	assert.True(t, c.IsAlive(ctx, srv.URL+"/moved.jpg"))

	assert.False(t, c.IsAlive(ctx, srv.URL+"/missing.jpg"))
	assert.False(t, c.IsAlive(ctx, srv.URL+"/error.jpg"))
	assert.False(t, c.IsAlive(ctx, srv.URL+"/empty.jpg"))
	assert.False(t, c.IsAlive(ctx, srv.URL+"/gone.jpg"))
}

func TestHTTPCheckerTimeout(t *testing.T) {

	done := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
		}
	}))

	defer srv.Close()
	defer close(done)

	c := NewHTTPChecker(&HTTPCheckerOptions{Timeout: 50 * time.Millisecond})

	assert.False(t, c.IsAlive(context.Background(), srv.URL+"/slow.jpg"))
}

func TestHTTPCheckerUnreachable(t *testing.T) {

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	uri := srv.URL + "/a.jpg"
	srv.Close()

	c := NewHTTPChecker(&HTTPCheckerOptions{Timeout: time.Second})

	assert.False(t, c.IsAlive(context.Background(), uri))
	assert.False(t, c.IsAlive(context.Background(), "http://[::1"))
}

func TestHTTPCheckerCancelledRateLimit(t *testing.T) {

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	c := NewHTTPChecker(&HTTPCheckerOptions{
		Timeout:   time.Second,
		RateLimit: 0.001,
	})

	ctx := context.Background()

	// The first probe consumes the only token.
	assert.True(t, c.IsAlive(ctx, srv.URL+"/a.jpg"))

	ctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()

	assert.False(t, c.IsAlive(ctx, srv.URL+"/b.jpg"))
}

func TestCheckerFunc(t *testing.T) {

	var c Checker = CheckerFunc(func(ctx context.Context, uri string) bool {
		return uri == "http://x/a.jpg"
	})

	assert.True(t, c.IsAlive(context.Background(), "http://x/a.jpg"))
	assert.False(t, c.IsAlive(context.Background(), "http://x/b.jpg"))
}
