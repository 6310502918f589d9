package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte("hello"))
	}))
	defer srv.Close()

	c := New(time.Second, zerolog.Nop())
	body, err := Get(context.Background(), c, srv.URL+"/quote", http.Header{"Accept-Language": {"en"}, "X-Api": {"key"}})
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))

	assert.Equal(t, BrowserUserAgent, got.Get("User-Agent"))
	assert.Equal(t, "en", got.Get("Accept-Language"), "request headers win over defaults")
	assert.Equal(t, "key", got.Get("X-Api"))
}

func TestGet_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := Get(context.Background(), New(time.Second, zerolog.Nop()), srv.URL+"/missing", nil)
	var status *StatusError
	require.True(t, errors.As(err, &status))
	assert.Equal(t, http.StatusNotFound, status.StatusCode)
	assert.Contains(t, err.Error(), "/missing")
}

func TestGet_Canceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := Get(ctx, http.DefaultClient, srv.URL, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
