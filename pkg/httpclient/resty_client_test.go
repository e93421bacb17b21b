package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionSendsUserAgentAndParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "2021-08-10", r.URL.Query().Get("start"))
		assert.Equal(t, "all", r.URL.Query().Get("country"))
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	s := NewSession(2*time.Second, "")
	defer s.Close()

	resp, err := s.Get(context.Background(), srv.URL+"/x.csv", map[string]string{
		"start":   "2021-08-10",
		"country": "all",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, "ok", string(resp.Body()))
}

func TestSessionCustomUserAgent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "harvester/1.0", r.Header.Get("User-Agent"))
	}))
	defer srv.Close()

	s := NewSession(0, "harvester/1.0")
	_, err := s.Get(context.Background(), srv.URL, nil)
	require.NoError(t, err)
}

func TestSessionTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	s := NewSession(time.Second, "")
	_, err := s.Get(context.Background(), url, nil)
	assert.Error(t, err)
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	s := NewSession(0, "")
	assert.False(t, s.Closed())

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.True(t, s.Closed())
	assert.EqualValues(t, 1, s.closes.Load())
}
