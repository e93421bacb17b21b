package httpclient

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultUserAgent mimics a common desktop browser.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36" +
	"(KHTML, like Gecko) Chrome/95.0.4638.69 Safari/537.36"

// Session is a reusable resty client shared across every endpoint request so
// connections and headers are reused.
type Session struct {
	client    *resty.Client
	closeOnce sync.Once
	closes    atomic.Int32
}

// NewSession creates a Session. A zero timeout keeps the transport default and
// an empty userAgent falls back to DefaultUserAgent.
func NewSession(timeout time.Duration, userAgent string) *Session {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	c := newRestyBaseClient(timeout)
	c.SetHeader("User-Agent", userAgent)
	return &Session{client: c}
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(timeout)
}

func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return c
}

// Get performs an HTTP GET with the given query parameters.
func (s *Session) Get(ctx context.Context, url string, params map[string]string) (Response, error) {
	req := s.client.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetQueryParams(params)
	}
	resp, err := req.Get(url)
	if err != nil {
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// Close releases pooled connections. Only the first call has any effect.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.client.GetClient().CloseIdleConnections()
		s.closes.Add(1)
	})
	return nil
}

// Closed reports whether Close has run.
func (s *Session) Closed() bool {
	return s.closes.Load() > 0
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte    { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int { return r.resp.StatusCode() }
