package publishers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Adda-Baaj/metrics-harvester/pkg/httpclient"
	"github.com/go-resty/resty/v2"
)

const (
	endpointHeader = "X-Harvest-Endpoint"
	maxErrorBody   = 512
)

// httpPublisher posts each event as JSON to a webhook.
type httpPublisher struct {
	id     string
	cfg    HTTPPublisherConfig
	client *resty.Client
	log    Logger
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}
	client := httpclient.NewRestyHTTPClient(time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeaders(cfg.HTTP.Headers)

	return &httpPublisher{id: cfg.ID, cfg: *cfg.HTTP, client: client, log: ensureLogger(log)}, nil
}

func (h *httpPublisher) ID() string   { return h.id }
func (h *httpPublisher) Type() string { return TypeHTTP }

func (h *httpPublisher) Publish(ctx context.Context, evt Event) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader(endpointHeader, evt.Endpoint).
		SetBody(evt).
		Execute(h.cfg.Method, h.cfg.URL)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	if resp.IsError() {
		body := resp.Body()
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return fmt.Errorf("http response status %d: %s", resp.StatusCode(), strings.TrimSpace(string(body)))
	}

	h.log.DebugObj("webhook accepted dataset event", "publisher_http_delivery", map[string]any{
		"publisher_id": h.id,
		"endpoint":     evt.Endpoint,
		"status":       resp.StatusCode(),
	})
	return nil
}
