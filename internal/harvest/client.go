package harvest

import (
	"context"
	"crypto/sha1" //nolint:gosec // content fingerprint only
	"encoding/hex"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"strings"
	"time"

	"github.com/Adda-Baaj/metrics-harvester/internal/domain"
	"github.com/Adda-Baaj/metrics-harvester/internal/logger"
	"github.com/Adda-Baaj/metrics-harvester/pkg/endpoints"
	"github.com/Adda-Baaj/metrics-harvester/pkg/httpclient"
	"github.com/Adda-Baaj/metrics-harvester/pkg/output"
	"github.com/Adda-Baaj/metrics-harvester/pkg/tabular"
)

const dateLayout = "2006-01-02"

// StatusError reports a non-2xx response from the metrics service.
type StatusError struct {
	Endpoint string
	Status   int
	Snippet  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("endpoint %s returned status %d body: %s", e.Endpoint, e.Status, e.Snippet)
}

// Options configures a Client.
type Options struct {
	Start           time.Time
	End             time.Time
	Catalog         *endpoints.Catalog
	ContinueOnError bool
	Log             logger.Logger
}

// Client downloads catalog endpoints over a single shared session.
type Client struct {
	session         httpclient.Client
	catalog         *endpoints.Catalog
	defaults        map[string]string
	continueOnError bool
	log             logger.Logger
	now             func() time.Time
}

// NewClient wires a Client. The client owns session and closes it in Close.
func NewClient(session httpclient.Client, opts Options) (*Client, error) {
	if session == nil {
		return nil, errors.New("http session must not be nil")
	}
	if opts.Catalog == nil || opts.Catalog.Len() == 0 {
		return nil, errors.New("endpoint catalog is empty")
	}
	return &Client{
		session: session,
		catalog: opts.Catalog,
		defaults: map[string]string{
			"start": opts.Start.Format(dateLayout),
			"end":   opts.End.Format(dateLayout),
		},
		continueOnError: opts.ContinueOnError,
		log:             logger.Ensure(opts.Log),
		now:             time.Now,
	}, nil
}

// Close releases the shared session.
func (c *Client) Close() error {
	return c.session.Close()
}

// Params merges the default date range with the endpoint overrides; overrides win.
func (c *Client) Params(ep endpoints.Endpoint) map[string]string {
	out := maps.Clone(c.defaults)
	maps.Copy(out, ep.Params())
	return out
}

// Fetch downloads one endpoint and converts the body into CSV lines.
func (c *Client) Fetch(ctx context.Context, name string) ([]string, error) {
	ep, err := c.catalog.Lookup(name)
	if err != nil {
		return nil, err
	}
	return c.fetch(ctx, ep)
}

func (c *Client) fetch(ctx context.Context, ep endpoints.Endpoint) ([]string, error) {
	resp, err := c.session.Get(ctx, ep.Target(), c.Params(ep))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", ep.Name(), err)
	}

	body := resp.Body()
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return nil, &StatusError{Endpoint: ep.Name(), Status: resp.StatusCode(), Snippet: responseSnippet(body)}
	}

	if ep.NeedsScraping() {
		lines, err := tabular.ScrapeTable(body, ep.Columns())
		if err != nil {
			return nil, fmt.Errorf("scrape %s: %w", ep.Name(), err)
		}
		if len(lines) == 0 {
			c.log.WarnObj("no table rows scraped", "scrape_meta", map[string]any{
				"endpoint": ep.Name(),
				"target":   ep.Target(),
			})
		}
		return lines, nil
	}
	return tabular.TrimPreamble(string(body)), nil
}

// Save downloads one endpoint and writes its lines to path, replacing any
// existing file.
func (c *Client) Save(ctx context.Context, name, path string) (domain.Result, error) {
	ep, err := c.catalog.Lookup(name)
	if err != nil {
		return domain.Result{}, err
	}

	lines, err := c.fetch(ctx, ep)
	if err != nil {
		return domain.Result{}, err
	}

	n, err := output.WriteLines(path, lines)
	if err != nil {
		return domain.Result{}, err
	}

	return domain.Result{
		Endpoint:  ep.Name(),
		Target:    ep.Target(),
		Path:      path,
		Scraped:   ep.NeedsScraping(),
		Lines:     len(lines),
		Bytes:     n,
		SHA1:      fingerprint(lines),
		FetchedAt: c.now().UTC(),
	}, nil
}

// SaveAll downloads every catalog endpoint in order into dir as {name}.csv.
// The first failure stops the batch unless ContinueOnError was set, in which
// case every failure is joined into the returned error.
func (c *Client) SaveAll(ctx context.Context, dir string, onResult func(domain.Result)) ([]domain.Result, error) {
	if err := output.EnsureDir(dir); err != nil {
		return nil, err
	}

	names := c.catalog.Names()
	results := make([]domain.Result, 0, len(names))
	var errs []error

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return results, errors.Join(append(errs, err)...)
		}

		res, err := c.Save(ctx, name, output.FileFor(dir, name))
		if err != nil {
			c.log.ErrorObj("endpoint download failed", "endpoint_error", map[string]any{
				"endpoint": name,
				"error":    err.Error(),
			})
			if !c.continueOnError {
				return results, err
			}
			errs = append(errs, err)
			continue
		}

		c.log.InfoObj("endpoint saved", "endpoint_result", res)
		results = append(results, res)
		if onResult != nil {
			onResult(res)
		}
	}

	return results, errors.Join(errs...)
}

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}

func fingerprint(lines []string) string {
	h := sha1.New() //nolint:gosec // content fingerprint only
	for i, l := range lines {
		if i > 0 {
			h.Write([]byte("\n"))
		}
		h.Write([]byte(l))
	}
	return hex.EncodeToString(h.Sum(nil))
}
