package publishers

import (
	"context"
	"fmt"
	"io"
)

// Builder creates a Publisher from a config entry.
type Builder func(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error)

// Builders maps a publisher type to the function constructing it.
type Builders map[string]Builder

// DefaultBuilders knows every sink type a publishers file may name.
func DefaultBuilders() Builders {
	return Builders{
		TypeHTTP:   newHTTPPublisher,
		TypeSQS:    newSQSPublisher,
		TypeSNS:    newSNSPublisher,
		TypePubSub: newPubSubPublisher,
	}
}

// Build constructs one publisher per config. If any construction fails the
// publishers built so far are closed and the error names the failing entry.
func (b Builders) Build(ctx context.Context, cfgs []PublisherConfig, log Logger) ([]Publisher, error) {
	pubs := make([]Publisher, 0, len(cfgs))
	for _, cfg := range cfgs {
		build, ok := b[cfg.Type]
		if !ok {
			closeAll(pubs)
			return nil, fmt.Errorf("publisher %q: no builder for type %q", cfg.ID, cfg.Type)
		}
		pub, err := build(ctx, cfg, log)
		if err != nil {
			closeAll(pubs)
			return nil, fmt.Errorf("publisher %q: %w", cfg.ID, err)
		}
		pubs = append(pubs, pub)
	}
	return pubs, nil
}

func closeAll(pubs []Publisher) {
	for _, p := range pubs {
		if c, ok := p.(io.Closer); ok {
			_ = c.Close()
		}
	}
}
