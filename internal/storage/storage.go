// Package storage keeps a local manifest of completed downloads.
package storage

import (
	"fmt"
	"strings"

	"github.com/Adda-Baaj/metrics-harvester/internal/domain"
)

// Store records the latest download of each endpoint.
type Store interface {
	Close() error
	Record(res domain.Result) error
	Last(endpoint string) (domain.Result, bool, error)
}

// NewStore creates the configured storage backend.
func NewStore(typ, path string) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

type noopStore struct{}

func (noopStore) Close() error                             { return nil }
func (noopStore) Record(domain.Result) error               { return nil }
func (noopStore) Last(string) (domain.Result, bool, error) { return domain.Result{}, false, nil }
