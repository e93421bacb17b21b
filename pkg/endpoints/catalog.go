package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownEndpoint is returned when a name is not in the catalog.
var ErrUnknownEndpoint = errors.New("unknown endpoint")

// Catalog is the fixed name to Endpoint mapping for a run.
type Catalog struct {
	names []string
	idx   map[string]Endpoint
}

// NewCatalog resolves every spec under baseURL, keeping declaration order.
func NewCatalog(baseURL string, specs []Named) (*Catalog, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("base url is empty")
	}
	if len(specs) == 0 {
		return nil, errors.New("no endpoints configured")
	}

	c := &Catalog{
		names: make([]string, 0, len(specs)),
		idx:   make(map[string]Endpoint, len(specs)),
	}
	for i, s := range specs {
		s = sanitize(s)
		if err := validate(s); err != nil {
			return nil, fmt.Errorf("endpoint[%d]: %w", i, err)
		}
		if _, exists := c.idx[s.Name]; exists {
			return nil, fmt.Errorf("duplicate endpoint name %q", s.Name)
		}
		c.names = append(c.names, s.Name)
		c.idx[s.Name] = Resolve(baseURL, s.Name, s.Spec)
	}
	return c, nil
}

// Lookup returns the endpoint registered under name.
func (c *Catalog) Lookup(name string) (Endpoint, error) {
	if c != nil {
		if ep, ok := c.idx[name]; ok {
			return ep, nil
		}
	}
	return Endpoint{}, fmt.Errorf("%w: %q", ErrUnknownEndpoint, name)
}

// Names returns endpoint names in declaration order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Len returns the number of endpoints.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.names)
}

type catalogFile struct {
	Endpoints []Named `json:"endpoints" yaml:"endpoints"`
}

// LoadFile reads endpoint specs from a YAML or JSON file.
func LoadFile(path string) ([]Named, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("endpoints file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open endpoints file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read endpoints file: %w", err)
	}

	parsed, err := parseCatalog(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(parsed.Endpoints) == 0 {
		return nil, errors.New("endpoints file contains no endpoints entries")
	}
	return parsed.Endpoints, nil
}

func parseCatalog(data []byte, ext string) (catalogFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	var errs []error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var out catalogFile
		if err := d.fn(data, &out); err != nil {
			errs = append(errs, fmt.Errorf("decode %s endpoints: %w", d.name, err))
			continue
		}
		return out, nil
	}
	if len(errs) > 0 {
		return catalogFile{}, errors.Join(errs...)
	}
	return catalogFile{}, errors.New("endpoints file format not recognized (expected YAML or JSON)")
}

func sanitize(n Named) Named {
	n.Name = strings.TrimSpace(n.Name)
	n.Path = strings.TrimSpace(n.Path)
	return n
}

func validate(n Named) error {
	if n.Name == "" {
		return errors.New("name is required")
	}
	if n.Path == "" {
		return fmt.Errorf("path is required for endpoint %q", n.Name)
	}
	if n.Columns < 0 {
		return fmt.Errorf("columns must not be negative for endpoint %q", n.Name)
	}
	return nil
}
