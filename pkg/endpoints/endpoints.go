// Package endpoints resolves named Tor Metrics resources into request targets.
package endpoints

import (
	"maps"
	"path"
	"strings"
)

// DefaultColumns is the row width used when reflowing scraped table cells.
const DefaultColumns = 3

// Spec declares one endpoint as it appears in configuration.
type Spec struct {
	Path    string            `json:"path" yaml:"path"`
	Params  map[string]string `json:"params" yaml:"params"`
	Columns int               `json:"columns" yaml:"columns"`
}

// Named pairs a Spec with its endpoint name.
type Named struct {
	Name string `json:"name" yaml:"name"`
	Spec `yaml:",inline"`
}

// Endpoint is a resolved, immutable endpoint.
type Endpoint struct {
	name          string
	path          string
	target        string
	needsScraping bool
	params        map[string]string
	columns       int
}

// Resolve builds the request target for spec under baseURL. Nothing is
// validated beyond the path extension; bad paths surface as request failures.
func Resolve(baseURL, name string, spec Spec) Endpoint {
	cols := spec.Columns
	if cols <= 0 {
		cols = DefaultColumns
	}
	return Endpoint{
		name:          name,
		path:          spec.Path,
		target:        baseURL + "/" + spec.Path,
		needsScraping: NeedsScraping(spec.Path),
		params:        maps.Clone(spec.Params),
		columns:       cols,
	}
}

// NeedsScraping reports whether the file extension of p marks an HTML document.
func NeedsScraping(p string) bool {
	return strings.Contains(path.Ext(p), "htm")
}

// Name is the endpoint's catalog key and output file stem.
func (e Endpoint) Name() string { return e.name }

// Path is the resource path relative to the base URL.
func (e Endpoint) Path() string { return e.path }

// Target is the full request URL, base + "/" + path.
func (e Endpoint) Target() string { return e.target }

// NeedsScraping reports whether the response is an HTML page whose first
// table must be converted to CSV lines.
func (e Endpoint) NeedsScraping() bool { return e.needsScraping }

// Columns is the row width used when reflowing scraped cells.
func (e Endpoint) Columns() int { return e.columns }

// Params returns a copy of the endpoint-specific query overrides.
func (e Endpoint) Params() map[string]string {
	return maps.Clone(e.params)
}
