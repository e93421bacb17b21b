package endpoints

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNeedsScraping(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "userstats-relay-country.csv", want: false},
		{path: "userstats-censorship-events.html", want: true},
		{path: "page.htm", want: true},
		{path: "archive.xhtml", want: true},
		{path: "html/data.csv", want: false},
		{path: "noext", want: false},
		{path: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, NeedsScraping(tt.path))
		})
	}
}

func TestResolveConcatenatesTarget(t *testing.T) {
	ep := Resolve("https://metrics.torproject.org", "relay_users", Spec{Path: "userstats-relay-country.csv"})

	assert.Equal(t, "relay_users", ep.Name())
	assert.Equal(t, "https://metrics.torproject.org/userstats-relay-country.csv", ep.Target())
	assert.False(t, ep.NeedsScraping())
	assert.Equal(t, DefaultColumns, ep.Columns())

	// no slash normalization either way
	ep = Resolve("https://example.com/", "x", Spec{Path: "a.html"})
	assert.Equal(t, "https://example.com//a.html", ep.Target())
	assert.True(t, ep.NeedsScraping())
}

func TestResolveCopiesParams(t *testing.T) {
	params := map[string]string{"country": "all"}
	ep := Resolve("https://example.com", "x", Spec{Path: "a.csv", Params: params, Columns: 4})
	params["country"] = "de"

	got := ep.Params()
	assert.Equal(t, "all", got["country"])
	got["country"] = "fr"
	assert.Equal(t, "all", ep.Params()["country"])
	assert.Equal(t, 4, ep.Columns())
}

func TestCatalogLookupAndOrder(t *testing.T) {
	cat, err := NewCatalog(DefaultBaseURL, DefaultSpecs())
	require.NoError(t, err)

	assert.Equal(t, 19, cat.Len())
	names := cat.Names()
	assert.Equal(t, "relay_users", names[0])
	assert.Equal(t, "tor_browser_upd_and_dl_by_platform", names[len(names)-1])

	ep, err := cat.Lookup("top_10_countries_by_censorship_events")
	require.NoError(t, err)
	assert.True(t, ep.NeedsScraping())

	scraped := 0
	for _, n := range names {
		ep, err := cat.Lookup(n)
		require.NoError(t, err)
		if ep.NeedsScraping() {
			scraped++
		}
	}
	assert.Equal(t, 1, scraped)
}

func TestCatalogUnknownEndpoint(t *testing.T) {
	cat, err := NewCatalog(DefaultBaseURL, DefaultSpecs())
	require.NoError(t, err)

	_, err = cat.Lookup("nope")
	assert.True(t, errors.Is(err, ErrUnknownEndpoint))

	var nilCat *Catalog
	_, err = nilCat.Lookup("relay_users")
	assert.ErrorIs(t, err, ErrUnknownEndpoint)
}

func TestNewCatalogRejectsBadSpecs(t *testing.T) {
	_, err := NewCatalog("", DefaultSpecs())
	assert.Error(t, err)

	_, err = NewCatalog(DefaultBaseURL, nil)
	assert.Error(t, err)

	_, err = NewCatalog(DefaultBaseURL, []Named{{Name: "a", Spec: Spec{Path: "a.csv"}}, {Name: " a ", Spec: Spec{Path: "b.csv"}}})
	assert.ErrorContains(t, err, "duplicate")

	_, err = NewCatalog(DefaultBaseURL, []Named{{Name: "a"}})
	assert.ErrorContains(t, err, "path is required")
}

func TestLoadFileYAML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "endpoints.yaml")
	content := `
endpoints:
  - name: relay_users
    path: userstats-relay-country.csv
    params:
      country: all
      events: "off"
  - name: top_10
    path: userstats-censorship-events.html
    columns: 3
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))

	specs, err := LoadFile(file)
	require.NoError(t, err)
	require.Len(t, specs, 2)
	assert.Equal(t, "relay_users", specs[0].Name)
	assert.Equal(t, "userstats-relay-country.csv", specs[0].Path)
	assert.Equal(t, map[string]string{"country": "all", "events": "off"}, specs[0].Params)
	assert.Equal(t, 3, specs[1].Columns)
}

func TestLoadFileJSON(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "endpoints.json")
	content := `{"endpoints":[{"name":"relay_users","path":"userstats-relay-country.csv","params":{"country":"all"}}]}`
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))

	specs, err := LoadFile(file)
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, "all", specs[0].Params["country"])
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile("")
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("endpoints: []\n"), 0o644))
	_, err = LoadFile(empty)
	assert.ErrorContains(t, err, "no endpoints")
}
