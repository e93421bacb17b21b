// Package domain contains core models shared across packages.
package domain

import "time"

// Result describes one endpoint download that was written to disk.
type Result struct {
	Endpoint  string    `json:"endpoint"`
	Target    string    `json:"target"`
	Path      string    `json:"path"`
	Scraped   bool      `json:"scraped"`
	Lines     int       `json:"lines"`
	Bytes     int       `json:"bytes"`
	SHA1      string    `json:"sha1"`
	FetchedAt time.Time `json:"fetched_at"`
}
