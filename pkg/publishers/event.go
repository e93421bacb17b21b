package publishers

import (
	"time"

	"github.com/Adda-Baaj/metrics-harvester/internal/domain"
)

// Event announces that a dataset file was written.
type Event struct {
	Endpoint    string        `json:"endpoint"`
	Dataset     domain.Result `json:"dataset"`
	PublishedAt time.Time     `json:"published_at"`
}

// NewEvent constructs an Event for a completed download.
func NewEvent(res domain.Result) Event {
	return Event{
		Endpoint:    res.Endpoint,
		Dataset:     res,
		PublishedAt: time.Now().UTC(),
	}
}
