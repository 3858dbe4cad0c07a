package pipeline

import (
	"encoding/json"
	"strconv"

	"wtf2eat-be/pkg/recommend"
)

type EventStatus string

const (
	StatusProcessing  EventStatus = "processing"
	StatusComplete    EventStatus = "complete"
	StatusEnd         EventStatus = "end"
	StatusRateLimited EventStatus = "429"
	StatusError       EventStatus = "error"
)

// MarshalJSON writes the rate limit status as the number 429, every other
// status as a string.
func (s EventStatus) MarshalJSON() ([]byte, error) {
	if s == StatusRateLimited {
		return []byte("429"), nil
	}
	return json.Marshal(string(s))
}

// Event is one message of a recommendation stream. Terminal events carry the
// final state for the caller; it is not serialized.
type Event struct {
	Status EventStatus `json:"status"`
	Output interface{} `json:"output"`
	State  *State      `json:"-"`
}

func (e Event) Terminal() bool {
	return e.Status != StatusProcessing
}

// OutputRow is one restaurant of a complete event.
type OutputRow struct {
	Name     string  `json:"name"`
	Rating   float64 `json:"rating"`
	Delivery string  `json:"delivery"`
	MapsUri  string  `json:"maps_uri"`
	Photo    string  `json:"photo"`
}

// CompleteOutput keys the ranked rows by position, "0" being the best.
func CompleteOutput(ranked []recommend.RankedRestaurant) map[string]OutputRow {
	out := make(map[string]OutputRow, len(ranked))
	for i, r := range ranked {
		out[strconv.Itoa(i)] = OutputRow{
			Name:     r.Name,
			Rating:   r.Rating,
			Delivery: string(r.Delivery),
			MapsUri:  r.MapsUri,
			Photo:    r.Photo,
		}
	}
	return out
}

func processing(status string) Event {
	return Event{Status: StatusProcessing, Output: status}
}
