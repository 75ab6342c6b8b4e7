package output

import (
	"encoding/json"
	"fmt"

	"github.com/couchcryptid/levee-files/internal/domain"
)

// JSONLD collects schema.org events into a pretty-printed JSON array.
type JSONLD struct {
	lifecycle
	events []domain.JSONLDEvent
}

// NewJSONLD returns an open structured-data aggregator.
func NewJSONLD(name string) *JSONLD {
	return &JSONLD{
		lifecycle: lifecycle{kind: "json-ld", name: name},
		events:    []domain.JSONLDEvent{},
	}
}

// Append adds an event in arrival order.
func (j *JSONLD) Append(ev domain.JSONLDEvent) {
	j.mustBeOpen("Append")
	j.events = append(j.events, ev)
}

// Len returns the number of appended events.
func (j *JSONLD) Len() int { return len(j.events) }

// Finalize serializes the array. An empty run yields "[]".
func (j *JSONLD) Finalize() error {
	j.mustBeOpen("Finalize")
	data, err := json.MarshalIndent(j.events, "", "    ")
	if err != nil {
		return fmt.Errorf("encode json-ld: %w", err)
	}
	j.seal(append(data, '\n'))
	return nil
}

// ContentType returns the JSON-LD media type.
func (j *JSONLD) ContentType() string { return "application/ld+json" }
