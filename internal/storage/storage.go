package storage

import (
	"errors"
	"time"
)

// Event is one relay round-trip as seen by the usage log.
// Events are appended in chronological order.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Provider  string    `json:"provider"`
	Model     string    `json:"model"`
	PromptLen int       `json:"prompt_len"`
	OutputLen int       `json:"output_len"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
	LatencyMS int64     `json:"latency_ms"`
}

// Recorder abstracts persistence of usage events.
// LoadInteractions should return events in chronological order.
// Implementations must be safe for concurrent use.
type Recorder interface {
	AppendInteraction(event Event) error
	LoadInteractions() ([]Event, error)
}

// ErrSlotNotFound is returned by SlotStore.Load for a key that was never saved.
var ErrSlotNotFound = errors.New("slot not found")

// SlotStore keeps opaque blobs under named slots. Save replaces the whole
// value; there is no partial update.
type SlotStore interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
}
