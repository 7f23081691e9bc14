// Package events defines the publication seam between application code
// and its host, plus an in-memory recorder that tests substitute for
// the real broker client.
package events

import (
	"context"
	"sync"
	"time"
)

// Envelope is the unit of publication: identity members describing what
// happened, plus an arbitrary payload.
type Envelope struct {
	ID            string      `json:"id,omitempty"`
	Source        string      `json:"source,omitempty"`
	Subject       string      `json:"subject,omitempty"`
	Action        string      `json:"action,omitempty"`
	Type          string      `json:"type,omitempty"`
	CorrelationID string      `json:"correlationId,omitempty"`
	ETag          string      `json:"etag,omitempty"`
	Key           string      `json:"key,omitempty"`
	Time          time.Time   `json:"time"`
	Data          interface{} `json:"data,omitempty"`
}

// Publisher is the seam through which application code sends events.
// Production hosts bind it to a broker client; tests bind it to a
// Recorder.
type Publisher interface {
	Publish(ctx context.Context, destination string, e Envelope) error
}

// DefaultDestination is the sentinel destination used when Publish is
// called with an empty destination name.
const DefaultDestination = "default"

// Recorder is a Publisher that captures every event in publication
// order, keyed by destination. It is safe for concurrent publishers,
// including fire-and-forget sends still in flight when the invocation
// returns.
type Recorder struct {
	lock   sync.Mutex
	order  []string
	byDest map[string][]Envelope
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{byDest: make(map[string][]Envelope)}
}

// Publish appends e to the destination's queue.
func (r *Recorder) Publish(_ context.Context, destination string, e Envelope) error {
	if destination == "" {
		destination = DefaultDestination
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, seen := r.byDest[destination]; !seen {
		r.order = append(r.order, destination)
	}
	r.byDest[destination] = append(r.byDest[destination], e)
	return nil
}

// Snapshot returns a copy of everything captured so far, keyed by
// destination, each queue in publication order.
func (r *Recorder) Snapshot() map[string][]Envelope {
	r.lock.Lock()
	defer r.lock.Unlock()
	out := make(map[string][]Envelope, len(r.byDest))
	for dest, list := range r.byDest {
		out[dest] = append([]Envelope(nil), list...)
	}
	return out
}

// Destinations returns the destination names in first-appearance order.
func (r *Recorder) Destinations() []string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]string(nil), r.order...)
}

// EventsFor returns the captured queue for one destination.
func (r *Recorder) EventsFor(destination string) []Envelope {
	if destination == "" {
		destination = DefaultDestination
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]Envelope(nil), r.byDest[destination]...)
}

// Count returns the total number of captured events.
func (r *Recorder) Count() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	n := 0
	for _, list := range r.byDest {
		n += len(list)
	}
	return n
}

// CountFor returns the number of captured events for one destination.
func (r *Recorder) CountFor(destination string) int {
	if destination == "" {
		destination = DefaultDestination
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.byDest[destination])
}

// Reset discards everything captured so far. The Recorder stays valid
// for further publications, so wiring into the code under test survives
// across runs.
func (r *Recorder) Reset() {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.order = nil
	r.byDest = make(map[string][]Envelope)
}
