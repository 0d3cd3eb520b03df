// Package audit records session lifecycle events: who logged in, who logged
// out, and whose session the upstream API expired. Events flow through the
// queue to the worker, which writes them to Postgres.
package audit

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"studentportal/internal/queue"
)

// Kind classifies a session lifecycle event.
type Kind string

const (
	KindLogin   Kind = "login"
	KindLogout  Kind = "logout"
	KindExpired Kind = "expired"
)

// Event is one session lifecycle occurrence.
type Event struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Kind     Kind      `json:"kind"`
	At       time.Time `json:"at"`
}

// NewEvent builds an event with a fresh ID and the current time.
func NewEvent(username string, kind Kind) Event {
	return Event{
		ID:       uuid.NewString(),
		Username: username,
		Kind:     kind,
		At:       time.Now().UTC(),
	}
}

// Decode parses a queued payload back into an event.
func Decode(payload []byte) (Event, error) {
	var evt Event
	err := json.Unmarshal(payload, &evt)
	return evt, err
}

// Recorder publishes events to the audit queue. Auditing never blocks a page:
// publish failures are logged and dropped. A nil recorder records nothing.
type Recorder struct {
	q queue.Queue
}

// NewRecorder wraps a queue.
func NewRecorder(q queue.Queue) *Recorder {
	return &Recorder{q: q}
}

// Record serializes and publishes the event.
func (r *Recorder) Record(ctx context.Context, evt Event) {
	if r == nil || r.q == nil {
		return
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		log.Printf("audit encode failed: %v", err)
		return
	}
	if err := r.q.Publish(ctx, payload); err != nil {
		log.Printf("audit publish failed: %v", err)
	}
}
