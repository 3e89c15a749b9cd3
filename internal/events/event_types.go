package events

import (
	"time"

	"github.com/google/uuid"
)

// Type enumerates event identifiers.
type Type string

const (
	SyncCompleted Type = "sync_completed"
	SyncFailed    Type = "sync_failed"
	SessionEnded  Type = "session_ended"
)

// Event is emitted by the sync worker after each round.
type Event struct {
	ID        string        `json:"id"`
	Type      Type          `json:"type"`
	Round     int           `json:"round"`
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration"`
	Err       error         `json:"-"`
}

// New stamps an event with a fresh id.
func New(t Type, round int, at time.Time) Event {
	return Event{ID: uuid.NewString(), Type: t, Round: round, Timestamp: at}
}
