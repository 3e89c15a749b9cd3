package session

import "github.com/sentimenta/moodsync/internal/store"

// Subject identifies the logged-in user. Absent means nobody is logged in.
type Subject string

// Absent is the Subject of a logged-out session.
const Absent Subject = ""

// Present reports whether s names a user.
func (s Subject) Present() bool {
	return s != Absent
}

// State is the reactive session indicator. It performs no validation; the
// Synchronizer is responsible for only writing checked subjects.
type State struct {
	cell *store.Writable[Subject]
}

// NewState returns a State initialised to Absent.
func NewState() *State {
	return &State{cell: store.NewWritable(Absent)}
}

// Get returns the current subject.
func (s *State) Get() Subject {
	return s.cell.Get()
}

// Set replaces the subject and notifies subscribers in subscription order.
func (s *State) Set(subject Subject) {
	s.cell.Set(subject)
}

// Subscribe calls fn now and on every Set until unsubscribed.
func (s *State) Subscribe(fn func(Subject)) (unsubscribe func()) {
	return s.cell.Subscribe(fn)
}
