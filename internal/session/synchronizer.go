// Package session keeps the in-memory session indicator consistent with the
// credential held in cookie storage.
package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/sentimenta/moodsync/internal/credential"
	"github.com/sentimenta/moodsync/internal/observability"
)

// Synchronizer reconciles State with the stored credential.
type Synchronizer struct {
	store     credential.Store
	inspector *credential.Inspector
	state     *State
	logger    *zap.Logger
}

// NewSynchronizer wires a synchronizer. A nil inspector gets the default one.
func NewSynchronizer(store credential.Store, inspector *credential.Inspector, state *State, logger *zap.Logger) *Synchronizer {
	if inspector == nil {
		inspector = credential.NewInspector()
	}
	if state == nil {
		state = NewState()
	}
	return &Synchronizer{
		store:     store,
		inspector: inspector,
		state:     state,
		logger:    observability.OrNop(logger).Named("session"),
	}
}

// State returns the session indicator this synchronizer writes to.
func (s *Synchronizer) State() *State {
	return s.state
}

// Refresh re-derives the session from storage. It never fails: every path
// ends with State holding either the credential's subject or Absent.
// Without cookie storage it returns without touching State.
func (s *Synchronizer) Refresh(ctx context.Context) {
	if s.store == nil || !s.store.Available() {
		return
	}

	token, _ := s.store.Read(ctx)
	verdict := s.inspector.Inspect(token)

	if verdict.Expired() {
		if verdict.Status == credential.StatusMalformed {
			s.logger.Debug("discarding malformed credential", zap.Error(verdict.Err))
		}
		s.store.Delete(ctx)
		s.set(Absent, verdict.Status)
		return
	}

	if verdict.Claims == nil {
		s.set(Absent, credential.StatusMalformed)
		return
	}
	s.set(Subject(verdict.Claims.Subject), verdict.Status)
}

// Logout deletes the credential and clears the session regardless of its validity.
func (s *Synchronizer) Logout(ctx context.Context) {
	if s.store != nil {
		s.store.Delete(ctx)
	}
	s.set(Absent, credential.StatusExpired)
}

func (s *Synchronizer) set(subject Subject, status credential.Status) {
	prev := s.state.Get()
	s.state.Set(subject)
	if prev != subject {
		s.logger.Debug("session changed",
			zap.String("from", string(prev)),
			zap.String("to", string(subject)),
			zap.Stringer("credential", status))
	}
}
