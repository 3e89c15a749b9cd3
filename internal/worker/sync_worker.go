// Package worker runs the resource updates in the background.
package worker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/sentimenta/moodsync/internal/events"
	apperrors "github.com/sentimenta/moodsync/pkg/util"
)

// SyncFunc performs one round of updates.
type SyncFunc func(context.Context) error

// SyncWorker calls a SyncFunc on a fixed interval.
type SyncWorker struct {
	sync       SyncFunc
	interval   time.Duration
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// NewSyncWorker builds a worker. A nil dispatcher publishes nowhere.
func NewSyncWorker(sync SyncFunc, interval time.Duration, dispatcher events.Dispatcher, logger *zap.Logger) *SyncWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dispatcher == nil {
		dispatcher = events.NewInMemoryDispatcher(logger)
	}
	return &SyncWorker{
		sync:       sync,
		interval:   interval,
		dispatcher: dispatcher,
		logger:     logger.Named("worker"),
		now:        time.Now,
	}
}

// Run performs a round immediately and then once per interval. It returns
// the NOT_AUTHENTICATED error that ended the session, or ctx.Err().
func (w *SyncWorker) Run(ctx context.Context) error {
	if w.interval <= 0 {
		return errors.New("sync interval must be positive")
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for round := 1; ; round++ {
		if err := w.round(ctx, round); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *SyncWorker) round(ctx context.Context, round int) error {
	started := w.now()
	err := w.sync(ctx)

	switch {
	case err == nil:
		ev := events.New(events.SyncCompleted, round, started)
		ev.Duration = w.now().Sub(started)
		w.dispatcher.Publish(ctx, ev)
		return nil
	case errors.Is(err, apperrors.ErrNotAuthenticated):
		ev := events.New(events.SessionEnded, round, started)
		ev.Err = err
		w.dispatcher.Publish(ctx, ev)
		w.logger.Info("session ended, stopping sync", zap.Int("round", round))
		return err
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		ev := events.New(events.SyncFailed, round, started)
		ev.Err = err
		w.dispatcher.Publish(ctx, ev)
		w.logger.Warn("sync round failed", zap.Int("round", round), zap.Error(err))
		return nil
	}
}
