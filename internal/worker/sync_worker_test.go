package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sentimenta/moodsync/internal/events"
	apperrors "github.com/sentimenta/moodsync/pkg/util"
)

type recorder struct {
	mu    sync.Mutex
	types []events.Type
}

func (r *recorder) subscribe(d events.Dispatcher) {
	for _, t := range []events.Type{events.SyncCompleted, events.SyncFailed, events.SessionEnded} {
		d.Subscribe(t, func(_ context.Context, ev events.Event) error {
			r.mu.Lock()
			r.types = append(r.types, ev.Type)
			r.mu.Unlock()
			return nil
		})
	}
}

func TestRunStopsOnNotAuthenticated(t *testing.T) {
	results := []error{nil, errors.New("flaky"), apperrors.NewNotAuthenticated("/api/moods/get")}
	var calls int
	fn := func(context.Context) error {
		err := results[calls]
		calls++
		return err
	}

	d := events.NewInMemoryDispatcher(nil)
	rec := &recorder{}
	rec.subscribe(d)

	err := NewSyncWorker(fn, time.Millisecond, d, nil).Run(context.Background())
	if !errors.Is(err, apperrors.ErrNotAuthenticated) {
		t.Fatalf("Run=%v want NOT_AUTHENTICATED", err)
	}
	want := []events.Type{events.SyncCompleted, events.SyncFailed, events.SessionEnded}
	if len(rec.types) != len(want) {
		t.Fatalf("events=%v want=%v", rec.types, want)
	}
	for i := range want {
		if rec.types[i] != want[i] {
			t.Fatalf("events=%v want=%v", rec.types, want)
		}
	}
}

func TestRunReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int
	fn := func(context.Context) error {
		calls++
		if calls == 2 {
			cancel()
		}
		return nil
	}

	err := NewSyncWorker(fn, time.Millisecond, nil, nil).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run=%v want context.Canceled", err)
	}
}

func TestRunRejectsNonPositiveInterval(t *testing.T) {
	err := NewSyncWorker(func(context.Context) error { return nil }, 0, nil, nil).Run(context.Background())
	if err == nil {
		t.Fatalf("expected error for zero interval")
	}
}
