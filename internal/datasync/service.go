package datasync

import (
	"context"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/sentimenta/moodsync/internal/api"
	"github.com/sentimenta/moodsync/internal/domain"
	"github.com/sentimenta/moodsync/internal/observability"
	"github.com/sentimenta/moodsync/internal/session"
	"github.com/sentimenta/moodsync/internal/store"
)

// Service owns the resource containers and the operations that refresh them.
type Service struct {
	Moods  *store.Writable[[]domain.MoodEntry]
	Advice *store.Writable[[]domain.AdviceEntry]
	User   *store.Writable[*domain.User]
	// Status is true when the backend answered its health probe.
	Status *store.Writable[bool]

	sync *syncer
}

// Dependencies bundles what a Service needs.
type Dependencies struct {
	Fetcher Fetcher
	Session *session.Synchronizer
	Metrics *observability.Metrics
	Logger  *zap.Logger
}

// NewService builds a Service with empty containers.
func NewService(deps Dependencies) *Service {
	return &Service{
		Moods:  store.NewWritable([]domain.MoodEntry{}),
		Advice: store.NewWritable([]domain.AdviceEntry{}),
		User:   store.NewWritable[*domain.User](nil),
		Status: store.NewWritable(false),
		sync: &syncer{
			fetcher: deps.Fetcher,
			session: deps.Session,
			metrics: deps.Metrics,
			logger:  observability.OrNop(deps.Logger).Named("datasync"),
		},
	}
}

// UpdateMoods refreshes Moods from GET /api/moods/get.
func (s *Service) UpdateMoods(ctx context.Context) error {
	return update(ctx, s.sync, api.PathMoods, domain.ParseMoods, s.Moods)
}

// UpdateAdvice refreshes Advice from GET /api/advice.
func (s *Service) UpdateAdvice(ctx context.Context) error {
	return update(ctx, s.sync, api.PathAdvice, domain.ParseAdvice, s.Advice)
}

// UpdateUser refreshes User from GET /api/user/get. Without a known
// subject it returns immediately and issues no request.
func (s *Service) UpdateUser(ctx context.Context) error {
	if !s.sync.session.State().Get().Present() {
		return nil
	}
	return update(ctx, s.sync, api.PathUser, domain.ParseUser, s.User)
}

// AdviceForDate fetches the advice for one day without touching Advice.
// found is false when the request failed but the session is still valid.
func (s *Service) AdviceForDate(ctx context.Context, day time.Time) (entry domain.AdviceEntry, found bool, err error) {
	query := url.Values{"date": {day.Format("2006-01-02")}}
	return fetch(ctx, s.sync, api.PathAdvice, query, domain.ParseAdviceEntry)
}

// RefreshServerStatus sets Status from GET /api/status. It has no effect on the session.
func (s *Service) RefreshServerStatus(ctx context.Context) {
	_, err := s.sync.fetcher.Get(ctx, api.PathStatus, nil)
	if err != nil {
		s.sync.logger.Debug("status probe failed", zap.Error(err))
	}
	s.Status.Set(err == nil)
}
