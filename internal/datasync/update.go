// Package datasync refreshes the per-feature reactive containers from the
// backend. Every operation follows the same contract: on success the
// container is replaced wholesale; on failure the session is re-derived from
// storage and NOT_AUTHENTICATED is returned only if that leaves nobody logged in.
package datasync

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/sentimenta/moodsync/internal/api"
	"github.com/sentimenta/moodsync/internal/observability"
	"github.com/sentimenta/moodsync/internal/session"
	"github.com/sentimenta/moodsync/internal/store"
	apperrors "github.com/sentimenta/moodsync/pkg/util"
)

// Fetcher is the slice of api.Client the operations need.
type Fetcher interface {
	Get(ctx context.Context, path string, query url.Values) ([]byte, error)
}

var _ Fetcher = (*api.Client)(nil)

type syncer struct {
	fetcher Fetcher
	session *session.Synchronizer
	metrics *observability.Metrics
	logger  *zap.Logger
}

// fetch performs one GET, parses the body and classifies a failure. An
// unparseable body counts as a failed request. ok is false when the
// request failed; err is non-nil only for NOT_AUTHENTICATED.
func fetch[T any](ctx context.Context, s *syncer, path string, query url.Values, parse func([]byte) (T, error)) (value T, ok bool, err error) {
	body, ferr := s.fetcher.Get(ctx, path, query)
	if ferr == nil {
		parsed, perr := parse(body)
		if perr == nil {
			return parsed, true, nil
		}
		ferr = apperrors.NewFetchError("GET", path, 200, perr)
	}

	s.session.Refresh(ctx)
	if !s.session.State().Get().Present() {
		s.metrics.RecordError(path, "GET", apperrors.CodeNotAuthenticated)
		return value, false, apperrors.NewNotAuthenticated(path)
	}
	s.logger.Warn("fetch failed, session still valid",
		zap.String("path", path),
		zap.Error(ferr))
	return value, false, nil
}

// update runs fetch and, on success, replaces container with the parsed value.
func update[T any](ctx context.Context, s *syncer, path string, parse func([]byte) (T, error), container *store.Writable[T]) error {
	value, ok, err := fetch(ctx, s, path, nil, parse)
	if err != nil || !ok {
		return err
	}
	container.Set(value)
	return nil
}
