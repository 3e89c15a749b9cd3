// Package auth logs the client in and out. Login lets the backend write the
// credential cookie; everything after that is session synchronization.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/sentimenta/moodsync/internal/api"
	"github.com/sentimenta/moodsync/internal/api/dto"
	"github.com/sentimenta/moodsync/internal/observability"
	"github.com/sentimenta/moodsync/internal/session"
	apperrors "github.com/sentimenta/moodsync/pkg/util"
)

// Poster is the slice of api.Client used for login.
type Poster interface {
	PostJSON(ctx context.Context, path string, payload any) ([]byte, error)
}

// Authenticator coordinates login and logout with the session synchronizer.
type Authenticator struct {
	client  Poster
	session *session.Synchronizer
	logger  *zap.Logger
}

// NewAuthenticator constructs an Authenticator.
func NewAuthenticator(client Poster, sync *session.Synchronizer, logger *zap.Logger) *Authenticator {
	return &Authenticator{client: client, session: sync, logger: observability.OrNop(logger).Named("auth")}
}

// Login exchanges email and password for a credential cookie and returns the
// subject the new session resolved to.
func (a *Authenticator) Login(ctx context.Context, email, password string) (session.Subject, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return session.Absent, apperrors.NewValidationError("email and password required", nil)
	}

	_, err := a.client.PostJSON(ctx, api.PathLogin, dto.LoginRequest{Email: email, Password: password})
	if err != nil {
		var de *apperrors.DomainError
		if errors.As(err, &de) && (de.HTTPStatus == http.StatusUnauthorized || de.HTTPStatus == http.StatusBadRequest) {
			return session.Absent, apperrors.NewUnauthorized("invalid email or password")
		}
		return session.Absent, err
	}

	a.session.Refresh(ctx)
	subject := a.session.State().Get()
	if !subject.Present() {
		return session.Absent, apperrors.NewNotAuthenticated(api.PathLogin)
	}
	a.logger.Info("logged in", zap.String("subject", string(subject)))
	return subject, nil
}

// Logout drops the credential and clears the session. No request is made.
func (a *Authenticator) Logout(ctx context.Context) {
	a.session.Logout(ctx)
	a.logger.Info("logged out")
}
