package credential

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	apperrors "github.com/sentimenta/moodsync/pkg/util"
)

// Claims describes the credential payload the client cares about.
type Claims struct {
	jwt.RegisteredClaims
}

// Status classifies a credential.
type Status int

const (
	StatusValid Status = iota
	StatusExpired
	StatusMalformed
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusExpired:
		return "expired"
	case StatusMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Verdict is the outcome of Inspect. Claims is set whenever decoding succeeded.
type Verdict struct {
	Status Status
	Claims *Claims
	Err    error
}

// Expired reports whether the credential must be treated as unusable.
func (v Verdict) Expired() bool {
	return v.Status != StatusValid
}

// Inspector decodes credentials without verifying their signature; the
// server remains the authority on validity.
type Inspector struct {
	parser *jwt.Parser
	now    func() time.Time
}

// InspectorOption customizes an Inspector.
type InspectorOption func(*Inspector)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) InspectorOption {
	return func(i *Inspector) {
		if now != nil {
			i.now = now
		}
	}
}

// NewInspector builds an Inspector.
func NewInspector(opts ...InspectorOption) *Inspector {
	i := &Inspector{parser: jwt.NewParser(), now: time.Now}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Decode extracts the claims from token. Failures carry CodeMalformedCredential.
func (i *Inspector) Decode(token string) (*Claims, error) {
	if token == "" {
		return nil, apperrors.NewMalformedCredential(errors.New("empty token"))
	}
	claims := &Claims{}
	if _, _, err := i.parser.ParseUnverified(token, claims); err != nil {
		return nil, apperrors.NewMalformedCredential(err)
	}
	return claims, nil
}

// Inspect classifies token. An empty token is expired, not malformed.
func (i *Inspector) Inspect(token string) Verdict {
	if token == "" {
		return Verdict{Status: StatusExpired}
	}
	claims, err := i.Decode(token)
	if err != nil {
		return Verdict{Status: StatusMalformed, Err: err}
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(i.now()) {
		return Verdict{Status: StatusExpired, Claims: claims}
	}
	return Verdict{Status: StatusValid, Claims: claims}
}

// IsExpired is true for an absent, undecodable, exp-less or past-exp token.
func (i *Inspector) IsExpired(token string) bool {
	return i.Inspect(token).Expired()
}
