package session

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/lospapatos/tenantgate/pkg/environment"
)

// CookieCandidate names a cookie that may carry the session token.
// Secure marks the hardened HTTPS-only variant used in production.
type CookieCandidate struct {
	Name   string
	Secure bool
}

// Default cookie names. Hardened deployments issue the __Secure- variant;
// local development uses the plain one.
const (
	SecureCookieName = "__Secure-session-token"
	PlainCookieName  = "session-token"
)

// DefaultCandidates returns the cookie candidates in the order appropriate
// for the environment. Both variants are always tried so that an
// environment-detection mismatch degrades to a fallback read, not an
// authentication failure.
func DefaultCandidates(env environment.Environment) []CookieCandidate {
	secure := CookieCandidate{Name: SecureCookieName, Secure: true}
	plain := CookieCandidate{Name: PlainCookieName, Secure: false}

	if env == environment.Development {
		return []CookieCandidate{plain, secure}
	}
	return []CookieCandidate{secure, plain}
}

// Verifier validates a raw token string and unmarshals its claims.
// *jwt.Service satisfies this interface.
type Verifier interface {
	Parse(token string, claims any) error
}

// Authenticator extracts and validates the session token from request
// cookies. It is read-only: it never sets, refreshes, or clears cookies.
type Authenticator struct {
	verifier   Verifier
	candidates []CookieCandidate
	logger     *slog.Logger
}

// AuthenticatorOption configures an Authenticator.
type AuthenticatorOption func(*Authenticator)

// WithCandidates overrides the ordered cookie-candidate list.
func WithCandidates(candidates []CookieCandidate) AuthenticatorOption {
	return func(a *Authenticator) {
		if len(candidates) > 0 {
			a.candidates = candidates
		}
	}
}

// WithLogger sets the logger used to report rejected tokens.
func WithLogger(l *slog.Logger) AuthenticatorOption {
	return func(a *Authenticator) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAuthenticator creates an authenticator that tries each cookie
// candidate in order and returns the first token that verifies.
func NewAuthenticator(verifier Verifier, env environment.Environment, opts ...AuthenticatorOption) (*Authenticator, error) {
	if verifier == nil {
		return nil, ErrMissingVerifier
	}
	a := &Authenticator{
		verifier:   verifier,
		candidates: DefaultCandidates(env),
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Authenticate returns the validated session token from the request, or
// ErrUnauthenticated when no candidate cookie yields a valid token.
func (a *Authenticator) Authenticate(r *http.Request) (*Token, error) {
	var lastErr error
	for _, cand := range a.candidates {
		c, err := r.Cookie(cand.Name)
		if err != nil || c.Value == "" {
			continue
		}

		var tok Token
		if err := a.verifier.Parse(c.Value, &tok); err != nil {
			a.logger.DebugContext(r.Context(), "session token rejected",
				slog.String("cookie", cand.Name),
				slog.Any("error", err),
			)
			lastErr = err
			continue
		}
		return &tok, nil
	}

	if lastErr != nil {
		return nil, errors.Join(ErrUnauthenticated, lastErr)
	}
	return nil, ErrUnauthenticated
}
