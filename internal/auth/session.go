package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrNoSession = errors.New("no session token")

// Session is the explicit authentication context passed to everything that talks to
// the CRM backend.
type Session struct {
	Token    string
	IssuedAt time.Time
}

// Valid reports whether the session carries a token.
func (s Session) Valid() bool {
	return s.Token != ""
}

// Authorize sets the bearer authorization header of req.
func (s Session) Authorize(req *http.Request) error {
	if !s.Valid() {
		return ErrNoSession
	}
	req.Header.Set("Authorization", "Bearer "+s.Token)
	return nil
}

// ExpiresAt reads the exp claim of the token. The backend owns the signing keys, so the
// token is decoded without verification. Opaque tokens have no known expiry.
func (s Session) ExpiresAt() (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Expired reports whether the session must be renewed at now. A small leeway keeps
// requests from racing the expiry.
func (s Session) Expired(now time.Time) bool {
	const leeway = 30 * time.Second

	if !s.Valid() {
		return true
	}
	exp, ok := s.ExpiresAt()
	if !ok {
		return false
	}
	return !now.Add(leeway).Before(exp)
}

func (s Session) String() string {
	if exp, ok := s.ExpiresAt(); ok {
		return fmt.Sprintf("session(expires=%s)", exp.Format(time.RFC3339))
	}
	if s.Valid() {
		return "session(opaque)"
	}
	return "session(empty)"
}
