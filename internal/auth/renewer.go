package auth

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Credentials identify the service account used to talk to the backend.
type Credentials struct {
	LoginURL string
	BaseURL  string
	Username string
	Password string
}

// Renewer logs in again whenever the stored session is missing or about to expire.
type Renewer struct {
	log        *slog.Logger
	client     *http.Client
	creds      Credentials
	store      *SessionStore
	retryDelay time.Duration
	now        func() time.Time

	mu sync.Mutex
}

func NewRenewer(
	log *slog.Logger,
	client *http.Client,
	creds Credentials,
	store *SessionStore,
	retryDelay time.Duration,
) *Renewer {
	return &Renewer{
		log:        log.With(slog.String("division", "auth")),
		client:     client,
		creds:      creds,
		store:      store,
		retryDelay: retryDelay,
		now:        time.Now,
	}
}

// Ensure returns a usable session, logging in when the current one has expired.
// Concurrent callers share a single login.
func (r *Renewer) Ensure(ctx context.Context) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current := r.store.Get(); !current.Expired(r.now()) {
		return current, nil
	}

	r.log.InfoContext(ctx, "Session missing or expired, logging in")
	session, err := RetryLogin(ctx, r.log, r.client,
		r.creds.LoginURL, r.creds.BaseURL, r.creds.Username, r.creds.Password, r.retryDelay)
	if err != nil {
		return Session{}, err
	}

	r.store.Set(session)
	return session, nil
}

// Invalidate drops the stored session so that the next Ensure logs in. It is used when the
// backend rejects a token that still looks valid locally.
func (r *Renewer) Invalidate() {
	r.store.Set(Session{})
}
