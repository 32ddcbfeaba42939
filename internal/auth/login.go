package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/UnknownOlympus/hestia/internal/lib/logger/sl"
	"github.com/UnknownOlympus/hestia/internal/models"
)

var ErrLogin = errors.New("login failed")

type loginResponse struct {
	Token string `json:"token"`
}

// Login performs a login request to the specified loginURL using the provided username and password.
// It returns the session issued by the backend, or an error if the request fails, the response status
// code is not 200 OK or the response carries no token.
func Login(ctx context.Context, client *http.Client, loginURL, baseURL, username, password string) (Session, error) {
	data := url.Values{}
	data.Set("action", "login")
	data.Set("username", username)
	data.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, strings.NewReader(data.Encode()))
	if err != nil {
		return Session{}, fmt.Errorf("failed to create new request %s: %w", loginURL, err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", models.UserAgent)
	req.Header.Set("Referer", baseURL)

	resp, err := client.Do(req)
	if err != nil {
		return Session{}, fmt.Errorf("failed to request %s: %w", loginURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Session{}, fmt.Errorf("%w, status code: %d", ErrLogin, resp.StatusCode)
	}

	var body loginResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Session{}, fmt.Errorf("failed to decode login response: %w", err)
	}
	if body.Token == "" {
		return Session{}, fmt.Errorf("%w: response carries no token", ErrLogin)
	}

	return Session{Token: body.Token, IssuedAt: time.Now()}, nil
}

// RetryLogin calls Login up to three times, waiting retryTimeout between attempts.
func RetryLogin(
	ctx context.Context,
	log *slog.Logger,
	httpClient *http.Client,
	loginURL, baseURL, username, password string,
	retryTimeout time.Duration,
) (Session, error) {
	const retries = 3

	var err error
	for index := range retries {
		var session Session
		session, err = Login(ctx, httpClient, loginURL, baseURL, username, password)
		if err == nil {
			log.InfoContext(ctx, "Successfully logged in")
			return session, nil
		}

		log.WarnContext(ctx, "Failed to login, retrying...", "attempt", index+1, "of", retries, sl.Err(err))

		if index == retries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return Session{}, fmt.Errorf("login cancelled: %w", ctx.Err())
		case <-time.After(retryTimeout):
		}
	}

	finalError := errors.New("failed to login after multiple retries")
	log.ErrorContext(ctx, finalError.Error(), "last_error", err)
	return Session{}, fmt.Errorf("%w: %w", finalError, err)
}
