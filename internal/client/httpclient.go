package client

import (
	"log/slog"
	"net/http"
	"time"
)

// CreateHTTPClient initializes an HTTP client with a custom cookie jar and request timeout.
func CreateHTTPClient(log *slog.Logger, timeout time.Duration) *http.Client {
	jar := NewCookieJar(log)

	return &http.Client{
		Jar:     jar,
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, _ []*http.Request) error {
			log.Debug("Redirected to URL", "URL", req.URL)

			return nil
		},
	}
}
