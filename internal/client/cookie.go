package client

import (
	"log/slog"
	"net/http"
	"net/url"
	"sync"
)

// CookieJar implements http.CookieJar for storing backend session cookies in memory.
// Cookies are kept per host and merged by name, so a response that refreshes one
// cookie does not drop the others.
type CookieJar struct {
	log *slog.Logger
	mu  sync.Mutex
	jar map[string]map[string]*http.Cookie
}

// NewCookieJar initializes an in-memory cookie jar.
func NewCookieJar(log *slog.Logger) *CookieJar {
	return &CookieJar{
		jar: make(map[string]map[string]*http.Cookie),
		log: log,
	}
}

// SetCookies stores cookies for a given URL. A cookie with MaxAge < 0 is removed.
func (c *CookieJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	c.mu.Lock()
	defer c.mu.Unlock()

	host, ok := c.jar[u.Host]
	if !ok {
		host = make(map[string]*http.Cookie, len(cookies))
		c.jar[u.Host] = host
	}
	for _, cookie := range cookies {
		if cookie.MaxAge < 0 {
			delete(host, cookie.Name)
			continue
		}
		host[cookie.Name] = cookie
	}

	c.log.Debug("Set cookies", "host", u.Host, "count", len(cookies))
}

// Cookies retrieves cookies for a given URL.
func (c *CookieJar) Cookies(u *url.URL) []*http.Cookie {
	c.mu.Lock()
	defer c.mu.Unlock()

	host := c.jar[u.Host]
	if len(host) == 0 {
		return nil
	}

	cookies := make([]*http.Cookie, 0, len(host))
	for _, cookie := range host {
		cookies = append(cookies, cookie)
	}
	return cookies
}
