// Package credential reads, inspects and evicts the bearer credential the
// Sentimenta backend keeps in the client's cookie storage.
package credential

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Store gives access to the persisted credential.
//
// Absence is a normal outcome: Read reports it with ok == false and Delete on
// an empty store does nothing.
type Store interface {
	// Available reports whether cookie storage exists in this context.
	Available() bool
	Read(ctx context.Context) (token string, ok bool)
	Delete(ctx context.Context)
}

// JarStore is a Store over an http.CookieJar scoped to the API origin.
type JarStore struct {
	jar  http.CookieJar
	site *url.URL
	name string
}

// NewJarStore returns a store for the cookie called name on site.
// A nil jar or site yields a store that reports itself unavailable.
func NewJarStore(jar http.CookieJar, site *url.URL, name string) *JarStore {
	var root *url.URL
	if site != nil {
		root = &url.URL{Scheme: site.Scheme, Host: site.Host, Path: "/"}
	}
	return &JarStore{jar: jar, site: root, name: name}
}

// Available reports whether a jar and origin are configured.
func (s *JarStore) Available() bool {
	return s != nil && s.jar != nil && s.site != nil
}

// Read returns the credential value, if any.
func (s *JarStore) Read(_ context.Context) (string, bool) {
	if !s.Available() {
		return "", false
	}
	for _, c := range s.jar.Cookies(s.site) {
		if c.Name == s.name && c.Value != "" {
			return c.Value, true
		}
	}
	return "", false
}

// Delete expires the credential cookie at the root path.
func (s *JarStore) Delete(_ context.Context) {
	if !s.Available() {
		return
	}
	s.jar.SetCookies(s.site, []*http.Cookie{expiredCookie(s.name)})
}

// Name returns the cookie name this store tracks.
func (s *JarStore) Name() string {
	return s.name
}

func expiredCookie(name string) *http.Cookie {
	return &http.Cookie{
		Name:    name,
		Value:   "",
		Path:    "/",
		Expires: time.Unix(0, 0).UTC(),
		MaxAge:  -1,
	}
}
