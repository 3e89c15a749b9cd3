package credential

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisTimeout = 2 * time.Second

// PersistentJar is an http.CookieJar that mirrors one named cookie for one
// origin into Redis, so a login survives process restarts. All other cookies
// live only in memory.
type PersistentJar struct {
	inner  *cookiejar.Jar
	client redis.Cmdable
	site   *url.URL
	name   string
	key    string
	logger *zap.Logger
}

// NewPersistentJar creates the jar and seeds it from Redis.
func NewPersistentJar(ctx context.Context, client redis.Cmdable, site *url.URL, name, keyPrefix string, logger *zap.Logger) (*PersistentJar, error) {
	if client == nil {
		return nil, errors.New("persistent jar: redis client is required")
	}
	if site == nil {
		return nil, errors.New("persistent jar: site is required")
	}
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	j := &PersistentJar{
		inner:  inner,
		client: client,
		site:   &url.URL{Scheme: site.Scheme, Host: site.Host, Path: "/"},
		name:   name,
		key:    fmt.Sprintf("%s:cookie:%s:%s", keyPrefix, site.Host, name),
		logger: logger,
	}
	if err := j.load(ctx); err != nil {
		return nil, err
	}
	return j, nil
}

// Key returns the Redis key backing the tracked cookie.
func (j *PersistentJar) Key() string {
	return j.key
}

// Cookies implements http.CookieJar.
func (j *PersistentJar) Cookies(u *url.URL) []*http.Cookie {
	return j.inner.Cookies(u)
}

// SetCookies implements http.CookieJar and persists the tracked cookie.
func (j *PersistentJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.inner.SetCookies(u, cookies)
	if u.Host != j.site.Host {
		return
	}
	for _, c := range cookies {
		if c.Name != j.name {
			continue
		}
		j.persist(c)
	}
}

func (j *PersistentJar) persist(c *http.Cookie) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	ttl, evict := cookieTTL(c, time.Now())
	if evict {
		if err := j.client.Del(ctx, j.key).Err(); err != nil {
			j.logger.Warn("failed to evict persisted cookie", zap.String("key", j.key), zap.Error(err))
		}
		return
	}
	if err := j.client.Set(ctx, j.key, c.Value, ttl).Err(); err != nil {
		j.logger.Warn("failed to persist cookie", zap.String("key", j.key), zap.Error(err))
	}
}

func (j *PersistentJar) load(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	value, err := j.client.Get(ctx, j.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load persisted cookie: %w", err)
	}
	cookie := &http.Cookie{Name: j.name, Value: value, Path: "/"}
	if ttl, err := j.client.TTL(ctx, j.key).Result(); err == nil && ttl > 0 {
		cookie.Expires = time.Now().Add(ttl)
	}
	j.inner.SetCookies(j.site, []*http.Cookie{cookie})
	j.logger.Debug("restored persisted cookie", zap.String("key", j.key))
	return nil
}

// cookieTTL maps a Set-Cookie onto a Redis expiration. Zero means no expiry.
func cookieTTL(c *http.Cookie, now time.Time) (ttl time.Duration, evict bool) {
	switch {
	case c.MaxAge < 0:
		return 0, true
	case c.MaxAge > 0:
		return time.Duration(c.MaxAge) * time.Second, false
	case !c.Expires.IsZero():
		if !c.Expires.After(now) {
			return 0, true
		}
		return c.Expires.Sub(now), false
	}
	if c.Value == "" {
		return 0, true
	}
	return 0, false
}
