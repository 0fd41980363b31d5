package ddragon

import (
	"context"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultVersionTTL      = 6 * time.Hour
	DefaultRetryAfter      = time.Minute
	DefaultFallbackVersion = "14.1.1"
)

type versionEntry struct {
	version   string
	expiresAt time.Time
}

// VersionCache remembers the current Data Dragon version for a TTL. It is
// filled lazily on first use. Concurrent callers that find it cold or
// expired may each fetch; the last store wins and every result is a valid
// version, so no lock is taken.
//
// A failed fetch is remembered for retryAfter so callers on the read path
// do not each wait on an unreachable feed.
type VersionCache struct {
	client     *Client
	ttl        time.Duration
	retryAfter time.Duration
	fallback   string
	pinned   string
	now      func() time.Time
	entry    atomic.Pointer[versionEntry]
}

type VersionCacheOption func(*VersionCache)

// WithPinnedVersion makes the cache always answer version without fetching.
func WithPinnedVersion(version string) VersionCacheOption {
	return func(vc *VersionCache) { vc.pinned = version }
}

func WithFallbackVersion(version string) VersionCacheOption {
	return func(vc *VersionCache) {
		if version != "" {
			vc.fallback = version
		}
	}
}

func WithTTL(ttl time.Duration) VersionCacheOption {
	return func(vc *VersionCache) { vc.ttl = ttl }
}

// WithRetryAfter sets how long a failed lookup is served before the feed is
// asked again.
func WithRetryAfter(d time.Duration) VersionCacheOption {
	return func(vc *VersionCache) { vc.retryAfter = d }
}

func WithClock(now func() time.Time) VersionCacheOption {
	return func(vc *VersionCache) { vc.now = now }
}

func NewVersionCache(client *Client, opts ...VersionCacheOption) *VersionCache {
	vc := &VersionCache{
		client:     client,
		ttl:        DefaultVersionTTL,
		retryAfter: DefaultRetryAfter,
		fallback:   DefaultFallbackVersion,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(vc)
	}
	return vc
}

// Current returns the latest published version. It never fails: on a fetch
// problem it answers the last good version, or the fallback when there is
// none, and keeps that answer for retryAfter.
func (vc *VersionCache) Current(ctx context.Context) string {
	if vc.pinned != "" {
		return vc.pinned
	}

	now := vc.now()
	prev := vc.entry.Load()
	if prev != nil && now.Before(prev.expiresAt) {
		return prev.version
	}

	versions, err := vc.client.Versions(ctx)
	if err != nil || len(versions) == 0 || versions[0] == "" {
		version := vc.fallback
		if prev != nil {
			version = prev.version
		}
		log.WithError(err).WithField("version", version).Warn("[ddragon.VersionCache] could not resolve version, using last known")
		vc.entry.Store(&versionEntry{version: version, expiresAt: now.Add(vc.retryAfter)})
		return version
	}

	vc.entry.Store(&versionEntry{version: versions[0], expiresAt: now.Add(vc.ttl)})
	return versions[0]
}
