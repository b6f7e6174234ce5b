// Package cache provides the bounded in-process result cache used by the
// search and facet pipelines, with tag-based invalidation and health
// reporting.
package cache

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Cache is the result-cache contract. Values are serialized payloads; the
// cache never interprets them.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags []string)
	Delete(ctx context.Context, key string) bool
	InvalidateTag(ctx context.Context, tag string) int
	InvalidatePattern(ctx context.Context, pattern string) (int, error)
	Clear(ctx context.Context)
	Stats() Stats
	Health() Health
}

// Stats is a point-in-time counter snapshot.
type Stats struct {
	Hits       int64
	Misses     int64
	Sets       int64
	Deletes    int64
	Evictions  int64
	Entries    int
	Bytes      int
	MaxEntries int
	MaxBytes   int
}

// HitRate returns hits/(hits+misses) in [0,1], or 0 before any lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Status classifies cache health.
type Status string

// Health statuses.
const (
	StatusHealthy  Status = "healthy"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// Health is the cache health verdict with the reasons behind it.
type Health struct {
	Status Status
	Issues []string
	Stats  Stats
}

// minLookupsForHitRate gates the hit-rate check until the sample is
// meaningful.
const minLookupsForHitRate = 100

// Evaluate classifies the given snapshot.
func Evaluate(s Stats) Health {
	h := Health{Status: StatusHealthy, Stats: s}

	if s.MaxBytes > 0 {
		usage := float64(s.Bytes) / float64(s.MaxBytes)
		switch {
		case usage >= 0.9:
			h.Status = StatusCritical
			h.Issues = append(h.Issues, fmt.Sprintf("memory usage at %.0f%% of budget", usage*100))
		case usage >= 0.75:
			h.Status = StatusWarning
			h.Issues = append(h.Issues, fmt.Sprintf("memory usage at %.0f%% of budget", usage*100))
		}
	}

	if s.MaxEntries > 0 && float64(s.Entries) >= 0.95*float64(s.MaxEntries) {
		if h.Status == StatusHealthy {
			h.Status = StatusWarning
		}
		h.Issues = append(h.Issues, fmt.Sprintf("entry count %d near cap %d", s.Entries, s.MaxEntries))
	}

	if s.Hits+s.Misses >= minLookupsForHitRate && s.HitRate() < 0.3 {
		if h.Status == StatusHealthy {
			h.Status = StatusWarning
		}
		h.Issues = append(h.Issues, fmt.Sprintf("hit rate %.0f%% below 30%%", s.HitRate()*100))
	}

	return h
}

// Key builds a deterministic cache key from an operation name, its
// parameters, and the requesting user. Anonymous requests share keys.
func Key(op string, params map[string]any, userID string) string {
	if userID == "" {
		userID = "anonymous"
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(op)
	for _, name := range names {
		b.WriteByte(':')
		b.WriteString(name)
		b.WriteByte('=')
		fmt.Fprintf(&b, "%v", params[name])
	}
	b.WriteString(":user=")
	b.WriteString(userID)
	return b.String()
}
