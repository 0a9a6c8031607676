package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// WindowStore counts hits in fixed windows. IncrementWindow returns the hit
// count including this one and the time left in the current window.
type WindowStore interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

type bucket struct {
	count int64
	until time.Time
}

// MemoryWindowStore is a process-local WindowStore.
type MemoryWindowStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time

	// Expired buckets are dropped at most once per sweepEvery.
	sweepEvery time.Duration
	nextSweep  time.Time
}

func NewMemoryWindowStore() *MemoryWindowStore {
	return &MemoryWindowStore{
		buckets:    make(map[string]*bucket),
		now:        time.Now,
		sweepEvery: time.Minute,
	}
}

func (s *MemoryWindowStore) IncrementWindow(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if key == "" || window <= 0 {
		return 0, 0, fmt.Errorf("invalid rate window payload")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if !now.Before(s.nextSweep) {
		s.evictExpired(now)
		s.nextSweep = now.Add(s.sweepEvery)
	}
	b, ok := s.buckets[key]
	if !ok || !now.Before(b.until) {
		b = &bucket{until: now.Add(window)}
		s.buckets[key] = b
	}
	b.count++
	return b.count, b.until.Sub(now), nil
}

// evictExpired keeps the map from growing with every address ever seen.
func (s *MemoryWindowStore) evictExpired(now time.Time) {
	for k, b := range s.buckets {
		if !now.Before(b.until) {
			delete(s.buckets, k)
		}
	}
}

// RateLimit allows limit requests per client address per window under scope.
// Store failures let the request through.
func RateLimit(store WindowStore, scope string, limit int, window time.Duration, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIPForRateLimit(r)
			key := "rl:" + scope + ":" + ip
			count, ttl, err := store.IncrementWindow(r.Context(), key, window)
			if err != nil {
				logger.Warn().Err(err).Str("scope", scope).Str("ip", ip).Msg("rate limit store failed, allowing request")
				next.ServeHTTP(w, r)
				return
			}
			if count > int64(limit) {
				retry := int64((ttl + time.Second - 1) / time.Second)
				if retry < 1 {
					retry = 1
				}
				w.Header().Set("Retry-After", strconv.FormatInt(retry, 10))
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIPForRateLimit(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		for _, part := range strings.Split(xf, ",") {
			ip := strings.TrimSpace(part)
			if ip == "" {
				continue
			}
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		if net.ParseIP(host) != nil {
			return host
		}
	} else if net.ParseIP(r.RemoteAddr) != nil {
		return r.RemoteAddr
	}

	return r.RemoteAddr
}
