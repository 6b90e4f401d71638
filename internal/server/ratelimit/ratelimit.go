// Package ratelimit provides a per-client token bucket limiter for the HTTP API.
// Generation endpoints get a tighter budget than reads because each call spends
// LLM quota.
package ratelimit

import (
	"strings"
	"sync"
	"time"
)

// EndpointLimit configures the budget for a path prefix.
type EndpointLimit struct {
	PathPrefix string
	Method     string // empty matches any method
	Capacity   int
	RefillRate float64 // tokens per second
}

// DefaultLimits returns the endpoint budgets used in production.
func DefaultLimits() []EndpointLimit {
	return []EndpointLimit{
		{PathPrefix: "/auth/", Capacity: 10, RefillRate: 10.0 / 60},
		{PathPrefix: "/cvs/", Method: "POST", Capacity: 5, RefillRate: 5.0 / 60},
		{PathPrefix: "/", Capacity: 60, RefillRate: 1},
	}
}

// Info describes the limiter state returned with each decision.
type Info struct {
	Limit     int
	Remaining int
	ResetTime time.Time
}

type bucket struct {
	mu         sync.Mutex
	tokens     float64
	capacity   int
	refillRate float64
	lastRefill time.Time
	lastSeen   time.Time
}

func (b *bucket) take(now time.Time) (bool, Info) {
	b.mu.Lock()
	defer b.mu.Unlock()

	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens += elapsed * b.refillRate
	if b.tokens > float64(b.capacity) {
		b.tokens = float64(b.capacity)
	}
	b.lastRefill = now
	b.lastSeen = now

	info := Info{Limit: b.capacity}
	allowed := b.tokens >= 1
	if allowed {
		b.tokens--
	}
	info.Remaining = int(b.tokens)

	if b.tokens < float64(b.capacity) {
		deficit := float64(b.capacity) - b.tokens
		info.ResetTime = now.Add(time.Duration(deficit / b.refillRate * float64(time.Second)))
	} else {
		info.ResetTime = now
	}
	return allowed, info
}

// Limiter tracks token buckets per client and endpoint budget.
type Limiter struct {
	mu      sync.Mutex
	limits  []EndpointLimit
	buckets map[string]*bucket
	done    chan struct{}
}

// NewLimiter creates a limiter with the given endpoint budgets and starts the
// idle-bucket cleanup goroutine.
func NewLimiter(limits []EndpointLimit) *Limiter {
	l := &Limiter{
		limits:  limits,
		buckets: make(map[string]*bucket),
		done:    make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Allow reports whether the client may perform the request, spending one token
// when it may.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	limit := l.match(path, method)
	if limit == nil {
		return true, Info{}
	}

	key := clientID + "|" + limit.PathPrefix + "|" + limit.Method
	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{
			tokens:     float64(limit.Capacity),
			capacity:   limit.Capacity,
			refillRate: limit.RefillRate,
			lastRefill: time.Now(),
		}
		l.buckets[key] = b
	}
	l.mu.Unlock()

	return b.take(time.Now())
}

// Stop terminates the cleanup goroutine.
func (l *Limiter) Stop() {
	close(l.done)
}

// match returns the first budget whose prefix and method match the request.
func (l *Limiter) match(path, method string) *EndpointLimit {
	for i := range l.limits {
		limit := &l.limits[i]
		if !strings.HasPrefix(path, limit.PathPrefix) {
			continue
		}
		if limit.Method != "" && limit.Method != method {
			continue
		}
		return limit
	}
	return nil
}

const (
	cleanupInterval = 5 * time.Minute
	bucketIdleTTL   = 30 * time.Minute
)

func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-l.done:
			return
		case now := <-ticker.C:
			l.mu.Lock()
			for key, b := range l.buckets {
				b.mu.Lock()
				idle := now.Sub(b.lastSeen) > bucketIdleTTL
				b.mu.Unlock()
				if idle {
					delete(l.buckets, key)
				}
			}
			l.mu.Unlock()
		}
	}
}
