package worker

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter rate-limits outbound data-source requests per host. Each host
// gets its own token bucket, created on first use at the default rate.
type Limiter struct {
	mu           sync.RWMutex
	buckets      map[string]*rate.Limiter
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a limiter with the given default rate and burst
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}
	return &Limiter{
		buckets:      make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(requestsPerSecond),
		defaultBurst: burst,
	}
}

// Wait blocks until the URL's host has a token or the context ends
func (l *Limiter) Wait(ctx context.Context, rawURL string) error {
	host, err := hostOf(rawURL)
	if err != nil {
		return err
	}
	return l.bucket(host).Wait(ctx)
}

// Allow reports whether a request may proceed right now
func (l *Limiter) Allow(rawURL string) bool {
	host, err := hostOf(rawURL)
	if err != nil {
		return false
	}
	return l.bucket(host).Allow()
}

// SetDomainRate overrides the rate for one host. Used for APIs that
// throttle aggressively.
func (l *Limiter) SetDomainRate(host string, requestsPerSecond float64, burst int) {
	if burst <= 0 {
		burst = l.defaultBurst
	}
	l.mu.Lock()
	l.buckets[host] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	l.mu.Unlock()
}

func (l *Limiter) bucket(host string) *rate.Limiter {
	l.mu.RLock()
	b, ok := l.buckets[host]
	l.mu.RUnlock()
	if ok {
		return b
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	// Another goroutine may have created it between the locks
	if b, ok := l.buckets[host]; ok {
		return b
	}
	b = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.buckets[host] = b
	return b
}

func hostOf(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	return parsed.Host, nil
}
