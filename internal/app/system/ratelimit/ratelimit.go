// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter hands out one token bucket per key (client IP, username).
// It is safe for concurrent use.
type Limiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	stopOnce sync.Once
	stopCh   chan struct{}
}

type bucket struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// New creates a limiter allowing perMinute requests per key per minute, with
// a burst of the same size. perMinute <= 0 disables limiting.
func New(perMinute int) *Limiter {
	l := &Limiter{
		buckets: make(map[string]*bucket),
		burst:   perMinute,
		idleTTL: 10 * time.Minute,
		stopCh:  make(chan struct{}),
	}
	if perMinute > 0 {
		l.limit = rate.Limit(float64(perMinute) / 60.0)
	} else {
		l.limit = rate.Inf
	}
	go l.cleanupLoop(5 * time.Minute)
	return l
}

// Allow reports whether one more request for key fits in its bucket.
// A nil limiter allows everything.
func (l *Limiter) Allow(key string) bool {
	if l == nil || l.limit == rate.Inf {
		return true
	}
	return l.get(key).Allow()
}

// Reset forgets key's bucket.
func (l *Limiter) Reset(key string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	delete(l.buckets, key)
	l.mu.Unlock()
}

// Stop ends the background cleanup goroutine. Safe to call more than once.
func (l *Limiter) Stop() {
	if l == nil {
		return
	}
	l.stopOnce.Do(func() { close(l.stopCh) })
}

func (l *Limiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.lastAccess = time.Now()
	return b.limiter
}

func (l *Limiter) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			l.sweep(time.Now())
		}
	}
}

// sweep drops buckets idle for longer than idleTTL.
func (l *Limiter) sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if now.Sub(b.lastAccess) > l.idleTTL {
			delete(l.buckets, key)
		}
	}
}

// size is the number of live buckets; used by tests.
func (l *Limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// ClientIP returns the host part of r.RemoteAddr. Forwarding headers are
// ignored here; behind a trusted proxy chi's RealIP middleware has already
// rewritten RemoteAddr from them.
func ClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr might not have a port
		return r.RemoteAddr
	}
	return ip
}

// FormLimiter guards a credential form (login, signup) by client IP and,
// when given, by the submitted account name.
type FormLimiter struct {
	byIP      *Limiter
	byAccount *Limiter
}

// NewFormLimiter builds a limiter allowing perMinute submissions per IP and
// perMinute submissions per account name.
func NewFormLimiter(perMinute int) *FormLimiter {
	return &FormLimiter{
		byIP:      New(perMinute),
		byAccount: New(perMinute),
	}
}

// Check reports whether the submission may proceed. A nil FormLimiter
// allows everything.
func (f *FormLimiter) Check(r *http.Request, account string) bool {
	if f == nil {
		return true
	}
	if !f.byIP.Allow(ClientIP(r)) {
		return false
	}
	if account = strings.ToLower(strings.TrimSpace(account)); account != "" {
		return f.byAccount.Allow(account)
	}
	return true
}

// ResetAccount clears the per-account bucket after a successful login.
func (f *FormLimiter) ResetAccount(account string) {
	if f == nil {
		return
	}
	f.byAccount.Reset(strings.ToLower(strings.TrimSpace(account)))
}

// Stop ends both background cleanup goroutines.
func (f *FormLimiter) Stop() {
	if f == nil {
		return
	}
	f.byIP.Stop()
	f.byAccount.Stop()
}
