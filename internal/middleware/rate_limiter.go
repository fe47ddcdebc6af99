package middleware

import (
	"fmt"
	"sync"
	"time"

	"github.com/mroshb/quizline/pkg/errors"
)

// RateLimiter implements a simple in-memory fixed-window limiter keyed by
// client IP. The socket servers use it to throttle new connections.
type RateLimiter struct {
	ipLimits map[string]*ipLimit
	mu       sync.RWMutex

	ipMaxRequests int
	window        time.Duration

	stop     chan struct{}
	stopOnce sync.Once
}

type ipLimit struct {
	requests  int
	resetTime time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(ipMaxRequests int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		ipLimits:      make(map[string]*ipLimit),
		ipMaxRequests: ipMaxRequests,
		window:        window,
		stop:          make(chan struct{}),
	}

	// Start cleanup goroutine
	go rl.cleanup()

	return rl
}

// CheckIPLimit checks if IP has exceeded rate limit
func (rl *RateLimiter) CheckIPLimit(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()

	// Get or create IP limit
	limit, exists := rl.ipLimits[ip]
	if !exists || now.After(limit.resetTime) {
		rl.ipLimits[ip] = &ipLimit{
			requests:  1,
			resetTime: now.Add(rl.window),
		}
		return true
	}

	// Check if limit exceeded
	if limit.requests >= rl.ipMaxRequests {
		return false
	}

	// Increment counter
	limit.requests++
	return true
}

// Allow counts a connection from ip and returns an ErrCodeRateLimitExceeded
// error once the window is used up.
func (rl *RateLimiter) Allow(ip string) error {
	if rl.CheckIPLimit(ip) {
		return nil
	}
	return errors.New(errors.ErrCodeRateLimitExceeded,
		fmt.Sprintf("more than %d connections from %s within %s", rl.ipMaxRequests, ip, rl.window))
}

// GetIPRemaining returns remaining requests for IP
func (rl *RateLimiter) GetIPRemaining(ip string) int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	limit, exists := rl.ipLimits[ip]
	if !exists || time.Now().After(limit.resetTime) {
		return rl.ipMaxRequests
	}

	remaining := rl.ipMaxRequests - limit.requests
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Stop ends the cleanup goroutine.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// cleanup removes expired entries
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.removeExpired(time.Now())
		}
	}
}

func (rl *RateLimiter) removeExpired(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, limit := range rl.ipLimits {
		if now.After(limit.resetTime) {
			delete(rl.ipLimits, ip)
		}
	}
}
