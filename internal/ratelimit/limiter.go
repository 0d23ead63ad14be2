package ratelimit

import (
	"context"
	"log"
	"time"

	"github.com/donaldwalker7495-max/techcheck-api/internal/repo"
)

// Limiter throttles logins per username based on the login_attempts log.
// It keeps no in-memory state: the count is read from the store on every
// check, so it survives restarts and stays consistent across instances
// sharing the same database. Concurrent logins at the threshold boundary may
// both read a stale count; the limiter is best-effort, not hard admission
// control.
type Limiter struct {
	attempts  repo.LoginAttemptRepo
	window    time.Duration
	threshold int
	now       func() time.Time
}

// New returns a Limiter blocking a username once threshold failed attempts
// have accumulated within the trailing window.
func New(attempts repo.LoginAttemptRepo, window time.Duration, threshold int) *Limiter {
	return &Limiter{attempts: attempts, window: window, threshold: threshold, now: time.Now}
}

// WithClock overrides the wall clock. Tests only.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// IsBlocked reports whether the username has reached the failure threshold.
// Only failed attempts count: a successful login never resets or decrements
// the counter, failures simply age out of the window. The window lower edge
// is inclusive (attempt_time >= now-window), and count == threshold blocks.
func (l *Limiter) IsBlocked(ctx context.Context, username string) (bool, error) {
	since := l.now().Add(-l.window)
	n, err := l.attempts.CountFailedSince(ctx, username, since)
	if err != nil {
		return false, err
	}
	return n >= l.threshold, nil
}

// RecordAttempt appends one row to the attempt log. Best-effort: an insert
// failure is logged and swallowed so an audit-write error never blocks a
// login.
func (l *Limiter) RecordAttempt(ctx context.Context, username string, success bool) {
	if err := l.attempts.Insert(ctx, username, l.now(), success); err != nil {
		log.Printf("ratelimit: record attempt for %q: %v", username, err)
	}
}
