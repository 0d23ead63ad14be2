package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	dom "github.com/donaldwalker7495-max/techcheck-api/internal/domain"
)

// fakeAttemptRepo keeps attempts in memory.
type fakeAttemptRepo struct {
	rows      []dom.LoginAttempt
	insertErr error
	countErr  error
}

func (f *fakeAttemptRepo) Insert(_ context.Context, username string, at time.Time, success bool) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.rows = append(f.rows, dom.LoginAttempt{Username: username, AttemptTime: at, Success: success})
	return nil
}

func (f *fakeAttemptRepo) CountFailedSince(_ context.Context, username string, since time.Time) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	n := 0
	for _, r := range f.rows {
		if r.Username == username && !r.Success && !r.AttemptTime.Before(since) {
			n++
		}
	}
	return n, nil
}

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestLimiter(repo *fakeAttemptRepo, clock *time.Time) *Limiter {
	return New(repo, 15*time.Minute, 5).WithClock(func() time.Time { return *clock })
}

func TestIsBlocked_Threshold(t *testing.T) {
	repo := &fakeAttemptRepo{}
	clock := t0
	l := newTestLimiter(repo, &clock)
	ctx := context.Background()

	// threshold-1 failures: one more attempt is allowed.
	for i := 0; i < 4; i++ {
		l.RecordAttempt(ctx, "alice", false)
	}
	blocked, err := l.IsBlocked(ctx, "alice")
	if err != nil {
		t.Fatalf("IsBlocked() error = %v", err)
	}
	if blocked {
		t.Error("blocked at threshold-1 failures, want allowed")
	}

	// Exactly threshold failures: blocked.
	l.RecordAttempt(ctx, "alice", false)
	blocked, err = l.IsBlocked(ctx, "alice")
	if err != nil {
		t.Fatalf("IsBlocked() error = %v", err)
	}
	if !blocked {
		t.Error("not blocked at threshold failures")
	}

	// Other identities are unaffected.
	blocked, _ = l.IsBlocked(ctx, "bob")
	if blocked {
		t.Error("bob blocked by alice's failures")
	}
}

func TestIsBlocked_SuccessDoesNotCount(t *testing.T) {
	repo := &fakeAttemptRepo{}
	clock := t0
	l := newTestLimiter(repo, &clock)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		l.RecordAttempt(ctx, "alice", false)
	}
	l.RecordAttempt(ctx, "alice", true)

	blocked, err := l.IsBlocked(ctx, "alice")
	if err != nil {
		t.Fatalf("IsBlocked() error = %v", err)
	}
	if blocked {
		t.Error("success row counted toward failures")
	}

	// The success did not reset the counter either: one more failure blocks.
	l.RecordAttempt(ctx, "alice", false)
	blocked, _ = l.IsBlocked(ctx, "alice")
	if !blocked {
		t.Error("failure counter was reset by success")
	}
}

func TestIsBlocked_WindowAgesFailuresOut(t *testing.T) {
	repo := &fakeAttemptRepo{}
	clock := t0
	l := newTestLimiter(repo, &clock)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		l.RecordAttempt(ctx, "alice", false)
	}
	if blocked, _ := l.IsBlocked(ctx, "alice"); !blocked {
		t.Fatal("expected blocked after 5 failures")
	}

	// Lower edge is inclusive: at exactly now-window the failures still count.
	clock = t0.Add(15 * time.Minute)
	if blocked, _ := l.IsBlocked(ctx, "alice"); !blocked {
		t.Error("failures at exactly now-window should still count")
	}

	clock = t0.Add(15*time.Minute + time.Second)
	if blocked, _ := l.IsBlocked(ctx, "alice"); blocked {
		t.Error("failures older than the window should not count")
	}
}

func TestRecordAttempt_BestEffort(t *testing.T) {
	repo := &fakeAttemptRepo{insertErr: errors.New("db down")}
	clock := t0
	l := newTestLimiter(repo, &clock)

	// Must not panic or surface the error.
	l.RecordAttempt(context.Background(), "alice", false)
}

func TestIsBlocked_CountError(t *testing.T) {
	repo := &fakeAttemptRepo{countErr: errors.New("db down")}
	clock := t0
	l := newTestLimiter(repo, &clock)

	if _, err := l.IsBlocked(context.Background(), "alice"); err == nil {
		t.Error("IsBlocked() should surface count errors")
	}
}
