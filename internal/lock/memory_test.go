package lock

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryLockerAcquireRelease(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	acquired, err := locker.Acquire(ctx, "news:slug:new-line", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !acquired {
		t.Fatal("expected to acquire a free lock")
	}

	// A held lock cannot be acquired again.
	acquired, err = locker.Acquire(ctx, "news:slug:new-line", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acquired {
		t.Error("expected a held lock to stay held")
	}

	held, err := locker.IsHeld(ctx, "news:slug:new-line")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !held {
		t.Error("expected the lock to report held")
	}

	released, err := locker.Release(ctx, "news:slug:new-line")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !released {
		t.Error("expected the lock to release")
	}

	released, err = locker.Release(ctx, "news:slug:new-line")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if released {
		t.Error("releasing an unheld lock must report false")
	}
}

func TestMemoryLockerKeysAreIndependent(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	if acquired, _ := locker.Acquire(ctx, "news:slug:a", time.Minute); !acquired {
		t.Fatal("expected to acquire")
	}
	if acquired, _ := locker.Acquire(ctx, "news:slug:b", time.Minute); !acquired {
		t.Error("a different key must not be blocked")
	}
}

func TestMemoryLockerExpiry(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	if acquired, _ := locker.Acquire(ctx, "key", 10*time.Millisecond); !acquired {
		t.Fatal("expected to acquire")
	}
	time.Sleep(20 * time.Millisecond)

	// An expired lock is free even before the cleanup loop runs.
	acquired, err := locker.Acquire(ctx, "key", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !acquired {
		t.Error("expected an expired lock to be acquirable")
	}
}

func TestAcquireWithRetry(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	if acquired, _ := locker.Acquire(ctx, "key", 30*time.Millisecond); !acquired {
		t.Fatal("expected to acquire")
	}

	// The holder expires while we retry.
	acquired, err := locker.AcquireWithRetry(ctx, "key", time.Minute, 10, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !acquired {
		t.Error("expected to acquire after the holder expired")
	}
}

func TestAcquireWithRetryHonorsContext(t *testing.T) {
	locker := NewMemoryLocker()

	ctx, cancel := context.WithCancel(context.Background())
	if acquired, _ := locker.Acquire(ctx, "key", time.Minute); !acquired {
		t.Fatal("expected to acquire")
	}
	cancel()

	_, err := locker.AcquireWithRetry(ctx, "key", time.Minute, 10, 10*time.Millisecond)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestWithLock(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	ran := false
	err := WithLock(ctx, locker, "key", time.Minute, func(ctx context.Context) error {
		ran = true

		held, err := locker.IsHeld(ctx, "key")
		if err != nil {
			return err
		}
		if !held {
			t.Error("expected the lock to be held inside fn")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ran {
		t.Fatal("expected fn to run")
	}

	// Released on the way out.
	held, err := locker.IsHeld(ctx, "key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if held {
		t.Error("expected the lock to be released after fn")
	}
}

func TestWithLockContention(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	if acquired, _ := locker.Acquire(ctx, "key", time.Hour); !acquired {
		t.Fatal("expected to acquire")
	}

	err := WithLock(ctx, locker, "key", time.Minute, func(ctx context.Context) error {
		t.Error("fn must not run while the lock is held elsewhere")
		return nil
	})
	if !errors.Is(err, ErrNotAcquired) {
		t.Errorf("expected ErrNotAcquired, got %v", err)
	}
}

func TestWithLockPropagatesError(t *testing.T) {
	locker := NewMemoryLocker()
	fnErr := errors.New("fn failed")

	err := WithLock(context.Background(), locker, "key", time.Minute, func(ctx context.Context) error {
		return fnErr
	})
	if !errors.Is(err, fnErr) {
		t.Errorf("expected fn error, got %v", err)
	}
}
