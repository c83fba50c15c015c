package ratelimit

import (
	"testing"
	"time"

	"github.com/dalemusser/stratawell/internal/testutil"
)

var testPolicy = Policy{MaxAttempts: 3, Window: 15 * time.Minute, Lockout: 30 * time.Minute}

func TestStore_Check_NoRecord(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, testPolicy)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	d, err := store.Check(ctx, "new@example.com")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !d.Allowed || d.Remaining != 3 || d.LockedUntil != nil {
		t.Errorf("Check() = %+v, want allowed with 3 remaining", d)
	}
}

func TestStore_LocksAfterMaxAttempts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, testPolicy)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	store.now = func() time.Time { return now }

	for i, wantRemaining := range []int{2, 1} {
		d, err := store.RecordFailure(ctx, "Owner@Spa.test")
		if err != nil {
			t.Fatalf("RecordFailure() #%d error = %v", i+1, err)
		}
		if !d.Allowed || d.Remaining != wantRemaining {
			t.Errorf("RecordFailure() #%d = %+v, want remaining %d", i+1, d, wantRemaining)
		}
	}

	d, err := store.RecordFailure(ctx, "owner@spa.test")
	if err != nil {
		t.Fatalf("RecordFailure() #3 error = %v", err)
	}
	if d.Allowed || d.LockedUntil == nil {
		t.Fatalf("RecordFailure() #3 = %+v, want locked", d)
	}
	if !d.LockedUntil.Equal(now.Add(30 * time.Minute)) {
		t.Errorf("LockedUntil = %v, want %v", d.LockedUntil, now.Add(30*time.Minute))
	}

	d, _ = store.Check(ctx, "OWNER@spa.test")
	if d.Allowed {
		t.Error("Check() during lockout should not allow")
	}

	// lockout and window both expire
	now = now.Add(31 * time.Minute)
	d, _ = store.Check(ctx, "owner@spa.test")
	if !d.Allowed || d.Remaining != 3 {
		t.Errorf("Check() after lockout = %+v, want fresh allowance", d)
	}
	d, err = store.RecordFailure(ctx, "owner@spa.test")
	if err != nil {
		t.Fatalf("RecordFailure() after lockout error = %v", err)
	}
	if !d.Allowed || d.Remaining != 2 {
		t.Errorf("RecordFailure() after lockout = %+v, want new window", d)
	}
}

func TestStore_Clear(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, testPolicy)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i := 0; i < 2; i++ {
		if _, err := store.RecordFailure(ctx, "owner@spa.test"); err != nil {
			t.Fatalf("RecordFailure() error = %v", err)
		}
	}
	if err := store.Clear(ctx, "owner@spa.test"); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	d, _ := store.Check(ctx, "owner@spa.test")
	if d.Remaining != 3 {
		t.Errorf("Remaining after Clear = %d, want 3", d.Remaining)
	}
}
