package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/m3rciful/promobot/internal/model"
)

const schema = `
CREATE TABLE participants (
    participant_id INTEGER PRIMARY KEY,
    phone          TEXT NOT NULL,
    first_name     TEXT NOT NULL DEFAULT '',
    last_name      TEXT NOT NULL DEFAULT '',
    username       TEXT NOT NULL DEFAULT '',
    enrolled_at    TIMESTAMP NOT NULL,
    coupon_code    TEXT NOT NULL
);`

func newTestStore(t *testing.T) *EnrollmentStore {
	t.Helper()
	db, err := sqlx.Connect("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return NewEnrollmentStore(db)
}

func sample(id int64) model.Participant {
	return model.Participant{
		ID:         id,
		Phone:      "+79990001122",
		FirstName:  "Ann",
		Username:   "ann",
		EnrolledAt: time.Now().UTC(),
		CouponCode: "PIT-0042-15",
	}
}

func TestEnrollOnce(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	enrolled, err := s.IsEnrolled(ctx, 42)
	if err != nil {
		t.Fatalf("is_enrolled: %v", err)
	}
	if enrolled {
		t.Fatal("fresh identity must not be enrolled")
	}

	if err := s.Enroll(ctx, sample(42)); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	enrolled, err = s.IsEnrolled(ctx, 42)
	if err != nil {
		t.Fatalf("is_enrolled after enroll: %v", err)
	}
	if !enrolled {
		t.Fatal("identity must be enrolled after insert")
	}
}

func TestEnrollIdempotentOnIdentity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := sample(7)
	first.CouponCode = "PIT-0007-15"
	if err := s.Enroll(ctx, first); err != nil {
		t.Fatalf("first enroll: %v", err)
	}

	replay := sample(7)
	replay.CouponCode = "PIT-9999-15"
	replay.Phone = "+70000000000"
	err := s.Enroll(ctx, replay)
	if !errors.Is(err, ErrAlreadyEnrolled) {
		t.Fatalf("replay enroll err = %v, expected ErrAlreadyEnrolled", err)
	}

	code, ok, err := s.CouponFor(ctx, 7)
	if err != nil {
		t.Fatalf("coupon_for: %v", err)
	}
	if !ok || code != "PIT-0007-15" {
		t.Fatalf("coupon = %q ok=%v, the first write must win", code, ok)
	}
}

func TestCouponForMissing(t *testing.T) {
	s := newTestStore(t)

	code, ok, err := s.CouponFor(context.Background(), 1)
	if err != nil {
		t.Fatalf("coupon_for: %v", err)
	}
	if ok || code != "" {
		t.Fatalf("coupon = %q ok=%v for missing identity", code, ok)
	}
}

func TestCountAndAllIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []int64{3, 1, 2} {
		p := sample(id)
		p.EnrolledAt = time.Date(2026, 1, int(id), 0, 0, 0, 0, time.UTC)
		if err := s.Enroll(ctx, p); err != nil {
			t.Fatalf("enroll %d: %v", id, err)
		}
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 3 {
		t.Fatalf("count = %d, expected 3", n)
	}

	ids, err := s.AllIDs(ctx)
	if err != nil {
		t.Fatalf("all_ids: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("all_ids len = %d", len(ids))
	}
	if ids[0] != 1 || ids[1] != 2 || ids[2] != 3 {
		t.Fatalf("all_ids order = %v, expected enrollment order", ids)
	}
}
