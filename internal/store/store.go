// Package store persists enrolled participants.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/promobot/core/logger"
	"github.com/m3rciful/promobot/internal/model"
)

// ErrAlreadyEnrolled signals that the participant identity already holds
// a record. It is not a failure: the caller shows the existing coupon.
var ErrAlreadyEnrolled = errors.New("store: participant already enrolled")

// EnrollmentStore provides one-record-per-participant persistence.
type EnrollmentStore struct {
	db *sqlx.DB
}

// NewEnrollmentStore wraps an open database handle.
func NewEnrollmentStore(db *sqlx.DB) *EnrollmentStore {
	return &EnrollmentStore{db: db}
}

// IsEnrolled reports whether a record exists for the identity.
// Storage failures are returned as errors, never as "not enrolled".
func (s *EnrollmentStore) IsEnrolled(ctx context.Context, participantID int64) (bool, error) {
	var one int
	err := s.db.GetContext(ctx, &one,
		`SELECT 1 FROM participants WHERE participant_id = ?`, participantID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	default:
		logger.DB.Error("enrollment lookup failed",
			slog.String("event", "query.fail"),
			slog.Int64("user_id", participantID),
			slog.String("err", err.Error()),
		)
		return false, fmt.Errorf("store: is_enrolled: %w", err)
	}
}

// Enroll inserts the participant record. The insert is idempotent on
// identity: if a record already exists the write is a no-op and
// ErrAlreadyEnrolled is returned, keeping the first coupon intact even
// when two shares from the same identity race.
func (s *EnrollmentStore) Enroll(ctx context.Context, p model.Participant) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO participants
		   (participant_id, phone, first_name, last_name, username, enrolled_at, coupon_code)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(participant_id) DO NOTHING`,
		p.ID, p.Phone, p.FirstName, p.LastName, p.Username, p.EnrolledAt, p.CouponCode)
	if err != nil {
		logger.DB.Error("enrollment insert failed",
			slog.String("event", "insert.fail"),
			slog.Int64("user_id", p.ID),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("store: enroll: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: enroll: rows affected: %w", err)
	}
	if affected == 0 {
		return ErrAlreadyEnrolled
	}
	return nil
}

// CouponFor returns the stored coupon code for the identity.
// The second return value is false when no record exists.
func (s *EnrollmentStore) CouponFor(ctx context.Context, participantID int64) (string, bool, error) {
	var code string
	err := s.db.GetContext(ctx, &code,
		`SELECT coupon_code FROM participants WHERE participant_id = ?`, participantID)
	switch {
	case err == nil:
		return code, true, nil
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	default:
		return "", false, fmt.Errorf("store: coupon_for: %w", err)
	}
}

// Count returns the total number of enrolled participants.
func (s *EnrollmentStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM participants`); err != nil {
		return 0, fmt.Errorf("store: count: %w", err)
	}
	return n, nil
}

// AllIDs returns a snapshot of every enrolled identity, used to size
// and drive a broadcast fan-out. Later enrollments are not tracked
// mid-broadcast.
func (s *EnrollmentStore) AllIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := s.db.SelectContext(ctx, &ids,
		`SELECT participant_id FROM participants ORDER BY enrolled_at`); err != nil {
		return nil, fmt.Errorf("store: all_ids: %w", err)
	}
	return ids, nil
}
