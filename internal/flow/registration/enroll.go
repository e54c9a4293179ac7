package registration

import (
	"context"
	"errors"
	"time"

	"github.com/m3rciful/promobot/internal/coupon"
	"github.com/m3rciful/promobot/internal/model"
	"github.com/m3rciful/promobot/internal/store"
)

// LeadSink mirrors enrollments into an external destination, best-effort.
type LeadSink interface {
	Record(ctx context.Context, p model.Participant) bool
	Connected() bool
}

// Lead carries the fields extracted from a verified contact share.
type Lead struct {
	ParticipantID int64
	Phone         string
	FirstName     string
	LastName      string
	Username      string
}

// Outcome describes one enrollment attempt.
type Outcome struct {
	Coupon string
	// Already is true when the identity had a record; Coupon then holds
	// the previously issued code.
	Already bool
	// SinkOK reports whether the mirror write succeeded. False never
	// blocks enrollment.
	SinkOK bool
	// Total is the participant count after this attempt.
	Total int64
}

// Enroller owns the terminal step of the registration flow: phone
// normalization, coupon derivation, the atomic store write, and the
// best-effort mirror.
type Enroller struct {
	Store  *store.EnrollmentStore
	Sink   LeadSink
	Issuer coupon.Issuer
}

// Enroll persists the lead exactly once. Replays return the stored
// coupon with Already set. Any storage error aborts the attempt; the
// caller must not show a coupon.
func (e *Enroller) Enroll(ctx context.Context, lead Lead) (Outcome, error) {
	p := model.Participant{
		ID:         lead.ParticipantID,
		Phone:      model.NormalizePhone(lead.Phone),
		FirstName:  lead.FirstName,
		LastName:   lead.LastName,
		Username:   lead.Username,
		EnrolledAt: time.Now().UTC(),
		CouponCode: e.Issuer.Issue(lead.ParticipantID),
	}

	err := e.Store.Enroll(ctx, p)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrAlreadyEnrolled):
		code, ok, lookupErr := e.Store.CouponFor(ctx, lead.ParticipantID)
		if lookupErr != nil {
			return Outcome{}, lookupErr
		}
		if !ok {
			// Record vanished between the conflict and the lookup;
			// treat as storage failure rather than guessing a code.
			return Outcome{}, store.ErrAlreadyEnrolled
		}
		return Outcome{Coupon: code, Already: true}, nil
	default:
		return Outcome{}, err
	}

	sinkOK := false
	if e.Sink != nil {
		sinkOK = e.Sink.Record(ctx, p)
	}

	total, err := e.Store.Count(ctx)
	if err != nil {
		// Enrollment itself succeeded; the count is reporting only.
		total = 0
	}

	return Outcome{Coupon: p.CouponCode, SinkOK: sinkOK, Total: total}, nil
}
