package model

import (
	"strings"
	"time"
)

// Participant is one enrolled identity. The record is created exactly
// once, when a valid contact share is accepted, and the coupon code
// never changes afterwards.
type Participant struct {
	ID         int64     `db:"participant_id"`
	Phone      string    `db:"phone"`
	FirstName  string    `db:"first_name"`
	LastName   string    `db:"last_name"`
	Username   string    `db:"username"`
	EnrolledAt time.Time `db:"enrolled_at"`
	CouponCode string    `db:"coupon_code"`
}

// DisplayName joins the participant's first and last name.
func (p Participant) DisplayName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return "—"
	}
	return name
}

// NormalizePhone converts a shared phone number to +-prefixed
// international form, stripping spaces, dashes and parentheses.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}
	return "+" + digits
}
