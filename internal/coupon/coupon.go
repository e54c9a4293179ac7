// Package coupon derives campaign coupon codes from participant identity.
package coupon

import "fmt"

// Issuer derives coupon codes of the form PREFIX-NNNN-DISCOUNT.
//
// Derivation is deterministic so a code can be re-derived for
// diagnostics. It is not collision-free: two identities congruent
// modulo 10000 share a code.
type Issuer struct {
	Prefix   string
	Discount int
}

// Issue returns the coupon code for the given participant identity.
func (i Issuer) Issue(participantID int64) string {
	suffix := participantID % 10000
	if suffix < 0 {
		suffix = -suffix
	}
	return fmt.Sprintf("%s-%04d-%d", i.Prefix, suffix, i.Discount)
}
