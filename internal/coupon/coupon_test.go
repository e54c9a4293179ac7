package coupon

import "testing"

func TestIssueDerivation(t *testing.T) {
	iss := Issuer{Prefix: "PIT", Discount: 15}

	cases := []struct {
		id   int64
		want string
	}{
		{423, "PIT-0423-15"},
		{10423, "PIT-0423-15"}, // collision mod 10000, accepted
		{0, "PIT-0000-15"},
		{9999, "PIT-9999-15"},
		{123456789, "PIT-6789-15"},
	}
	for _, tc := range cases {
		if got := iss.Issue(tc.id); got != tc.want {
			t.Errorf("Issue(%d) = %q, want %q", tc.id, got, tc.want)
		}
	}
}

func TestIssueStable(t *testing.T) {
	iss := Issuer{Prefix: "PROMO", Discount: 20}
	first := iss.Issue(42)
	for i := 0; i < 3; i++ {
		if got := iss.Issue(42); got != first {
			t.Fatalf("Issue must be deterministic, got %q then %q", first, got)
		}
	}
	if first != "PROMO-0042-20" {
		t.Fatalf("unexpected code %q", first)
	}
}
