package model

import "testing"

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"79990001122", "+79990001122"},
		{"+7 999 000-11-22", "+79990001122"},
		{"8 (495) 123 45 67", "+84951234567"},
		{"+1-202-555-0100", "+12025550100"},
		{"", ""},
		{"abc", ""},
	}
	for _, tc := range cases {
		if got := NormalizePhone(tc.in); got != tc.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	p := Participant{FirstName: "Ann", LastName: "Lee"}
	if got := p.DisplayName(); got != "Ann Lee" {
		t.Errorf("DisplayName = %q", got)
	}
	if got := (Participant{}).DisplayName(); got != "—" {
		t.Errorf("empty DisplayName = %q", got)
	}
}
