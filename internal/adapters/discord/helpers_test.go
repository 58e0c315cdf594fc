package discord

import "testing"

func TestParseUserID(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"123456789012345678", "123456789012345678", true},
		{"<@123456789012345678>", "123456789012345678", true},
		{"<@!123456789012345678>", "123456789012345678", true},
		{"  42  ", "42", true},
		{"", "", false},
		{"abc", "", false},
		{"12a34", "", false},
		{"<@abc>", "", false},
		{"<@123", "", false},
		{"@everyone", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseUserID(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseUserID(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestFmtEpochDate(t *testing.T) {
	// 2026-08-24T12:00:00Z
	if got := fmtEpochDate(1787572800); got != "2026-08-24" {
		t.Fatalf("fmtEpochDate = %q", got)
	}
}
