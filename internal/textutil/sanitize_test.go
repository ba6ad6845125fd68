package textutil

import (
	"strings"
	"testing"
)

func TestSanitizeToken(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"judy/q101/0002.vo", "judy_q101_0002_vo"},
		{"V/Q101/0001.VO", "v_q101_0001_vo"},
		{"  spaced out  ", "spaced_out"},
		{"", "unknown"},
		{"///", "unknown"},
		{"keep-dash_under", "keep-dash_under"},
	}
	for _, tc := range cases {
		if got := SanitizeToken(tc.in); got != tc.want {
			t.Errorf("SanitizeToken(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFileTokenDistinguishesCollapsedNames(t *testing.T) {
	a := FileToken("a/b/c.d.vo")
	b := FileToken("a/b/c_d.vo")
	if a == b {
		t.Fatalf("collapsed names must stay distinct, both %q", a)
	}
	if !strings.HasPrefix(a, "a_b_c_d_vo_") || !strings.HasPrefix(b, "a_b_c_d_vo_") {
		t.Fatalf("tokens: %q %q", a, b)
	}
	if a != FileToken("a/b/c.d.vo") {
		t.Fatal("token must be deterministic")
	}
}
