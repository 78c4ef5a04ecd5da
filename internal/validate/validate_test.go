package validate

import (
	"testing"
	"time"
)

var now = time.Date(2025, time.May, 15, 12, 0, 0, 0, time.UTC)

func TestSanitizeYear(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"2019", "2019"},
		{"20 19x", "2019"},
		{"201988", "2019"},
		{"abc", ""},
	}
	for _, tc := range cases {
		if got := SanitizeYear(tc.in); got != tc.expected {
			t.Fatalf("SanitizeYear(%q): expected %q, got %q", tc.in, tc.expected, got)
		}
	}
}

func TestValidYear(t *testing.T) {
	cases := []struct {
		in       string
		expected bool
	}{
		{"2025", true},
		{"2026", true},  // next model year
		{"2027", false}, // too far out
		{"1955", true},  // exactly 70 years back
		{"1954", false},
		{"95", false},
		{"20a5", false},
	}
	for _, tc := range cases {
		if got := ValidYear(tc.in, now); got != tc.expected {
			t.Fatalf("ValidYear(%q): expected %v, got %v", tc.in, tc.expected, got)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"+966512345678", "0512345678"},
		{"0512345678", "0512345678"},
		{"05 1234-5678", "0512345678"},
		{"05123456789999", "0512345678"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizePhone(tc.in); got != tc.expected {
			t.Fatalf("NormalizePhone(%q): expected %q, got %q", tc.in, tc.expected, got)
		}
	}
}

func TestValidLocalMobile(t *testing.T) {
	cases := []struct {
		in       string
		expected bool
	}{
		{"0512345678", true},
		{"0412345678", false}, // wrong prefix
		{"051234567", false},  // nine digits
		{"05123456789", false},
		{"+966512345678", false}, // must be normalized first
	}
	for _, tc := range cases {
		if got := ValidLocalMobile(tc.in); got != tc.expected {
			t.Fatalf("ValidLocalMobile(%q): expected %v, got %v", tc.in, tc.expected, got)
		}
	}
}

func TestPlateNumber(t *testing.T) {
	if got := NormalizePlateNumber("أ ب 12345"); got != "1234" {
		t.Fatalf("expected 1234, got %q", got)
	}
	if !ValidPlateNumber("7") || !ValidPlateNumber("1234") {
		t.Fatal("expected 1-4 digit plates to validate")
	}
	if ValidPlateNumber("") || ValidPlateNumber("12345") || ValidPlateNumber("12a") {
		t.Fatal("expected invalid plates to fail")
	}
}
