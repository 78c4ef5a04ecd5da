package handlers

import "testing"

func TestNumberFromAny(t *testing.T) {
	cases := []struct {
		name     string
		input    any
		expected float64
	}{
		{name: "json number", input: float64(115.5), expected: 115.5},
		{name: "numeric string", input: "115.5", expected: 115.5},
		{name: "string with currency noise", input: "SAR 1,150", expected: 1150},
		{name: "empty string", input: "", expected: 0},
		{name: "nil", input: nil, expected: 0},
		{name: "bool", input: true, expected: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := numberFromAny(tc.input); got != tc.expected {
				t.Fatalf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{input: "WS-000007", expected: "WS-000007"},
		{input: "a/b\\c", expected: "a_b_c"},
		{input: "invoice 7.pdf", expected: "invoice_7.pdf"},
	}

	for _, tc := range cases {
		if got := sanitizeFilename(tc.input); got != tc.expected {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestOptionalString(t *testing.T) {
	if optionalString("  ") != nil {
		t.Error("blank string should map to nil")
	}
	if got := optionalString(" x "); got == nil || *got != "x" {
		t.Errorf("expected trimmed pointer, got %v", got)
	}
}
