// Package money holds the pricing arithmetic shared by ticket creation,
// editing and reporting. Everything here is a pure function of its inputs;
// persistence and session state stay out.
package money

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const DefaultTaxRate = 0.15

// DefaultNetworkMarkers are the payment-method literals treated as a
// card/network transaction. "شبكة" is what the POS screens send.
var DefaultNetworkMarkers = []string{"شبكة", "network"}

var nonNumericRe = regexp.MustCompile(`[^0-9.]`)

// ToNumber converts operator input into a usable amount. Every character
// except digits and the decimal point is dropped; anything that still does
// not parse as a finite number becomes 0. It never fails.
func ToNumber(raw string) float64 {
	s := nonNumericRe.ReplaceAllString(raw, "")
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

// Round2 rounds half-up to two decimal places.
func Round2(n float64) float64 {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return math.Round(n*100) / 100
}

// ClampPercent bounds a percentage to [0, 100].
func ClampPercent(n float64) float64 {
	return math.Min(math.Max(n, 0), 100)
}

// ClampToTotal bounds an absolute discount to [0, total].
func ClampToTotal(amount, total float64) float64 {
	return math.Min(math.Max(amount, 0), math.Max(total, 0))
}

// IsNetworkPayment reports whether the payment method denotes a
// card/network transaction. Matching is trimmed and case-insensitive
// against the configured marker literals.
func IsNetworkPayment(method string, markers []string) bool {
	if len(markers) == 0 {
		markers = DefaultNetworkMarkers
	}
	m := strings.ToLower(strings.TrimSpace(method))
	if m == "" {
		return false
	}
	for _, marker := range markers {
		if m == strings.ToLower(strings.TrimSpace(marker)) {
			return true
		}
	}
	return false
}
