// Package validate sanitizes and checks the free-text form fields that
// reach the ticket and worker endpoints: model years, Saudi mobile numbers
// and plate numbers. Invalid input is rejected at this boundary and never
// reaches the pricing or reporting code.
package validate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// Model years older than this many years are assumed to be typos.
	yearLookback = 70

	countryCodePrefix = "+966"
	localTrunkPrefix  = "0"
)

var (
	digitsRe      = regexp.MustCompile(`\D`)
	yearRe        = regexp.MustCompile(`^\d{4}$`)
	localMobileRe = regexp.MustCompile(`^05[0-9]{8}$`)
	plateNumberRe = regexp.MustCompile(`^\d{1,4}$`)
)

// SanitizeYear keeps digits only and truncates to four characters.
func SanitizeYear(s string) string {
	out := digitsRe.ReplaceAllString(s, "")
	if len(out) > 4 {
		out = out[:4]
	}
	return out
}

// ValidYear requires exactly four digits within [now-70, now+1].
func ValidYear(s string, now time.Time) bool {
	if !yearRe.MatchString(s) {
		return false
	}
	y, err := strconv.Atoi(s)
	if err != nil {
		return false
	}
	return y >= now.Year()-yearLookback && y <= now.Year()+1
}

// NormalizePhone rewrites a leading +966 country code to the local trunk
// prefix, strips every non-digit and truncates to ten digits.
func NormalizePhone(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, countryCodePrefix) {
		s = localTrunkPrefix + s[len(countryCodePrefix):]
	}
	out := digitsRe.ReplaceAllString(s, "")
	if len(out) > 10 {
		out = out[:10]
	}
	return out
}

// ValidLocalMobile requires the local pattern 05 followed by eight digits.
func ValidLocalMobile(s string) bool {
	return localMobileRe.MatchString(s)
}

// NormalizePlateNumber keeps digits only, up to four.
func NormalizePlateNumber(s string) string {
	out := digitsRe.ReplaceAllString(s, "")
	if len(out) > 4 {
		out = out[:4]
	}
	return out
}

// ValidPlateNumber requires one to four digits.
func ValidPlateNumber(s string) bool {
	return plateNumberRe.MatchString(s)
}
