package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strconv"
	"strings"
)

func base64UrlEncode(input []byte) string {
	return strings.TrimRight(base64.URLEncoding.EncodeToString(input), "=")
}

func base64UrlDecode(input string) ([]byte, error) {
	padded := input
	if m := len(input) % 4; m != 0 {
		padded += strings.Repeat("=", 4-m)
	}
	return base64.URLEncoding.DecodeString(padded)
}

// CreateTicketTrackingToken builds an unauthenticated status-check token
// bound to a ticket id and the customer phone it was issued for.
func CreateTicketTrackingToken(secret string, ticketID int64, customerPhone string) string {
	payload := strconv.FormatInt(ticketID, 10) + ":" + customerPhone
	payloadB64 := base64UrlEncode([]byte(payload))
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payloadB64))
	return payloadB64 + "." + base64UrlEncode(mac.Sum(nil))
}

func VerifyTicketTrackingToken(secret, token string, ticketID int64, customerPhone string) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return false
	}
	payloadB64 := parts[0]

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payloadB64))
	expected := mac.Sum(nil)

	actual, err := base64UrlDecode(parts[1])
	if err != nil {
		return false
	}
	if len(actual) != len(expected) || !hmac.Equal(actual, expected) {
		return false
	}

	payloadRaw, err := base64UrlDecode(payloadB64)
	if err != nil {
		return false
	}
	return string(payloadRaw) == strconv.FormatInt(ticketID, 10)+":"+customerPhone
}
