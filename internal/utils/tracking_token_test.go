package utils

import "testing"

func TestTicketTrackingTokenRoundTrip(t *testing.T) {
	secret := "test-secret"
	token := CreateTicketTrackingToken(secret, 42, "0512345678")

	if !VerifyTicketTrackingToken(secret, token, 42, "0512345678") {
		t.Fatal("expected token to verify")
	}
	if VerifyTicketTrackingToken(secret, token, 43, "0512345678") {
		t.Error("token verified for a different ticket")
	}
	if VerifyTicketTrackingToken(secret, token, 42, "0587654321") {
		t.Error("token verified for a different phone")
	}
	if VerifyTicketTrackingToken("other-secret", token, 42, "0512345678") {
		t.Error("token verified with the wrong secret")
	}
}

func TestTicketTrackingTokenMalformed(t *testing.T) {
	for _, token := range []string{"", "abc", "a.b.c", "!!!.???"} {
		if VerifyTicketTrackingToken("s", token, 1, "0512345678") {
			t.Errorf("malformed token %q verified", token)
		}
	}
}
