package auth

import (
	"testing"
	"time"
)

func badge(v int64) *int64 { return &v }

func TestRoleFor(t *testing.T) {
	cases := []struct {
		name     string
		badge    *int64
		position string
		expected Role
	}{
		{name: "badge one is manager", badge: badge(1), position: "mechanic", expected: RoleManager},
		{name: "manager position", badge: badge(12), position: "Manager", expected: RoleManager},
		{name: "admin position", badge: nil, position: " ADMIN ", expected: RoleManager},
		{name: "plain employee", badge: badge(7), position: "mechanic", expected: RoleEmployee},
		{name: "no badge no position", badge: nil, position: "", expected: RoleEmployee},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RoleFor(tc.badge, tc.position); got != tc.expected {
				t.Fatalf("expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestTokenRoundTrip(t *testing.T) {
	secret := "test-secret"
	token, err := GenerateAccessToken(secret, 42, RoleManager, "Ahmed", time.Hour)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := VerifyAccessToken(token, secret)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.WorkerID != 42 || claims.Role != RoleManager || claims.Name != "Ahmed" {
		t.Fatalf("unexpected claims %+v", claims)
	}

	if _, err := VerifyAccessToken(token, "other-secret"); err == nil {
		t.Fatal("expected verification failure with wrong secret")
	}
}

func TestParseBearerToken(t *testing.T) {
	if got := ParseBearerToken("Bearer abc.def"); got != "abc.def" {
		t.Fatalf("unexpected token %q", got)
	}
	if got := ParseBearerToken("abc.def"); got != "" {
		t.Fatalf("expected empty token, got %q", got)
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if err := CheckPassword(hash, "s3cret"); err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch")
	}
	if err := CheckPassword("s3cret", "s3cret"); err != ErrLegacyCredential {
		t.Fatalf("expected legacy credential rejection, got %v", err)
	}
}
