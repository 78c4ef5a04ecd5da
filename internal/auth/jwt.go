package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Badge number 1 is the manager sentinel alongside the position strings.
const managerBadgeNumber = 1

// RoleFor derives the session role from a worker record: badge 1 or a
// manager/admin position means manager, everything else is employee.
func RoleFor(badgeNumber *int64, position string) Role {
	if badgeNumber != nil && *badgeNumber == managerBadgeNumber {
		return RoleManager
	}
	switch strings.ToLower(strings.TrimSpace(position)) {
	case "manager", "admin":
		return RoleManager
	}
	return RoleEmployee
}

type Claims struct {
	WorkerID int64  `json:"workerId"`
	Role     Role   `json:"role"`
	Name     string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

func GenerateAccessToken(secret string, workerID int64, role Role, name string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret not configured")
	}
	now := time.Now()
	claims := Claims{
		WorkerID: workerID,
		Role:     role,
		Name:     name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func ParseBearerToken(authHeader string) string {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func VerifyAccessToken(tokenString string, secret string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("token required")
	}

	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	_, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(time.Now()) {
		return nil, errors.New("token expired")
	}
	return claims, nil
}
