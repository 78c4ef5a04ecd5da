package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"workshop-backoffice-service/internal/money"
)

func zapError(err error) zap.Field {
	return zap.Error(err)
}

func readPathString(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

func readPathInt64(r *http.Request, key string) (int64, error) {
	value := readPathString(r, key)
	if value == "" {
		return 0, errMissingParam
	}
	var out int64
	_, err := fmt.Sscan(value, &out)
	return out, err
}

var errMissingParam = errors.New("missing param")

// numberFromAny accepts the loose amount encodings clients send: JSON
// numbers, numeric strings, strings with currency noise. Everything else
// is zero.
func numberFromAny(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		return money.ToNumber(v)
	default:
		return 0
	}
}

func stringFromAny(value any) string {
	s, _ := value.(string)
	return strings.TrimSpace(s)
}

func boolFromAny(value any) bool {
	b, _ := value.(bool)
	return b
}

func optionalString(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	trimmed := strings.TrimSpace(s)
	return &trimmed
}
