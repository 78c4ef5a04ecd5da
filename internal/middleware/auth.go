package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"workshop-backoffice-service/internal/auth"
)

type contextKey string

const authContextKey contextKey = "authContext"

type AuthContext struct {
	WorkerID int64
	Role     auth.Role
	Name     string
}

func WithAuthContext(ctx context.Context, authCtx *AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey, authCtx)
}

func GetAuthContext(ctx context.Context) (*AuthContext, bool) {
	value := ctx.Value(authContextKey)
	if value == nil {
		return nil, false
	}
	ac, ok := value.(*AuthContext)
	return ac, ok
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   "UNAUTHORIZED",
		"message": message,
	})
}

// WorkerAuth verifies the bearer token and confirms the worker row is
// still active. Deactivating a worker invalidates outstanding tokens on
// their next request.
func WorkerAuth(db *pgxpool.Pool, jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.ParseBearerToken(r.Header.Get("Authorization"))
			claims, err := auth.VerifyAccessToken(token, jwtSecret)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "Authorization token required")
				return
			}

			var active bool
			err = db.QueryRow(r.Context(), `select active from workers where id = $1`, claims.WorkerID).Scan(&active)
			if err != nil || !active {
				writeAuthError(w, http.StatusUnauthorized, "Worker account is not active")
				return
			}

			ctx := WithAuthContext(r.Context(), &AuthContext{
				WorkerID: claims.WorkerID,
				Role:     claims.Role,
				Name:     claims.Name,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ManagerOnly gates administrative routes. It must run inside WorkerAuth.
func ManagerOnly() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authCtx, ok := GetAuthContext(r.Context())
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "Authorization token required")
				return
			}
			if authCtx.Role != auth.RoleManager {
				writeAuthError(w, http.StatusForbidden, "Manager access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
