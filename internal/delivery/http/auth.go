package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
)

const RoleAdmin = "admin"

// Actor is the authenticated caller taken from the bearer token.
type Actor struct {
	UserID string
	Role   string
	Email  string
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

type actorKey struct{}

func withActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

func actorFromContext(ctx context.Context) Actor {
	a, _ := ctx.Value(actorKey{}).(Actor)
	return a
}

type claims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// authMiddleware accepts HS256 bearer tokens; sub is the user id and may not
// impersonate the scheduler actor.
func authMiddleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token", "")
				return
			}

			var c claims
			token, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return secret, nil
			}, jwt.WithExpirationRequired())
			if err != nil || !token.Valid || c.Subject == "" || c.Subject == domain.SystemActor {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token", "")
				return
			}

			actor := Actor{UserID: c.Subject, Role: c.Role, Email: c.Email}
			next.ServeHTTP(w, r.WithContext(withActor(r.Context(), actor)))
		})
	}
}

func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !actorFromContext(r.Context()).IsAdmin() {
			writeError(w, r, http.StatusForbidden, "ADMIN_ONLY", "admin role required", "")
			return
		}
		next.ServeHTTP(w, r)
	})
}
