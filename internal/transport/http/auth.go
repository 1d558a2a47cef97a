package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kazak5205/mebelplace-sub005/internal/domain"
)

// Principal is the authenticated caller extracted from a bearer token.
type Principal struct {
	UserID string
	Role   domain.Role
}

type principalKey struct{}

func principalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// ContextWithPrincipal is used by tests to bypass token parsing.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

type authClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Auth verifies the HS256 bearer token and stores the caller's identity and
// role in the request context. Marketplace tokens carry the wire roles
// "user" (buyer), "master" (seller) and "admin".
func Auth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				writeError(w, http.StatusUnauthorized, codeUnauthenticated, "missing bearer token")
				return
			}

			claims := &authClaims{}
			parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
				return secret, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !parsed.Valid {
				writeError(w, http.StatusUnauthorized, codeUnauthenticated, "invalid token")
				return
			}

			role, ok := roleFromClaim(claims.Role)
			if !ok || claims.Subject == "" {
				writeError(w, http.StatusUnauthorized, codeUnauthenticated, "invalid token claims")
				return
			}

			ctx := ContextWithPrincipal(r.Context(), Principal{
				UserID: claims.Subject,
				Role:   role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func roleFromClaim(claim string) (domain.Role, bool) {
	switch claim {
	case "user":
		return domain.RoleBuyer, true
	case "master":
		return domain.RoleSeller, true
	case "admin":
		return domain.RoleAdmin, true
	default:
		return "", false
	}
}

// RequireRole rejects callers whose role is not in the allow-list before the
// request reaches the lifecycle engine.
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := principalFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, codeUnauthenticated, "missing bearer token")
				return
			}
			if _, ok := allowed[p.Role]; !ok {
				writeError(w, http.StatusForbidden, codeUnauthorized, "role not allowed for this action")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
