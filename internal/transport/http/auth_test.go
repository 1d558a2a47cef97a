package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kazak5205/mebelplace-sub005/internal/domain"
)

func authedProbe(t *testing.T) (http.Handler, *Principal) {
	t.Helper()
	var seen Principal
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := principalFromContext(r.Context())
		if !ok {
			t.Fatal("expected principal in context")
		}
		seen = p
		w.WriteHeader(http.StatusOK)
	})
	return Auth(testSecret)(inner), &seen
}

func TestAuth_ValidToken(t *testing.T) {
	t.Parallel()

	handler, seen := authedProbe(t)

	req := httptest.NewRequest(http.MethodGet, "/orders/my", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "user-42", "master"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen.UserID != "user-42" || seen.Role != domain.RoleSeller {
		t.Fatalf("unexpected principal: %+v", *seen)
	}
}

func TestAuth_RejectsBadTokens(t *testing.T) {
	t.Parallel()

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, authClaims{
		Role: "user",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	expiredToken, err := expired.SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	wrongKey := jwt.NewWithClaims(jwt.SigningMethodHS256, authClaims{
		Role: "user",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	wrongKeyToken, err := wrongKey.SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"empty token", "Bearer "},
		{"garbage token", "Bearer not-a-token"},
		{"expired", "Bearer " + expiredToken},
		{"wrong key", "Bearer " + wrongKeyToken},
		{"unknown role", "Bearer " + signToken(t, "user-1", "superuser")},
		{"missing subject", "Bearer " + signToken(t, "", "user")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				t.Fatal("handler must not run")
			}))

			req := httptest.NewRequest(http.MethodGet, "/orders/my", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestAuth_RejectsUnsignedAlg(t *testing.T) {
	t.Parallel()

	token := jwt.NewWithClaims(jwt.SigningMethodNone, authClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	handler := Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/orders/my", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for alg=none, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireRole(domain.RoleBuyer, domain.RoleAdmin)(inner)

	t.Run("allowed role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/orders/order-1/pay", nil)
		req = req.WithContext(ContextWithPrincipal(req.Context(), Principal{UserID: "buyer-1", Role: domain.RoleBuyer}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("disallowed role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/orders/order-1/pay", nil)
		req = req.WithContext(ContextWithPrincipal(req.Context(), Principal{UserID: "seller-1", Role: domain.RoleSeller}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("no principal", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/orders/order-1/pay", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
