package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestVerifierExtractsSubject(t *testing.T) {
	v := NewVerifier("secret")
	token := sign(t, "secret", jwt.MapClaims{"sub": "user-1", "exp": time.Now().Add(time.Hour).Unix()})
	got, err := v.UserID(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if got != "user-1" {
		t.Fatalf("subject = %q, want user-1", got)
	}
}

func TestVerifierRejects(t *testing.T) {
	v := NewVerifier("secret")
	cases := []struct {
		name  string
		token string
	}{
		{"wrong secret", sign(t, "other", jwt.MapClaims{"sub": "u", "exp": time.Now().Add(time.Hour).Unix()})},
		{"expired", sign(t, "secret", jwt.MapClaims{"sub": "u", "exp": time.Now().Add(-time.Hour).Unix()})},
		{"no subject", sign(t, "secret", jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})},
		{"garbage", "not.a.token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := v.UserID(tc.token); err == nil {
				t.Fatal("expected verification failure")
			}
		})
	}
}

func TestVerifierRejectsUnsignedAlg(t *testing.T) {
	v := NewVerifier("secret")
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "u"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := v.UserID(token); err == nil {
		t.Fatal("alg=none token must be rejected")
	}
}

func TestMiddlewareStoresIdentity(t *testing.T) {
	v := NewVerifier("secret")
	var seen string
	h := v.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserIDFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+sign(t, "secret", jwt.MapClaims{"sub": "user-9", "exp": time.Now().Add(time.Hour).Unix()}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if seen != "user-9" {
		t.Fatalf("context identity = %q, want user-9", seen)
	}
}

func TestMiddlewareRejectsMissingHeader(t *testing.T) {
	v := NewVerifier("secret")
	h := v.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestCronMiddleware(t *testing.T) {
	ok := false
	h := CronMiddleware("s3cret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { ok = true }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusUnauthorized || ok {
		t.Fatalf("missing secret: status = %d, handler ran = %v", rec.Code, ok)
	}

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !ok {
		t.Fatalf("valid secret: status = %d, handler ran = %v", rec.Code, ok)
	}
}

func TestCronMiddlewareEmptySecretLocksEndpoint(t *testing.T) {
	h := CronMiddleware("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with empty secret")
	}))
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer ")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
