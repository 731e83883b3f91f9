package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/grand-thief-cash/focusboard/internal/auth"
	"github.com/grand-thief-cash/focusboard/internal/service"
)

type stubSweepOps struct {
	userRes   *service.SweepResult
	globalRes int64
	err       error
	userCalls []string
}

func (s *stubSweepOps) RunForUser(ctx context.Context, userID string) (*service.SweepResult, error) {
	s.userCalls = append(s.userCalls, userID)
	return s.userRes, s.err
}
func (s *stubSweepOps) RunGlobal(ctx context.Context) (int64, error) {
	return s.globalRes, s.err
}

func signToken(t *testing.T, secret, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func fullRouter(t *testing.T, sweep SweepOps) http.Handler {
	t.Helper()
	r := chi.NewRouter()
	register := Routes(
		auth.NewVerifier("test-secret"),
		"cron-secret",
		NewTaskController(&stubTaskOps{}),
		NewCategoryController(&stubCategoryOps{}),
		NewSweepController(sweep),
	)
	if err := register(r); err != nil {
		t.Fatalf("register routes: %v", err)
	}
	return r
}

func TestAPIRequiresBearerToken(t *testing.T) {
	h := fullRouter(t, &stubSweepOps{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/tasks/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "wrong-secret", "u1"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("forged token: status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/tasks/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", "u1"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid token: status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
}

func TestDailyResetUsesTokenIdentity(t *testing.T) {
	sweep := &stubSweepOps{userRes: &service.SweepResult{Rows: 2}}
	h := fullRouter(t, sweep)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks/daily-reset", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", "user-42"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	if len(sweep.userCalls) != 1 || sweep.userCalls[0] != "user-42" {
		t.Fatalf("sweep called with %v, want [user-42]", sweep.userCalls)
	}
}

func TestCronEndpointGuardedBySecret(t *testing.T) {
	sweep := &stubSweepOps{globalRes: 7}
	h := fullRouter(t, sweep)

	req := httptest.NewRequest(http.MethodPost, "/cron/daily-reset", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no secret: status = %d, want 401", rec.Code)
	}

	// a user JWT is not a cron credential
	req = httptest.NewRequest(http.MethodPost, "/cron/daily-reset", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", "u1"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("jwt on cron route: status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/cron/daily-reset", nil)
	req.Header.Set("Authorization", "Bearer cron-secret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid secret: status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "{\"resetCount\":7}\n" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}
