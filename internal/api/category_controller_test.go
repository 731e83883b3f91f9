package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/grand-thief-cash/focusboard/internal/apperr"
	"github.com/grand-thief-cash/focusboard/internal/auth"
	"github.com/grand-thief-cash/focusboard/internal/model"
)

type stubCategoryOps struct {
	cat  *model.Category
	list []*model.Category
	err  error
}

func (s *stubCategoryOps) Create(ctx context.Context, userID string, c *model.Category) (*model.Category, error) {
	if s.err != nil {
		return nil, s.err
	}
	c.ID = "c-new"
	c.UserID = userID
	return c, nil
}
func (s *stubCategoryOps) Get(ctx context.Context, userID, id string) (*model.Category, error) {
	return s.cat, s.err
}
func (s *stubCategoryOps) List(ctx context.Context, userID string) ([]*model.Category, error) {
	return s.list, s.err
}
func (s *stubCategoryOps) Update(ctx context.Context, userID, id string, updates map[string]interface{}) (*model.Category, error) {
	return s.cat, s.err
}
func (s *stubCategoryOps) Delete(ctx context.Context, userID, id string) error { return s.err }
func (s *stubCategoryOps) SeedDefaults(ctx context.Context, userID string) ([]*model.Category, error) {
	return s.list, s.err
}

func categoryRouter(ops CategoryOps, userID string) http.Handler {
	r := chi.NewRouter()
	if userID != "" {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(auth.WithUserID(req.Context(), userID)))
			})
		})
	}
	NewCategoryController(ops).Mount(r)
	return r
}

func TestCreateCategoryValidation(t *testing.T) {
	h := categoryRouter(&stubCategoryOps{}, "u1")

	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing name", map[string]interface{}{"color": "#112233"}},
		{"bad color", map[string]interface{}{"name": "Work", "color": "blue"}},
		{"short hex", map[string]interface{}{"name": "Work", "color": "#123"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/categories/", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestCreateCategorySuccess(t *testing.T) {
	h := categoryRouter(&stubCategoryOps{}, "u1")
	rec := doJSON(t, h, http.MethodPost, "/categories/", map[string]interface{}{
		"name":  "Work",
		"color": "#3B82F6",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}
}

func TestDeleteCategoryConflict(t *testing.T) {
	h := categoryRouter(&stubCategoryOps{err: apperr.Conflict("category still has tasks")}, "u1")
	rec := doJSON(t, h, http.MethodDelete, "/categories/c-1", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestDeleteCategorySuccess(t *testing.T) {
	h := categoryRouter(&stubCategoryOps{}, "u1")
	rec := doJSON(t, h, http.MethodDelete, "/categories/c-1", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
}

func TestCategoryMissingIdentity(t *testing.T) {
	h := categoryRouter(&stubCategoryOps{}, "")
	rec := doJSON(t, h, http.MethodGet, "/categories/", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
