package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/grand-thief-cash/focusboard/internal/apperr"
	"github.com/grand-thief-cash/focusboard/internal/auth"
	"github.com/grand-thief-cash/focusboard/internal/consts"
	"github.com/grand-thief-cash/focusboard/internal/core"
	"github.com/grand-thief-cash/focusboard/internal/model"
)

const (
	maxNameLen   = 50
	maxIconLen   = 50
	maxHeaderLen = 50
)

type CategoryController struct {
	*core.BaseComponent
	Categories CategoryOps
}

func NewCategoryController(categories CategoryOps) *CategoryController {
	return &CategoryController{
		BaseComponent: core.NewBaseComponent(consts.COMP_CTRL_CATEGORY, consts.COMP_SVC_CATEGORY),
		Categories:    categories,
	}
}

func (c *CategoryController) Mount(r chi.Router) {
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", c.list)
		r.Post("/", c.create)
		r.Post("/defaults", c.seedDefaults)
		r.Get("/{categoryID}", c.get)
		r.Patch("/{categoryID}", c.update)
		r.Put("/{categoryID}", c.update)
		r.Delete("/{categoryID}", c.remove)
	})
}

type createCategoryRequest struct {
	Name     string  `json:"name"`
	Color    *string `json:"color"`
	Icon     *string `json:"icon"`
	Header   *string `json:"header"`
	ParentID *string `json:"parent_id"`
}

func (req *createCategoryRequest) validate() error {
	if req.Name == "" {
		return apperr.Validation("name is required")
	}
	if len(req.Name) > maxNameLen {
		return apperr.Validationf("name exceeds %d characters", maxNameLen)
	}
	if req.Color != nil && !model.ValidHexColor(*req.Color) {
		return apperr.Validation("color must be a hex color like #3B82F6")
	}
	if req.Icon != nil && len(*req.Icon) > maxIconLen {
		return apperr.Validationf("icon exceeds %d characters", maxIconLen)
	}
	if req.Header != nil && len(*req.Header) > maxHeaderLen {
		return apperr.Validationf("header exceeds %d characters", maxHeaderLen)
	}
	return nil
}

func (c *CategoryController) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFrom(r.Context())
	if !ok {
		writeError(w, r, apperr.Unauthorized("missing identity"))
		return
	}
	var req createCategoryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, err)
		return
	}
	cat := &model.Category{
		Name:     req.Name,
		Color:    req.Color,
		Icon:     req.Icon,
		Header:   req.Header,
		ParentID: req.ParentID,
	}
	created, err := c.Categories.Create(r.Context(), userID, cat)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (c *CategoryController) get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFrom(r.Context())
	if !ok {
		writeError(w, r, apperr.Unauthorized("missing identity"))
		return
	}
	cat, err := c.Categories.Get(r.Context(), userID, chi.URLParam(r, "categoryID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

func (c *CategoryController) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFrom(r.Context())
	if !ok {
		writeError(w, r, apperr.Unauthorized("missing identity"))
		return
	}
	list, err := c.Categories.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []*model.Category{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (c *CategoryController) update(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFrom(r.Context())
	if !ok {
		writeError(w, r, apperr.Unauthorized("missing identity"))
		return
	}
	var raw map[string]json.RawMessage
	if err := decodeBody(r, &raw); err != nil {
		writeError(w, r, err)
		return
	}
	updates, err := buildCategoryUpdates(raw)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if len(updates) == 0 {
		writeError(w, r, apperr.Validation("no updatable fields in request"))
		return
	}
	cat, err := c.Categories.Update(r.Context(), userID, chi.URLParam(r, "categoryID"), updates)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

func buildCategoryUpdates(raw map[string]json.RawMessage) (map[string]interface{}, error) {
	updates := make(map[string]interface{}, len(raw))
	for key, val := range raw {
		switch key {
		case "name":
			var s string
			if err := json.Unmarshal(val, &s); err != nil || s == "" {
				return nil, apperr.Validation("name must be a non-empty string")
			}
			if len(s) > maxNameLen {
				return nil, apperr.Validationf("name exceeds %d characters", maxNameLen)
			}
			updates["name"] = s
		case "color":
			var s *string
			if err := json.Unmarshal(val, &s); err != nil {
				return nil, apperr.Validation("color must be a string or null")
			}
			if s != nil && !model.ValidHexColor(*s) {
				return nil, apperr.Validation("color must be a hex color like #3B82F6")
			}
			updates["color"] = s
		case "icon":
			var s *string
			if err := json.Unmarshal(val, &s); err != nil {
				return nil, apperr.Validation("icon must be a string or null")
			}
			if s != nil && len(*s) > maxIconLen {
				return nil, apperr.Validationf("icon exceeds %d characters", maxIconLen)
			}
			updates["icon"] = s
		case "header":
			var s *string
			if err := json.Unmarshal(val, &s); err != nil {
				return nil, apperr.Validation("header must be a string or null")
			}
			if s != nil && len(*s) > maxHeaderLen {
				return nil, apperr.Validationf("header exceeds %d characters", maxHeaderLen)
			}
			updates["header"] = s
		case "parent_id":
			var id *string
			if err := json.Unmarshal(val, &id); err != nil {
				return nil, apperr.Validation("parent_id must be an id or null")
			}
			updates["parent_id"] = id
		default:
			return nil, apperr.Validationf("unknown field %q", key)
		}
	}
	return updates, nil
}

func (c *CategoryController) remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFrom(r.Context())
	if !ok {
		writeError(w, r, apperr.Unauthorized("missing identity"))
		return
	}
	if err := c.Categories.Delete(r.Context(), userID, chi.URLParam(r, "categoryID")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *CategoryController) seedDefaults(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFrom(r.Context())
	if !ok {
		writeError(w, r, apperr.Unauthorized("missing identity"))
		return
	}
	list, err := c.Categories.SeedDefaults(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
