package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/grand-thief-cash/focusboard/internal/apperr"
	"github.com/grand-thief-cash/focusboard/internal/auth"
	"github.com/grand-thief-cash/focusboard/internal/consts"
	"github.com/grand-thief-cash/focusboard/internal/core"
	"github.com/grand-thief-cash/focusboard/internal/model"
)

const maxTitleLen = 255

type TaskController struct {
	*core.BaseComponent
	Tasks TaskOps
}

func NewTaskController(tasks TaskOps) *TaskController {
	return &TaskController{
		BaseComponent: core.NewBaseComponent(consts.COMP_CTRL_TASK, consts.COMP_SVC_TASK),
		Tasks:         tasks,
	}
}

// Mount wires the task routes onto an authenticated router group.
func (c *TaskController) Mount(r chi.Router) {
	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", c.list)
		r.Post("/", c.create)
		r.Post("/reorder", c.reorder)
		r.Get("/focus", c.listFocused)
		r.Post("/focus/reorder", c.reorderFocus)
		r.Get("/{taskID}", c.get)
		r.Patch("/{taskID}", c.update)
		r.Put("/{taskID}", c.update)
		r.Delete("/{taskID}", c.remove)
	})
}

type createTaskRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority"`
	Duration    *int       `json:"duration"`
	DueDate     *time.Time `json:"due_date"`
	Tags        []string   `json:"tags"`
	CategoryID  *string    `json:"category_id"`
	ParentID    *string    `json:"parent_id"`
	IsFocused   bool       `json:"is_focused"`
	Position    *int       `json:"position"`
}

func (c *TaskController) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFrom(r.Context())
	if !ok {
		writeError(w, r, apperr.Unauthorized("missing identity"))
		return
	}
	var req createTaskRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Title == "" {
		writeError(w, r, apperr.Validation("title is required"))
		return
	}
	if len(req.Title) > maxTitleLen {
		writeError(w, r, apperr.Validationf("title exceeds %d characters", maxTitleLen))
		return
	}
	t := &model.Task{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
		CategoryID:  req.CategoryID,
		ParentID:    req.ParentID,
		IsFocused:   req.IsFocused,
		Position:    req.Position,
	}
	if req.Priority != nil {
		if !model.ValidPriority(*req.Priority) {
			writeError(w, r, apperr.Validationf("invalid priority %q", *req.Priority))
			return
		}
		t.Priority = *req.Priority
	}
	if req.Duration != nil {
		if *req.Duration <= 0 {
			writeError(w, r, apperr.Validation("duration must be positive"))
			return
		}
		d := model.Minutes(*req.Duration)
		t.Duration = &d
	}
	created, err := c.Tasks.Create(r.Context(), userID, t)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (c *TaskController) get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFrom(r.Context())
	if !ok {
		writeError(w, r, apperr.Unauthorized("missing identity"))
		return
	}
	t, err := c.Tasks.Get(r.Context(), userID, chi.URLParam(r, "taskID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// list parses the tri-state reference filters: an absent param matches
// anything, the literal "null" matches only rows without the reference,
// any other value is an exact id match.
func (c *TaskController) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFrom(r.Context())
	if !ok {
		writeError(w, r, apperr.Unauthorized("missing identity"))
		return
	}
	q := r.URL.Query()
	f := &model.TaskListFilters{
		IncludeCompleted: q.Get("include_completed") == "true",
		Category:         parseRefParam(q.Get("category_id")),
		Parent:           parseRefParam(q.Get("parent_id")),
	}
	if v := q.Get("focused"); v != "" {
		focused := v == "true"
		f.Focused = &focused
	}
	list, err := c.Tasks.List(r.Context(), userID, f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []*model.Task{}
	}
	writeJSON(w, http.StatusOK, list)
}

func parseRefParam(v string) model.UUIDFilter {
	switch v {
	case "":
		return model.FilterAny()
	case "null":
		return model.FilterNull()
	default:
		return model.FilterID(v)
	}
}

func (c *TaskController) update(w http.ResponseWriter, r *http.Request) {
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
	updates, err := buildTaskUpdates(raw)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if len(updates) == 0 {
		writeError(w, r, apperr.Validation("no updatable fields in request"))
		return
	}
	t, err := c.Tasks.Update(r.Context(), userID, chi.URLParam(r, "taskID"), updates)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// buildTaskUpdates converts a partial-update body into column
// assignments. Presence is what matters: an explicit null clears a
// nullable column, an absent key leaves it alone. Unknown keys are
// rejected so typos fail loudly.
func buildTaskUpdates(raw map[string]json.RawMessage) (map[string]interface{}, error) {
	updates := make(map[string]interface{}, len(raw))
	for key, val := range raw {
		switch key {
		case "title":
			var s string
			if err := json.Unmarshal(val, &s); err != nil || s == "" {
				return nil, apperr.Validation("title must be a non-empty string")
			}
			if len(s) > maxTitleLen {
				return nil, apperr.Validationf("title exceeds %d characters", maxTitleLen)
			}
			updates["title"] = s
		case "description":
			var s *string
			if err := json.Unmarshal(val, &s); err != nil {
				return nil, apperr.Validation("description must be a string or null")
			}
			updates["description"] = s
		case "priority":
			var s string
			if err := json.Unmarshal(val, &s); err != nil || !model.ValidPriority(s) {
				return nil, apperr.Validation("priority must be low, medium or high")
			}
			updates["priority"] = s
		case "duration":
			var n *int
			if err := json.Unmarshal(val, &n); err != nil {
				return nil, apperr.Validation("duration must be minutes or null")
			}
			if n == nil {
				updates["duration"] = nil
			} else {
				if *n <= 0 {
					return nil, apperr.Validation("duration must be positive")
				}
				updates["duration"] = model.Minutes(*n)
			}
		case "due_date":
			var t *time.Time
			if err := json.Unmarshal(val, &t); err != nil {
				return nil, apperr.Validation("due_date must be RFC3339 or null")
			}
			updates["due_date"] = t
		case "tags":
			var tags []string
			if err := json.Unmarshal(val, &tags); err != nil {
				return nil, apperr.Validation("tags must be an array of strings")
			}
			updates["tags"] = model.StringArray(tags)
		case "category_id", "parent_id":
			var id *string
			if err := json.Unmarshal(val, &id); err != nil {
				return nil, apperr.Validationf("%s must be an id or null", key)
			}
			updates[key] = id
		case "is_focused":
			var b bool
			if err := json.Unmarshal(val, &b); err != nil {
				return nil, apperr.Validation("is_focused must be a boolean")
			}
			updates["is_focused"] = b
		case "position":
			var n *int
			if err := json.Unmarshal(val, &n); err != nil {
				return nil, apperr.Validation("position must be an integer or null")
			}
			updates["position"] = n
		case "completed":
			var b bool
			if err := json.Unmarshal(val, &b); err != nil {
				return nil, apperr.Validation("completed must be a boolean")
			}
			if b {
				updates["completed_at"] = time.Now().UTC()
			} else {
				updates["completed_at"] = nil
			}
		default:
			return nil, apperr.Validationf("unknown field %q", key)
		}
	}
	return updates, nil
}

func (c *TaskController) remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFrom(r.Context())
	if !ok {
		writeError(w, r, apperr.Unauthorized("missing identity"))
		return
	}
	if err := c.Tasks.Delete(r.Context(), userID, chi.URLParam(r, "taskID")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reorderRequest struct {
	TaskID      string  `json:"task_id"`
	NewPosition *int    `json:"new_position"`
	CategoryID  *string `json:"category_id"`
}

func (c *TaskController) reorder(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFrom(r.Context())
	if !ok {
		writeError(w, r, apperr.Unauthorized("missing identity"))
		return
	}
	var req reorderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.TaskID == "" || req.NewPosition == nil {
		writeError(w, r, apperr.Validation("task_id and new_position are required"))
		return
	}
	if *req.NewPosition < 0 {
		writeError(w, r, apperr.Validation("new_position must not be negative"))
		return
	}
	if err := c.Tasks.Reorder(r.Context(), userID, req.TaskID, *req.NewPosition, req.CategoryID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type focusReorderRequest struct {
	TaskIDs []string `json:"task_ids"`
}

func (c *TaskController) reorderFocus(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFrom(r.Context())
	if !ok {
		writeError(w, r, apperr.Unauthorized("missing identity"))
		return
	}
	var req focusReorderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.Tasks.ReorderFocus(r.Context(), userID, req.TaskIDs); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (c *TaskController) listFocused(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFrom(r.Context())
	if !ok {
		writeError(w, r, apperr.Unauthorized("missing identity"))
		return
	}
	list, err := c.Tasks.ListFocused(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []*model.Task{}
	}
	writeJSON(w, http.StatusOK, list)
}
