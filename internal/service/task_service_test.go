package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/grand-thief-cash/focusboard/internal/apperr"
	"github.com/grand-thief-cash/focusboard/internal/consts"
	"github.com/grand-thief-cash/focusboard/internal/core"
	"github.com/grand-thief-cash/focusboard/internal/dao"
	"github.com/grand-thief-cash/focusboard/internal/model"
)

// stubTaskDao implements TaskDao in memory for service tests.
type stubTaskDao struct {
	*core.BaseComponent
	tasks           map[string]*model.Task
	positionCalls   int
	resetFocusCalls int
}

func newStubTaskDao() *stubTaskDao {
	return &stubTaskDao{
		BaseComponent: core.NewBaseComponent(consts.COMP_DAO_TASK),
		tasks:         map[string]*model.Task{},
	}
}

func (s *stubTaskDao) Create(ctx context.Context, t *model.Task) error {
	if t.ID == "" {
		t.ID = "generated"
	}
	s.tasks[t.ID] = t
	return nil
}

func (s *stubTaskDao) Get(ctx context.Context, userID, id string) (*model.Task, error) {
	t, ok := s.tasks[id]
	if !ok || t.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (s *stubTaskDao) List(ctx context.Context, userID string, f *model.TaskListFilters) ([]*model.Task, error) {
	var out []*model.Task
	for _, t := range s.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *stubTaskDao) Update(ctx context.Context, userID, id string, updates map[string]interface{}) (*model.Task, error) {
	return s.Get(ctx, userID, id)
}

func (s *stubTaskDao) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	delete(s.tasks, id)
	return nil
}

func (s *stubTaskDao) ListSiblings(ctx context.Context, userID string, categoryID *string) ([]*model.Task, error) {
	var out []*model.Task
	for _, t := range s.tasks {
		if t.UserID != userID {
			continue
		}
		switch {
		case categoryID == nil && t.CategoryID == nil:
			out = append(out, t)
		case categoryID != nil && t.CategoryID != nil && *categoryID == *t.CategoryID:
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CurrentPosition() < out[j].CurrentPosition() })
	return out, nil
}

func (s *stubTaskDao) UpdatePositions(ctx context.Context, userID string, updates []dao.PositionUpdate) error {
	s.positionCalls++
	for _, u := range updates {
		t, ok := s.tasks[u.TaskID]
		if !ok || t.UserID != userID {
			return gorm.ErrRecordNotFound
		}
	}
	for _, u := range updates {
		p := u.Position
		s.tasks[u.TaskID].Position = &p
	}
	return nil
}

func (s *stubTaskDao) ResetFocus(ctx context.Context, userID *string) (int64, error) {
	s.resetFocusCalls++
	var n int64
	for _, t := range s.tasks {
		if userID != nil && t.UserID != *userID {
			continue
		}
		if t.IsFocused && t.CompletedAt == nil {
			t.IsFocused = false
			n++
		}
	}
	return n, nil
}

func (s *stubTaskDao) CountByCategory(ctx context.Context, userID, categoryID string) (int64, error) {
	var n int64
	for _, t := range s.tasks {
		if t.UserID == userID && t.CategoryID != nil && *t.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (s *stubTaskDao) ListFocused(ctx context.Context, userID string) ([]*model.Task, error) {
	var out []*model.Task
	for _, t := range s.tasks {
		if t.UserID == userID && t.IsFocused && t.CompletedAt == nil {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CurrentPosition() < out[j].CurrentPosition() })
	return out, nil
}

func posTask(id, userID string, categoryID *string, position int) *model.Task {
	p := position
	return &model.Task{
		ID:         id,
		UserID:     userID,
		Title:      id,
		CategoryID: categoryID,
		Position:   &p,
		CreatedAt:  time.Now(),
	}
}

func seedFourTasks(da *stubTaskDao, userID string, categoryID *string) {
	da.tasks["a"] = posTask("a", userID, categoryID, 0)
	da.tasks["b"] = posTask("b", userID, categoryID, 1)
	da.tasks["c"] = posTask("c", userID, categoryID, 2)
	da.tasks["d"] = posTask("d", userID, categoryID, 3)
}

func assertPositions(t *testing.T, da *stubTaskDao, want map[string]int) {
	t.Helper()
	for id, p := range want {
		got := da.tasks[id].CurrentPosition()
		if got != p {
			t.Errorf("task %s: position = %d, want %d", id, got, p)
		}
	}
}

func TestReorderMoveTowardFront(t *testing.T) {
	da := newStubTaskDao()
	cat := "cat-1"
	seedFourTasks(da, "u1", &cat)
	svc := NewTaskService(da, nil)

	if err := svc.Reorder(context.Background(), "u1", "c", 0, &cat); err != nil {
		t.Fatalf("reorder failed: %v", err)
	}
	assertPositions(t, da, map[string]int{"c": 0, "a": 1, "b": 2, "d": 3})
}

func TestReorderMoveTowardBack(t *testing.T) {
	da := newStubTaskDao()
	cat := "cat-1"
	seedFourTasks(da, "u1", &cat)
	svc := NewTaskService(da, nil)

	if err := svc.Reorder(context.Background(), "u1", "a", 3, &cat); err != nil {
		t.Fatalf("reorder failed: %v", err)
	}
	assertPositions(t, da, map[string]int{"b": 0, "c": 1, "d": 2, "a": 3})
}

func TestReorderSamePositionIsNoop(t *testing.T) {
	da := newStubTaskDao()
	cat := "cat-1"
	seedFourTasks(da, "u1", &cat)
	svc := NewTaskService(da, nil)

	if err := svc.Reorder(context.Background(), "u1", "b", 1, &cat); err != nil {
		t.Fatalf("reorder failed: %v", err)
	}
	if da.positionCalls != 0 {
		t.Fatalf("expected no position writes, got %d", da.positionCalls)
	}
	assertPositions(t, da, map[string]int{"a": 0, "b": 1, "c": 2, "d": 3})
}

func TestReorderKeepsPartitionMembership(t *testing.T) {
	da := newStubTaskDao()
	cat := "cat-1"
	other := "cat-2"
	seedFourTasks(da, "u1", &cat)
	da.tasks["x"] = posTask("x", "u1", &other, 0)
	da.tasks["y"] = posTask("y", "u1", nil, 0)
	svc := NewTaskService(da, nil)

	if err := svc.Reorder(context.Background(), "u1", "d", 1, &cat); err != nil {
		t.Fatalf("reorder failed: %v", err)
	}
	assertPositions(t, da, map[string]int{"a": 0, "d": 1, "b": 2, "c": 3})
	// rows outside the partition stay untouched
	assertPositions(t, da, map[string]int{"x": 0, "y": 0})
}

func TestReorderUnknownTask(t *testing.T) {
	da := newStubTaskDao()
	svc := NewTaskService(da, nil)

	err := svc.Reorder(context.Background(), "u1", "ghost", 0, nil)
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestReorderOtherOwnersTask(t *testing.T) {
	da := newStubTaskDao()
	cat := "cat-1"
	seedFourTasks(da, "u1", &cat)
	svc := NewTaskService(da, nil)

	err := svc.Reorder(context.Background(), "u2", "a", 2, &cat)
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for foreign owner, got %v", err)
	}
	assertPositions(t, da, map[string]int{"a": 0, "b": 1, "c": 2, "d": 3})
}

func TestReorderFocusRenumbersContiguously(t *testing.T) {
	da := newStubTaskDao()
	for i, id := range []string{"a", "b", "c"} {
		task := posTask(id, "u1", nil, i*100)
		task.IsFocused = true
		da.tasks[id] = task
	}
	svc := NewTaskService(da, nil)

	if err := svc.ReorderFocus(context.Background(), "u1", []string{"c", "a", "b"}); err != nil {
		t.Fatalf("focus reorder failed: %v", err)
	}
	assertPositions(t, da, map[string]int{"c": 0, "a": 1, "b": 2})
}

func TestReorderFocusRejectsDuplicates(t *testing.T) {
	da := newStubTaskDao()
	da.tasks["a"] = posTask("a", "u1", nil, 0)
	svc := NewTaskService(da, nil)

	err := svc.ReorderFocus(context.Background(), "u1", []string{"a", "a"})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestReorderFocusUnknownIDRollsBack(t *testing.T) {
	da := newStubTaskDao()
	da.tasks["a"] = posTask("a", "u1", nil, 5)
	svc := NewTaskService(da, nil)

	err := svc.ReorderFocus(context.Background(), "u1", []string{"a", "ghost"})
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	assertPositions(t, da, map[string]int{"a": 5})
}
