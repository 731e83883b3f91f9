package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/grand-thief-cash/focusboard/internal/apperr"
	"github.com/grand-thief-cash/focusboard/internal/components/metrics"
	"github.com/grand-thief-cash/focusboard/internal/consts"
	"github.com/grand-thief-cash/focusboard/internal/core"
	"github.com/grand-thief-cash/focusboard/internal/dao"
	"github.com/grand-thief-cash/focusboard/internal/logging"
	"github.com/grand-thief-cash/focusboard/internal/model"
)

// TaskService owns task semantics: CRUD delegation, the sibling-shift
// reorder algorithm, and the focus-list bulk renumber. All operations
// are scoped to the calling owner.
type TaskService struct {
	*core.BaseComponent
	TaskDao dao.TaskDao
	Metrics *metrics.Component
}

func NewTaskService(taskDao dao.TaskDao, m *metrics.Component) *TaskService {
	return &TaskService{
		BaseComponent: core.NewBaseComponent(consts.COMP_SVC_TASK, consts.COMP_DAO_TASK),
		TaskDao:       taskDao,
		Metrics:       m,
	}
}

func (s *TaskService) Create(ctx context.Context, userID string, t *model.Task) (*model.Task, error) {
	t.UserID = userID
	if err := s.TaskDao.Create(ctx, t); err != nil {
		return nil, apperr.Internal("failed to create task", err)
	}
	created, err := s.TaskDao.Get(ctx, userID, t.ID)
	if err != nil {
		return nil, apperr.Internal("failed to load created task", err)
	}
	return created, nil
}

func (s *TaskService) Get(ctx context.Context, userID, id string) (*model.Task, error) {
	t, err := s.TaskDao.Get(ctx, userID, id)
	if err != nil {
		return nil, translateTaskErr(err)
	}
	return t, nil
}

func (s *TaskService) List(ctx context.Context, userID string, f *model.TaskListFilters) ([]*model.Task, error) {
	list, err := s.TaskDao.List(ctx, userID, f)
	if err != nil {
		return nil, apperr.Internal("failed to list tasks", err)
	}
	return list, nil
}

func (s *TaskService) Update(ctx context.Context, userID, id string, updates map[string]interface{}) (*model.Task, error) {
	t, err := s.TaskDao.Update(ctx, userID, id, updates)
	if err != nil {
		return nil, translateTaskErr(err)
	}
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, id string) error {
	if err := s.TaskDao.Delete(ctx, userID, id); err != nil {
		return translateTaskErr(err)
	}
	return nil
}

// Reorder moves one task to newPosition within the (owner, category)
// partition. Siblings between the old and new slot shift by one to
// close the gap / make room:
//
//	old < new: positions in (old, new] decrement
//	old > new: positions in [new, old) increment
//	old == new: no-op
//
// The DAO applies all assignments in a single transaction, so a failure
// partway rolls the whole move back. The set of task ids in the
// partition is never changed, only their positions. No ordering
// snapshot is returned; callers refetch.
func (s *TaskService) Reorder(ctx context.Context, userID, taskID string, newPosition int, categoryID *string) error {
	task, err := s.TaskDao.Get(ctx, userID, taskID)
	if err != nil {
		return translateTaskErr(err)
	}
	oldPosition := task.CurrentPosition()
	if oldPosition == newPosition {
		return nil
	}

	siblings, err := s.TaskDao.ListSiblings(ctx, userID, categoryID)
	if err != nil {
		return apperr.Internal("failed to fetch category tasks", err)
	}

	var updates []dao.PositionUpdate
	for _, sib := range siblings {
		if sib.ID == taskID || sib.Position == nil {
			continue
		}
		p := *sib.Position
		switch {
		case oldPosition < newPosition && p > oldPosition && p <= newPosition:
			updates = append(updates, dao.PositionUpdate{TaskID: sib.ID, Position: p - 1})
		case oldPosition > newPosition && p >= newPosition && p < oldPosition:
			updates = append(updates, dao.PositionUpdate{TaskID: sib.ID, Position: p + 1})
		}
	}
	updates = append(updates, dao.PositionUpdate{TaskID: taskID, Position: newPosition})

	if err := s.TaskDao.UpdatePositions(ctx, userID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("task not found")
		}
		return apperr.Internal("failed to update task positions", err)
	}
	if s.Metrics != nil {
		s.Metrics.ReorderOps.Inc()
	}
	logging.Debugf(ctx, "reorder task=%s old=%d new=%d shifted=%d", taskID, oldPosition, newPosition, len(updates)-1)
	return nil
}

// ReorderFocus renumbers the focus list to match the submitted order.
// One allocation convention applies everywhere: contiguous integers in
// list order.
func (s *TaskService) ReorderFocus(ctx context.Context, userID string, orderedIDs []string) error {
	if len(orderedIDs) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(orderedIDs))
	updates := make([]dao.PositionUpdate, 0, len(orderedIDs))
	for i, id := range orderedIDs {
		if seen[id] {
			return apperr.Validationf("duplicate task id %s", id)
		}
		seen[id] = true
		updates = append(updates, dao.PositionUpdate{TaskID: id, Position: i})
	}
	if err := s.TaskDao.UpdatePositions(ctx, userID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("task not found")
		}
		return apperr.Internal("failed to update task positions", err)
	}
	if s.Metrics != nil {
		s.Metrics.ReorderOps.Inc()
	}
	return nil
}

// ListFocused returns the owner's focus list in position order.
func (s *TaskService) ListFocused(ctx context.Context, userID string) ([]*model.Task, error) {
	list, err := s.TaskDao.ListFocused(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to list focused tasks", err)
	}
	return list, nil
}

func translateTaskErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("task not found")
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	return apperr.Internal("task operation failed", err)
}
