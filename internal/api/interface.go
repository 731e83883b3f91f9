package api

import (
	"context"

	"github.com/grand-thief-cash/focusboard/internal/model"
	"github.com/grand-thief-cash/focusboard/internal/service"
)

// Controller dependencies, narrowed to what handlers call so tests can
// stub them.

type TaskOps interface {
	Create(ctx context.Context, userID string, t *model.Task) (*model.Task, error)
	Get(ctx context.Context, userID, id string) (*model.Task, error)
	List(ctx context.Context, userID string, f *model.TaskListFilters) ([]*model.Task, error)
	Update(ctx context.Context, userID, id string, updates map[string]interface{}) (*model.Task, error)
	Delete(ctx context.Context, userID, id string) error
	Reorder(ctx context.Context, userID, taskID string, newPosition int, categoryID *string) error
	ReorderFocus(ctx context.Context, userID string, orderedIDs []string) error
	ListFocused(ctx context.Context, userID string) ([]*model.Task, error)
}

type CategoryOps interface {
	Create(ctx context.Context, userID string, c *model.Category) (*model.Category, error)
	Get(ctx context.Context, userID, id string) (*model.Category, error)
	List(ctx context.Context, userID string) ([]*model.Category, error)
	Update(ctx context.Context, userID, id string, updates map[string]interface{}) (*model.Category, error)
	Delete(ctx context.Context, userID, id string) error
	SeedDefaults(ctx context.Context, userID string) ([]*model.Category, error)
}

type SweepOps interface {
	RunForUser(ctx context.Context, userID string) (*service.SweepResult, error)
	RunGlobal(ctx context.Context) (int64, error)
}
