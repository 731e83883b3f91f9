package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grand-thief-cash/focusboard/internal/components/postgres"
	"github.com/grand-thief-cash/focusboard/internal/consts"
	"github.com/grand-thief-cash/focusboard/internal/core"
	"github.com/grand-thief-cash/focusboard/internal/model"
)

// PositionUpdate assigns one task an explicit position.
type PositionUpdate struct {
	TaskID   string
	Position int
}

// TaskDao is the owner-scoped persistence surface for tasks. Every
// query filters by user id; an unowned row is indistinguishable from an
// absent one (gorm.ErrRecordNotFound either way).
type TaskDao interface {
	core.Component

	Create(ctx context.Context, t *model.Task) error
	Get(ctx context.Context, userID, id string) (*model.Task, error)
	List(ctx context.Context, userID string, f *model.TaskListFilters) ([]*model.Task, error)
	Update(ctx context.Context, userID, id string, updates map[string]interface{}) (*model.Task, error)
	Delete(ctx context.Context, userID, id string) error

	// ListSiblings returns the tasks sharing the (user, category)
	// partition, ascending by position with stable tie-breaking.
	ListSiblings(ctx context.Context, userID string, categoryID *string) ([]*model.Task, error)
	// UpdatePositions applies the given assignments as individual row
	// updates inside one transaction; partial failure rolls back.
	UpdatePositions(ctx context.Context, userID string, updates []PositionUpdate) error

	// ResetFocus clears is_focused on incomplete focused tasks; a nil
	// userID sweeps all owners. Returns rows affected.
	ResetFocus(ctx context.Context, userID *string) (int64, error)

	CountByCategory(ctx context.Context, userID, categoryID string) (int64, error)
	ListFocused(ctx context.Context, userID string) ([]*model.Task, error)
}

type taskDaoImpl struct {
	*core.BaseComponent
	pg *postgres.Component
	db *gorm.DB
}

func NewTaskDao(pg *postgres.Component) TaskDao {
	return &taskDaoImpl{
		BaseComponent: core.NewBaseComponent(consts.COMP_DAO_TASK, consts.COMP_POSTGRES),
		pg:            pg,
	}
}

func (d *taskDaoImpl) Start(ctx context.Context) error {
	if err := d.BaseComponent.Start(ctx); err != nil {
		return err
	}
	d.db = d.pg.GetDB()
	if d.db == nil {
		return fmt.Errorf("postgres component has no db handle")
	}
	return nil
}

func (d *taskDaoImpl) Create(ctx context.Context, t *model.Task) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	return d.db.WithContext(ctx).Omit("Category", "Subtasks").Create(t).Error
}

func (d *taskDaoImpl) Get(ctx context.Context, userID, id string) (*model.Task, error) {
	var t model.Task
	err := d.db.WithContext(ctx).
		Preload("Category").
		Preload("Subtasks", func(tx *gorm.DB) *gorm.DB { return tx.Where("user_id = ?", userID) }).
		Where("id = ? AND user_id = ?", id, userID).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (d *taskDaoImpl) List(ctx context.Context, userID string, f *model.TaskListFilters) ([]*model.Task, error) {
	q := d.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ?", userID).
		Order("created_at DESC")
	q = applyTaskFilters(q, f)
	var list []*model.Task
	if err := q.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func applyTaskFilters(q *gorm.DB, f *model.TaskListFilters) *gorm.DB {
	if f == nil {
		f = &model.TaskListFilters{}
	}
	if !f.IncludeCompleted {
		q = q.Where("completed_at IS NULL")
	}
	if f.Focused != nil {
		q = q.Where("is_focused = ?", *f.Focused)
	}
	q = applyRefFilter(q, "category_id", f.Category)
	q = applyRefFilter(q, "parent_id", f.Parent)
	return q
}

func applyRefFilter(q *gorm.DB, column string, f model.UUIDFilter) *gorm.DB {
	if !f.Set {
		return q
	}
	if f.Null {
		return q.Where(column + " IS NULL")
	}
	return q.Where(column+" = ?", f.ID)
}

func (d *taskDaoImpl) Update(ctx context.Context, userID, id string, updates map[string]interface{}) (*model.Task, error) {
	updates["updated_at"] = time.Now().UTC()
	res := d.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return d.Get(ctx, userID, id)
}

func (d *taskDaoImpl) Delete(ctx context.Context, userID, id string) error {
	res := d.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (d *taskDaoImpl) ListSiblings(ctx context.Context, userID string, categoryID *string) ([]*model.Task, error) {
	q := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("position ASC NULLS FIRST, created_at ASC")
	if categoryID == nil {
		q = q.Where("category_id IS NULL")
	} else {
		q = q.Where("category_id = ?", *categoryID)
	}
	var list []*model.Task
	if err := q.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (d *taskDaoImpl) UpdatePositions(ctx context.Context, userID string, updates []PositionUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	now := time.Now().UTC()
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			res := tx.Model(&model.Task{}).
				Where("id = ? AND user_id = ?", u.TaskID, userID).
				Updates(map[string]interface{}{"position": u.Position, "updated_at": now})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}

func (d *taskDaoImpl) ResetFocus(ctx context.Context, userID *string) (int64, error) {
	q := d.db.WithContext(ctx).Model(&model.Task{}).
		Where("is_focused = ? AND completed_at IS NULL", true)
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	res := q.Updates(map[string]interface{}{"is_focused": false, "updated_at": time.Now().UTC()})
	return res.RowsAffected, res.Error
}

func (d *taskDaoImpl) CountByCategory(ctx context.Context, userID, categoryID string) (int64, error) {
	var n int64
	err := d.db.WithContext(ctx).Model(&model.Task{}).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		Count(&n).Error
	return n, err
}

func (d *taskDaoImpl) ListFocused(ctx context.Context, userID string) ([]*model.Task, error) {
	var list []*model.Task
	err := d.db.WithContext(ctx).
		Where("user_id = ? AND is_focused = ? AND completed_at IS NULL", userID, true).
		Order("position ASC NULLS FIRST, created_at ASC").
		Find(&list).Error
	return list, err
}
