package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/grand-thief-cash/focusboard/internal/apperr"
	"github.com/grand-thief-cash/focusboard/internal/consts"
	"github.com/grand-thief-cash/focusboard/internal/core"
	"github.com/grand-thief-cash/focusboard/internal/dao"
	"github.com/grand-thief-cash/focusboard/internal/logging"
	"github.com/grand-thief-cash/focusboard/internal/model"
)

func strPtr(s string) *string { return &s }

// defaultCategories seeds a fresh account. Existing categories suppress
// the seed entirely.
var defaultCategories = []model.Category{
	{Name: "Work", Color: strPtr("#3B82F6"), Icon: strPtr("briefcase"), Header: strPtr("Professional")},
	{Name: "Personal", Color: strPtr("#10B981"), Icon: strPtr("home"), Header: strPtr("Life")},
	{Name: "Health", Color: strPtr("#EF4444"), Icon: strPtr("heart"), Header: strPtr("Wellness")},
	{Name: "Learning", Color: strPtr("#8B5CF6"), Icon: strPtr("book"), Header: strPtr("Growth")},
}

type CategoryService struct {
	*core.BaseComponent
	CategoryDao dao.CategoryDao
	TaskDao     dao.TaskDao
}

func NewCategoryService(categoryDao dao.CategoryDao, taskDao dao.TaskDao) *CategoryService {
	return &CategoryService{
		BaseComponent: core.NewBaseComponent(consts.COMP_SVC_CATEGORY, consts.COMP_DAO_CATEGORY, consts.COMP_DAO_TASK),
		CategoryDao:   categoryDao,
		TaskDao:       taskDao,
	}
}

func (s *CategoryService) Create(ctx context.Context, userID string, c *model.Category) (*model.Category, error) {
	c.UserID = userID
	if err := s.CategoryDao.Create(ctx, c); err != nil {
		return nil, apperr.Internal("failed to create category", err)
	}
	return c, nil
}

func (s *CategoryService) Get(ctx context.Context, userID, id string) (*model.Category, error) {
	c, err := s.CategoryDao.Get(ctx, userID, id)
	if err != nil {
		return nil, translateCategoryErr(err)
	}
	return c, nil
}

func (s *CategoryService) List(ctx context.Context, userID string) ([]*model.Category, error) {
	list, err := s.CategoryDao.List(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to list categories", err)
	}
	return list, nil
}

func (s *CategoryService) Update(ctx context.Context, userID, id string, updates map[string]interface{}) (*model.Category, error) {
	c, err := s.CategoryDao.Update(ctx, userID, id, updates)
	if err != nil {
		return nil, translateCategoryErr(err)
	}
	return c, nil
}

// Delete refuses to remove a category that still has tasks. Clients
// move or delete the tasks first.
func (s *CategoryService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.CategoryDao.Get(ctx, userID, id); err != nil {
		return translateCategoryErr(err)
	}
	n, err := s.TaskDao.CountByCategory(ctx, userID, id)
	if err != nil {
		return apperr.Internal("failed to count category tasks", err)
	}
	if n > 0 {
		return apperr.Conflict("category still has tasks")
	}
	if err := s.CategoryDao.Delete(ctx, userID, id); err != nil {
		return translateCategoryErr(err)
	}
	return nil
}

// SeedDefaults creates the starter category set for an owner with no
// categories yet. It is safe to call on every login.
func (s *CategoryService) SeedDefaults(ctx context.Context, userID string) ([]*model.Category, error) {
	existing, err := s.CategoryDao.List(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to list categories", err)
	}
	if len(existing) > 0 {
		return existing, nil
	}
	created := make([]*model.Category, 0, len(defaultCategories))
	for _, def := range defaultCategories {
		c := def
		c.UserID = userID
		if err := s.CategoryDao.Create(ctx, &c); err != nil {
			return nil, apperr.Internal("failed to seed categories", err)
		}
		created = append(created, &c)
	}
	logging.Infof(ctx, "seeded %d default categories for user %s", len(created), userID)
	return created, nil
}

func translateCategoryErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("category not found")
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	return apperr.Internal("category operation failed", err)
}
