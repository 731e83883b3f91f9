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

type CategoryDao interface {
	core.Component

	Create(ctx context.Context, c *model.Category) error
	Get(ctx context.Context, userID, id string) (*model.Category, error)
	List(ctx context.Context, userID string) ([]*model.Category, error)
	Update(ctx context.Context, userID, id string, updates map[string]interface{}) (*model.Category, error)
	Delete(ctx context.Context, userID, id string) error
}

type categoryDaoImpl struct {
	*core.BaseComponent
	pg *postgres.Component
	db *gorm.DB
}

func NewCategoryDao(pg *postgres.Component) CategoryDao {
	return &categoryDaoImpl{
		BaseComponent: core.NewBaseComponent(consts.COMP_DAO_CATEGORY, consts.COMP_POSTGRES),
		pg:            pg,
	}
}

func (d *categoryDaoImpl) Start(ctx context.Context) error {
	if err := d.BaseComponent.Start(ctx); err != nil {
		return err
	}
	d.db = d.pg.GetDB()
	if d.db == nil {
		return fmt.Errorf("postgres component has no db handle")
	}
	return nil
}

func (d *categoryDaoImpl) Create(ctx context.Context, c *model.Category) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.CreatedAt = time.Now().UTC()
	return d.db.WithContext(ctx).Create(c).Error
}

func (d *categoryDaoImpl) Get(ctx context.Context, userID, id string) (*model.Category, error) {
	var c model.Category
	err := d.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (d *categoryDaoImpl) List(ctx context.Context, userID string) ([]*model.Category, error) {
	var list []*model.Category
	err := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

func (d *categoryDaoImpl) Update(ctx context.Context, userID, id string, updates map[string]interface{}) (*model.Category, error) {
	res := d.db.WithContext(ctx).Model(&model.Category{}).
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

func (d *categoryDaoImpl) Delete(ctx context.Context, userID, id string) error {
	res := d.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Category{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
