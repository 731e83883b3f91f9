package model

import (
	"regexp"
	"time"
)

// Category groups tasks. ParentID allows one level of sub-categories,
// mirroring task subtasks. Deleting a category is refused while any
// task still references it.
type Category struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;index" json:"user_id"`
	Name      string    `json:"name"`
	Color     *string   `json:"color"`
	Icon      *string   `json:"icon"`
	Header    *string   `json:"header"`
	ParentID  *string   `gorm:"type:uuid" json:"parent_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Category) TableName() string { return "categories" }

var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ValidHexColor accepts #RRGGBB.
func ValidHexColor(c string) bool { return hexColorRe.MatchString(c) }
