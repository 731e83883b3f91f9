package model

import "time"

// Task priorities, lowest to highest.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Task is a user-owned todo item. Position orders siblings within the
// (user, category) partition; it is only locally meaningful and may be
// null until the client first reorders. A non-null CompletedAt means
// the task is done; clearing it un-completes.
type Task struct {
	ID          string      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string      `gorm:"type:uuid;index" json:"user_id"`
	Title       string      `json:"title"`
	Description *string     `json:"description"`
	Priority    string      `json:"priority"`
	Duration    *Minutes    `json:"duration"`
	DueDate     *time.Time  `json:"due_date"`
	Tags        StringArray `gorm:"type:text[]" json:"tags"`
	CategoryID  *string     `gorm:"type:uuid" json:"category_id"`
	ParentID    *string     `gorm:"type:uuid" json:"parent_id"`
	IsFocused   bool        `json:"is_focused"`
	Position    *int        `json:"position"`
	CompletedAt *time.Time  `json:"completed_at"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	Category *CategorySummary `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Subtasks []*Task          `gorm:"foreignKey:ParentID" json:"subtasks,omitempty"`
}

func (Task) TableName() string { return "tasks" }

// CategorySummary is the joined category projection returned with
// tasks: id, name, color, icon only.
type CategorySummary struct {
	ID    string  `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string  `json:"name"`
	Color *string `json:"color"`
	Icon  *string `json:"icon"`
}

func (CategorySummary) TableName() string { return "categories" }

// CurrentPosition reads the task position, treating null as 0 the same
// way the reorder contract does.
func (t *Task) CurrentPosition() int {
	if t.Position == nil {
		return 0
	}
	return *t.Position
}
