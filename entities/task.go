package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Priority of a task. Unknown values are coerced to PriorityMedium.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// UncategorizedLabel is shown for tasks without a category.
const UncategorizedLabel = "Uncategorized"

// ParsePriority maps raw input onto the allowed set, defaulting to medium.
func ParsePriority(raw string) Priority {
	switch p := Priority(strings.ToLower(strings.TrimSpace(raw))); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p
	default:
		return PriorityMedium
	}
}

// Task is a to-do item owned by exactly one user.
type Task struct {
	ID          string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID      string     `gorm:"index;not null;type:varchar(36)" json:"user_id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `gorm:"index" json:"due_date"`
	Priority    Priority   `gorm:"type:varchar(16);not null" json:"priority"`
	Category    *string    `json:"category"`
	Completed   bool       `gorm:"not null" json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	return nil
}

// CategoryLabel returns the category used for display and aggregation.
func (t *Task) CategoryLabel() string {
	if t.Category == nil || strings.TrimSpace(*t.Category) == "" {
		return UncategorizedLabel
	}
	return *t.Category
}

// IsDue reports whether the task is incomplete and due at or before asOf.
func (t *Task) IsDue(asOf time.Time) bool {
	return !t.Completed && t.DueDate != nil && !t.DueDate.After(asOf)
}
