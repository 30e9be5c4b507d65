package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultEventTitle is used when an event is created without a title.
const DefaultEventTitle = "Untitled Event"

// CalendarEvent is a time-bounded calendar entry owned by one user.
type CalendarEvent struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string    `gorm:"index;not null;type:varchar(36)" json:"user_id"`
	Title     string    `gorm:"not null" json:"title"`
	StartTime time.Time `gorm:"index;not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`
	AllDay    bool      `gorm:"not null" json:"all_day"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *CalendarEvent) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
