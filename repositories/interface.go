package repositories

import (
	"context"
	"time"

	"planner-server/entities"
)

// TaskQuery filters tasks of one user. Results are ordered by due date
// ascending with undated tasks last.
type TaskQuery struct {
	UserID    string
	Completed *bool
	DueFrom   *time.Time // due_date >= DueFrom
	DueUntil  *time.Time // due_date <= DueUntil
	DueBefore *time.Time // due_date < DueBefore
}

// EventQuery filters events of one user. Results are ordered by start time.
type EventQuery struct {
	UserID    string
	StartFrom *time.Time // start_time >= StartFrom
}

type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id string) (*entities.User, error)
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
}

type TaskRepository interface {
	Create(ctx context.Context, task *entities.Task) error
	GetByID(ctx context.Context, id string) (*entities.Task, error)
	Find(ctx context.Context, q TaskQuery) ([]entities.Task, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}

type EventRepository interface {
	Create(ctx context.Context, event *entities.CalendarEvent) error
	GetByID(ctx context.Context, id string) (*entities.CalendarEvent, error)
	Find(ctx context.Context, q EventQuery) ([]entities.CalendarEvent, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}

// Store vends the repositories of one storage backend.
type Store interface {
	Users() UserRepository
	Tasks() TaskRepository
	Events() EventRepository
	Close() error
}
