package repositories

import "planner-server/db"

type gormStore struct {
	db     db.Database
	users  UserRepository
	tasks  TaskRepository
	events EventRepository
}

// NewGormStore returns a Store backed by gorm.
func NewGormStore(database db.Database) Store {
	return &gormStore{
		db:     database,
		users:  NewUserGormRepository(database),
		tasks:  NewTaskGormRepository(database),
		events: NewEventGormRepository(database),
	}
}

func (s *gormStore) Users() UserRepository   { return s.users }
func (s *gormStore) Tasks() TaskRepository   { return s.tasks }
func (s *gormStore) Events() EventRepository { return s.events }
func (s *gormStore) Close() error            { return s.db.Close() }
