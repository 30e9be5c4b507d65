package repositories

import (
	"context"
	"database/sql"
	"time"

	"planner-server/entities"

	"github.com/google/uuid"
)

const taskColumns = `id, user_id, title, description, due_date, priority, category, completed, created_at, updated_at`

var taskUpdatable = map[string]bool{
	"title": true, "description": true, "due_date": true,
	"priority": true, "category": true, "completed": true,
}

type taskSQLRepository struct {
	db DBTX
}

func NewTaskSQLRepository(db DBTX) TaskRepository {
	return &taskSQLRepository{db: db}
}

func (r *taskSQLRepository) Create(ctx context.Context, task *entities.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.Priority == "" {
		task.Priority = entities.PriorityMedium
	}
	now := time.Now().UTC()
	task.CreatedAt, task.UpdatedAt = now, now

	query :=
		`INSERT INTO tasks (` + taskColumns + `)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		task.ID, task.UserID, task.Title, task.Description, task.DueDate,
		string(task.Priority), task.Category, task.Completed, task.CreatedAt, task.UpdatedAt)
	return translate("create task", err)
}

func (r *taskSQLRepository) GetByID(ctx context.Context, id string) (*entities.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	task, err := scanTask(row)
	if err != nil {
		return nil, translate("get task", err)
	}
	return task, nil
}

func (r *taskSQLRepository) Find(ctx context.Context, q TaskQuery) ([]entities.Task, error) {
	w := &whereBuilder{}
	w.add("user_id = $%d", q.UserID)
	if q.Completed != nil {
		w.add("completed = $%d", *q.Completed)
	}
	if q.DueFrom != nil {
		w.add("due_date >= $%d", *q.DueFrom)
	}
	if q.DueUntil != nil {
		w.add("due_date <= $%d", *q.DueUntil)
	}
	if q.DueBefore != nil {
		w.add("due_date < $%d", *q.DueBefore)
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE ` + w.String() +
		` ORDER BY due_date ASC NULLS LAST, created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, translate("find tasks", err)
	}
	defer rows.Close()

	tasks := []entities.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, translate("find tasks", err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("find tasks", err)
	}
	return tasks, nil
}

func (r *taskSQLRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		_, err := r.GetByID(ctx, id)
		return err
	}
	query, args, err := updateStatement("tasks", taskUpdatable, id, fields, time.Now().UTC())
	if err != nil {
		return err
	}
	return execAffectingOne(ctx, r.db, "update task", query, args...)
}

func (r *taskSQLRepository) Delete(ctx context.Context, id string) error {
	return execAffectingOne(ctx, r.db, "delete task", `DELETE FROM tasks WHERE id = $1`, id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (*entities.Task, error) {
	var (
		task     entities.Task
		due      sql.NullTime
		category sql.NullString
		priority string
	)
	err := s.Scan(&task.ID, &task.UserID, &task.Title, &task.Description, &due,
		&priority, &category, &task.Completed, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if due.Valid {
		t := due.Time.UTC()
		task.DueDate = &t
	}
	if category.Valid {
		task.Category = &category.String
	}
	task.Priority = entities.Priority(priority)
	return &task, nil
}
