package repositories

import (
	"context"

	"planner-server/common"
	"planner-server/db"
	"planner-server/entities"
)

type taskGormRepository struct {
	db db.Database
}

func NewTaskGormRepository(database db.Database) TaskRepository {
	return &taskGormRepository{db: database}
}

func (r *taskGormRepository) Create(ctx context.Context, task *entities.Task) error {
	return translate("create task", r.db.GetDB().WithContext(ctx).Create(task).Error)
}

func (r *taskGormRepository) GetByID(ctx context.Context, id string) (*entities.Task, error) {
	var task entities.Task
	if err := r.db.GetDB().WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, translate("get task", err)
	}
	return &task, nil
}

func (r *taskGormRepository) Find(ctx context.Context, q TaskQuery) ([]entities.Task, error) {
	tx := r.db.GetDB().WithContext(ctx).Where("user_id = ?", q.UserID)
	if q.Completed != nil {
		tx = tx.Where("completed = ?", *q.Completed)
	}
	if q.DueFrom != nil {
		tx = tx.Where("due_date >= ?", *q.DueFrom)
	}
	if q.DueUntil != nil {
		tx = tx.Where("due_date <= ?", *q.DueUntil)
	}
	if q.DueBefore != nil {
		tx = tx.Where("due_date < ?", *q.DueBefore)
	}

	tasks := []entities.Task{}
	if err := tx.Order("due_date ASC NULLS LAST").Order("created_at ASC").Find(&tasks).Error; err != nil {
		return nil, translate("find tasks", err)
	}
	return tasks, nil
}

func (r *taskGormRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		_, err := r.GetByID(ctx, id)
		return err
	}
	res := r.db.GetDB().WithContext(ctx).Model(&entities.Task{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translate("update task", res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *taskGormRepository) Delete(ctx context.Context, id string) error {
	res := r.db.GetDB().WithContext(ctx).Where("id = ?", id).Delete(&entities.Task{})
	if res.Error != nil {
		return translate("delete task", res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}
