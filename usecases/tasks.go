package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"planner-server/common"
	"planner-server/entities"
	"planner-server/logging"
	"planner-server/repositories"
)

// Notifier is told a user's current due-task count after their tasks change.
type Notifier interface {
	NotifyDueCount(userID string, count int)
}

type TaskUseCase struct {
	tasks    repositories.TaskRepository
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

func NewTaskUseCase(tasks repositories.TaskRepository, logger *slog.Logger) *TaskUseCase {
	return &TaskUseCase{
		tasks:  tasks,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// SetNotifier registers n to receive due counts after task mutations.
func (uc *TaskUseCase) SetNotifier(n Notifier) {
	uc.notifier = n
}

// ListTasks returns the user's tasks by due date, undated last.
func (uc *TaskUseCase) ListTasks(ctx context.Context, userID string) ([]entities.Task, error) {
	return uc.tasks.Find(ctx, repositories.TaskQuery{UserID: userID})
}

// AddTask validates in and stores it as a task owned by userID.
func (uc *TaskUseCase) AddTask(ctx context.Context, userID string, in entities.TaskInput) (*entities.Task, error) {
	task, err := entities.ValidateTask(in)
	if err != nil {
		return nil, err
	}
	task.UserID = userID
	if err := uc.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	uc.notify(ctx, userID)
	return task, nil
}

// GetTask returns the task if userID owns it.
func (uc *TaskUseCase) GetTask(ctx context.Context, userID, id string) (*entities.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, fmt.Errorf("task %s: %w", id, common.ErrForbidden)
	}
	return task, nil
}

// UpdateTask applies only the fields present in in.
func (uc *TaskUseCase) UpdateTask(ctx context.Context, userID, id string, in entities.TaskInput) (*entities.Task, error) {
	if _, err := uc.GetTask(ctx, userID, id); err != nil {
		return nil, err
	}
	fields, err := entities.ValidateTaskPatch(in)
	if err != nil {
		return nil, err
	}
	if err := uc.tasks.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	uc.notify(ctx, userID)
	return uc.tasks.GetByID(ctx, id)
}

// DeleteTask removes the task if userID owns it.
func (uc *TaskUseCase) DeleteTask(ctx context.Context, userID, id string) error {
	if _, err := uc.GetTask(ctx, userID, id); err != nil {
		return err
	}
	if err := uc.tasks.Delete(ctx, id); err != nil {
		return err
	}
	uc.notify(ctx, userID)
	return nil
}

// DueTasks returns incomplete tasks due at or before asOf.
func (uc *TaskUseCase) DueTasks(ctx context.Context, userID string, asOf time.Time) ([]entities.Task, error) {
	incomplete := false
	asOf = asOf.UTC()
	return uc.tasks.Find(ctx, repositories.TaskQuery{
		UserID:    userID,
		Completed: &incomplete,
		DueUntil:  &asOf,
	})
}

// DueNow is DueTasks as of the current time.
func (uc *TaskUseCase) DueNow(ctx context.Context, userID string) ([]entities.Task, error) {
	return uc.DueTasks(ctx, userID, uc.now())
}

// CategoryCounts counts incomplete tasks per category label.
func (uc *TaskUseCase) CategoryCounts(ctx context.Context, userID string) (map[string]int, error) {
	incomplete := false
	tasks, err := uc.tasks.Find(ctx, repositories.TaskQuery{UserID: userID, Completed: &incomplete})
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for i := range tasks {
		counts[tasks[i].CategoryLabel()]++
	}
	return counts, nil
}

// TodayTasks returns tasks due on the current UTC day.
func (uc *TaskUseCase) TodayTasks(ctx context.Context, userID string) ([]entities.Task, error) {
	now := uc.now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	return uc.tasks.Find(ctx, repositories.TaskQuery{
		UserID:    userID,
		DueFrom:   &start,
		DueBefore: &end,
	})
}

func (uc *TaskUseCase) notify(ctx context.Context, userID string) {
	if uc.notifier == nil {
		return
	}
	due, err := uc.DueNow(ctx, userID)
	if err != nil {
		uc.logger.Warn("due count for notification", logging.Err(err), slog.String(logging.KeyUserID, userID))
		return
	}
	uc.notifier.NotifyDueCount(userID, len(due))
}
