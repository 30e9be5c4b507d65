package repositories

import (
	"context"

	"planner-server/common"
	"planner-server/db"
	"planner-server/entities"
)

type eventGormRepository struct {
	db db.Database
}

func NewEventGormRepository(database db.Database) EventRepository {
	return &eventGormRepository{db: database}
}

func (r *eventGormRepository) Create(ctx context.Context, event *entities.CalendarEvent) error {
	return translate("create event", r.db.GetDB().WithContext(ctx).Create(event).Error)
}

func (r *eventGormRepository) GetByID(ctx context.Context, id string) (*entities.CalendarEvent, error) {
	var event entities.CalendarEvent
	if err := r.db.GetDB().WithContext(ctx).Where("id = ?", id).First(&event).Error; err != nil {
		return nil, translate("get event", err)
	}
	return &event, nil
}

func (r *eventGormRepository) Find(ctx context.Context, q EventQuery) ([]entities.CalendarEvent, error) {
	tx := r.db.GetDB().WithContext(ctx).Where("user_id = ?", q.UserID)
	if q.StartFrom != nil {
		tx = tx.Where("start_time >= ?", *q.StartFrom)
	}

	events := []entities.CalendarEvent{}
	if err := tx.Order("start_time ASC").Order("created_at ASC").Find(&events).Error; err != nil {
		return nil, translate("find events", err)
	}
	return events, nil
}

func (r *eventGormRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		_, err := r.GetByID(ctx, id)
		return err
	}
	res := r.db.GetDB().WithContext(ctx).Model(&entities.CalendarEvent{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translate("update event", res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *eventGormRepository) Delete(ctx context.Context, id string) error {
	res := r.db.GetDB().WithContext(ctx).Where("id = ?", id).Delete(&entities.CalendarEvent{})
	if res.Error != nil {
		return translate("delete event", res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}
