package repositories

import (
	"context"
	"time"

	"planner-server/entities"

	"github.com/google/uuid"
)

const eventColumns = `id, user_id, title, start_time, end_time, all_day, created_at, updated_at`

var eventUpdatable = map[string]bool{
	"title": true, "start_time": true, "end_time": true, "all_day": true,
}

type eventSQLRepository struct {
	db DBTX
}

func NewEventSQLRepository(db DBTX) EventRepository {
	return &eventSQLRepository{db: db}
}

func (r *eventSQLRepository) Create(ctx context.Context, event *entities.CalendarEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	event.CreatedAt, event.UpdatedAt = now, now

	query :=
		`INSERT INTO calendar_events (` + eventColumns + `)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		event.ID, event.UserID, event.Title, event.StartTime, event.EndTime,
		event.AllDay, event.CreatedAt, event.UpdatedAt)
	return translate("create event", err)
}

func (r *eventSQLRepository) GetByID(ctx context.Context, id string) (*entities.CalendarEvent, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM calendar_events WHERE id = $1`, id)
	event, err := scanEvent(row)
	if err != nil {
		return nil, translate("get event", err)
	}
	return event, nil
}

func (r *eventSQLRepository) Find(ctx context.Context, q EventQuery) ([]entities.CalendarEvent, error) {
	w := &whereBuilder{}
	w.add("user_id = $%d", q.UserID)
	if q.StartFrom != nil {
		w.add("start_time >= $%d", *q.StartFrom)
	}

	query := `SELECT ` + eventColumns + ` FROM calendar_events WHERE ` + w.String() +
		` ORDER BY start_time ASC, created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, translate("find events", err)
	}
	defer rows.Close()

	events := []entities.CalendarEvent{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, translate("find events", err)
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("find events", err)
	}
	return events, nil
}

func (r *eventSQLRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		_, err := r.GetByID(ctx, id)
		return err
	}
	query, args, err := updateStatement("calendar_events", eventUpdatable, id, fields, time.Now().UTC())
	if err != nil {
		return err
	}
	return execAffectingOne(ctx, r.db, "update event", query, args...)
}

func (r *eventSQLRepository) Delete(ctx context.Context, id string) error {
	return execAffectingOne(ctx, r.db, "delete event", `DELETE FROM calendar_events WHERE id = $1`, id)
}

func scanEvent(s scanner) (*entities.CalendarEvent, error) {
	var event entities.CalendarEvent
	err := s.Scan(&event.ID, &event.UserID, &event.Title, &event.StartTime, &event.EndTime,
		&event.AllDay, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return nil, err
	}
	event.StartTime = event.StartTime.UTC()
	event.EndTime = event.EndTime.UTC()
	return &event, nil
}
