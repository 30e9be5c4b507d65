package usecases

import (
	"context"
	"fmt"
	"time"

	"planner-server/common"
	"planner-server/entities"
	"planner-server/repositories"
)

type CalendarUseCase struct {
	events repositories.EventRepository
	now    func() time.Time
}

func NewCalendarUseCase(events repositories.EventRepository) *CalendarUseCase {
	return &CalendarUseCase{
		events: events,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ListEvents returns the user's events by start time.
func (uc *CalendarUseCase) ListEvents(ctx context.Context, userID string) ([]entities.CalendarEvent, error) {
	return uc.events.Find(ctx, repositories.EventQuery{UserID: userID})
}

// ListUpcoming returns events starting at or after asOf.
func (uc *CalendarUseCase) ListUpcoming(ctx context.Context, userID string, asOf time.Time) ([]entities.CalendarEvent, error) {
	asOf = asOf.UTC()
	return uc.events.Find(ctx, repositories.EventQuery{UserID: userID, StartFrom: &asOf})
}

// UpcomingNow is ListUpcoming as of the current time.
func (uc *CalendarUseCase) UpcomingNow(ctx context.Context, userID string) ([]entities.CalendarEvent, error) {
	return uc.ListUpcoming(ctx, userID, uc.now())
}

func (uc *CalendarUseCase) GetEvent(ctx context.Context, userID, id string) (*entities.CalendarEvent, error) {
	event, err := uc.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.UserID != userID {
		return nil, fmt.Errorf("event %s: %w", id, common.ErrForbidden)
	}
	return event, nil
}

func (uc *CalendarUseCase) AddEvent(ctx context.Context, userID string, in entities.EventInput) (*entities.CalendarEvent, error) {
	event, err := entities.ValidateEvent(in)
	if err != nil {
		return nil, err
	}
	event.UserID = userID
	if err := uc.events.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// UpdateEvent changes only the fields present in in; a missing start or
// end keeps its stored value.
func (uc *CalendarUseCase) UpdateEvent(ctx context.Context, userID, id string, in entities.EventInput) (*entities.CalendarEvent, error) {
	event, err := uc.GetEvent(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	fields, err := event.ApplyPatch(in)
	if err != nil {
		return nil, err
	}
	if err := uc.events.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return event, nil
}

func (uc *CalendarUseCase) DeleteEvent(ctx context.Context, userID, id string) error {
	if _, err := uc.GetEvent(ctx, userID, id); err != nil {
		return err
	}
	return uc.events.Delete(ctx, id)
}
