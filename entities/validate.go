package entities

import (
	"fmt"
	"strings"
	"time"

	"planner-server/common"
)

// TaskInput carries task fields as received from a client. A nil field is
// absent: on create it takes its default, on update it is left unchanged.
type TaskInput struct {
	Title       *string
	Description *string
	DueDate     *string
	Priority    *string
	Category    *string
	Completed   *bool
}

// EventInput carries calendar event fields as received from a client.
type EventInput struct {
	Title  *string
	Start  *string
	End    *string
	AllDay *bool
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrValidation, fmt.Sprintf(format, args...))
}

// parseOptionalDate treats an empty string as "no due date".
func parseOptionalDate(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := ParseTimestamp(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func optionalCategory(raw string) *string {
	c := strings.TrimSpace(raw)
	if c == "" {
		return nil
	}
	return &c
}

// ValidateTask builds a new, unowned Task from in.
func ValidateTask(in TaskInput) (*Task, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, validationErr("title is required")
	}
	task := &Task{
		Title:    strings.TrimSpace(*in.Title),
		Priority: PriorityMedium,
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.DueDate != nil {
		due, err := parseOptionalDate(*in.DueDate)
		if err != nil {
			return nil, err
		}
		task.DueDate = due
	}
	if in.Priority != nil {
		task.Priority = ParsePriority(*in.Priority)
	}
	if in.Category != nil {
		task.Category = optionalCategory(*in.Category)
	}
	if in.Completed != nil {
		task.Completed = *in.Completed
	}
	return task, nil
}

// ValidateTaskPatch returns the column updates for the fields present in in.
// An empty due date or category clears the stored value.
func ValidateTaskPatch(in TaskInput) (map[string]any, error) {
	fields := make(map[string]any)
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, validationErr("title must not be empty")
		}
		fields["title"] = title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.DueDate != nil {
		due, err := parseOptionalDate(*in.DueDate)
		if err != nil {
			return nil, err
		}
		if due == nil {
			fields["due_date"] = nil
		} else {
			fields["due_date"] = *due
		}
	}
	if in.Priority != nil {
		fields["priority"] = string(ParsePriority(*in.Priority))
	}
	if in.Category != nil {
		if c := optionalCategory(*in.Category); c != nil {
			fields["category"] = *c
		} else {
			fields["category"] = nil
		}
	}
	if in.Completed != nil {
		fields["completed"] = *in.Completed
	}
	return fields, nil
}

func eventTitle(raw *string) string {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return DefaultEventTitle
	}
	return strings.TrimSpace(*raw)
}

// ValidateEvent builds a new, unowned CalendarEvent from in.
func ValidateEvent(in EventInput) (*CalendarEvent, error) {
	if in.Start == nil || in.End == nil || strings.TrimSpace(*in.Start) == "" || strings.TrimSpace(*in.End) == "" {
		return nil, validationErr("missing start or end time")
	}
	start, err := ParseTimestamp(*in.Start)
	if err != nil {
		return nil, err
	}
	end, err := ParseTimestamp(*in.End)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, validationErr("end time precedes start time")
	}
	event := &CalendarEvent{
		Title:     eventTitle(in.Title),
		StartTime: start,
		EndTime:   end,
	}
	if in.AllDay != nil {
		event.AllDay = *in.AllDay
	}
	return event, nil
}

// ApplyPatch merges the fields present in in into e and returns the column
// updates. A missing start or end keeps the stored value; the merged range
// must still be ordered.
func (e *CalendarEvent) ApplyPatch(in EventInput) (map[string]any, error) {
	fields := make(map[string]any)
	next := *e
	if in.Title != nil {
		next.Title = eventTitle(in.Title)
		fields["title"] = next.Title
	}
	if in.Start != nil {
		start, err := ParseTimestamp(*in.Start)
		if err != nil {
			return nil, err
		}
		next.StartTime = start
		fields["start_time"] = start
	}
	if in.End != nil {
		end, err := ParseTimestamp(*in.End)
		if err != nil {
			return nil, err
		}
		next.EndTime = end
		fields["end_time"] = end
	}
	if in.AllDay != nil {
		next.AllDay = *in.AllDay
		fields["all_day"] = next.AllDay
	}
	if next.EndTime.Before(next.StartTime) {
		return nil, validationErr("end time precedes start time")
	}
	*e = next
	return fields, nil
}
