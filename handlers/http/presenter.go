package httpHandler

import (
	"planner-server/entities"
)

type taskResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date"`
	Priority    string  `json:"priority"`
	Category    *string `json:"category"`
	Completed   bool    `json:"completed"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type eventResponse struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Start  string `json:"start"`
	End    string `json:"end"`
	AllDay bool   `json:"allDay"`
}

type notificationResponse struct {
	Title   string `json:"title"`
	DueTime string `json:"due_time"`
}

func presentTask(t *entities.Task) taskResponse {
	resp := taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		Category:    t.Category,
		Completed:   t.Completed,
		CreatedAt:   entities.FormatTimestamp(t.CreatedAt),
		UpdatedAt:   entities.FormatTimestamp(t.UpdatedAt),
	}
	if t.DueDate != nil {
		due := entities.FormatTimestamp(*t.DueDate)
		resp.DueDate = &due
	}
	return resp
}

func presentTasks(tasks []entities.Task) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, presentTask(&tasks[i]))
	}
	return out
}

func presentEvent(e *entities.CalendarEvent) eventResponse {
	return eventResponse{
		ID:     e.ID,
		Title:  e.Title,
		Start:  entities.FormatTimestamp(e.StartTime),
		End:    entities.FormatTimestamp(e.EndTime),
		AllDay: e.AllDay,
	}
}

func presentEvents(events []entities.CalendarEvent) []eventResponse {
	out := make([]eventResponse, 0, len(events))
	for i := range events {
		out = append(out, presentEvent(&events[i]))
	}
	return out
}

// presentNotifications expects due tasks, which always carry a due date.
func presentNotifications(tasks []entities.Task) []notificationResponse {
	out := make([]notificationResponse, 0, len(tasks))
	for i := range tasks {
		n := notificationResponse{Title: tasks[i].Title}
		if tasks[i].DueDate != nil {
			n.DueTime = entities.FormatTimestamp(*tasks[i].DueDate)
		}
		out = append(out, n)
	}
	return out
}
