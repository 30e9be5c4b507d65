package httpHandler

import (
	"net/http"

	"planner-server/usecases"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	tasks    *usecases.TaskUseCase
	calendar *usecases.CalendarUseCase
}

func NewNotificationHandler(tasks *usecases.TaskUseCase, calendar *usecases.CalendarUseCase) *NotificationHandler {
	return &NotificationHandler{tasks: tasks, calendar: calendar}
}

// GetCount handles GET /notification_count
func (h *NotificationHandler) GetCount(c *gin.Context) {
	due, err := h.tasks.DueNow(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(due)})
}

// GetData handles GET /notifications_data
func (h *NotificationHandler) GetData(c *gin.Context) {
	due, err := h.tasks.DueNow(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, presentNotifications(due))
}

// GetNotifications handles GET /notifications
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	due, err := h.tasks.DueNow(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(due), "tasks": presentTasks(due)})
}

// GetDashboard handles GET /api/dashboard
func (h *NotificationHandler) GetDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUser(c)

	tasks, err := h.tasks.ListTasks(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	today, err := h.tasks.TodayTasks(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	upcoming, err := h.calendar.UpcomingNow(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	categories, err := h.tasks.CategoryCounts(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks":           presentTasks(tasks),
		"today_tasks":     presentTasks(today),
		"upcoming_events": presentEvents(upcoming),
		"categories":      categories,
	})
}
