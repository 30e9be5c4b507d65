package httpHandler

import (
	"net/http"

	"planner-server/entities"
	"planner-server/usecases"

	"github.com/gin-gonic/gin"
)

type CalendarHandler struct {
	useCase *usecases.CalendarUseCase
}

func NewCalendarHandler(useCase *usecases.CalendarUseCase) *CalendarHandler {
	return &CalendarHandler{useCase: useCase}
}

type eventRequest struct {
	Title  *string `json:"title" form:"title"`
	Start  *string `json:"start" form:"start"`
	End    *string `json:"end" form:"end"`
	AllDay *bool   `json:"allDay" form:"allDay"`
}

func (r eventRequest) input() entities.EventInput {
	return entities.EventInput{Title: r.Title, Start: r.Start, End: r.End, AllDay: r.AllDay}
}

// GetEvents handles GET /calendar/events
func (h *CalendarHandler) GetEvents(c *gin.Context) {
	events, err := h.useCase.ListEvents(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, presentEvents(events))
}

// GetUpcomingEvents handles GET /calendar/events/upcoming
func (h *CalendarHandler) GetUpcomingEvents(c *gin.Context) {
	events, err := h.useCase.UpcomingNow(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, presentEvents(events))
}

// CreateEvent handles POST /calendar/events
func (h *CalendarHandler) CreateEvent(c *gin.Context) {
	var req eventRequest
	if err := bindOptional(c, &req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	event, err := h.useCase.AddEvent(c.Request.Context(), currentUser(c), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "event": presentEvent(event)})
}

// UpdateEvent handles PUT /calendar/events/:id
func (h *CalendarHandler) UpdateEvent(c *gin.Context) {
	var req eventRequest
	if err := bindOptional(c, &req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	event, err := h.useCase.UpdateEvent(c.Request.Context(), currentUser(c), c.Param("id"), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "event": presentEvent(event)})
}

// DeleteEvent handles DELETE /calendar/events/:id
func (h *CalendarHandler) DeleteEvent(c *gin.Context) {
	if err := h.useCase.DeleteEvent(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
