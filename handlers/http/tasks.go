package httpHandler

import (
	"errors"
	"io"
	"net/http"

	"planner-server/entities"
	"planner-server/usecases"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	useCase *usecases.TaskUseCase
}

func NewTaskHandler(useCase *usecases.TaskUseCase) *TaskHandler {
	return &TaskHandler{useCase: useCase}
}

// taskRequest leaves absent fields nil so updates touch only what was sent.
type taskRequest struct {
	Title       *string `json:"title" form:"title"`
	Description *string `json:"description" form:"description"`
	DueDate     *string `json:"due_date" form:"due_date"`
	Priority    *string `json:"priority" form:"priority"`
	Category    *string `json:"category" form:"category"`
	Completed   *bool   `json:"completed" form:"completed"`
}

func (r taskRequest) input() entities.TaskInput {
	return entities.TaskInput{
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate,
		Priority:    r.Priority,
		Category:    r.Category,
		Completed:   r.Completed,
	}
}

// bindOptional binds the body into obj, treating an empty body as no fields.
func bindOptional(c *gin.Context, obj any) error {
	if err := c.ShouldBind(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// GetTasks handles GET /api/tasks
func (h *TaskHandler) GetTasks(c *gin.Context) {
	tasks, err := h.useCase.ListTasks(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, presentTasks(tasks))
}

// CreateTask handles POST /api/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req taskRequest
	if err := bindOptional(c, &req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	task, err := h.useCase.AddTask(c.Request.Context(), currentUser(c), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, presentTask(task))
}

// GetTask handles GET /api/tasks/:id
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, err := h.useCase.GetTask(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, presentTask(task))
}

// UpdateTask handles PUT /api/tasks/:id
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var req taskRequest
	if err := bindOptional(c, &req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	if _, err := h.useCase.UpdateTask(c.Request.Context(), currentUser(c), c.Param("id"), req.input()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// DeleteTask handles DELETE /api/tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.useCase.DeleteTask(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetCategories handles GET /api/tasks/categories
func (h *TaskHandler) GetCategories(c *gin.Context) {
	counts, err := h.useCase.CategoryCounts(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}
