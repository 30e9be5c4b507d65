package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"planner-server/auth"
	"planner-server/logging"
	"planner-server/usecases"
	"planner-server/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WSHandler serves the live notification socket.
type WSHandler struct {
	mgr    *ws.Manager
	tasks  *usecases.TaskUseCase
	logger *slog.Logger
}

func NewWSHandler(mgr *ws.Manager, tasks *usecases.TaskUseCase, logger *slog.Logger) *WSHandler {
	return &WSHandler{mgr: mgr, tasks: tasks, logger: logger}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// HandleNotifications upgrades an authenticated request and keeps the
// socket registered until the client goes away. The current due count is
// sent right after the upgrade.
// GET /ws/notifications
func (h *WSHandler) HandleNotifications(c *gin.Context) {
	userID, ok := auth.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	due, err := h.tasks.DueNow(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", logging.Err(err))
		return
	}
	client := h.mgr.Register(userID, conn)
	h.logger.Debug("notification socket opened", slog.String(logging.KeyUserID, userID))
	defer func() {
		h.mgr.Unregister(userID, client)
		h.logger.Debug("notification socket closed", slog.String(logging.KeyUserID, userID))
	}()

	hello, _ := json.Marshal(ws.CountMessage{Type: "notification_count", Count: len(due)})
	if err := client.Send(hello); err != nil {
		return
	}

	// Client messages carry nothing; reading only detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("notification socket read", logging.Err(err))
			}
			return
		}
	}
}
