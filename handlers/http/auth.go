package httpHandler

import (
	"net/http"

	"planner-server/entities"
	"planner-server/usecases"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	useCase       *usecases.AuthUseCase
	secureCookies bool
}

func NewAuthHandler(useCase *usecases.AuthUseCase, secureCookies bool) *AuthHandler {
	return &AuthHandler{useCase: useCase, secureCookies: secureCookies}
}

type credentialsRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type sessionResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// Register handles POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	user, err := h.useCase.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.startSession(c, http.StatusCreated, user)
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	user, err := h.useCase.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.startSession(c, http.StatusOK, user)
}

// Logout handles POST /logout by expiring the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", h.secureCookies, true)
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// Me handles GET /api/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.useCase.User(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

func (h *AuthHandler) startSession(c *gin.Context, status int, user *entities.User) {
	token, err := h.useCase.IssueSession(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, int(h.useCase.SessionTTL().Seconds()), "/", "", h.secureCookies, true)
	c.JSON(status, sessionResponse{UserID: user.ID, Username: user.Username, Token: token})
}
