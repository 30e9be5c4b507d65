package httpHandler

import (
	"net/http"
	"strings"

	"planner-server/auth"
	"planner-server/logging"
	"planner-server/usecases"

	"github.com/gin-gonic/gin"
)

// SessionCookie holds the signed session token.
const SessionCookie = "session"

// RequireUser resolves the caller from a bearer token or the session cookie
// and rejects the request with 401 when there is none.
func RequireUser(uc *usecases.AuthUseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := uc.CurrentIdentity(c.Request.Context(), sessionToken(c))
		if err != nil {
			status := statusFor(err)
			if status == http.StatusInternalServerError {
				respondError(c, err)
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(logging.KeyUserID, userID)
		c.Request = c.Request.WithContext(auth.WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// currentUser returns the identity set by RequireUser.
func currentUser(c *gin.Context) string {
	return c.GetString(logging.KeyUserID)
}
