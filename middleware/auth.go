package middleware

import (
	"net/http"
	"strings"

	"aquaserve-backend/models"
	"aquaserve-backend/store"
	"aquaserve-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const currentUserKey = "currentUser"

// Auth verifies the bearer token and re-reads the user from the store on
// every request. Tokens only prove identity; role and active status always
// come from the database.
func Auth(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondWithError(c, http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}

		tokenString := authHeader
		if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
			tokenString = authHeader[7:]
		}

		userID, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		id, err := uuid.Parse(userID)
		if err != nil {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid token subject")
			c.Abort()
			return
		}

		user, err := users.GetUser(c.Request.Context(), id)
		if err != nil {
			utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
			c.Abort()
			return
		}
		if !user.IsActive {
			utils.RespondWithError(c, http.StatusUnauthorized, "Account is disabled")
			c.Abort()
			return
		}

		SetCurrentUser(c, user)
		c.Next()
	}
}

// SetCurrentUser stores the authenticated user on the request context.
func SetCurrentUser(c *gin.Context, user *models.User) {
	c.Set(currentUserKey, user)
}

// AdminOnly rejects requests from non-admin users. Must run after Auth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			utils.RespondWithError(c, http.StatusForbidden, "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by Auth, or nil.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}
