package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"main/internal/auth"
	"main/internal/database"
)

// UserKey is the gin context key the authenticated user is stored under.
const UserKey = "user"

// Auth protects routes that require an established session. The loaded
// user is stored on the context for the handler.
func Auth(store sessions.Store, users database.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := auth.GetSession(store, c.Request)
		if err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		userID, ok := session.Values["user_id"].(string)
		if !ok || userID == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		user, err := users.FindUserByID(userID)
		if err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		if user == nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Set(UserKey, user)
		c.Next()
	}
}
