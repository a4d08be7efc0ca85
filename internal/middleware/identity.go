package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"codeforge/internal/storage"
)

// Identity resolves the requesting user from the X-User-Id header and
// stores it on the context. Real session validation is out of scope for
// this service; absent the header the demo user (id 1) is assumed.
func Identity(store storage.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := 1
		if header := c.GetHeader("X-User-Id"); header != "" {
			id, err := strconv.Atoi(header)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
				return
			}
			userID = id
		}

		user, err := store.GetUser(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
			return
		}

		c.Set("userID", user.ID)
		c.Set("username", user.Username)
		c.Next()
	}
}
