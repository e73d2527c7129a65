package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mboiraai/rork-automarketconnect/internal/services"
)

const (
	// ContextKeyUserID holds the key for user ID in Gin context.
	ContextKeyUserID = "userID"
	// ContextKeyIsAdmin holds the key for admin status in Gin context.
	ContextKeyIsAdmin = "isAdmin"
)

// IdentityMiddleware resolves the store's current user and places their
// identity in the Gin context. Requests are rejected when no current user is
// set; the store tracks a single current user, so there is no token exchange.
func IdentityMiddleware(store services.IMarketplaceStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := store.CurrentUser()
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No current user"})
			return
		}

		c.Set(ContextKeyUserID, user.ID)
		c.Set(ContextKeyIsAdmin, user.IsAdmin)

		c.Next()
	}
}

// AdminMiddleware creates a Gin middleware to check for admin privileges.
// Assumes IdentityMiddleware runs first.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, exists := c.Get(ContextKeyIsAdmin)
		if !exists || !isAdmin.(bool) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Administrator privileges required"})
			return
		}
		c.Next()
	}
}
