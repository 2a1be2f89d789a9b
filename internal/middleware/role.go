package middleware

import (
	"net/http"

	"github.com/franciscosanchezn/claim-tracker-api/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireRole is a middleware that checks if the user has the required role.
// It must run after BearerAuth.
func RequireRole(requiredRole models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			abortWithMessage(c, http.StatusUnauthorized, models.MsgUnauthenticated)
			return
		}

		if principal.Role != requiredRole {
			abortWithMessage(c, http.StatusForbidden, models.MsgAccessDenied)
			return
		}

		c.Next()
	}
}
