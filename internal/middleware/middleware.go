package middleware

import (
	"net/http"
	"strings"

	"github.com/franciscosanchezn/claim-tracker-api/internal/auth"
	"github.com/franciscosanchezn/claim-tracker-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	// PrincipalKey holds the *auth.Principal of an authenticated request
	PrincipalKey = "principal"
	userIDKey    = "userID"
	userRoleKey  = "userRole"
)

// Authenticator verifies a bearer token and returns its principal
type Authenticator interface {
	Authenticate(tokenString string) (*auth.Principal, error)
}

// BearerAuth validates the "Authorization: Bearer <token>" header and stores
// the resulting principal in the gin context. Any failure aborts with 401.
func BearerAuth(tokens Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortWithMessage(c, http.StatusUnauthorized, models.MsgUnauthenticated)
			return
		}

		principal, err := tokens.Authenticate(tokenString)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"path":  c.FullPath(),
				"error": err.Error(),
			}).Debug("Rejected bearer token")
			abortWithMessage(c, http.StatusUnauthorized, models.MsgUnauthenticated)
			return
		}

		c.Set(PrincipalKey, principal)
		c.Set(userIDKey, principal.UserID)
		c.Set(userRoleKey, principal.Role)

		c.Next()
	}
}

// PrincipalFrom returns the principal stored by BearerAuth
func PrincipalFrom(c *gin.Context) (*auth.Principal, bool) {
	value, exists := c.Get(PrincipalKey)
	if !exists {
		return nil, false
	}
	principal, ok := value.(*auth.Principal)
	return principal, ok && principal != nil
}

// bearerToken extracts the token from an Authorization header value
func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

func abortWithMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, models.NewAPIError(message))
}
