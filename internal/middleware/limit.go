package middleware

import (
	"net/http"

	"github.com/franciscosanchezn/claim-tracker-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// RateLimit rejects requests with 429 once limiter runs out of tokens.
// The limiter is shared by every route the middleware is attached to.
func RateLimit(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			logrus.WithFields(logrus.Fields{
				"path":      c.FullPath(),
				"client_ip": c.ClientIP(),
			}).Warn("Too many requests")
			abortWithMessage(c, http.StatusTooManyRequests, models.MsgTooManyRequests)
			return
		}
		c.Next()
	}
}
