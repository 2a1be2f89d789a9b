// Package server assembles the gin engine for the claim tracker API.
package server

import (
	"net/http"
	"time"

	"github.com/franciscosanchezn/claim-tracker-api/internal/auth"
	"github.com/franciscosanchezn/claim-tracker-api/internal/controllers"
	"github.com/franciscosanchezn/claim-tracker-api/internal/metrics"
	"github.com/franciscosanchezn/claim-tracker-api/internal/middleware"
	"github.com/franciscosanchezn/claim-tracker-api/internal/models"
	"github.com/franciscosanchezn/claim-tracker-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/time/rate"
)

const serviceName = "claim-tracker-api"

// Dependencies are the collaborators the router wires into handlers
type Dependencies struct {
	Users      services.UserService
	Insurances services.InsuranceService
	Claims     services.ClaimService
	Tokens     *auth.TokenService
	OAuth      *auth.OAuthService

	// LoginLimiter throttles /api/login and /oauth/token. Nil disables throttling.
	LoginLimiter *rate.Limiter
	CORSOrigins  []string
	Logger       logrus.FieldLogger
}

// NewRouter builds the engine with every route of the API
func NewRouter(deps Dependencies) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(deps.Logger),
		metrics.Middleware(),
		middleware.CORS(middleware.DefaultCORSOptions(deps.CORSOrigins)),
	)

	authController := controllers.NewAuthController(deps.Users, deps.Tokens)
	insuranceController := controllers.NewInsuranceController(deps.Insurances)
	claimController := controllers.NewClaimController(deps.Claims)

	var throttle gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if deps.LoginLimiter != nil {
		throttle = middleware.RateLimit(deps.LoginLimiter)
	}
	authenticated := middleware.BearerAuth(deps.Tokens)

	router.GET("/health", healthCheckHandler)
	router.GET("/metrics", metrics.Handler())
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if deps.OAuth != nil {
		router.POST("/oauth/token", throttle, deps.OAuth.HandleToken)
	}

	api := router.Group("/api")
	{
		api.POST("/register", authController.Register)
		api.POST("/login", throttle, authController.Login)

		protected := api.Group("")
		protected.Use(authenticated)
		{
			protected.GET("/insurances", insuranceController.GetAllInsurances)
			protected.POST("/insurances", insuranceController.CreateInsurance)
			protected.POST("/applyClaim", claimController.ApplyClaim)
			protected.POST("/claim", claimController.Claim)
			protected.POST("/updateStatus", middleware.RequireRole(models.RoleAdmin), claimController.UpdateStatus)
		}
	}

	router.GET("/isClaimed/:imei", authenticated, claimController.IsClaimed)

	return router
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   serviceName,
	})
}
