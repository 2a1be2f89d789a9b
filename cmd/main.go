package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/franciscosanchezn/claim-tracker-api/docs" // Import generated docs
	"github.com/franciscosanchezn/claim-tracker-api/internal/auth"
	"github.com/franciscosanchezn/claim-tracker-api/internal/config"
	"github.com/franciscosanchezn/claim-tracker-api/internal/database"
	"github.com/franciscosanchezn/claim-tracker-api/internal/ledger"
	"github.com/franciscosanchezn/claim-tracker-api/internal/server"
	"github.com/franciscosanchezn/claim-tracker-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// @title Claim Tracker API
// @version 1.0
// @description Insurance claim tracking with a blockchain claim ledger
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration := loadConfig()

	// Initialize database connection
	db := setupDatabase(configuration)

	router := setupRouter(configuration, db)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%v:%d", configuration.Host, configuration.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server stopped unexpectedly")
		}
	}()

	waitForShutdown(srv, db)
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment.
// LOG_LEVEL overrides the environment default when it parses.
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	environment := config.GetEnvWithDefault("APP_ENV", "development")
	log.SetLevel(config.LevelForEnvironment(environment))

	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		level, err := log.ParseLevel(raw)
		if err != nil {
			log.WithField("log_level", raw).Warn("Ignoring invalid LOG_LEVEL")
			return
		}
		log.SetLevel(level)
	}

	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	return conf
}

// setupDatabase connects with retries and migrates the schema
func setupDatabase(conf *config.Config) *gorm.DB {
	db, err := database.InitDatabase(database.FromAppConfig(conf))
	checkPanicErr(err)
	checkPanicErr(database.Migrate(db))
	return db
}

// setupRouter wires stores, the ledger client and the auth gate into the router
func setupRouter(conf *config.Config, db *gorm.DB) *gin.Engine {
	userService := services.NewUserService(db)
	insuranceService := services.NewInsuranceService(db)
	claimService := services.NewClaimService(insuranceService, ledger.New(conf.LedgerBaseURL), log.StandardLogger())

	oauthService, err := auth.NewOAuthService(db, userService, auth.Options{
		Secret:       conf.JWTSecret,
		TTL:          time.Duration(conf.TokenTTLMinutes) * time.Minute,
		ClientID:     conf.OAuthClientID,
		ClientSecret: conf.OAuthClientSecret,
	})
	checkPanicErr(err)
	tokenService := auth.NewTokenService(oauthService, userService, conf.JWTSecret)

	return server.NewRouter(server.Dependencies{
		Users:        userService,
		Insurances:   insuranceService,
		Claims:       claimService,
		Tokens:       tokenService,
		OAuth:        oauthService,
		LoginLimiter: rate.NewLimiter(rate.Limit(conf.LoginRateLimit), conf.LoginRateBurst),
		CORSOrigins:  conf.CORSOrigins,
		Logger:       log.StandardLogger(),
	})
}

// waitForShutdown blocks until SIGINT or SIGTERM, then drains requests and closes the database
func waitForShutdown(srv *http.Server, db *gorm.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.WithField("signal", sig.String()).Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shut down")
	}
	if err := database.Close(db); err != nil {
		log.WithError(err).Error("Failed to close the database connection")
		return
	}
	log.Info("Closed the database connection")
}
