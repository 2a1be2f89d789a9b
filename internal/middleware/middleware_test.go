package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/franciscosanchezn/claim-tracker-api/internal/auth"
	"github.com/franciscosanchezn/claim-tracker-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// stubAuthenticator accepts "user-token" and "admin-token"
type stubAuthenticator struct{}

func (stubAuthenticator) Authenticate(tokenString string) (*auth.Principal, error) {
	switch tokenString {
	case "user-token":
		return &auth.Principal{UserID: 1, Email: "user@example.com", Role: models.RoleUser}, nil
	case "admin-token":
		return &auth.Principal{UserID: 2, Email: "admin@example.com", Role: models.RoleAdmin}, nil
	}
	return nil, models.NewError(models.ErrUnauthenticated, models.MsgUnauthenticated)
}

func setupRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		c.JSON(http.StatusOK, principal)
	})
	router.GET("/test", handlers...)
	return router
}

func doRequest(router *gin.Engine, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	var body models.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Message
}

func TestBearerAuth(t *testing.T) {
	router := setupRouter(BearerAuth(stubAuthenticator{}))

	testCases := []struct {
		name   string
		header string
		status int
	}{
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", status: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", status: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer user-token", status: http.StatusOK},
		{name: "lowercase scheme", header: "bearer user-token", status: http.StatusOK},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, map[string]string{"Authorization": tt.header})
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusUnauthorized {
				assert.Equal(t, models.MsgUnauthenticated, decodeMessage(t, w))
			}
		})
	}
}

func TestBearerAuthStoresPrincipal(t *testing.T) {
	router := setupRouter(BearerAuth(stubAuthenticator{}))

	w := doRequest(router, map[string]string{"Authorization": "Bearer admin-token"})
	require.Equal(t, http.StatusOK, w.Code)

	var principal auth.Principal
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &principal))
	assert.Equal(t, uint(2), principal.UserID)
	assert.Equal(t, models.RoleAdmin, principal.Role)
}

func TestRequireRole(t *testing.T) {
	router := setupRouter(BearerAuth(stubAuthenticator{}), RequireRole(models.RoleAdmin))

	w := doRequest(router, map[string]string{"Authorization": "Bearer user-token"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, models.MsgAccessDenied, decodeMessage(t, w))

	w = doRequest(router, map[string]string{"Authorization": "Bearer admin-token"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleWithoutPrincipal(t *testing.T) {
	router := setupRouter(RequireRole(models.RoleAdmin))

	w := doRequest(router, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRateLimit(t *testing.T) {
	router := setupRouter(RateLimit(rate.NewLimiter(rate.Limit(0.001), 2)))

	assert.Equal(t, http.StatusOK, doRequest(router, nil).Code)
	assert.Equal(t, http.StatusOK, doRequest(router, nil).Code)

	w := doRequest(router, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, models.MsgTooManyRequests, decodeMessage(t, w))
}

func TestRequestID(t *testing.T) {
	router := setupRouter(RequestID())

	w := doRequest(router, nil)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	w = doRequest(router, map[string]string{RequestIDHeader: "abc-123"})
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestRequestLogger(t *testing.T) {
	logger, hook := test.NewNullLogger()
	router := setupRouter(RequestID(), RequestLogger(logger))

	doRequest(router, map[string]string{RequestIDHeader: "abc-123"})

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "abc-123", entry.Data["request_id"])
	assert.Equal(t, http.StatusOK, entry.Data["status"])
	assert.Equal(t, "/test", entry.Data["path"])
}

func TestRequestLoggerWarnsOnClientErrors(t *testing.T) {
	logger, hook := test.NewNullLogger()
	router := setupRouter(RequestLogger(logger), BearerAuth(stubAuthenticator{}))

	doRequest(router, nil)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, http.StatusUnauthorized, entry.Data["status"])
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS(DefaultCORSOptions([]string{"https://app.example.com"})))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	// preflight is answered before routing
	req = httptest.NewRequest(http.MethodOptions, "/test", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestDefaultCORSOptionsAllowsAnyOrigin(t *testing.T) {
	opts := DefaultCORSOptions(nil)
	assert.Equal(t, []string{"*"}, opts.AllowedOrigins)
}
