package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareLabelsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware())
	router.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(RequestTotal.WithLabelValues(http.MethodGet, "/items/:id", "200"))
	unmatchedBefore := testutil.ToFloat64(RequestTotal.WithLabelValues(http.MethodGet, "unmatched", "404"))

	for _, path := range []string{"/items/1", "/items/2", "/nowhere"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, before+2, testutil.ToFloat64(RequestTotal.WithLabelValues(http.MethodGet, "/items/:id", "200")))
	assert.Equal(t, unmatchedBefore+1, testutil.ToFloat64(RequestTotal.WithLabelValues(http.MethodGet, "unmatched", "404")))
}

func TestObserveLedgerCall(t *testing.T) {
	before := testutil.ToFloat64(LedgerCalls.WithLabelValues("recordClaim", "success"))

	ObserveLedgerCall("recordClaim", "success", 20*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(LedgerCalls.WithLabelValues("recordClaim", "success")))
}

func TestHandlerServesRegistry(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/metrics", Handler())

	ObserveLedgerCall("isClaimed", "success", time.Millisecond)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "claim_tracker_ledger_calls_total")
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
