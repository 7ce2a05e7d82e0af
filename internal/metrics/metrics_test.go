package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_UsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/events/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/events/:id", "200"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events/42", nil))

	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/events/:id", "200"))
	assert.Equal(t, before+1, after)
}

func TestRecordAdmission(t *testing.T) {
	before := testutil.ToFloat64(admissions.WithLabelValues("volunteer", "capacity_exceeded"))
	RecordAdmission("volunteer", "capacity_exceeded")
	assert.Equal(t, before+1, testutil.ToFloat64(admissions.WithLabelValues("volunteer", "capacity_exceeded")))
}

func TestHandler_ServesExposition(t *testing.T) {
	RecordAdmission("participant", "admitted")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "activityhub_registration_admissions_total")
}
