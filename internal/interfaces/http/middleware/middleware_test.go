package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripdesk/tripdesk/internal/shared/constants"
	"github.com/tripdesk/tripdesk/internal/shared/logger"
)

func TestRequestIDGeneratedAndPropagated(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) {
		id, ok := logger.RequestIDFromContext(c.Request.Context())
		require.True(t, ok)
		c.String(http.StatusOK, id)
	})

	w := get(r, "/ping")
	generated := w.Header().Get(constants.HeaderXRequestID)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(constants.HeaderXRequestID, "booking-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "booking-123", w.Header().Get(constants.HeaderXRequestID))
}

func TestRequestLoggerIncludesRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(logger.NewConditionalSourceHandler(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	r := gin.New()
	r.Use(RequestID(), RequestLogger(log))
	r.GET("/currency/info/:code", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	req := httptest.NewRequest(http.MethodGet, "/currency/info/XYZ", nil)
	req.Header.Set(constants.HeaderXRequestID, "req-7")
	r.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "status=404")
	assert.Contains(t, out, "request_id=req-7")
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(Recovery(slog.New(slog.NewTextHandler(&buf, nil))))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := get(r, "/boom")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error occurred")
	assert.Contains(t, buf.String(), "panic recovered")
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:3000"}))
	r.GET("/currency/supported", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/currency/supported", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/currency/supported", nil)
	req.Header.Set("Origin", "http://evil.example")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWildcard(t *testing.T) {
	assert.Equal(t, "https://agency.example", getAllowedOrigin("https://agency.example", []string{"*"}))
	assert.Empty(t, getAllowedOrigin("", []string{"*"}))
}

type recordedRequest struct {
	path, method, status string
}

type fakeObserver struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (f *fakeObserver) ObserveHTTPRequest(path, method, statusCode string, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, recordedRequest{path, method, statusCode})
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	observer := &fakeObserver{}
	r := gin.New()
	r.Use(Metrics(observer))
	r.GET("/currency/rate/:from/:to", func(c *gin.Context) { c.Status(http.StatusOK) })

	get(r, "/currency/rate/USD/EUR")
	get(r, "/nowhere")

	require.Len(t, observer.requests, 2)
	assert.Equal(t, recordedRequest{"/currency/rate/:from/:to", "GET", "200"}, observer.requests[0])
	assert.Equal(t, recordedRequest{"unmatched", "GET", "404"}, observer.requests[1])
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := get(r, "/x")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}
