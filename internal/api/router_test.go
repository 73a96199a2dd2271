package api

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/rehabdesk/rehabdesk-api/internal/api/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingObserver struct {
	mu     sync.Mutex
	routes []string
}

func (c *countingObserver) ObserveRequest(method, route string, status int, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.routes = append(c.routes, route)
}

func TestRouter_Health(t *testing.T) {
	t.Parallel()

	h := newTestRouter(RouterConfig{})
	rec := serve(t, h, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, rec.Header().Get(shared.RequestIDHeader))
}

func TestRouter_Fallbacks(t *testing.T) {
	t.Parallel()

	h := newTestRouter(RouterConfig{})

	rec := serve(t, h, http.MethodGet, "/api/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", errorMessage(t, rec))

	rec = serve(t, h, http.MethodPatch, "/api/patients/ZY001", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_Metrics(t *testing.T) {
	t.Parallel()

	obs := &countingObserver{}
	metricsHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("rehabdesk_up 1\n"))
	})
	h := newTestRouter(RouterConfig{
		MetricsHandler:  metricsHandler,
		MetricsPath:     "/metrics",
		RequestObserver: obs,
	})

	rec := serve(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "rehabdesk_up 1")

	serve(t, h, http.MethodGet, "/api/reminders/patient/ZY001", nil)
	assert.Contains(t, obs.routes, "/api/reminders/patient/{hn}")
}

func TestRouter_MetricsDisabled(t *testing.T) {
	t.Parallel()

	h := newTestRouter(RouterConfig{})
	rec := serve(t, h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
