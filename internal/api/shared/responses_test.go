package shared

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rehabdesk/rehabdesk-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requestWithLogger returns a request whose context carries a text logger
// writing to buf and the request ID "req-1".
func requestWithLogger(buf *bytes.Buffer) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/patients/ZY001", nil)
	l := slog.New(logger.NewContextHandler(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	ctx := logger.WithLogger(req.Context(), l)
	ctx, _ = WithRequestID(ctx, "req-1")
	return req.WithContext(ctx)
}

func TestRespondWithJSON(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/templates", nil)
	w := httptest.NewRecorder()
	RespondWithJSON(w, req, http.StatusCreated, map[string]int{"created": 3})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"created":3}`, w.Body.String())
}

type cyclic struct {
	Self *cyclic `json:"self"`
}

func TestRespondWithJSONEncodingError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	req := requestWithLogger(&buf)
	w := httptest.NewRecorder()
	data := &cyclic{}
	data.Self = data

	RespondWithJSON(w, req, http.StatusOK, data)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, buf.String(), "failed to encode JSON response")
}

func TestRespondWithError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := httptest.NewRecorder()
	RespondWithError(w, requestWithLogger(&buf), http.StatusNotFound, "Patient not found")

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Patient not found", resp.Error)
	assert.Equal(t, "req-1", resp.RequestID)

	w = httptest.NewRecorder()
	RespondWithError(w, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusBadRequest, "bad")
	assert.NotContains(t, w.Body.String(), "request_id")
}

func TestRespondWithErrorAndLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		elevate   bool
		wantLevel string
	}{
		{name: "server error", status: http.StatusBadGateway, wantLevel: "level=ERROR"},
		{name: "client error", status: http.StatusBadRequest, wantLevel: "level=DEBUG"},
		{name: "elevated client error", status: http.StatusConflict, elevate: true, wantLevel: "level=WARN"},
		{name: "rate limited", status: http.StatusTooManyRequests, wantLevel: "level=WARN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			w := httptest.NewRecorder()
			err := errors.New("dial postgres://rehab:pw@db:5432/rehab failed")
			var opts []ResponseOption
			if tt.elevate {
				opts = append(opts, WithElevatedLogLevel())
			}
			RespondWithErrorAndLog(w, requestWithLogger(&buf), tt.status, "Something went wrong", err, opts...)

			assert.Equal(t, tt.status, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "Something went wrong", resp.Error)
			assert.NotContains(t, w.Body.String(), "postgres")

			out := buf.String()
			assert.Contains(t, out, tt.wantLevel)
			assert.Contains(t, out, "request_id=req-1")
			assert.Contains(t, out, "error_type=*errors.errorString")
			assert.Contains(t, out, "[REDACTED_CREDENTIAL]")
			assert.NotContains(t, out, "rehab:pw")
		})
	}
}
