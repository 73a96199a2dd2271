package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rehabdesk/rehabdesk-api/internal/api/shared"
	"github.com/stretchr/testify/require"
)

var wardToday = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

// newTestRouter fills unset services with empty mocks.
func newTestRouter(cfg RouterConfig) http.Handler {
	if cfg.Patients == nil {
		cfg.Patients = &mockPatientService{}
	}
	if cfg.Reminders == nil {
		cfg.Reminders = &mockReminderService{}
	}
	if cfg.Notes == nil {
		cfg.Notes = &mockNoteService{}
	}
	if cfg.Templates == nil {
		cfg.Templates = &mockTemplateService{}
	}
	if cfg.RehabPlans == nil {
		cfg.RehabPlans = &mockRehabPlanService{}
	}
	if cfg.AI == nil {
		cfg.AI = &mockAIService{}
	}
	if cfg.Knowledge == nil {
		cfg.Knowledge = &mockKnowledgeService{}
	}
	if cfg.Schedules == nil {
		cfg.Schedules = &mockScheduleService{}
	}
	if cfg.MaxUploadBytes == 0 {
		cfg.MaxUploadBytes = 1 << 20
	}
	cfg.Now = func() time.Time { return wardToday }
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(cfg)
}

// serve sends a request with an optional JSON body.
func serve(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(data)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp shared.ErrorResponse
	decodeBody(t, rec, &resp)
	return resp.Error
}
