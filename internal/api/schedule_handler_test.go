package api

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/rehabdesk/rehabdesk-api/internal/domain/schedule"
	"github.com/rehabdesk/rehabdesk-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleHandler_Preview(t *testing.T) {
	t.Parallel()

	var got service.ScheduleRequest
	schedules := &mockScheduleService{
		PreviewFn: func(_ context.Context, req service.ScheduleRequest) ([]schedule.DocumentationEvent, error) {
			got = req
			if req.Discharge == "2025-03-01" {
				return nil, service.NewServiceError("preview_schedule", "invalid stay",
					fmt.Errorf("%w: discharge 2025-03-01 precedes admission 2025-03-03", schedule.ErrInvalidWindow))
			}
			return []schedule.DocumentationEvent{{
				DayNumber:   1,
				Date:        time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
				Type:        schedule.EventFirstEncounterNote,
				Priority:    schedule.PriorityUrgent,
				Description: "首次病程记录",
			}}, nil
		},
	}
	h := newTestRouter(RouterConfig{Schedules: schedules})

	rec := serve(t, h, http.MethodGet, "/api/schedule?admission=2025-03-03&discharge=2025-03-07&mode=closed&cadence=escalation", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, service.ScheduleRequest{
		Admission: "2025-03-03",
		Discharge: "2025-03-07",
		Mode:      "closed",
		Cadence:   "escalation",
	}, got)
	var resp ScheduleResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, schedule.EventFirstEncounterNote, resp.Events[0].Type)

	rec = serve(t, h, http.MethodGet, "/api/schedule?admission=2025-03-03&discharge=2025-03-01", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorMessage(t, rec), "precedes admission")
}

func TestScheduleHandler_Records(t *testing.T) {
	t.Parallel()

	defaultRoster := schedule.Roster{Resident: "王医生", Attending: "李医生", Chief: "赵主任"}
	seed := uint64(42)

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantRoster schedule.Roster
		wantStatus int
	}{
		{
			name:       "configured roster",
			body:       map[string]interface{}{"admission_date": "2025-03-03", "discharge_date": "2025-03-07", "seed": seed},
			wantRoster: defaultRoster,
			wantStatus: http.StatusOK,
		},
		{
			name: "request roster",
			body: map[string]interface{}{
				"admission_date": "2025-03-03",
				"discharge_date": "2025-03-07",
				"roster":         map[string]string{"resident": "周医生"},
			},
			wantRoster: schedule.Roster{Resident: "周医生"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "discharge required",
			body:       map[string]interface{}{"admission_date": "2025-03-03"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad cadence",
			body:       map[string]interface{}{"admission_date": "2025-03-03", "discharge_date": "2025-03-07", "cadence": "daily"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got service.RecordsRequest
			schedules := &mockScheduleService{
				RecordsFn: func(_ context.Context, req service.RecordsRequest) ([]schedule.Record, error) {
					got = req
					return []schedule.Record{{DayNumber: 1, Date: "2025-03-03", Type: schedule.EventResidentRounds, Text: "2025-03-03 08:30"}}, nil
				},
			}
			h := newTestRouter(RouterConfig{Schedules: schedules, Roster: defaultRoster})

			rec := serve(t, h, http.MethodPost, "/api/schedule/records", tt.body)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}
			assert.Equal(t, tt.wantRoster, got.Roster)
			var resp RecordsResponse
			decodeBody(t, rec, &resp)
			assert.Equal(t, 1, resp.Count)
		})
	}
}
