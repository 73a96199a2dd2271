package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/rehabdesk/rehabdesk-api/internal/domain"
	"github.com/rehabdesk/rehabdesk-api/internal/domain/schedule"
	"github.com/rehabdesk/rehabdesk-api/internal/generation"
	"github.com/rehabdesk/rehabdesk-api/internal/service"
	"github.com/rehabdesk/rehabdesk-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAIHandler_ExtractPatientInfo(t *testing.T) {
	t.Parallel()

	ai := &mockAIService{
		ExtractFn: func(_ context.Context, initialNote string) (*generation.PatientInfo, error) {
			return &generation.PatientInfo{Name: "张三", Gender: "男", Age: 67, Diagnosis: "脑梗死恢复期"}, nil
		},
	}
	h := newTestRouter(RouterConfig{AI: ai})

	rec := serve(t, h, http.MethodPost, "/api/ai/extract-patient-info", map[string]string{"initial_note": "患者张三，男，67岁"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var info generation.PatientInfo
	decodeBody(t, rec, &info)
	assert.Equal(t, 67, info.Age)

	rec = serve(t, h, http.MethodPost, "/api/ai/extract-patient-info", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAIHandler_GenerateNote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		body          map[string]interface{}
		wantKnowledge bool
		wantRoster    *schedule.Roster
	}{
		{
			name:          "knowledge on by default",
			body:          map[string]interface{}{"hospital_number": "ZY001", "daily_condition": "乏力改善"},
			wantKnowledge: true,
		},
		{
			name: "knowledge off with doctors",
			body: map[string]interface{}{
				"hospital_number":    "ZY001",
				"use_knowledge_base": false,
				"doctor_info":        map[string]string{"resident": "王医生", "attending": "李医生", "chief": "赵主任"},
			},
			wantKnowledge: false,
			wantRoster:    &schedule.Roster{Resident: "王医生", Attending: "李医生", Chief: "赵主任"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got service.GenerateNoteInput
			ai := &mockAIService{
				GenerateNoteFn: func(_ context.Context, in service.GenerateNoteInput) (*service.GeneratedNote, error) {
					got = in
					return &service.GeneratedNote{Content: "患者神志清楚", RecordType: "住院医师查房", DayNumber: 8}, nil
				},
			}
			h := newTestRouter(RouterConfig{AI: ai})

			rec := serve(t, h, http.MethodPost, "/api/ai/generate-note", tt.body)

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantKnowledge, got.UseKnowledgeBase)
			assert.Equal(t, tt.wantRoster, got.Roster)
			var note service.GeneratedNote
			decodeBody(t, rec, &note)
			assert.Equal(t, 8, note.DayNumber)
		})
	}
}

func TestAIHandler_GenerateNote_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"unknown patient", store.ErrPatientNotFound, http.StatusNotFound, "Patient not found"},
		{"provider down", generation.ErrTransientFailure, http.StatusServiceUnavailable, "The language model is temporarily unavailable"},
		{"not configured", generation.ErrInvalidConfig, http.StatusServiceUnavailable, "AI features are not configured"},
		{"before admission", domain.ErrNoteBeforeAdmission, http.StatusBadRequest, domain.ErrNoteBeforeAdmission.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ai := &mockAIService{
				GenerateNoteFn: func(_ context.Context, in service.GenerateNoteInput) (*service.GeneratedNote, error) {
					return nil, service.NewServiceError("generate_note", "failed", tt.err)
				},
			}
			h := newTestRouter(RouterConfig{AI: ai})

			rec := serve(t, h, http.MethodPost, "/api/ai/generate-note", map[string]string{"hospital_number": "ZY001"})

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMessage, errorMessage(t, rec))
		})
	}
}

func TestAIHandler_GenerateRehabPlan(t *testing.T) {
	t.Parallel()

	var gotHN string
	ai := &mockAIService{
		GeneratePlanFn: func(_ context.Context, hn string) (*service.GeneratedPlan, error) {
			gotHN = hn
			plan, err := domain.NewRehabPlan(testPatient(t, hn), "坐位平衡", "独立步行",
				[]domain.TrainingItem{{Name: "桥式运动"}})
			require.NoError(t, err)
			return &service.GeneratedPlan{Plan: plan, Fallback: true}, nil
		},
	}
	h := newTestRouter(RouterConfig{AI: ai})

	rec := serve(t, h, http.MethodPost, "/api/ai/generate-rehab-plan", map[string]string{"hospital_number": "ZY001"})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "ZY001", gotHN)
	var resp service.GeneratedPlan
	decodeBody(t, rec, &resp)
	assert.True(t, resp.Fallback)
	require.NotNil(t, resp.Plan)
	assert.Equal(t, "桥式运动", resp.Plan.TrainingPlan[0].Name)
}
