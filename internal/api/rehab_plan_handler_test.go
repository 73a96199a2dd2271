package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/rehabdesk/rehabdesk-api/internal/domain"
	"github.com/rehabdesk/rehabdesk-api/internal/service"
	"github.com/rehabdesk/rehabdesk-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRehabPlanHandler_SaveAndGet(t *testing.T) {
	t.Parallel()

	patient := testPatient(t, "ZY001")
	var saved *domain.RehabPlan
	plans := &mockRehabPlanService{
		GetFn: func(_ context.Context, hn string) (*domain.RehabPlan, error) {
			if saved == nil {
				return nil, service.NewServiceError("get_plan", "failed", store.ErrRehabPlanNotFound)
			}
			return saved, nil
		},
		SaveFn: func(_ context.Context, hn string, in service.PlanInput) (*domain.RehabPlan, error) {
			plan, err := domain.NewRehabPlan(patient, in.ShortTermGoals, in.LongTermGoals, in.TrainingPlan)
			if err != nil {
				return nil, service.NewServiceError("save_plan", "invalid plan", err)
			}
			saved = plan
			return plan, nil
		},
	}
	h := newTestRouter(RouterConfig{RehabPlans: plans})

	rec := serve(t, h, http.MethodGet, "/api/rehab-plans/patient/ZY001", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Rehab plan not found", errorMessage(t, rec))

	rec = serve(t, h, http.MethodPost, "/api/rehab-plans/patient/ZY001", map[string]interface{}{
		"short_term_goals": "独立坐位平衡",
		"long_term_goals":  "社区内独立步行",
		"training_plan": []map[string]string{
			{"name": "坐位平衡训练", "frequency": "每日2次", "duration": "20分钟"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = serve(t, h, http.MethodGet, "/api/rehab-plans/patient/ZY001", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var plan domain.RehabPlan
	decodeBody(t, rec, &plan)
	require.Len(t, plan.TrainingPlan, 1)
	assert.Equal(t, "坐位平衡训练", plan.TrainingPlan[0].Name)
}

func TestRehabPlanHandler_AddProgress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
		wantInput  service.ProgressInput
	}{
		{
			name:       "dated entry",
			body:       map[string]interface{}{"record_date": "2025-03-09", "content": "可独立坐位5分钟", "score": 4},
			wantStatus: http.StatusCreated,
			wantInput: service.ProgressInput{
				RecordDate: time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
				Content:    "可独立坐位5分钟",
				Score:      4,
			},
		},
		{
			name:       "defaults left to the service",
			body:       map[string]interface{}{"content": "训练配合"},
			wantStatus: http.StatusCreated,
			wantInput:  service.ProgressInput{Content: "训练配合"},
		},
		{
			name:       "score out of range",
			body:       map[string]interface{}{"content": "训练配合", "score": 6},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing content",
			body:       map[string]interface{}{"score": 3},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got service.ProgressInput
			plans := &mockRehabPlanService{
				AddProgressFn: func(_ context.Context, hn string, in service.ProgressInput) (*domain.RehabProgress, error) {
					got = in
					return &domain.RehabProgress{HospitalNumber: hn, Content: in.Content, Score: in.Score}, nil
				},
			}
			h := newTestRouter(RouterConfig{RehabPlans: plans})

			rec := serve(t, h, http.MethodPost, "/api/rehab-plans/ZY001/progress", tt.body)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantInput, got)
		})
	}
}

func TestRehabPlanHandler_ListProgress(t *testing.T) {
	t.Parallel()

	plans := &mockRehabPlanService{
		ListProgressFn: func(_ context.Context, hn string) ([]*domain.RehabProgress, error) {
			return []*domain.RehabProgress{{HospitalNumber: hn, Content: "步行10米", Score: 3}}, nil
		},
	}
	h := newTestRouter(RouterConfig{RehabPlans: plans})

	rec := serve(t, h, http.MethodGet, "/api/rehab-plans/ZY001/progress", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var entries []domain.RehabProgress
	decodeBody(t, rec, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, 3, entries[0].Score)
}
