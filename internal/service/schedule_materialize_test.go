package service

import (
	"testing"

	"github.com/rehabdesk/rehabdesk-api/internal/domain"
	"github.com/rehabdesk/rehabdesk-api/internal/domain/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterialize_SkipsCoveredEvents(t *testing.T) {
	t.Parallel()

	patient := testPatient(t, day("2025-01-06"))
	attending := schedule.DocumentationEvent{
		DayNumber:   33,
		Date:        day("2025-02-07"),
		Type:        schedule.EventAttendingRounds,
		Priority:    schedule.PriorityMedium,
		Description: "需书写主治医师查房记录（第30天阶段小结顺延）",
		Deferred:    true,
	}
	resident := schedule.DocumentationEvent{
		DayNumber:   33,
		Date:        day("2025-02-07"),
		Type:        schedule.EventResidentRounds,
		Priority:    schedule.PriorityMedium,
		Description: "需书写住院医师查房记录",
	}
	duplicate := attending
	duplicate.Deferred = false
	duplicate.Description = "需书写主治医师查房记录"

	existingResident, err := domain.NewReminderFromEvent(patient, resident)
	require.NoError(t, err)

	tests := []struct {
		name     string
		events   []schedule.DocumentationEvent
		existing []*domain.Reminder
		want     []schedule.EventType
	}{
		{
			name:   "same type and date within one batch",
			events: []schedule.DocumentationEvent{attending, duplicate, resident},
			want:   []schedule.EventType{schedule.EventAttendingRounds, schedule.EventResidentRounds},
		},
		{
			name:     "already persisted",
			events:   []schedule.DocumentationEvent{attending, resident},
			existing: []*domain.Reminder{existingResident},
			want:     []schedule.EventType{schedule.EventAttendingRounds},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := materialize(patient, tt.events, tt.existing)
			require.NoError(t, err)
			assert.Equal(t, tt.want, eventTypes(got))
			assert.Equal(t, attending.Description, got[0].Description)
		})
	}
}
