package service

import (
	"context"
	"time"

	"github.com/rehabdesk/rehabdesk-api/internal/domain/schedule"
)

// ScheduleRequest names a stay and the rules to schedule it with. Dates are
// YYYY-MM-DD; an empty Discharge is an open stay.
type ScheduleRequest struct {
	Admission string
	Discharge string
	Mode      string
	Cadence   string
}

// RecordsRequest asks for the rounds-record frameworks of a closed stay.
type RecordsRequest struct {
	Admission string
	Discharge string
	Cadence   string
	Roster    schedule.Roster
	// Seed fixes the decoration; nil draws a fresh one.
	Seed *uint64
}

// ScheduleService previews schedules without persisting anything.
type ScheduleService interface {
	Preview(ctx context.Context, req ScheduleRequest) ([]schedule.DocumentationEvent, error)
	// Records renders the rounds records of a closed stay.
	Records(ctx context.Context, req RecordsRequest) ([]schedule.Record, error)
}

type scheduleServiceImpl struct {
	base        schedule.ParamsConfig
	decoratorFn func(seed uint64) schedule.Decorator
	now         func() time.Time
}

// NewScheduleService creates a ScheduleService. base holds the department
// policy; a request's cadence overrides base.Cadence.
func NewScheduleService(base schedule.ParamsConfig) ScheduleService {
	return &scheduleServiceImpl{
		base: base,
		decoratorFn: func(seed uint64) schedule.Decorator {
			return schedule.NewRandomDecorator(seed)
		},
		now: time.Now,
	}
}

func (s *scheduleServiceImpl) scheduler(cadence string) (schedule.Service, error) {
	cfg := s.base
	if cadence != "" {
		c, err := schedule.ParseCadence(cadence)
		if err != nil {
			return nil, err
		}
		cfg.Cadence = c
	}
	return schedule.NewServiceWithParams(schedule.NewParams(cfg)), nil
}

func (s *scheduleServiceImpl) Preview(_ context.Context, req ScheduleRequest) ([]schedule.DocumentationEvent, error) {
	w, err := schedule.ParseWindow(req.Admission, req.Discharge)
	if err != nil {
		return nil, NewServiceError("preview_schedule", "invalid stay", err)
	}
	mode, err := schedule.ParseMode(req.Mode)
	if err != nil {
		return nil, NewServiceError("preview_schedule", "invalid mode", err)
	}
	scheduler, err := s.scheduler(req.Cadence)
	if err != nil {
		return nil, NewServiceError("preview_schedule", "invalid cadence", err)
	}

	events, err := scheduler.GenerateSchedule(w, mode)
	if err != nil {
		return nil, NewServiceError("preview_schedule", "failed to schedule stay", err)
	}
	return events, nil
}

func (s *scheduleServiceImpl) Records(ctx context.Context, req RecordsRequest) ([]schedule.Record, error) {
	events, err := s.Preview(ctx, ScheduleRequest{
		Admission: req.Admission,
		Discharge: req.Discharge,
		Mode:      string(schedule.ModeClosed),
		Cadence:   req.Cadence,
	})
	if err != nil {
		return nil, err
	}

	seed := uint64(s.now().UnixNano())
	if req.Seed != nil {
		seed = *req.Seed
	}
	writer := schedule.NewRecordWriter(req.Roster, s.decoratorFn(seed))
	return writer.RenderAll(events), nil
}
