package schedule

import (
	"fmt"
	"time"
)

// Cadence selects the rule set used to place physician rounds.
type Cadence string

const (
	// CadenceWeekday places resident rounds every day, attending rounds on
	// fixed weekdays and chief rounds on another weekday.
	CadenceWeekday Cadence = "weekday"
	// CadenceEscalation hard-codes attending and chief rounds on days 2 and 3
	// and then rotates resident, attending and chief rounds every few days.
	CadenceEscalation Cadence = "escalation"
)

// ParseCadence returns the cadence named by s. Empty selects the weekday cadence.
func ParseCadence(s string) (Cadence, error) {
	switch Cadence(s) {
	case "", CadenceWeekday:
		return CadenceWeekday, nil
	case CadenceEscalation:
		return CadenceEscalation, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidCadence, s)
	}
}

// Params defines the department policy the scheduler enforces.
type Params struct {
	Cadence Cadence

	// Weekday cadence
	AttendingWeekdays []time.Weekday
	ChiefWeekdays     []time.Weekday

	// Escalation cadence
	EscalationStartDay int
	EscalationStep     int

	// Stage summaries and the rounds they displace
	StageSummaryDays []int
	DeferralDays     int

	// Open-window milestones
	LabReviewDay       int
	DeadlineWarningDay int
	DeadlineDay        int
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance.
// Zero values keep the defaults.
type ParamsConfig struct {
	Cadence Cadence

	AttendingWeekdays []time.Weekday
	ChiefWeekdays     []time.Weekday

	EscalationStartDay int
	EscalationStep     int

	StageSummaryDays []int
	DeferralDays     int

	LabReviewDay       int
	DeadlineWarningDay int
	DeadlineDay        int
}

// NewDefaultParams creates a new Params instance with the department defaults.
func NewDefaultParams() *Params {
	return &Params{
		Cadence: CadenceWeekday,

		AttendingWeekdays: []time.Weekday{time.Tuesday, time.Friday},
		ChiefWeekdays:     []time.Weekday{time.Wednesday},

		EscalationStartDay: 6,
		EscalationStep:     3,

		StageSummaryDays: []int{30, 60, 90},
		DeferralDays:     3,

		LabReviewDay:       2,
		DeadlineWarningDay: 80,
		DeadlineDay:        90,
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.Cadence != "" {
		params.Cadence = config.Cadence
	}

	if len(config.AttendingWeekdays) > 0 {
		params.AttendingWeekdays = append([]time.Weekday(nil), config.AttendingWeekdays...)
	}
	if len(config.ChiefWeekdays) > 0 {
		params.ChiefWeekdays = append([]time.Weekday(nil), config.ChiefWeekdays...)
	}

	if config.EscalationStartDay > 0 {
		params.EscalationStartDay = config.EscalationStartDay
	}
	if config.EscalationStep > 0 {
		params.EscalationStep = config.EscalationStep
	}

	if len(config.StageSummaryDays) > 0 {
		params.StageSummaryDays = append([]int(nil), config.StageSummaryDays...)
	}
	if config.DeferralDays > 0 {
		params.DeferralDays = config.DeferralDays
	}

	if config.LabReviewDay > 0 {
		params.LabReviewDay = config.LabReviewDay
	}
	if config.DeadlineWarningDay > 0 {
		params.DeadlineWarningDay = config.DeadlineWarningDay
	}
	if config.DeadlineDay > 0 {
		params.DeadlineDay = config.DeadlineDay
	}

	return params
}

// Validate checks the parameters for internal consistency.
func (p *Params) Validate() error {
	if _, err := ParseCadence(string(p.Cadence)); err != nil {
		return err
	}
	if p.EscalationStep < 1 || p.EscalationStartDay < 1 {
		return fmt.Errorf("%w: escalation start day and step must be positive", ErrInvalidCadence)
	}
	if p.DeferralDays < 1 {
		return fmt.Errorf("%w: deferral days must be positive", ErrInvalidCadence)
	}
	return nil
}
