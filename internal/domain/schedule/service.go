package schedule

import (
	"fmt"
)

// Mode selects between back-filling a known stay and milestone reminders.
type Mode string

const (
	// ModeClosed enumerates every obligation between admission and discharge.
	ModeClosed Mode = "closed"
	// ModeOpen emits only the milestones anchored to admission.
	ModeOpen Mode = "open"
)

// ParseMode returns the mode named by s. Empty selects ModeClosed.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeClosed:
		return ModeClosed, nil
	case ModeOpen:
		return ModeOpen, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Service defines the interface for schedule generation
type Service interface {
	// GenerateSchedule enumerates the documentation obligations of a stay,
	// ordered by day number and then by a fixed type precedence.
	GenerateSchedule(w Window, mode Mode) ([]DocumentationEvent, error)

	// Params returns the policy the service schedules with.
	Params() Params
}

type defaultService struct {
	params *Params
}

// NewDefaultService creates a scheduler using the department defaults
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a scheduler with custom parameters
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// GenerateSchedule implements Service.
//
// Open mode ignores the discharge date apart from validating it. Closed
// mode requires one.
func (s *defaultService) GenerateSchedule(w Window, mode Mode) ([]DocumentationEvent, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if err := s.params.Validate(); err != nil {
		return nil, err
	}

	switch mode {
	case ModeClosed:
		if w.IsOpen() {
			return nil, fmt.Errorf("%w: closed schedule requires a discharge date", ErrInvalidWindow)
		}
		return closedSchedule(w, s.params), nil
	case ModeOpen:
		return openSchedule(w, s.params), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
}

func (s *defaultService) Params() Params {
	return *s.params
}
