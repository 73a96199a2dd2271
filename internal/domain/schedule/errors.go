package schedule

import "errors"

var (
	// ErrInvalidWindow is returned when a stay window cannot be scheduled,
	// most commonly because discharge precedes admission.
	ErrInvalidWindow = errors.New("invalid schedule window")

	// ErrInvalidMode is returned for an unknown schedule mode.
	ErrInvalidMode = errors.New("invalid schedule mode")

	// ErrInvalidCadence is returned for an unknown rounds cadence.
	ErrInvalidCadence = errors.New("invalid rounds cadence")

	ErrInvalidEventType = errors.New("invalid event type")
	ErrInvalidPriority  = errors.New("invalid priority")
)
