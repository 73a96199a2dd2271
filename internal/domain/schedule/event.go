package schedule

import (
	"fmt"
	"time"
)

// EventType identifies the kind of documentation obligation.
type EventType string

// Event types, listed in their within-day precedence.
const (
	EventFirstEncounterNote  EventType = "first_encounter_note"
	EventResidentRounds      EventType = "resident_rounds"
	EventAttendingRounds     EventType = "attending_rounds"
	EventChiefRounds         EventType = "chief_rounds"
	EventStageSummary        EventType = "stage_summary"
	EventLabReview           EventType = "lab_review"
	EventDeadlineApproaching EventType = "deadline_approaching"
	EventDischargeDeadline   EventType = "discharge_deadline"
)

var eventPrecedence = map[EventType]int{
	EventFirstEncounterNote:  0,
	EventResidentRounds:      1,
	EventAttendingRounds:     2,
	EventChiefRounds:         3,
	EventStageSummary:        4,
	EventLabReview:           5,
	EventDeadlineApproaching: 6,
	EventDischargeDeadline:   7,
}

var eventLabels = map[EventType]string{
	EventFirstEncounterNote:  "首次病程记录",
	EventResidentRounds:      "住院医师查房",
	EventAttendingRounds:     "主治医师查房",
	EventChiefRounds:         "主任医师查房",
	EventStageSummary:        "阶段小结",
	EventLabReview:           "复查检验结果",
	EventDeadlineApproaching: "住院期限预警",
	EventDischargeDeadline:   "住院期限届满",
}

// Label returns the department's name for the event type.
func (t EventType) Label() string {
	if label, ok := eventLabels[t]; ok {
		return label
	}
	return string(t)
}

// IsValid reports whether t is a known event type.
func (t EventType) IsValid() bool {
	_, ok := eventPrecedence[t]
	return ok
}

// IsRounds reports whether the event is a physician rounds obligation.
func (t EventType) IsRounds() bool {
	switch t {
	case EventResidentRounds, EventAttendingRounds, EventChiefRounds:
		return true
	default:
		return false
	}
}

// ParseEventType accepts either the code or the department label of an event type.
func ParseEventType(s string) (EventType, error) {
	t := EventType(s)
	if t.IsValid() {
		return t, nil
	}
	for et, label := range eventLabels {
		if label == s {
			return et, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidEventType, s)
}

// Priority ranks how urgently an obligation must be handled.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

var priorityRank = map[Priority]int{
	PriorityUrgent: 0,
	PriorityHigh:   1,
	PriorityMedium: 2,
	PriorityLow:    3,
}

var priorityLabels = map[Priority]string{
	PriorityUrgent: "紧急",
	PriorityHigh:   "高",
	PriorityMedium: "中",
	PriorityLow:    "低",
}

// Rank orders priorities from most (0) to least urgent. Unknown priorities sort last.
func (p Priority) Rank() int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return len(priorityRank)
}

// Label returns the ward's display name for the priority.
func (p Priority) Label() string {
	if label, ok := priorityLabels[p]; ok {
		return label
	}
	return string(p)
}

// IsValid reports whether p is a known priority.
func (p Priority) IsValid() bool {
	_, ok := priorityRank[p]
	return ok
}

// ParsePriority accepts either the code ("high") or the label ("高") of a priority.
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if p.IsValid() {
		return p, nil
	}
	for pr, label := range priorityLabels {
		if label == s {
			return pr, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
}

// DocumentationEvent is a single dated documentation obligation.
type DocumentationEvent struct {
	DayNumber   int       `json:"day_number"`
	Date        time.Time `json:"date"`
	Type        EventType `json:"type"`
	Priority    Priority  `json:"priority"`
	Description string    `json:"description"`
	// Deferred marks rounds that were moved off a stage-summary day.
	Deferred bool `json:"deferred,omitempty"`
}

// DateString formats the event date as YYYY-MM-DD.
func (e DocumentationEvent) DateString() string {
	return e.Date.Format(DateLayout)
}
