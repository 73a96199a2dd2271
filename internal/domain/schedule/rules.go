package schedule

import (
	"fmt"
	"slices"
	"sort"
	"time"
)

// closedSchedule enumerates every obligation of a known stay, day 1 through
// the discharge day inclusive.
//
// Rounds that fall on a stage-summary day are moved DeferralDays later,
// exactly once. Under the weekday cadence the daily resident rounds stay in
// place so that every day of the stay keeps a rounds obligation.
func closedSchedule(w Window, params *Params) []DocumentationEvent {
	n := w.StayLength()
	events := make([]DocumentationEvent, 0, n*2)

	for day := 1; day <= n; day++ {
		date := w.DateOf(day)

		if day == 1 {
			events = append(events, newEvent(w, day, EventFirstEncounterNote))
		}

		summary := isStageSummaryDay(day, params)
		if summary {
			events = append(events, newEvent(w, day, EventStageSummary))
		}

		for _, rounds := range roundsFor(day, date, params) {
			if summary && isDeferrable(rounds, params) {
				events = append(events, deferredEvent(w, day, rounds, params))
				continue
			}
			events = append(events, newEvent(w, day, rounds))
		}
	}

	sortEvents(events)
	return foldDeferred(events)
}

// foldDeferred collapses events sharing a day and type into one. A deferred
// rounds event that lands on a day already carrying the same rounds absorbs
// it, so one note satisfies both. Events must already be sorted.
func foldDeferred(events []DocumentationEvent) []DocumentationEvent {
	out := events[:0]
	for _, e := range events {
		if n := len(out); n > 0 && out[n-1].DayNumber == e.DayNumber && out[n-1].Type == e.Type {
			if e.Deferred && !out[n-1].Deferred {
				out[n-1] = e
			}
			continue
		}
		out = append(out, e)
	}
	return out
}

// openSchedule emits the milestone obligations anchored to admission alone.
func openSchedule(w Window, params *Params) []DocumentationEvent {
	events := []DocumentationEvent{
		newEvent(w, params.LabReviewDay, EventLabReview),
		newEvent(w, params.DeadlineWarningDay, EventDeadlineApproaching),
		newEvent(w, params.DeadlineDay, EventDischargeDeadline),
	}
	sortEvents(events)
	return events
}

// roundsFor returns the rounds due on a stay day under the configured cadence.
func roundsFor(day int, date time.Time, params *Params) []EventType {
	switch params.Cadence {
	case CadenceEscalation:
		if t, ok := escalationRounds(day, params); ok {
			return []EventType{t}
		}
		return nil
	default:
		return weekdayRounds(date, params)
	}
}

func weekdayRounds(date time.Time, params *Params) []EventType {
	rounds := []EventType{EventResidentRounds}
	wd := date.Weekday()
	if slices.Contains(params.AttendingWeekdays, wd) {
		rounds = append(rounds, EventAttendingRounds)
	}
	if slices.Contains(params.ChiefWeekdays, wd) {
		rounds = append(rounds, EventChiefRounds)
	}
	return rounds
}

var escalationRotation = [...]EventType{EventResidentRounds, EventAttendingRounds, EventChiefRounds}

// escalationRounds hard-codes days 2 and 3, then rotates through the three
// rounds types on every EscalationStep-th day from EscalationStartDay.
func escalationRounds(day int, params *Params) (EventType, bool) {
	switch {
	case day == 2:
		return EventAttendingRounds, true
	case day == 3:
		return EventChiefRounds, true
	case day >= params.EscalationStartDay && day%params.EscalationStep == 0:
		cycle := ((day - params.EscalationStartDay) / params.EscalationStep) % len(escalationRotation)
		return escalationRotation[cycle], true
	default:
		return "", false
	}
}

func isStageSummaryDay(day int, params *Params) bool {
	return slices.Contains(params.StageSummaryDays, day)
}

func isDeferrable(t EventType, params *Params) bool {
	if !t.IsRounds() {
		return false
	}
	return !(params.Cadence == CadenceWeekday && t == EventResidentRounds)
}

// priorityFor derives an event's priority from its type alone.
func priorityFor(t EventType) Priority {
	switch t {
	case EventStageSummary, EventDeadlineApproaching:
		return PriorityHigh
	case EventDischargeDeadline:
		return PriorityUrgent
	default:
		return PriorityMedium
	}
}

func newEvent(w Window, day int, t EventType) DocumentationEvent {
	return DocumentationEvent{
		DayNumber:   day,
		Date:        w.DateOf(day),
		Type:        t,
		Priority:    priorityFor(t),
		Description: describe(t, day),
	}
}

func deferredEvent(w Window, fromDay int, t EventType, params *Params) DocumentationEvent {
	e := newEvent(w, fromDay+params.DeferralDays, t)
	e.Deferred = true
	e.Description = fmt.Sprintf("需书写%s记录（第%d天阶段小结顺延）", t.Label(), fromDay)
	return e
}

func describe(t EventType, day int) string {
	switch t {
	case EventLabReview:
		return fmt.Sprintf("入院第%d天，复查检验结果", day)
	case EventDeadlineApproaching:
		return fmt.Sprintf("住院第%d天，接近住院期限，请评估出院或准备延期申请", day)
	case EventDischargeDeadline:
		return fmt.Sprintf("住院第%d天，今日须办理出院或提交延期申请", day)
	default:
		return fmt.Sprintf("需书写%s记录", t.Label())
	}
}

// sortEvents orders by day, then by type precedence. The sort is stable so
// equal keys keep their generation order.
func sortEvents(events []DocumentationEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].DayNumber != events[j].DayNumber {
			return events[i].DayNumber < events[j].DayNumber
		}
		return eventPrecedence[events[i].Type] < eventPrecedence[events[j].Type]
	})
}
