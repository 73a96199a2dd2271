package service

import (
	"sort"
	"time"

	"github.com/rehabdesk/rehabdesk-api/internal/domain"
	"github.com/rehabdesk/rehabdesk-api/internal/domain/schedule"
)

// ReminderObserver is told how many reminders of each type were materialized.
type ReminderObserver interface {
	ObserveRemindersMaterialized(reminderType string, n int)
}

type eventKey struct {
	eventType schedule.EventType
	date      time.Time
}

// stayEvents returns the obligations to materialize for patient. A patient
// on the ward gets the open-window milestones. A discharged patient gets the
// closed-window schedule plus the milestones that fell inside the stay.
func stayEvents(scheduler schedule.Service, patient *domain.Patient) ([]schedule.DocumentationEvent, error) {
	w := patient.Window()
	milestones, err := scheduler.GenerateSchedule(w, schedule.ModeOpen)
	if err != nil {
		return nil, err
	}
	if w.IsOpen() {
		return milestones, nil
	}

	events, err := scheduler.GenerateSchedule(w, schedule.ModeClosed)
	if err != nil {
		return nil, err
	}
	for _, m := range milestones {
		if !m.Date.After(*w.Discharge) {
			events = append(events, m)
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].DayNumber < events[j].DayNumber
	})
	return events, nil
}

// materialize turns events into reminders, skipping events already covered
// by an existing reminder or an earlier event of the same type and date.
func materialize(
	patient *domain.Patient,
	events []schedule.DocumentationEvent,
	existing []*domain.Reminder,
) ([]*domain.Reminder, error) {
	covered := make(map[eventKey]bool, len(existing))
	for _, r := range existing {
		if r.EventType != "" {
			covered[eventKey{r.EventType, schedule.CalendarDay(r.Date)}] = true
		}
	}

	reminders := make([]*domain.Reminder, 0, len(events))
	for _, e := range events {
		key := eventKey{e.Type, schedule.CalendarDay(e.Date)}
		if covered[key] {
			continue
		}
		r, err := domain.NewReminderFromEvent(patient, e)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, r)
		covered[key] = true
	}
	return reminders, nil
}

func observeReminders(obs ReminderObserver, reminders []*domain.Reminder) {
	if obs == nil {
		return
	}
	counts := make(map[string]int)
	for _, r := range reminders {
		counts[r.Type]++
	}
	for t, n := range counts {
		obs.ObserveRemindersMaterialized(t, n)
	}
}
