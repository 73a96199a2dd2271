package schedule

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used across the ward.
const DateLayout = "2006-01-02"

// Window is the stay a schedule is derived from. Discharge is nil for an
// open-ended stay.
type Window struct {
	Admission time.Time
	Discharge *time.Time
}

// NewWindow normalizes both dates to calendar days and validates their order.
func NewWindow(admission time.Time, discharge *time.Time) (Window, error) {
	w := Window{Admission: CalendarDay(admission)}
	if discharge != nil {
		d := CalendarDay(*discharge)
		w.Discharge = &d
	}
	if err := w.Validate(); err != nil {
		return Window{}, err
	}
	return w, nil
}

// ParseWindow builds a window from YYYY-MM-DD strings. An empty discharge
// string yields an open window.
func ParseWindow(admission, discharge string) (Window, error) {
	a, err := ParseDate(admission)
	if err != nil {
		return Window{}, fmt.Errorf("%w: admission: %v", ErrInvalidWindow, err)
	}
	if discharge == "" {
		return NewWindow(a, nil)
	}
	d, err := ParseDate(discharge)
	if err != nil {
		return Window{}, fmt.Errorf("%w: discharge: %v", ErrInvalidWindow, err)
	}
	return NewWindow(a, &d)
}

// Validate rejects windows whose discharge precedes admission.
func (w Window) Validate() error {
	if w.Admission.IsZero() {
		return fmt.Errorf("%w: admission date is required", ErrInvalidWindow)
	}
	if w.Discharge != nil && CalendarDay(*w.Discharge).Before(CalendarDay(w.Admission)) {
		return fmt.Errorf("%w: discharge %s precedes admission %s",
			ErrInvalidWindow, w.Discharge.Format(DateLayout), w.Admission.Format(DateLayout))
	}
	return nil
}

// IsOpen reports whether the stay has no discharge date.
func (w Window) IsOpen() bool {
	return w.Discharge == nil
}

// StayLength is the number of calendar days in a closed stay, counting both
// the admission and the discharge day. It returns 0 for open windows.
func (w Window) StayLength() int {
	if w.Discharge == nil {
		return 0
	}
	return DaysBetween(w.Admission, *w.Discharge) + 1
}

// DateOf returns the calendar date of a 1-based stay day.
func (w Window) DateOf(day int) time.Time {
	return CalendarDay(w.Admission).AddDate(0, 0, day-1)
}

// DayNumberOf returns the 1-based stay day of a calendar date.
func (w Window) DayNumberOf(date time.Time) int {
	return DaysBetween(w.Admission, date) + 1
}

// ParseDate parses a YYYY-MM-DD calendar date in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// CalendarDay truncates t to midnight UTC of its own calendar date.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts whole calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(CalendarDay(b).Sub(CalendarDay(a)).Hours() / 24)
}
