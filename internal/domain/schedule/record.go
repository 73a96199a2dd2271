package schedule

import (
	"fmt"
	"io"
	"strings"
)

// Roster names the physicians who sign rounds records.
type Roster struct {
	Resident  string `json:"resident" yaml:"resident"`
	Attending string `json:"attending" yaml:"attending"`
	Chief     string `json:"chief" yaml:"chief"`
}

// Signature returns the signature block for a record of type t. Unknown
// names leave the line blank for a handwritten signature.
func Signature(t EventType, roster Roster) string {
	switch t {
	case EventResidentRounds:
		return "住院医师：" + roster.Resident
	case EventAttendingRounds:
		return "住院医师：" + roster.Resident + "\n主治医师：" + roster.Attending
	case EventChiefRounds:
		return "住院医师：" + roster.Resident + "\n主任医师：" + roster.Chief
	default:
		return "医师签名："
	}
}

// SigningDoctor returns the physician named in a record title.
func SigningDoctor(t EventType, roster Roster) string {
	switch t {
	case EventResidentRounds:
		return roster.Resident
	case EventAttendingRounds:
		return roster.Attending
	case EventChiefRounds:
		return roster.Chief
	default:
		return ""
	}
}

// Record is one rendered rounds-record framework.
type Record struct {
	DayNumber int       `json:"day_number"`
	Date      string    `json:"date"`
	Type      EventType `json:"type"`
	Text      string    `json:"record"`
}

// RecordWriter renders rounds-record frameworks for scheduled events.
type RecordWriter struct {
	roster    Roster
	decorator Decorator
}

// NewRecordWriter creates a writer that signs with roster and decorates with d.
func NewRecordWriter(roster Roster, d Decorator) *RecordWriter {
	return &RecordWriter{roster: roster, decorator: d}
}

// Render returns the framework text for e. Only rounds and stage summaries
// produce a record.
func (w *RecordWriter) Render(e DocumentationEvent) (string, bool) {
	if !e.Type.IsRounds() && e.Type != EventStageSummary {
		return "", false
	}

	dec := w.decorator.Decorate(e)
	date := e.DateString()

	if e.Type == EventStageSummary {
		return fmt.Sprintf("%s %s %s记录", date, dec.Time, e.Type.Label()), true
	}

	var b strings.Builder
	doctor := ""
	if e.Type != EventResidentRounds {
		doctor = SigningDoctor(e.Type, w.roster)
	}
	fmt.Fprintf(&b, "%s %s %s%s记录\n", date, dec.Time, doctor, e.Type.Label())
	if e.Type == EventAttendingRounds || e.Type == EventChiefRounds {
		b.WriteString("汇报病史略\n")
	}
	b.WriteString("主诉：\n")
	b.WriteString(dec.VitalsSentence() + "\n")
	b.WriteString("上级医师分析：\n")
	b.WriteString("家属宣教：\n")
	b.WriteString("\n" + Signature(e.Type, w.roster))
	return b.String(), true
}

// RenderAll renders every recordable event in order.
func (w *RecordWriter) RenderAll(events []DocumentationEvent) []Record {
	records := make([]Record, 0, len(events))
	for _, e := range events {
		text, ok := w.Render(e)
		if !ok {
			continue
		}
		records = append(records, Record{
			DayNumber: e.DayNumber,
			Date:      e.DateString(),
			Type:      e.Type,
			Text:      text,
		})
	}
	return records
}

// WriteRecords writes the records separated by a blank line.
func WriteRecords(out io.Writer, records []Record) error {
	for i, r := range records {
		if i > 0 {
			if _, err := io.WriteString(out, "\n\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(out, r.Text); err != nil {
			return err
		}
	}
	return nil
}
