package inventory

import (
	"fmt"
	"time"
)

const weekIDLayout = "2006-01-02"

// Week identifies a tracking week. Weeks start on Sunday in the location of
// the time they were derived from.
type Week struct {
	Start time.Time
	ID    string
	Label string
}

// WeekOf returns the week containing t.
func WeekOf(t time.Time) Week {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	start := day.AddDate(0, 0, -int(day.Weekday()))
	end := start.AddDate(0, 0, 6)
	return Week{
		Start: start,
		ID:    start.Format(weekIDLayout),
		Label: fmt.Sprintf("%d/%d – %d/%d", int(start.Month()), start.Day(), int(end.Month()), end.Day()),
	}
}

// ParseWeekID parses a canonical week id back into its week in loc.
func ParseWeekID(id string, loc *time.Location) (Week, error) {
	if loc == nil {
		loc = time.Local
	}
	start, err := time.ParseInLocation(weekIDLayout, id, loc)
	if err != nil {
		return Week{}, fmt.Errorf("parse week id %q: %w", id, err)
	}
	return WeekOf(start), nil
}

// SheetKey is the storage key holding this week's count sheet.
func (w Week) SheetKey() string {
	return "wk_" + w.ID
}

// Next returns the following week.
func (w Week) Next() Week {
	return WeekOf(w.Start.AddDate(0, 0, 7))
}
