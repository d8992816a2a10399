package match

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	// MinLeadHours is the whole-hour margin before kickoff under which a
	// match freezes for postulation edits.
	MinLeadHours = 12
)

// Instant combines a match's stored date and time strings into one moment.
// The result carries UTC; matches never cross a day boundary.
func Instant(date, timeOfDay string) (time.Time, error) {
	combined, err := time.Parse(DateLayout+" "+TimeLayout, date+" "+timeOfDay)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse match instant from %q %q: %w", date, timeOfDay, err)
	}
	return combined, nil
}

// EditableAt reports whether a match at the given date/time is still open for
// postulation edits at `now`. Malformed input counts as not editable: a match
// we cannot place in time must never unlock a submission.
func EditableAt(date, timeOfDay string, now time.Time) bool {
	instant, err := Instant(date, timeOfDay)
	if err != nil {
		return false
	}
	if instant.Before(now) {
		return false
	}
	// Whole hours only, truncating: 11h59m away is already frozen.
	return instant.Sub(now)/time.Hour >= MinLeadHours
}

func (m Match) EditableAt(now time.Time) bool {
	return EditableAt(m.Date, m.Time, now)
}
