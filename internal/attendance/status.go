package attendance

import "time"

// Status is the day's classification. The punch flow only ever writes
// PENDING, FULL_DAY and HALF_DAY; LATE and ABSENT exist as report vocabulary.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusFullDay Status = "FULL_DAY"
	StatusHalfDay Status = "HALF_DAY"
	StatusLate    Status = "LATE"
	StatusAbsent  Status = "ABSENT"
)

const (
	// Arriving this long after office start still counts as on time.
	lateGrace = 5 * time.Minute
	// Minimum working time for a full day.
	fullDayMinimum = 4 * time.Hour
)

// statusAtIn classifies the in-punch. officeStart is a "15:04" wall-clock
// string; arriving past start + grace forfeits the full day immediately.
func statusAtIn(officeStart string, now time.Time) (Status, error) {
	start, err := time.Parse("15:04", officeStart)
	if err != nil {
		return "", err
	}

	threshold := time.Date(now.Year(), now.Month(), now.Day(),
		start.Hour(), start.Minute(), 0, 0, now.Location()).Add(lateGrace)

	if now.After(threshold) {
		return StatusHalfDay, nil
	}
	return StatusPending, nil
}

// resolveAtOut classifies the completed day. A negative span means the shift
// crossed midnight, so a day is added before comparing against the minimum.
// An in-punch already demoted to HALF_DAY stays HALF_DAY regardless of hours.
func resolveAtOut(current Status, in, out time.Time) Status {
	if current == StatusHalfDay {
		return StatusHalfDay
	}

	working := out.Sub(in)
	if working < 0 {
		working += 24 * time.Hour
	}

	if working >= fullDayMinimum {
		return StatusFullDay
	}
	return StatusHalfDay
}
