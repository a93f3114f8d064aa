package scheduling

import (
	"errors"
	"time"
)

var (
	ErrInvalidInterval = errors.New("interval end must be after start")
	ErrOutsideWindow   = errors.New("interval is outside the operating window")
)

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval builds an interval and rejects empty or inverted ranges.
func NewInterval(start, end time.Time) (Interval, error) {
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return Interval{}, ErrInvalidInterval
	}

	return Interval{Start: start, End: end}, nil
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Overlaps reports whether two half-open intervals intersect.
// Back-to-back intervals (i.End == other.Start) do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains reports whether other lies fully within i.
func (i Interval) Contains(other Interval) bool {
	return !other.Start.Before(i.Start) && !other.End.After(i.End)
}

// Window is a daily operating window expressed as times of day.
type Window struct {
	OpensAt  TimeOfDay
	ClosesAt TimeOfDay
}

// On projects the window onto a calendar date in the date's location.
func (w Window) On(date time.Time) Interval {
	year, month, day := date.Date()
	loc := date.Location()

	return Interval{
		Start: time.Date(year, month, day, w.OpensAt.Hour, w.OpensAt.Minute, 0, 0, loc),
		End:   time.Date(year, month, day, w.ClosesAt.Hour, w.ClosesAt.Minute, 0, 0, loc),
	}
}

// ValidateWithin checks that the candidate interval falls inside the window
// projected on the candidate's starting date.
func (w Window) ValidateWithin(candidate Interval) error {
	if !w.On(candidate.Start).Contains(candidate) {
		return ErrOutsideWindow
	}

	return nil
}

// TimeOfDay is a wall-clock time with minute precision.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM" strings, the format resources store their
// opening hours in.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return TimeOfDay{}, errors.New("time of day must be in HH:MM format")
	}

	return TimeOfDay{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return time.Date(0, 1, 1, t.Hour, t.Minute, 0, 0, time.UTC).Format("15:04")
}
