// Package schedule holds the appointment time rules and the weekly calendar
// projection. Everything here is pure: callers pass in times and get data
// back, so the package is safe to use from any number of request goroutines.
package schedule

import (
	"fmt"
	"time"
)

// Clock is a time of day expressed as minutes from midnight.
type Clock int

func NewClock(hour, minute int) Clock {
	return Clock(hour*60 + minute)
}

// ParseClock reads "HH:MM".
func ParseClock(s string) (Clock, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("parse clock %q: out of range", s)
	}
	return NewClock(h, m), nil
}

func (c Clock) Hour() int   { return int(c) / 60 }
func (c Clock) Minute() int { return int(c) % 60 }

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// At anchors the clock to the calendar date of t in loc.
func (c Clock) At(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, c.Hour(), c.Minute(), 0, 0, loc)
}

func clockOf(t time.Time) Clock {
	return NewClock(t.Hour(), t.Minute())
}

// Hours is the practice's operating window. It is configuration, injected
// once at startup, never a package-level constant.
type Hours struct {
	Open        Clock
	Close       Clock
	MinDuration time.Duration
	Loc         *time.Location
}

// DefaultHours is the stock 09:00-18:00 window with 30-minute appointments.
func DefaultHours(loc *time.Location) Hours {
	return Hours{
		Open:        NewClock(9, 0),
		Close:       NewClock(18, 0),
		MinDuration: 30 * time.Minute,
		Loc:         loc,
	}
}

// LastStart is the latest time of day an appointment may begin.
func (h Hours) LastStart() Clock {
	return h.Close - Clock(h.MinDuration/time.Minute)
}

// FirstEnd is the earliest time of day an appointment may finish.
func (h Hours) FirstEnd() Clock {
	return h.Open + Clock(h.MinDuration/time.Minute)
}

// DefaultEnd derives the end time for an appointment created from a
// calendar-slot click without an explicit end: start plus the minimum
// duration, clamped to closing time. The clamp happens here, before
// validation, so Validate only ever accepts or rejects.
func (h Hours) DefaultEnd(start time.Time) time.Time {
	s := start.In(h.Loc)
	end := s.Add(h.MinDuration)
	closing := h.Close.At(s, h.Loc)
	if end.After(closing) {
		return closing
	}
	return end
}
