package schedule

import "time"

// RuleError is a recoverable validation failure meant to be shown verbatim
// as a field-level form error. It never maps to a server error.
type RuleError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *RuleError) Error() string { return e.Message }

var (
	ErrEndBeforeStart = &RuleError{
		Code:    "end_before_start",
		Message: "end time must be after start time",
	}
	ErrCrossesMidnight = &RuleError{
		Code:    "crosses_midnight",
		Message: "appointment must start and end on the same day",
	}
	ErrStartOutsideHours = &RuleError{
		Code:    "start_outside_business_hours",
		Message: "start time is outside business hours",
	}
	ErrEndOutsideHours = &RuleError{
		Code:    "end_outside_business_hours",
		Message: "end time is outside business hours",
	}
	ErrDurationTooShort = &RuleError{
		Code:    "duration_too_short",
		Message: "appointment is shorter than the minimum duration",
	}
)

// Validate checks a proposed start/end pair against the business rules and
// returns the first violated rule, in this fixed order: ordering, same-day,
// start window, end window, minimum duration. Boundaries are inclusive at
// the exact minute. Times are compared in the practice time zone.
//
// 09:00-09:30 and 17:30-18:00 pass with the default window; 17:31 starts
// fail even when a shorter slot would still fit before closing.
func (h Hours) Validate(start, end time.Time) *RuleError {
	if !end.After(start) {
		return ErrEndBeforeStart
	}

	s := start.In(h.Loc)
	e := end.In(h.Loc)

	sy, sm, sd := s.Date()
	ey, em, ed := e.Date()
	if sy != ey || sm != em || sd != ed {
		return ErrCrossesMidnight
	}

	if sc := clockOf(s); sc < h.Open || sc > h.LastStart() {
		return ErrStartOutsideHours
	}
	if ec := clockOf(e); ec < h.FirstEnd() || ec > h.Close {
		return ErrEndOutsideHours
	}

	if e.Sub(s) < h.MinDuration {
		return ErrDurationTooShort
	}
	return nil
}
