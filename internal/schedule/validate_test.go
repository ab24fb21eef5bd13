package schedule

import (
	"testing"
	"time"
)

func testHours(t *testing.T) Hours {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Istanbul")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return DefaultHours(loc)
}

func at(t *testing.T, h Hours, day string, hour, minute int) time.Time {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02", day, h.Loc)
	if err != nil {
		t.Fatalf("parse day: %v", err)
	}
	return d.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func TestValidateAccepts(t *testing.T) {
	h := testHours(t)

	tests := []struct {
		name       string
		start, end time.Time
	}{
		{"mid-morning hour", at(t, h, "2024-03-06", 10, 0), at(t, h, "2024-03-06", 11, 0)},
		{"exactly minimum at opening", at(t, h, "2024-03-06", 9, 0), at(t, h, "2024-03-06", 9, 30)},
		{"exactly closing boundary", at(t, h, "2024-03-06", 17, 30), at(t, h, "2024-03-06", 18, 0)},
		{"full day", at(t, h, "2024-03-06", 9, 0), at(t, h, "2024-03-06", 18, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := h.Validate(tt.start, tt.end); err != nil {
				t.Errorf("expected accept, got %s", err.Code)
			}
		})
	}
}

func TestValidateRejects(t *testing.T) {
	h := testHours(t)

	tests := []struct {
		name       string
		start, end time.Time
		want       *RuleError
	}{
		{"end before start", at(t, h, "2024-03-06", 11, 0), at(t, h, "2024-03-06", 10, 0), ErrEndBeforeStart},
		{"end equals start", at(t, h, "2024-03-06", 11, 0), at(t, h, "2024-03-06", 11, 0), ErrEndBeforeStart},
		{"crosses midnight", at(t, h, "2024-01-01", 16, 0), at(t, h, "2024-01-02", 9, 0), ErrCrossesMidnight},
		{"starts before opening", at(t, h, "2024-03-06", 8, 59), at(t, h, "2024-03-06", 10, 0), ErrStartOutsideHours},
		{"starts after last slot", at(t, h, "2024-03-06", 17, 31), at(t, h, "2024-03-06", 18, 0), ErrStartOutsideHours},
		{"ends after closing", at(t, h, "2024-03-06", 17, 0), at(t, h, "2024-03-06", 18, 1), ErrEndOutsideHours},
		{"too short", at(t, h, "2024-03-06", 10, 0), at(t, h, "2024-03-06", 10, 29), ErrDurationTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.Validate(tt.start, tt.end)
			if err == nil {
				t.Fatal("expected rejection")
			}
			if err != tt.want {
				t.Errorf("expected %s, got %s", tt.want.Code, err.Code)
			}
		})
	}
}

// Ordering: a cross-midnight pair that is also too short must report the
// same-day rule, not the duration rule.
func TestValidateRuleOrder(t *testing.T) {
	h := testHours(t)

	start := at(t, h, "2024-01-01", 23, 50)
	end := at(t, h, "2024-01-02", 0, 5)
	if err := h.Validate(start, end); err != ErrCrossesMidnight {
		t.Errorf("expected crosses_midnight first, got %v", err)
	}
}

func TestDefaultEnd(t *testing.T) {
	h := testHours(t)

	tests := []struct {
		name  string
		start time.Time
		want  time.Time
	}{
		{"plain slot", at(t, h, "2024-03-06", 10, 0), at(t, h, "2024-03-06", 10, 30)},
		{"minute overflow into next hour", at(t, h, "2024-03-06", 10, 45), at(t, h, "2024-03-06", 11, 15)},
		{"clamped to closing", at(t, h, "2024-03-06", 17, 45), at(t, h, "2024-03-06", 18, 0)},
		{"last slot", at(t, h, "2024-03-06", 17, 30), at(t, h, "2024-03-06", 18, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := h.DefaultEnd(tt.start)
			if !got.Equal(tt.want) {
				t.Errorf("expected %s, got %s", tt.want.Format(time.RFC3339), got.Format(time.RFC3339))
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("09:30")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Hour() != 9 || c.Minute() != 30 {
		t.Errorf("got %d:%d", c.Hour(), c.Minute())
	}
	if c.String() != "09:30" {
		t.Errorf("string: got %s", c.String())
	}
	if _, err := ParseClock("25:00"); err == nil {
		t.Error("expected error for 25:00")
	}
	if _, err := ParseClock("late"); err == nil {
		t.Error("expected error for junk")
	}
}
