package schedule

import (
	"sort"
	"time"

	"github.com/anil1907/fidi-api/internal/model"
)

// WeekGrid is the materialized weekly calendar: one column per day of the
// Monday-starting week, one row per hourly slot between opening and closing.
type WeekGrid struct {
	// WeekStart is Monday 00:00 of the displayed week, in the practice zone.
	WeekStart time.Time
	// Days are the seven midnights Monday through Sunday.
	Days []time.Time
	// Slots are the hourly marks, opening hour through closing hour inclusive.
	Slots []Clock
	// Cells[day][slot] holds the appointments whose start date matches the
	// day and whose truncated start hour matches the slot, in input order.
	Cells [][][]model.Appointment
	// Today holds appointments starting on now's date, ascending by start.
	Today []model.Appointment
	// Unslotted holds appointments in the displayed week whose start hour
	// falls outside the slot range. They used to vanish from the grid while
	// still existing in storage; surfacing them is deliberate.
	Unslotted []model.Appointment
}

// WeekStart returns Monday 00:00 of the ISO week containing anchor, in the
// practice zone. The week starts on Monday regardless of locale.
func (h Hours) WeekStart(anchor time.Time) time.Time {
	a := anchor.In(h.Loc)
	// Weekday() has Sunday=0; shift so Monday=0.
	back := (int(a.Weekday()) + 6) % 7
	y, m, d := a.AddDate(0, 0, -back).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, h.Loc)
}

// MaterializeWeek projects appointments onto the week containing anchor.
// It performs no validation: malformed input is the caller's contract
// violation. The caller supplies now so the "today" subset stays testable.
func (h Hours) MaterializeWeek(appts []model.Appointment, anchor, now time.Time) WeekGrid {
	weekStart := h.WeekStart(anchor)

	days := make([]time.Time, 7)
	for i := range days {
		days[i] = weekStart.AddDate(0, 0, i)
	}

	firstHour := h.Open.Hour()
	lastHour := h.Close.Hour()
	slots := make([]Clock, 0, lastHour-firstHour+1)
	for hr := firstHour; hr <= lastHour; hr++ {
		slots = append(slots, NewClock(hr, 0))
	}

	cells := make([][][]model.Appointment, 7)
	for i := range cells {
		cells[i] = make([][]model.Appointment, len(slots))
	}

	grid := WeekGrid{
		WeekStart: weekStart,
		Days:      days,
		Slots:     slots,
		Cells:     cells,
	}

	ny, nm, nd := now.In(h.Loc).Date()
	for _, a := range appts {
		s := a.StartsAt.In(h.Loc)

		if y, m, d := s.Date(); y == ny && m == nm && d == nd {
			grid.Today = append(grid.Today, a)
		}

		day := dayIndex(days, s)
		if day < 0 {
			continue
		}
		hr := s.Hour()
		if hr < firstHour || hr > lastHour {
			grid.Unslotted = append(grid.Unslotted, a)
			continue
		}
		slot := hr - firstHour
		grid.Cells[day][slot] = append(grid.Cells[day][slot], a)
	}

	sort.SliceStable(grid.Today, func(i, j int) bool {
		return grid.Today[i].StartsAt.Before(grid.Today[j].StartsAt)
	})

	return grid
}

func dayIndex(days []time.Time, t time.Time) int {
	y, m, d := t.Date()
	for i, day := range days {
		dy, dm, dd := day.Date()
		if y == dy && m == dm && d == dd {
			return i
		}
	}
	return -1
}
