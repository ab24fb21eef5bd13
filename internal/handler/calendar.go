package handler

import (
	"net/http"

	"github.com/anil1907/fidi-api/internal/model"
	"github.com/anil1907/fidi-api/internal/store"
)

type calendarResponse struct {
	WeekStart string                  `json:"weekStart"`
	Days      []string                `json:"days"`
	Slots     []string                `json:"slots"`
	Cells     [][][]model.Appointment `json:"cells"`
	Today     []model.Appointment     `json:"today"`
	Unslotted []model.Appointment     `json:"unslotted"`
}

// Calendar returns the weekly grid for the week containing ?anchor
// (YYYY-MM-DD, default today).
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	now := h.Now()

	anchor := now
	if v := r.URL.Query().Get("anchor"); v != "" {
		t, err := h.parseDate(v)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid anchor date")
			return
		}
		anchor = t
	}

	// Fetch only the displayed week plus today, not the whole table.
	weekStart := h.hours.WeekStart(anchor)
	from := weekStart
	to := weekStart.AddDate(0, 0, 7)
	if now.Before(from) {
		from = h.hours.WeekStart(now)
	}
	if !now.Before(to) {
		to = now.AddDate(0, 0, 1)
	}
	appts, err := h.store.ListAppointments(r.Context(), store.AppointmentFilter{From: &from, To: &to})
	if err != nil {
		h.writeStoreError(w, err, "appointment")
		return
	}

	grid := h.hours.MaterializeWeek(appts, anchor, now)

	resp := calendarResponse{
		WeekStart: grid.WeekStart.Format("2006-01-02"),
		Days:      make([]string, len(grid.Days)),
		Slots:     make([]string, len(grid.Slots)),
		Cells:     grid.Cells,
		Today:     grid.Today,
		Unslotted: grid.Unslotted,
	}
	for i, d := range grid.Days {
		resp.Days[i] = d.Format("2006-01-02")
	}
	for i, s := range grid.Slots {
		resp.Slots[i] = s.String()
	}
	if resp.Today == nil {
		resp.Today = []model.Appointment{}
	}
	if resp.Unslotted == nil {
		resp.Unslotted = []model.Appointment{}
	}
	for day := range resp.Cells {
		for slot := range resp.Cells[day] {
			if resp.Cells[day][slot] == nil {
				resp.Cells[day][slot] = []model.Appointment{}
			}
		}
	}
	h.writeJSON(w, http.StatusOK, resp)
}
