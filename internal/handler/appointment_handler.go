package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/anil1907/fidi-api/internal/model"
	"github.com/anil1907/fidi-api/internal/store"
)

type createAppointmentRequest struct {
	ClientID    string `json:"clientId" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	StartsAt    string `json:"startsAt" validate:"required"`
	// EndsAt is optional; when absent the default duration is applied,
	// clamped to closing time.
	EndsAt string `json:"endsAt"`
	Status string `json:"status"`
}

type updateAppointmentRequest struct {
	ClientID    *string `json:"clientId" validate:"omitempty,min=1"`
	Title       *string `json:"title" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	StartsAt    *string `json:"startsAt"`
	EndsAt      *string `json:"endsAt"`
	Status      *string `json:"status"`
}

func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.AppointmentFilter{ClientID: q.Get("clientId")}
	if v := q.Get("from"); v != "" {
		t, err := h.parseTime(v)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid from parameter")
			return
		}
		f.From = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := h.parseTime(v)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid to parameter")
			return
		}
		f.To = &t
	}

	appts, err := h.store.ListAppointments(r.Context(), f)
	if err != nil {
		h.writeStoreError(w, err, "appointment")
		return
	}
	h.writeJSON(w, http.StatusOK, appts)
}

func (h *Handler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	a, err := h.store.GetAppointment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeStoreError(w, err, "appointment")
		return
	}
	h.writeJSON(w, http.StatusOK, a)
}

func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req createAppointmentRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid appointment data")
		return
	}

	if _, err := h.store.GetClient(r.Context(), req.ClientID); err != nil {
		h.writeStoreError(w, err, "client")
		return
	}

	starts, err := h.parseTime(req.StartsAt)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid startsAt")
		return
	}
	var ends time.Time
	if req.EndsAt == "" {
		ends = h.hours.DefaultEnd(starts)
	} else {
		ends, err = h.parseTime(req.EndsAt)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid endsAt")
			return
		}
	}

	status := model.AppointmentStatus(req.Status)
	if req.Status == "" {
		status = model.StatusScheduled
	}
	if !status.Valid() {
		h.writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	if rule := h.hours.Validate(starts, ends); rule != nil {
		h.writeRuleError(w, rule)
		return
	}

	a := &model.Appointment{
		ID:          newID(),
		ClientID:    req.ClientID,
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    starts,
		EndsAt:      ends,
		Status:      status,
	}
	if err := h.store.CreateAppointment(r.Context(), a); err != nil {
		h.writeStoreError(w, err, "appointment")
		return
	}
	h.writeJSON(w, http.StatusCreated, a)
}

func (h *Handler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	var req updateAppointmentRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid appointment data")
		return
	}

	a, err := h.store.GetAppointment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeStoreError(w, err, "appointment")
		return
	}

	if req.ClientID != nil {
		if _, err := h.store.GetClient(r.Context(), *req.ClientID); err != nil {
			h.writeStoreError(w, err, "client")
			return
		}
		a.ClientID = *req.ClientID
	}
	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Description != nil {
		a.Description = *req.Description
	}
	if req.StartsAt != nil {
		t, err := h.parseTime(*req.StartsAt)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid startsAt")
			return
		}
		a.StartsAt = t
	}
	if req.EndsAt != nil {
		t, err := h.parseTime(*req.EndsAt)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid endsAt")
			return
		}
		a.EndsAt = t
	}
	if req.Status != nil {
		status := model.AppointmentStatus(*req.Status)
		if !status.Valid() {
			h.writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
		a.Status = status
	}

	// Rescheduling must pass the same rules as booking.
	if req.StartsAt != nil || req.EndsAt != nil {
		if rule := h.hours.Validate(a.StartsAt, a.EndsAt); rule != nil {
			h.writeRuleError(w, rule)
			return
		}
	}

	if err := h.store.UpdateAppointment(r.Context(), a); err != nil {
		h.writeStoreError(w, err, "appointment")
		return
	}
	h.writeJSON(w, http.StatusOK, a)
}

func (h *Handler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteAppointment(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeStoreError(w, err, "appointment")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "appointment deleted"})
}
