// Package handler exposes the REST surface consumed by the SPA. Handlers
// translate JSON in and out; domain rules live in internal/schedule and
// persistence behind store.Store.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/anil1907/fidi-api/internal/auth"
	"github.com/anil1907/fidi-api/internal/model"
	"github.com/anil1907/fidi-api/internal/schedule"
	"github.com/anil1907/fidi-api/internal/store"
)

type Handler struct {
	store    store.Store
	tokens   auth.Tokens
	hours    schedule.Hours
	log      zerolog.Logger
	validate *validator.Validate

	// Now is the clock for the calendar's today view. Tests pin it.
	Now func() time.Time
}

func New(st store.Store, tokens auth.Tokens, hours schedule.Hours, log zerolog.Logger) *Handler {
	return &Handler{
		store:    st,
		tokens:   tokens,
		hours:    hours,
		log:      log,
		validate: validator.New(),
		Now:      time.Now,
	}
}

func newID() string { return uuid.New().String() }

type errorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error().Err(err).Msg("encode response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, errorResponse{Message: msg})
}

// writeRuleError surfaces a schedule rule violation as a field-level error,
// never as a server failure.
func (h *Handler) writeRuleError(w http.ResponseWriter, rule *schedule.RuleError) {
	h.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Message: rule.Message, Code: rule.Code})
}

// writeStoreError maps ErrNotFound to 404 and everything else to 500.
func (h *Handler) writeStoreError(w http.ResponseWriter, err error, what string) {
	if errors.Is(err, store.ErrNotFound) {
		h.writeError(w, http.StatusNotFound, what+" not found")
		return
	}
	h.log.Error().Err(err).Str("entity", what).Msg("store error")
	h.writeError(w, http.StatusInternalServerError, "internal error")
}

// decode parses the body into v and runs struct-tag validation.
func (h *Handler) decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.New("invalid json body")
	}
	if err := h.validate.Struct(v); err != nil {
		return err
	}
	return nil
}

// validateSections enforces the fixed meal headings and item constraints
// shared by templates and plans, and assigns ids the client omitted.
func validateSections(sections []model.TemplateSection) error {
	for i := range sections {
		sec := &sections[i]
		if !sec.Title.Valid() {
			return errors.New("invalid section title")
		}
		if sec.ID == "" {
			sec.ID = newID()
		}
		for j := range sec.Items {
			it := &sec.Items[j]
			if it.Label == "" {
				return errors.New("section item label is required")
			}
			if it.Calories != nil && *it.Calories < 0 {
				return errors.New("calories must be non-negative")
			}
			if it.ID == "" {
				it.ID = newID()
			}
		}
	}
	return nil
}

// parseTime accepts RFC3339 or the datetime-local shapes the SPA sends;
// zone-less values are taken in the practice zone.
func (h *Handler) parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, s, h.hours.Loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("invalid time: " + s)
}

func (h *Handler) parseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, h.hours.Loc)
}
