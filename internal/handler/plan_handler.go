package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/anil1907/fidi-api/internal/model"
)

type createPlanRequest struct {
	ClientID   string                  `json:"clientId" validate:"required"`
	TemplateID string                  `json:"templateId" validate:"required"`
	Name       string                  `json:"name" validate:"required"`
	DateStart  string                  `json:"dateStart" validate:"required,datetime=2006-01-02"`
	DateEnd    string                  `json:"dateEnd" validate:"required,datetime=2006-01-02"`
	Notes      string                  `json:"notes"`
	Sections   []model.TemplateSection `json:"sections"`
}

type updatePlanRequest struct {
	Name      *string                  `json:"name" validate:"omitempty,min=1"`
	DateStart *string                  `json:"dateStart" validate:"omitempty,datetime=2006-01-02"`
	DateEnd   *string                  `json:"dateEnd" validate:"omitempty,datetime=2006-01-02"`
	Notes     *string                  `json:"notes"`
	Sections  *[]model.TemplateSection `json:"sections"`
}

func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.store.ListPlans(r.Context(), r.URL.Query().Get("clientId"))
	if err != nil {
		h.writeStoreError(w, err, "plan")
		return
	}
	h.writeJSON(w, http.StatusOK, plans)
}

func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.GetPlan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeStoreError(w, err, "plan")
		return
	}
	h.writeJSON(w, http.StatusOK, p)
}

// CreatePlan instantiates a plan from a template. When the request carries
// no sections the template's are snapshotted; either way the plan owns a
// deep copy and later template edits never reach it.
func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req createPlanRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid plan data")
		return
	}

	if _, err := h.store.GetClient(r.Context(), req.ClientID); err != nil {
		h.writeStoreError(w, err, "client")
		return
	}
	tpl, err := h.store.GetTemplate(r.Context(), req.TemplateID)
	if err != nil {
		h.writeStoreError(w, err, "template")
		return
	}

	sections := req.Sections
	if len(sections) == 0 {
		sections = tpl.Sections
	}
	if err := validateSections(sections); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p := &model.DietPlan{
		ID:         newID(),
		ClientID:   req.ClientID,
		TemplateID: req.TemplateID,
		Name:       req.Name,
		DateStart:  req.DateStart,
		DateEnd:    req.DateEnd,
		Notes:      req.Notes,
		Sections:   model.CopySections(sections),
	}
	if err := h.store.CreatePlan(r.Context(), p); err != nil {
		h.writeStoreError(w, err, "plan")
		return
	}
	h.writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	var req updatePlanRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid plan data")
		return
	}

	p, err := h.store.GetPlan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeStoreError(w, err, "plan")
		return
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.DateStart != nil {
		p.DateStart = *req.DateStart
	}
	if req.DateEnd != nil {
		p.DateEnd = *req.DateEnd
	}
	if req.Notes != nil {
		p.Notes = *req.Notes
	}
	if req.Sections != nil {
		if err := validateSections(*req.Sections); err != nil {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		p.Sections = model.CopySections(*req.Sections)
	}

	if err := h.store.UpdatePlan(r.Context(), p); err != nil {
		h.writeStoreError(w, err, "plan")
		return
	}
	h.writeJSON(w, http.StatusOK, p)
}

func (h *Handler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeletePlan(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeStoreError(w, err, "plan")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "plan deleted"})
}
