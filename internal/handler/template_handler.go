package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/anil1907/fidi-api/internal/model"
)

type createTemplateRequest struct {
	Name        string                  `json:"name" validate:"required"`
	Description string                  `json:"description"`
	Sections    []model.TemplateSection `json:"sections"`
}

type updateTemplateRequest struct {
	Name        *string                  `json:"name" validate:"omitempty,min=1"`
	Description *string                  `json:"description"`
	Sections    *[]model.TemplateSection `json:"sections"`
}

func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.store.ListTemplates(r.Context())
	if err != nil {
		h.writeStoreError(w, err, "template")
		return
	}
	h.writeJSON(w, http.StatusOK, templates)
}

func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := h.store.GetTemplate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeStoreError(w, err, "template")
		return
	}
	h.writeJSON(w, http.StatusOK, t)
}

func (h *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req createTemplateRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid template data")
		return
	}
	if err := validateSections(req.Sections); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	t := &model.Template{
		ID:          newID(),
		Name:        req.Name,
		Description: req.Description,
		Sections:    req.Sections,
	}
	if err := h.store.CreateTemplate(r.Context(), t); err != nil {
		h.writeStoreError(w, err, "template")
		return
	}
	h.writeJSON(w, http.StatusCreated, t)
}

func (h *Handler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var req updateTemplateRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid template data")
		return
	}

	t, err := h.store.GetTemplate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeStoreError(w, err, "template")
		return
	}

	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Sections != nil {
		if err := validateSections(*req.Sections); err != nil {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		t.Sections = *req.Sections
	}

	if err := h.store.UpdateTemplate(r.Context(), t); err != nil {
		h.writeStoreError(w, err, "template")
		return
	}
	h.writeJSON(w, http.StatusOK, t)
}

func (h *Handler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteTemplate(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeStoreError(w, err, "template")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "template deleted"})
}
