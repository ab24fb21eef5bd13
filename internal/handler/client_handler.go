package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/anil1907/fidi-api/internal/model"
	"github.com/anil1907/fidi-api/internal/store"
)

type createClientRequest struct {
	FirstName string   `json:"firstName" validate:"required"`
	LastName  string   `json:"lastName" validate:"required"`
	Email     string   `json:"email" validate:"omitempty,email"`
	Phone     string   `json:"phone"`
	BirthDate string   `json:"birthDate" validate:"omitempty,datetime=2006-01-02"`
	Notes     string   `json:"notes"`
	Goals     []string `json:"goals"`
}

// updates are partial: nil means "leave as is", matching the SPA's PUT usage
type updateClientRequest struct {
	FirstName *string   `json:"firstName" validate:"omitempty,min=1"`
	LastName  *string   `json:"lastName" validate:"omitempty,min=1"`
	Email     *string   `json:"email" validate:"omitempty,email"`
	Phone     *string   `json:"phone"`
	BirthDate *string   `json:"birthDate" validate:"omitempty,datetime=2006-01-02"`
	Notes     *string   `json:"notes"`
	Goals     *[]string `json:"goals"`
}

type clientListResponse struct {
	Clients []model.Client `json:"clients"`
	Total   int            `json:"total"`
}

func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.ClientFilter{Search: q.Get("search")}
	if v := q.Get("page"); v != "" {
		f.Page, _ = strconv.Atoi(v)
	}
	if v := q.Get("pageSize"); v != "" {
		f.PageSize, _ = strconv.Atoi(v)
	}

	clients, total, err := h.store.ListClients(r.Context(), f)
	if err != nil {
		h.writeStoreError(w, err, "client")
		return
	}
	h.writeJSON(w, http.StatusOK, clientListResponse{Clients: clients, Total: total})
}

func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.GetClient(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeStoreError(w, err, "client")
		return
	}
	h.writeJSON(w, http.StatusOK, c)
}

func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req createClientRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid client data")
		return
	}

	c := &model.Client{
		ID:        newID(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		BirthDate: req.BirthDate,
		Notes:     req.Notes,
		Goals:     req.Goals,
	}
	if err := h.store.CreateClient(r.Context(), c); err != nil {
		h.writeStoreError(w, err, "client")
		return
	}
	h.writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	var req updateClientRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid client data")
		return
	}

	c, err := h.store.GetClient(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeStoreError(w, err, "client")
		return
	}

	if req.FirstName != nil {
		c.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		c.LastName = *req.LastName
	}
	if req.Email != nil {
		c.Email = *req.Email
	}
	if req.Phone != nil {
		c.Phone = *req.Phone
	}
	if req.BirthDate != nil {
		c.BirthDate = *req.BirthDate
	}
	if req.Notes != nil {
		c.Notes = *req.Notes
	}
	if req.Goals != nil {
		c.Goals = *req.Goals
	}

	if err := h.store.UpdateClient(r.Context(), c); err != nil {
		h.writeStoreError(w, err, "client")
		return
	}
	h.writeJSON(w, http.StatusOK, c)
}

func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteClient(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeStoreError(w, err, "client")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "client deleted"})
}
