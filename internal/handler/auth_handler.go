package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/anil1907/fidi-api/internal/auth"
	"github.com/anil1907/fidi-api/internal/middleware"
	"github.com/anil1907/fidi-api/internal/model"
	"github.com/anil1907/fidi-api/internal/store"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type authResponse struct {
	UserID       string `json:"userId"`
	Name         string `json:"name,omitempty"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid registration data")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	u := &model.User{
		ID:           newID(),
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
	}
	if err := h.store.CreateUser(r.Context(), u); err != nil {
		// duplicate email, but don't reveal that
		if errors.Is(err, store.ErrDuplicateEmail) {
			h.writeError(w, http.StatusConflict, "registration failed")
			return
		}
		h.writeStoreError(w, err, "user")
		return
	}

	h.issueTokens(w, r, u, http.StatusCreated)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "email and password required")
		return
	}

	u, err := h.store.UserByEmail(r.Context(), req.Email)
	if err != nil || !auth.CheckPassword(u.PasswordHash, req.Password) {
		h.writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	h.issueTokens(w, r, u, http.StatusOK)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "refresh token required")
		return
	}

	rt, err := h.store.GetRefreshTokenByHash(r.Context(), auth.HashRefreshToken(req.RefreshToken))
	if err != nil || rt.Revoked || rt.ExpiresAt.Before(time.Now()) {
		h.writeError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	newRaw, newHash, err := auth.NewRefreshToken()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	newTokenID := newID()
	if err := h.store.RotateRefreshToken(r.Context(), rt.ID, newTokenID, rt.UserID, newHash, time.Now().Add(h.tokens.RefreshTTL)); err != nil {
		h.writeStoreError(w, err, "refresh token")
		return
	}

	access, err := h.tokens.Access(rt.UserID)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.writeJSON(w, http.StatusOK, authResponse{
		UserID:       rt.UserID,
		Token:        access,
		RefreshToken: newRaw,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserID(r.Context())
	if err := h.store.RevokeAllRefreshTokens(r.Context(), uid); err != nil {
		h.writeStoreError(w, err, "refresh token")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *Handler) issueTokens(w http.ResponseWriter, r *http.Request, u *model.User, status int) {
	access, err := h.tokens.Access(u.ID)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	refreshRaw, refreshHash, err := auth.NewRefreshToken()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if _, err := h.store.CreateRefreshToken(r.Context(), u.ID, refreshHash, time.Now().Add(h.tokens.RefreshTTL)); err != nil {
		h.writeStoreError(w, err, "refresh token")
		return
	}

	h.writeJSON(w, status, authResponse{
		UserID:       u.ID,
		Name:         u.Name,
		Token:        access,
		RefreshToken: refreshRaw,
	})
}
