package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/S0L1ST8/PasswordGeneratorComposite/internal/middleware"
	"github.com/S0L1ST8/PasswordGeneratorComposite/internal/model"
	"github.com/S0L1ST8/PasswordGeneratorComposite/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ProfileHandler handles HTTP requests for saved generation profiles.
type ProfileHandler struct {
	service *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(svc *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: svc}
}

// HandleList handles GET /api/v1/profiles requests.
func (h *ProfileHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	profiles, err := h.service.List(r.Context(), userID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

// HandleCreate handles POST /api/v1/profiles requests.
func (h *ProfileHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.ProfileRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	resp, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// HandleUpdate handles PUT /api/v1/profiles/{profile_id} requests.
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, profileID, ok := profileParams(w, r)
	if !ok {
		return
	}

	var req model.ProfileRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	resp, err := h.service.Update(r.Context(), userID, profileID, req)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleDelete handles DELETE /api/v1/profiles/{profile_id} requests.
func (h *ProfileHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, profileID, ok := profileParams(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, profileID); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleGenerate handles POST /api/v1/profiles/{profile_id}/generate requests.
func (h *ProfileHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	userID, profileID, ok := profileParams(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Generate(r.Context(), userID, profileID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func profileParams(w http.ResponseWriter, r *http.Request) (int64, string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return 0, "", false
	}

	profileID := chi.URLParam(r, "profile_id")
	if _, err := uuid.Parse(profileID); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid profile id"))
		return 0, "", false
	}
	return userID, profileID, true
}

func (h *ProfileHandler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrNameTooLong),
		errors.Is(err, service.ErrClassesRequired),
		errors.Is(err, service.ErrInvalidVersion),
		service.IsValidationError(err):
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrProfileNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrVersionConflict):
		writeJSON(w, http.StatusConflict, errorResponse(err.Error()))
	default:
		slog.Error("profile request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
	}
}
