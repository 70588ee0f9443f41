package profiles

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
)

// Handler содержит HTTP обработчики для профилей
type Handler struct {
	service *Service
}

// NewHandler создаёт новый handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleList обрабатывает GET /v1/profiles
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.service.ListProfiles(r.Context())
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to list profiles")
		return
	}

	h.sendJSON(w, http.StatusOK, ProfilesResponse{Profiles: profiles})
}

// HandleUpdate обрабатывает PATCH /v1/profiles/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_id", "Invalid profile ID")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyName):
			h.sendError(w, http.StatusBadRequest, "empty_name", "Name cannot be empty")
		case errors.Is(err, ErrInvalidTarget):
			h.sendError(w, http.StatusBadRequest, "invalid_target", err.Error())
		case errors.Is(err, ErrProfileNotFound):
			h.sendError(w, http.StatusNotFound, "not_found", "Profile not found")
		default:
			h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to update profile")
		}
		return
	}

	h.sendJSON(w, http.StatusOK, profile)
}

// HandleSetPrimary обрабатывает POST /v1/profiles/{id}/primary
func (h *Handler) HandleSetPrimary(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_id", "Invalid profile ID")
		return
	}

	profiles, err := h.service.SetPrimary(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			h.sendError(w, http.StatusNotFound, "not_found", "Profile not found")
			return
		}
		h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to set primary profile")
		return
	}

	h.sendJSON(w, http.StatusOK, ProfilesResponse{Profiles: profiles})
}

// sendJSON отправляет JSON ответ
func (h *Handler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// sendError отправляет ошибку в формате ErrorResponse
func (h *Handler) sendError(w http.ResponseWriter, status int, code, message string) {
	h.sendJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
