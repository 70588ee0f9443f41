package rollup

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/fdg312/weight-tracker/internal/calendar"
	"github.com/fdg312/weight-tracker/internal/profiles"
	"github.com/google/uuid"
)

type Handler struct {
	service  *Service
	profiles *profiles.Service
	parse    func(string) (time.Time, error)
}

// NewHandler wires the week endpoints. parseDate resolves "end" in the
// tracker location.
func NewHandler(service *Service, profileService *profiles.Service, parseDate func(string) (time.Time, error)) *Handler {
	return &Handler{service: service, profiles: profileService, parse: parseDate}
}

// HandleWeek обрабатывает GET /v1/rollups/week?user_id=&end=
func (h *Handler) HandleWeek(w http.ResponseWriter, r *http.Request) {
	userID, end, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	view, err := h.service.Week(r.Context(), userID, end)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleHousehold обрабатывает GET /v1/rollups/household?user_id=&end=
func (h *Handler) HandleHousehold(w http.ResponseWriter, r *http.Request) {
	userID, end, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	view, err := h.service.Household(r.Context(), userID, end)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// parseQuery defaults user_id to the primary profile and end to today.
func (h *Handler) parseQuery(w http.ResponseWriter, r *http.Request) (uuid.UUID, time.Time, bool) {
	q := r.URL.Query()

	userID, err := resolveUser(r.Context(), h.profiles, q.Get("user_id"))
	if err != nil {
		if errors.Is(err, profiles.ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, "user_not_found", "User not found")
		} else {
			writeError(w, http.StatusBadRequest, "invalid_user_id", "Invalid user ID")
		}
		return uuid.Nil, time.Time{}, false
	}

	end, err := h.parse(q.Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", calendar.ErrInvalidDate.Error())
		return uuid.Nil, time.Time{}, false
	}
	return userID, end, true
}

func resolveUser(ctx context.Context, svc *profiles.Service, raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		p, err := svc.Primary(ctx)
		if err != nil {
			return uuid.Nil, err
		}
		return p.ID, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, profiles.ErrProfileNotFound) {
		writeError(w, http.StatusNotFound, "user_not_found", "User not found")
		return
	}
	log.Printf("rollup: %v", err)
	writeError(w, http.StatusInternalServerError, "internal_error", "Failed to build roll-up")
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
