package entries

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/fdg312/weight-tracker/internal/calendar"
	"github.com/google/uuid"
)

// UserDirectory answers whether a user id belongs to the household.
type UserDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) bool
}

type Handler struct {
	repo     *Repository
	users    UserDirectory
	onWeight func(DayEntry)
}

func NewHandler(repo *Repository, users UserDirectory) *Handler {
	return &Handler{repo: repo, users: users}
}

// WithWeightHook sets fn to run after a PATCH that sets a weight.
func (h *Handler) WithWeightHook(fn func(DayEntry)) *Handler {
	h.onWeight = fn
	return h
}

// HandleGet обрабатывает GET /v1/entries/{user_id}/{date}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, day, ok := h.parseKey(w, r)
	if !ok {
		return
	}

	entry, err := h.repo.GetOrCreate(r.Context(), userID, day)
	if err != nil {
		log.Printf("entries: get failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to load entry")
		return
	}
	writeJSON(w, http.StatusOK, ToDTO(entry))
}

// HandlePatch обрабатывает PATCH /v1/entries/{user_id}/{date}
func (h *Handler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	userID, day, ok := h.parseKey(w, r)
	if !ok {
		return
	}

	var patch Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return
	}

	entry, err := h.repo.Apply(r.Context(), userID, day, patch)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidWeight):
			writeError(w, http.StatusBadRequest, "invalid_weight", err.Error())
		case errors.Is(err, ErrInvalidValue):
			writeError(w, http.StatusBadRequest, "invalid_value", err.Error())
		default:
			log.Printf("entries: update failed: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to update entry")
		}
		return
	}
	if h.onWeight != nil && entry.Weight != nil && (patch.Weight != nil || patch.WeightText != nil) {
		h.onWeight(entry)
	}
	writeJSON(w, http.StatusOK, ToDTO(entry))
}

// parseKey reads {user_id} and {date}, writing the error response itself.
func (h *Handler) parseKey(w http.ResponseWriter, r *http.Request) (uuid.UUID, time.Time, bool) {
	userID, err := uuid.Parse(r.PathValue("user_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_user_id", "Invalid user ID")
		return uuid.Nil, time.Time{}, false
	}
	if h.users != nil && !h.users.Exists(r.Context(), userID) {
		writeError(w, http.StatusNotFound, "user_not_found", "User not found")
		return uuid.Nil, time.Time{}, false
	}

	day, err := h.repo.ParseDate(r.PathValue("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", calendar.ErrInvalidDate.Error())
		return uuid.Nil, time.Time{}, false
	}
	return userID, day, true
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
