package health

import (
	"context"
	"encoding/json"
	"errors"
	"io"
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
	adapter *Adapter
	users   UserDirectory
	parse   func(string) (time.Time, error)
}

func NewHandler(adapter *Adapter, users UserDirectory, parseDate func(string) (time.Time, error)) *Handler {
	return &Handler{adapter: adapter, users: users, parse: parseDate}
}

type StateResponse struct {
	State State `json:"state"`
}

// SyncRequest names the entry that receives synced steps.
type SyncRequest struct {
	UserID uuid.UUID `json:"user_id"`
	Date   string    `json:"date"`
}

// HandleState обрабатывает GET /v1/health/state
func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StateResponse{State: h.adapter.State()})
}

// HandleAuthorize обрабатывает POST /v1/health/authorize. An optional body
// {user_id, date} schedules a step sync once access is granted.
func (h *Handler) HandleAuthorize(w http.ResponseWriter, r *http.Request) {
	var req SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return
	}

	var onAuthorized func()
	if req.UserID != uuid.Nil {
		day, ok := h.resolve(w, r, req)
		if !ok {
			return
		}
		userID := req.UserID
		onAuthorized = func() { h.adapter.SyncSteps(userID, day) }
	}

	h.adapter.RequestAuthorization(onAuthorized)
	writeJSON(w, http.StatusAccepted, StateResponse{State: h.adapter.State()})
}

// HandleSyncSteps обрабатывает POST /v1/health/sync-steps
func (h *Handler) HandleSyncSteps(w http.ResponseWriter, r *http.Request) {
	var req SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return
	}
	day, ok := h.resolve(w, r, req)
	if !ok {
		return
	}

	h.adapter.SyncSteps(req.UserID, day)
	writeJSON(w, http.StatusAccepted, StateResponse{State: h.adapter.State()})
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request, req SyncRequest) (time.Time, bool) {
	if req.UserID == uuid.Nil || (h.users != nil && !h.users.Exists(r.Context(), req.UserID)) {
		writeError(w, http.StatusNotFound, "user_not_found", "User not found")
		return time.Time{}, false
	}
	day, err := h.parse(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", calendar.ErrInvalidDate.Error())
		return time.Time{}, false
	}
	return day, true
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
