package mealplan

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/fdg312/weight-tracker/internal/calendar"
	"github.com/fdg312/weight-tracker/internal/entries"
	"github.com/fdg312/weight-tracker/internal/profiles"
	"github.com/google/uuid"
)

type Handler struct {
	service  *Service
	repo     *entries.Repository
	profiles *profiles.Service
}

func NewHandler(service *Service, repo *entries.Repository, profileService *profiles.Service) *Handler {
	return &Handler{service: service, repo: repo, profiles: profileService}
}

// HandleComplete обрабатывает PUT /v1/entries/{user_id}/{date}/meals/{template_id}
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, true)
}

// HandleUncomplete обрабатывает DELETE /v1/entries/{user_id}/{date}/meals/{template_id}
func (h *Handler) HandleUncomplete(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, false)
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request, completed bool) {
	userID, err := uuid.Parse(r.PathValue("user_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_user_id", "Invalid user ID")
		return
	}
	if !h.profiles.Exists(r.Context(), userID) {
		writeError(w, http.StatusNotFound, "user_not_found", "User not found")
		return
	}
	day, err := h.repo.ParseDate(r.PathValue("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", calendar.ErrInvalidDate.Error())
		return
	}
	templateID, err := uuid.Parse(r.PathValue("template_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_template_id", "Invalid template ID")
		return
	}

	entry, err := h.service.Toggle(r.Context(), userID, day, templateID, completed)
	if err != nil {
		switch {
		case errors.Is(err, ErrTemplateNotFound):
			writeError(w, http.StatusNotFound, "template_not_found", "Meal template not found")
		case errors.Is(err, ErrTemplateNotForDay):
			writeError(w, http.StatusConflict, "template_not_for_day", err.Error())
		default:
			log.Printf("mealplan: toggle failed: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to update entry")
		}
		return
	}
	writeJSON(w, http.StatusOK, ToggleResponse{Entry: entries.ToDTO(entry)})
}

// HandleToday обрабатывает GET /v1/meals/today?user_id=&date=
func (h *Handler) HandleToday(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var userID uuid.UUID
	if raw := strings.TrimSpace(q.Get("user_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_user_id", "Invalid user ID")
			return
		}
		if !h.profiles.Exists(r.Context(), id) {
			writeError(w, http.StatusNotFound, "user_not_found", "User not found")
			return
		}
		userID = id
	} else {
		p, err := h.profiles.Primary(r.Context())
		if err != nil {
			writeError(w, http.StatusNotFound, "user_not_found", "No household profile")
			return
		}
		userID = p.ID
	}

	day, err := h.repo.ParseDate(q.Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", calendar.ErrInvalidDate.Error())
		return
	}

	view, err := h.service.Today(r.Context(), userID, day)
	if err != nil {
		log.Printf("mealplan: today failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to load meals")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandlePlan обрабатывает GET /v1/meals/plan?kids=
func (h *Handler) HandlePlan(w http.ResponseWriter, r *http.Request) {
	var showKids *bool
	if raw := strings.TrimSpace(r.URL.Query().Get("kids")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "kids must be true or false")
			return
		}
		showKids = &v
	}
	writeJSON(w, http.StatusOK, h.service.Plan(r.Context(), showKids))
}

// HandleRecipe обрабатывает GET /v1/meals/{template_id}/recipe
func (h *Handler) HandleRecipe(w http.ResponseWriter, r *http.Request) {
	templateID, err := uuid.Parse(r.PathValue("template_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_template_id", "Invalid template ID")
		return
	}

	resp, err := h.service.Recipe(templateID)
	if err != nil {
		writeError(w, http.StatusNotFound, "template_not_found", "Meal template not found")
		return
	}
	writeJSON(w, http.StatusOK, resp)
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
