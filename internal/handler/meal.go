package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mealtrack/mealtrack/internal/auth"
	"github.com/mealtrack/mealtrack/internal/handler/dto"
	"github.com/mealtrack/mealtrack/internal/service"
)

// MealHandler handles HTTP requests for meal operations. All routes sit
// behind the session middleware, so the owner identity is always present
// in the request context.
type MealHandler struct {
	svc    *service.MealService
	logger *slog.Logger
}

// NewMealHandler creates a new MealHandler.
func NewMealHandler(svc *service.MealService, logger *slog.Logger) *MealHandler {
	return &MealHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/v1/meals.
func (h *MealHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())

	var req dto.CreateMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if req.WithinDiet == nil {
		h.writeError(w, http.StatusBadRequest, "MISSING_WITHIN_DIET", "within_diet is required")
		return
	}

	input := service.CreateMealInput{
		Name:        req.Name,
		Description: req.Description,
		OccurredAt:  req.OccurredAt,
		WithinDiet:  *req.WithinDiet,
	}

	meal, err := h.svc.Create(r.Context(), user.ID, input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("meal_created",
		"meal_id", meal.ID,
		"user_id", user.ID,
		"within_diet", meal.WithinDiet,
	)

	w.WriteHeader(http.StatusCreated)
}

// List handles GET /api/v1/meals.
func (h *MealHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())

	meals, err := h.svc.List(r.Context(), user.ID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToMealListResponse(meals))
}

// Get handles GET /api/v1/meals/{mealID}.
func (h *MealHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())

	id := chi.URLParam(r, "mealID")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_ID", "Meal ID is required")
		return
	}

	meal, err := h.svc.Get(r.Context(), user.ID, id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MealEnvelope{Meal: dto.ToMealResponse(meal)})
}

// Update handles PUT /api/v1/meals/{mealID}.
func (h *MealHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())

	id := chi.URLParam(r, "mealID")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_ID", "Meal ID is required")
		return
	}

	var req dto.UpdateMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input := service.UpdateMealInput{
		Name:        req.Name,
		Description: req.Description,
		OccurredAt:  req.OccurredAt,
		WithinDiet:  req.WithinDiet,
	}

	if err := h.svc.Update(r.Context(), user.ID, id, input); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("meal_updated",
		"meal_id", id,
		"user_id", user.ID,
	)

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/v1/meals/{mealID}.
func (h *MealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())

	id := chi.URLParam(r, "mealID")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_ID", "Meal ID is required")
		return
	}

	if err := h.svc.Delete(r.Context(), user.ID, id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("meal_deleted",
		"meal_id", id,
		"user_id", user.ID,
	)

	w.WriteHeader(http.StatusNoContent)
}

// Metrics handles GET /api/v1/meals/metrics.
func (h *MealHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())

	report, err := h.svc.Metrics(r.Context(), user.ID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToMetricsResponse(report))
}

// handleServiceError maps meal service errors to HTTP responses.
func (h *MealHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrMealNotFound):
		h.writeError(w, http.StatusNotFound, "MEAL_NOT_FOUND", "Meal not found.")
	case errors.Is(err, service.ErrInvalidMealName):
		h.writeError(w, http.StatusBadRequest, "INVALID_NAME", "Name is invalid.")
	case errors.Is(err, service.ErrInvalidOccurredAt):
		h.writeError(w, http.StatusBadRequest, "INVALID_OCCURRED_AT", "occurred_at is invalid.")
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes an error response.
func (h *MealHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
