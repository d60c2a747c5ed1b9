package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/mealtrack/mealtrack/internal/handler/dto"
	"github.com/mealtrack/mealtrack/internal/middleware"
	"github.com/mealtrack/mealtrack/internal/service"
)

// UserHandler handles HTTP requests for user registration.
type UserHandler struct {
	svc        *service.UserService
	logger     *slog.Logger
	sessionTTL time.Duration
}

// NewUserHandler creates a new UserHandler. sessionTTL is the advisory
// cookie lifetime; the server never expires tokens itself.
func NewUserHandler(svc *service.UserService, logger *slog.Logger, sessionTTL time.Duration) *UserHandler {
	return &UserHandler{
		svc:        svc,
		logger:     logger,
		sessionTTL: sessionTTL,
	}
}

// Register handles POST /api/v1/users.
//
// Cookie issuance happens here, at the transport boundary: the service
// returns a plain token value and knows nothing about HTTP. A caller
// already holding a session cookie keeps its token.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	var existingToken string
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		existingToken = cookie.Value
	}

	input := service.RegisterInput{
		Name:          req.Name,
		Email:         req.Email,
		AvatarURL:     req.AvatarURL,
		ExistingToken: existingToken,
	}

	user, err := h.svc.Register(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	if existingToken == "" {
		http.SetCookie(w, &http.Cookie{
			Name:     middleware.SessionCookieName,
			Value:    user.SessionToken,
			Path:     "/",
			MaxAge:   int(h.sessionTTL.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	h.logger.Info("user_registered",
		"user_id", user.ID,
		"reused_token", existingToken != "",
	)

	w.WriteHeader(http.StatusCreated)
}

// handleServiceError maps user service errors to HTTP responses.
func (h *UserHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEmailExists):
		h.writeError(w, http.StatusBadRequest, "USER_EXISTS", "User already exists.")
	case errors.Is(err, service.ErrInvalidName):
		h.writeError(w, http.StatusBadRequest, "INVALID_NAME", "Name is invalid.")
	case errors.Is(err, service.ErrInvalidEmail):
		h.writeError(w, http.StatusBadRequest, "INVALID_EMAIL", "Email is invalid.")
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes an error response.
func (h *UserHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
