package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/fitlog/fitlog/internal/auth"
	"github.com/fitlog/fitlog/internal/handler/dto"
	"github.com/fitlog/fitlog/internal/metrics"
	"github.com/fitlog/fitlog/internal/middleware"
	"github.com/fitlog/fitlog/internal/service"
	"github.com/fitlog/fitlog/internal/session"
)

// AccountHandler handles registration, login and logout.
type AccountHandler struct {
	svc      *service.AccountService
	sessions session.Authenticator
	metrics  metrics.Recorder
	logger   *slog.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(svc *service.AccountService, sessions session.Authenticator, recorder metrics.Recorder, logger *slog.Logger) *AccountHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AccountHandler{
		svc:      svc,
		sessions: sessions,
		metrics:  recorder,
		logger:   logger,
	}
}

// Register handles POST /api/register.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		badBody(w, err)
		return
	}

	switch {
	case req.Name == "":
		missingField(w, "name")
		return
	case req.Email == "":
		missingField(w, "email")
		return
	case req.Password == "":
		missingField(w, "password")
		return
	}

	user, err := h.svc.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("user_registered",
		"request_id", middleware.GetRequestID(r.Context()),
		"user_id", user.ID,
	)

	writeMessage(w, http.StatusCreated, "User registered successfully")
}

// Login handles POST /api/login.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		badBody(w, err)
		return
	}

	switch {
	case req.Email == "":
		missingField(w, "email")
		return
	case req.Password == "":
		missingField(w, "password")
		return
	}

	user, err := h.svc.VerifyCredentials(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.metrics.IncLogin(metrics.LoginFailure)
			h.logger.Warn("login_failed", "request_id", middleware.GetRequestID(r.Context()))
		}
		handleServiceError(w, r, h.logger, err)
		return
	}

	if err := h.sessions.Login(w, r, user.ID); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.metrics.IncLogin(metrics.LoginSuccess)
	h.logger.Info("login_succeeded",
		"request_id", middleware.GetRequestID(r.Context()),
		"user_id", user.ID,
	)

	writeMessage(w, http.StatusOK, "Login successful")
}

// Logout handles POST /api/logout.
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(w, r); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.metrics.IncLogout()
	h.logger.Info("logout",
		"request_id", middleware.GetRequestID(r.Context()),
		"user_id", auth.UserIDFromContext(r.Context()),
	)

	writeMessage(w, http.StatusOK, "Logout successful")
}
