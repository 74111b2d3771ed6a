package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fitlog/fitlog/internal/auth"
	"github.com/fitlog/fitlog/internal/handler/dto"
	"github.com/fitlog/fitlog/internal/middleware"
	"github.com/fitlog/fitlog/internal/model"
	"github.com/fitlog/fitlog/internal/service"
)

// RecordHandler handles HTTP requests for record operations.
// All routes sit behind middleware.RequireSession.
type RecordHandler struct {
	svc    *service.RecordService
	logger *slog.Logger
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(svc *service.RecordService, logger *slog.Logger) *RecordHandler {
	return &RecordHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/records.
func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.CreateRecordRequest
	if err := decodeJSON(r, &req); err != nil {
		badBody(w, err)
		return
	}
	if field := req.MissingField(); field != "" {
		missingField(w, field)
		return
	}
	createdTime, err := req.CreatedTimeValue()
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	rec, err := h.svc.Create(r.Context(), service.CreateRecordInput{
		OwnerID:     user.ID,
		Name:        *req.Name,
		ImageData:   *req.ImageData,
		Duration:    *req.Duration,
		CreatedTime: createdTime,
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("record_created",
		"request_id", middleware.GetRequestID(r.Context()),
		"record_id", rec.ID,
		"user_id", user.ID,
		"explicit_created_time", createdTime != nil,
	)

	writeJSON(w, http.StatusCreated, dto.CreateRecordResponse{
		Message: "Record created successfully",
		Record:  dto.ToRecordResponse(rec),
	})
}

// List handles GET /api/records.
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	records, err := h.svc.ListByOwner(r.Context(), user.ID)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRecordListResponse(records))
}

// Get handles GET /api/records/{id}.
func (h *RecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	rec, err := h.svc.GetOwned(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRecordResponse(rec))
}

// Update handles PUT /api/records/{id}.
func (h *RecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req dto.UpdateRecordRequest
	if err := decodeJSON(r, &req); err != nil {
		badBody(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	updated, err := h.svc.UpdateOwned(r.Context(), id, user.ID, req.ToPatch())
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}
	if !updated {
		writeError(w, http.StatusNotFound, "RECORD_NOT_FOUND", msgRecordNotOwned)
		return
	}

	h.logger.Info("record_updated",
		"request_id", middleware.GetRequestID(r.Context()),
		"record_id", id,
		"user_id", user.ID,
	)

	writeMessage(w, http.StatusOK, "Record updated successfully")
}

// Delete handles DELETE /api/records/{id}.
func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	deleted, err := h.svc.DeleteOwned(r.Context(), id, user.ID)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "RECORD_NOT_FOUND", msgRecordNotOwned)
		return
	}

	h.logger.Info("record_deleted",
		"request_id", middleware.GetRequestID(r.Context()),
		"record_id", id,
		"user_id", user.ID,
	)

	writeMessage(w, http.StatusOK, "Record deleted successfully")
}

// currentUser returns the session user, writing a 401 when there is none.
func currentUser(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", msgUnauthenticated)
		return nil, false
	}
	return user, true
}
