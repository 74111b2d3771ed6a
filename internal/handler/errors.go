package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/fitlog/fitlog/internal/handler/dto"
	"github.com/fitlog/fitlog/internal/middleware"
	"github.com/fitlog/fitlog/internal/service"
	"github.com/fitlog/fitlog/internal/session"
)

// User-facing messages.
const (
	msgInvalidBody        = "Invalid request body"
	msgBodyTooLarge       = "Request body too large"
	msgEmailExists        = "Email already exists"
	msgInvalidCredentials = "Invalid credentials"
	msgUnauthenticated    = "Authentication required"
	msgRecordNotFound     = "Record not found"
	msgRecordNotOwned     = "Record not found or unauthorized"
	msgInvalidTimestamp   = "Invalid created_time format. Use ISO format (YYYY-MM-DDTHH:MM:SS)"
	msgInvalidField       = "Missing or invalid field"
	msgInternal           = "An internal error occurred"
)

// handleServiceError maps service errors to HTTP responses.
// Unknown errors are logged and reported without detail.
func handleServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrDuplicateEmail):
		writeError(w, http.StatusBadRequest, "EMAIL_EXISTS", msgEmailExists)
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", msgInvalidCredentials)
	case errors.Is(err, session.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", msgUnauthenticated)
	case errors.Is(err, service.ErrRecordNotFound):
		writeError(w, http.StatusNotFound, "RECORD_NOT_FOUND", msgRecordNotFound)
	case errors.Is(err, service.ErrInvalidTimestamp):
		writeError(w, http.StatusBadRequest, "INVALID_TIMESTAMP", msgInvalidTimestamp)
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", msgInvalidField)
	default:
		logger.Error("internal_error",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", msgInternal)
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// writeMessage writes a success message.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.MessageResponse{Message: message})
}

// decodeJSON decodes the request body into dst.
// An empty body decodes as an empty object.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// badBody reports a decodeJSON failure. Bodies cut off by the size limit
// get 413, everything else is malformed JSON.
func badBody(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", msgBodyTooLarge)
		return
	}
	writeError(w, http.StatusBadRequest, "INVALID_JSON", msgInvalidBody)
}

// missingField writes a 400 naming the first absent required field.
func missingField(w http.ResponseWriter, field string) {
	writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Missing required field: "+field)
}
