package dto

import (
	"bytes"
	"encoding/json"

	"github.com/fitlog/fitlog/internal/model"
)

// CreateRecordRequest represents the request body for creating a record.
// Pointer fields distinguish an omitted field from a zero value.
type CreateRecordRequest struct {
	Name      *string  `json:"name"`
	ImageData *string  `json:"imgData"`
	Duration  *float64 `json:"duration"`
	// CreatedTime stays raw so a number or object surfaces as a bad
	// timestamp rather than a malformed body.
	CreatedTime json.RawMessage `json:"created_time,omitempty"`
}

// CreatedTimeValue returns the requested created_time. Absent or null means
// nil; any JSON value other than a string fails with model.ErrInvalidTimestamp.
func (r *CreateRecordRequest) CreatedTimeValue() (*string, error) {
	raw := bytes.TrimSpace(r.CreatedTime)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, model.ErrInvalidTimestamp
	}
	return &s, nil
}

// MissingField returns the first required field absent from the request, or "".
func (r *CreateRecordRequest) MissingField() string {
	switch {
	case r.Name == nil:
		return "name"
	case r.ImageData == nil:
		return "imgData"
	case r.Duration == nil:
		return "duration"
	default:
		return ""
	}
}

// UpdateRecordRequest represents the request body for updating a record.
// Fields outside this set are ignored by the decoder.
type UpdateRecordRequest struct {
	Name      *string  `json:"name,omitempty"`
	ImageData *string  `json:"imgData,omitempty"`
	Duration  *float64 `json:"duration,omitempty"`
}

// ToPatch converts the request into a model.RecordPatch.
func (r *UpdateRecordRequest) ToPatch() model.RecordPatch {
	return model.RecordPatch{
		Name:      r.Name,
		ImageData: r.ImageData,
		Duration:  r.Duration,
	}
}

// RecordResponse represents a record in API responses.
type RecordResponse struct {
	ID          string  `json:"id"`
	Creator     string  `json:"creator"`
	Name        string  `json:"name"`
	ImageData   string  `json:"imgData"`
	Duration    float64 `json:"duration"`
	CreatedTime string  `json:"created_time"`
}

// CreateRecordResponse is returned by POST /api/records.
type CreateRecordResponse struct {
	Message string          `json:"message"`
	Record  *RecordResponse `json:"record"`
}

// RecordListResponse is returned by GET /api/records.
type RecordListResponse struct {
	Records []RecordResponse `json:"records"`
}

// ToRecordResponse converts a Record model to RecordResponse DTO.
func ToRecordResponse(rec *model.Record) *RecordResponse {
	return &RecordResponse{
		ID:          rec.ID,
		Creator:     rec.OwnerID,
		Name:        rec.Name,
		ImageData:   rec.ImageData,
		Duration:    rec.Duration,
		CreatedTime: model.FormatTimestamp(rec.CreatedTime),
	}
}

// ToRecordListResponse converts a slice of Record models to RecordListResponse.
func ToRecordListResponse(records []*model.Record) *RecordListResponse {
	responses := make([]RecordResponse, len(records))
	for i, rec := range records {
		responses[i] = *ToRecordResponse(rec)
	}
	return &RecordListResponse{Records: responses}
}
