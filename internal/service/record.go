package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/fitlog/fitlog/internal/metrics"
	"github.com/fitlog/fitlog/internal/model"
	"github.com/fitlog/fitlog/internal/repository"
)

// RecordService handles record business logic.
// Every operation is scoped to an owner; records of other users behave as
// if they did not exist.
type RecordService struct {
	records RecordStore
	metrics metrics.Recorder
	now     func() time.Time
}

// NewRecordService creates a new RecordService.
func NewRecordService(records RecordStore, recorder metrics.Recorder) *RecordService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &RecordService{
		records: records,
		metrics: recorder,
		now:     time.Now,
	}
}

// CreateRecordInput defines input for creating a record.
type CreateRecordInput struct {
	OwnerID   string
	Name      string
	ImageData string
	Duration  float64
	// CreatedTime is an ISO-8601 date-time; nil means now.
	CreatedTime *string
}

// Create stores a new record owned by input.OwnerID.
// An unparsable CreatedTime fails with ErrInvalidTimestamp before anything is stored.
func (s *RecordService) Create(ctx context.Context, input CreateRecordInput) (*model.Record, error) {
	if input.OwnerID == "" || strings.TrimSpace(input.Name) == "" {
		return nil, ErrValidation
	}
	if math.IsNaN(input.Duration) || math.IsInf(input.Duration, 0) {
		return nil, ErrValidation
	}

	createdTime := s.now().UTC().Truncate(time.Microsecond)
	if input.CreatedTime != nil {
		t, err := model.ParseTimestamp(*input.CreatedTime)
		if err != nil {
			return nil, ErrInvalidTimestamp
		}
		createdTime = t
	}

	rec := &model.Record{
		ID:          newID(),
		OwnerID:     input.OwnerID,
		Name:        input.Name,
		ImageData:   input.ImageData,
		Duration:    input.Duration,
		CreatedTime: createdTime,
	}

	if err := s.records.CreateRecord(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to create record: %w", err)
	}

	s.metrics.IncRecordCreated()

	return rec, nil
}

// ListByOwner returns all records owned by ownerID, newest first.
func (s *RecordService) ListByOwner(ctx context.Context, ownerID string) ([]*model.Record, error) {
	return s.records.ListRecordsByOwner(ctx, ownerID)
}

// GetOwned returns a record owned by ownerID.
// Missing, foreign and malformed ids all yield ErrRecordNotFound.
func (s *RecordService) GetOwned(ctx context.Context, id, ownerID string) (*model.Record, error) {
	if !validID(id) {
		return nil, ErrRecordNotFound
	}

	rec, err := s.records.GetRecordOwned(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	return rec, nil
}

// UpdateOwned applies patch to a record owned by ownerID.
// It reports whether such a record exists; an empty patch changes nothing.
func (s *RecordService) UpdateOwned(ctx context.Context, id, ownerID string, patch model.RecordPatch) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	if patch.Duration != nil && (math.IsNaN(*patch.Duration) || math.IsInf(*patch.Duration, 0)) {
		return false, ErrValidation
	}

	updated, err := s.records.UpdateRecordOwned(ctx, id, ownerID, patch)
	if err != nil {
		return false, err
	}

	if updated && !patch.IsEmpty() {
		s.metrics.IncRecordUpdated()
	}

	return updated, nil
}

// DeleteOwned removes a record owned by ownerID and reports whether one was removed.
func (s *RecordService) DeleteOwned(ctx context.Context, id, ownerID string) (bool, error) {
	if !validID(id) {
		return false, nil
	}

	deleted, err := s.records.DeleteRecordOwned(ctx, id, ownerID)
	if err != nil {
		return false, err
	}

	if deleted {
		s.metrics.IncRecordDeleted()
	}

	return deleted, nil
}
