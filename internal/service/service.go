// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"

	"github.com/fitlog/fitlog/internal/model"
)

// Service errors.
var (
	ErrValidation         = errors.New("missing or invalid field")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrRecordNotFound     = errors.New("record not found")
	ErrInvalidTimestamp   = model.ErrInvalidTimestamp
)

// UserStore persists users. *repository.Repository satisfies it.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// RecordStore persists records with every lookup filtered by owner.
// *repository.Repository satisfies it.
type RecordStore interface {
	CreateRecord(ctx context.Context, rec *model.Record) error
	ListRecordsByOwner(ctx context.Context, ownerID string) ([]*model.Record, error)
	GetRecordOwned(ctx context.Context, id, ownerID string) (*model.Record, error)
	UpdateRecordOwned(ctx context.Context, id, ownerID string, patch model.RecordPatch) (bool, error)
	DeleteRecordOwned(ctx context.Context, id, ownerID string) (bool, error)
}

// newID returns a fresh ULID string for a user or record.
func newID() string {
	return ulid.Make().String()
}

// validID reports whether id could name a stored entity.
func validID(id string) bool {
	_, err := ulid.ParseStrict(id)
	return err == nil
}
