package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fitlog/fitlog/internal/auth"
	"github.com/fitlog/fitlog/internal/metrics"
	"github.com/fitlog/fitlog/internal/model"
	"github.com/fitlog/fitlog/internal/repository"
)

// AccountService handles registration and credential checks.
type AccountService struct {
	users   UserStore
	metrics metrics.Recorder

	dummyOnce sync.Once
	dummyHash string
}

// NewAccountService creates a new AccountService.
func NewAccountService(users UserStore, recorder metrics.Recorder) *AccountService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AccountService{
		users:   users,
		metrics: recorder,
	}
}

// RegisterInput defines input for registering a user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a user with a freshly hashed password.
// Returns ErrDuplicateEmail if the email is already registered.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return nil, ErrValidation
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           newID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncUserRegistered()

	return user, nil
}

// FindByEmail looks a user up by email.
func (s *AccountService) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// FindByID looks a user up by id.
func (s *AccountService) FindByID(ctx context.Context, id string) (*model.User, error) {
	if !validID(id) {
		return nil, ErrUserNotFound
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// VerifyCredentials returns the user owning email if password matches.
// An unknown email and a wrong password both yield ErrInvalidCredentials,
// and both pay for one hash verification.
func (s *AccountService) VerifyCredentials(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash := s.dummy()
	if user != nil {
		hash = user.PasswordHash
	}

	start := time.Now()
	ok, verifyErr := auth.VerifyPassword(password, hash)
	s.metrics.ObservePasswordCheck(time.Since(start))

	if user == nil || verifyErr != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// dummy returns a valid hash used to spend verification time on unknown emails.
func (s *AccountService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := auth.HashPassword("fitlog-unknown-account")
		if err != nil {
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}
