// Package fakestore provides in-memory stand-ins for the Postgres repository.
// They honour the same contracts (email uniqueness, owner filtering, ordering
// and sentinel errors) so services and handlers can be tested without a database.
package fakestore

import (
	"context"
	"sort"
	"sync"

	"github.com/fitlog/fitlog/internal/model"
	"github.com/fitlog/fitlog/internal/repository"
)

// Store is an in-memory user and record store.
type Store struct {
	mu      sync.RWMutex
	users   map[string]*model.User
	emails  map[string]string
	records map[string]*model.Record
	err     error
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		users:   make(map[string]*model.User),
		emails:  make(map[string]string),
		records: make(map[string]*model.Record),
	}
}

// SetErr makes every subsequent operation fail with err. Pass nil to reset.
func (s *Store) SetErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// CreateUser inserts a user, failing with repository.ErrEmailExists on a taken email.
func (s *Store) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	if _, taken := s.emails[user.Email]; taken {
		return repository.ErrEmailExists
	}

	u := *user
	s.users[u.ID] = &u
	s.emails[u.Email] = u.ID
	return nil
}

// GetUserByID returns a copy of the user or repository.ErrUserNotFound.
func (s *Store) GetUserByID(_ context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// GetUserByEmail returns a copy of the user or repository.ErrUserNotFound.
func (s *Store) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return nil, s.err
	}
	id, ok := s.emails[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *s.users[id]
	return &cp, nil
}

// CreateRecord inserts a record.
func (s *Store) CreateRecord(_ context.Context, rec *model.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	r := *rec
	s.records[r.ID] = &r
	return nil
}

// ListRecordsByOwner returns the owner's records, newest first, ties broken by id.
func (s *Store) ListRecordsByOwner(_ context.Context, ownerID string) ([]*model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return nil, s.err
	}

	out := make([]*model.Record, 0)
	for _, r := range s.records {
		if r.OwnerID == ownerID {
			cp := *r
			out = append(out, &cp)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedTime.Equal(out[j].CreatedTime) {
			return out[i].CreatedTime.After(out[j].CreatedTime)
		}
		return out[i].ID > out[j].ID
	})

	return out, nil
}

// GetRecordOwned returns the record only when ownerID owns it.
func (s *Store) GetRecordOwned(_ context.Context, id, ownerID string) (*model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return nil, s.err
	}
	r, ok := s.records[id]
	if !ok || r.OwnerID != ownerID {
		return nil, repository.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

// UpdateRecordOwned applies patch to an owned record and reports whether it existed.
func (s *Store) UpdateRecordOwned(_ context.Context, id, ownerID string, patch model.RecordPatch) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return false, s.err
	}
	r, ok := s.records[id]
	if !ok || r.OwnerID != ownerID {
		return false, nil
	}

	if patch.Name != nil {
		r.Name = *patch.Name
	}
	if patch.ImageData != nil {
		r.ImageData = *patch.ImageData
	}
	if patch.Duration != nil {
		r.Duration = *patch.Duration
	}
	return true, nil
}

// DeleteRecordOwned removes an owned record and reports whether one was removed.
func (s *Store) DeleteRecordOwned(_ context.Context, id, ownerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return false, s.err
	}
	r, ok := s.records[id]
	if !ok || r.OwnerID != ownerID {
		return false, nil
	}
	delete(s.records, id)
	return true, nil
}

// RecordCount returns the number of stored records across all owners.
func (s *Store) RecordCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// UserCount returns the number of stored users.
func (s *Store) UserCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
