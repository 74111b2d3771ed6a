package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/fitlog/fitlog/internal/metrics"
	"github.com/fitlog/fitlog/internal/testutil/fakestore"
)

func newTestAccountService(t *testing.T) (*AccountService, *fakestore.Store, *metrics.InMemoryRecorder) {
	t.Helper()
	store := fakestore.New()
	rec := metrics.NewInMemory()
	return NewAccountService(store, rec), store, rec
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()
	svc, store, rec := newTestAccountService(t)

	user, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if !validID(user.ID) {
		t.Errorf("expected ULID id, got %q", user.ID)
	}
	if user.PasswordHash == "s3cret-pass" || !strings.HasPrefix(user.PasswordHash, "$argon2id$") {
		t.Errorf("password must be stored hashed, got %q", user.PasswordHash)
	}
	if store.UserCount() != 1 {
		t.Errorf("expected 1 stored user, got %d", store.UserCount())
	}
	if rec.Snapshot().UsersRegistered != 1 {
		t.Errorf("expected registration to be counted")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()
	svc, store, _ := newTestAccountService(t)
	ctx := context.Background()

	input := RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "first"}
	if _, err := svc.Register(ctx, input); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	input.Password = "second"
	user, err := svc.Register(ctx, input)
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if user != nil {
		t.Error("no user should be returned on duplicate email")
	}
	if store.UserCount() != 1 {
		t.Errorf("duplicate must not be stored, got %d users", store.UserCount())
	}
}

func TestRegister_ConcurrentSameEmail(t *testing.T) {
	t.Parallel()
	svc, store, _ := newTestAccountService(t)

	const attempts = 4
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(context.Background(), RegisterInput{
				Name: "Ada", Email: "race@example.com", Password: "pw",
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, ErrDuplicateEmail) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || store.UserCount() != 1 {
		t.Errorf("expected exactly one registration, got %d (stored %d)", succeeded, store.UserCount())
	}
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestAccountService(t)

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"missing name", RegisterInput{Email: "a@example.com", Password: "pw"}},
		{"blank name", RegisterInput{Name: "   ", Email: "a@example.com", Password: "pw"}},
		{"missing email", RegisterInput{Name: "Ada", Password: "pw"}},
		{"missing password", RegisterInput{Name: "Ada", Email: "a@example.com"}},
	}

	for _, tt := range tests {

		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := svc.Register(context.Background(), tt.input); !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestRegister_StoreFailure(t *testing.T) {
	t.Parallel()
	svc, store, _ := newTestAccountService(t)
	store.SetErr(errors.New("connection reset"))

	_, err := svc.Register(context.Background(), RegisterInput{Name: "Ada", Email: "a@example.com", Password: "pw"})
	if err == nil || errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestVerifyCredentials(t *testing.T) {
	t.Parallel()
	svc, _, rec := newTestAccountService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "right-pass"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	user, err := svc.VerifyCredentials(ctx, "ada@example.com", "right-pass")
	if err != nil {
		t.Fatalf("VerifyCredentials failed: %v", err)
	}
	if user.ID != registered.ID {
		t.Errorf("VerifyCredentials returned %q, want %q", user.ID, registered.ID)
	}

	_, wrongPassword := svc.VerifyCredentials(ctx, "ada@example.com", "wrong-pass")
	_, unknownEmail := svc.VerifyCredentials(ctx, "nobody@example.com", "right-pass")

	if !errors.Is(wrongPassword, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", wrongPassword)
	}
	if !errors.Is(unknownEmail, ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", unknownEmail)
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Errorf("failures must be indistinguishable: %q vs %q", wrongPassword, unknownEmail)
	}

	if got := rec.Snapshot().PasswordCheckCount; got != 3 {
		t.Errorf("every attempt should verify a hash, got %d checks", got)
	}
}

func TestVerifyCredentials_StoreFailure(t *testing.T) {
	t.Parallel()
	svc, store, _ := newTestAccountService(t)
	store.SetErr(errors.New("connection reset"))

	_, err := svc.VerifyCredentials(context.Background(), "ada@example.com", "pw")
	if err == nil || errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("store failure should surface as an internal error, got %v", err)
	}
}

func TestFindByID(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestAccountService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	found, err := svc.FindByID(ctx, user.ID)
	if err != nil || found.Email != "ada@example.com" {
		t.Errorf("FindByID = %+v, %v", found, err)
	}

	for _, id := range []string{"", "not-a-ulid", newID()} {
		if _, err := svc.FindByID(ctx, id); !errors.Is(err, ErrUserNotFound) {
			t.Errorf("FindByID(%q): expected ErrUserNotFound, got %v", id, err)
		}
	}
}

func TestFindByEmail(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestAccountService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "pw"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, err := svc.FindByEmail(ctx, "ada@example.com"); err != nil {
		t.Errorf("FindByEmail failed: %v", err)
	}
	if _, err := svc.FindByEmail(ctx, "bob@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
