package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/prn-tf/atlant-cms/internal/domain"
	"github.com/prn-tf/atlant-cms/internal/lock"
	"github.com/prn-tf/atlant-cms/internal/repository"
	"github.com/prn-tf/atlant-cms/internal/repository/memory"
)

func newUserFixture() *UserService {
	return NewUserService(memory.New(repository.Users()), lock.NewMemoryLocker(), zerolog.Nop())
}

func TestRegister(t *testing.T) {
	svc := newUserFixture()
	ctx := context.Background()

	user, err := svc.Register(ctx, "editor@atlant.example", "correct-horse", "Редактор")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email.String() != "editor@atlant.example" {
		t.Errorf("expected email to be set, got %q", user.Email)
	}
	if user.HashedPassword == "correct-horse" || user.HashedPassword == "" {
		t.Error("password must be stored as a hash")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("correct-horse")); err != nil {
		t.Errorf("stored hash does not match the password: %v", err)
	}
}

func TestRegisterShortPassword(t *testing.T) {
	svc := newUserFixture()

	_, err := svc.Register(context.Background(), "editor@atlant.example", "short", "Редактор")
	if !errors.Is(err, domain.ErrShortPassword) {
		t.Errorf("expected ErrShortPassword, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newUserFixture()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "editor@atlant.example", "correct-horse", "Редактор"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.Register(ctx, "editor@atlant.example", "battery-staple", "Другой")
	if !errors.Is(err, domain.ErrUserAlreadyExists) {
		t.Errorf("expected ErrUserAlreadyExists, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc := newUserFixture()
	ctx := context.Background()

	registered, err := svc.Register(ctx, "editor@atlant.example", "correct-horse", "Редактор")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid credentials", email: "editor@atlant.example", password: "correct-horse"},
		{name: "wrong password", email: "editor@atlant.example", password: "battery-staple", wantErr: domain.ErrInvalidCredentials},
		{name: "unknown email", email: "nobody@atlant.example", password: "correct-horse", wantErr: domain.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.Authenticate(ctx, tt.email, tt.password)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user.AggregateID() != registered.AggregateID() {
				t.Errorf("expected user %s, got %s", registered.AggregateID(), user.AggregateID())
			}
		})
	}
}

func TestAuthenticateTouchesLastOnline(t *testing.T) {
	svc := newUserFixture()
	ctx := context.Background()

	registered, err := svc.Register(ctx, "editor@atlant.example", "correct-horse", "Редактор")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "editor@atlant.example", "correct-horse"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, err := svc.GetByID(ctx, registered.AggregateID())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.LastOnlineAt.Before(registered.LastOnlineAt) {
		t.Errorf("expected LastOnlineAt to move forward, got %v", stored.LastOnlineAt)
	}
}

func TestChangePassword(t *testing.T) {
	svc := newUserFixture()
	ctx := context.Background()

	registered, err := svc.Register(ctx, "editor@atlant.example", "correct-horse", "Редактор")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.ChangePassword(ctx, registered.AggregateID(), "battery-staple"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "editor@atlant.example", "correct-horse"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("old password must stop working, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "editor@atlant.example", "battery-staple"); err != nil {
		t.Errorf("new password must work: %v", err)
	}

	if err := svc.ChangePassword(ctx, registered.AggregateID(), "short"); !errors.Is(err, domain.ErrShortPassword) {
		t.Errorf("expected ErrShortPassword, got %v", err)
	}
}
