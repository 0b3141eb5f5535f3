package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/prn-tf/atlant-cms/internal/domain"
	"github.com/prn-tf/atlant-cms/internal/lock"
	"github.com/prn-tf/atlant-cms/internal/repository"
)

const minPasswordLength = 8

// UserService manages editor accounts. Passwords are hashed with bcrypt
// here; the domain layer only ever sees the hash.
type UserService struct {
	*Store[*domain.User]
}

// NewUserService creates the user service.
func NewUserService(repo repository.Repository[*domain.User], locks lock.Locker, logger zerolog.Logger) *UserService {
	return &UserService{
		Store: NewStore(userDefinition(), repo, locks, logger),
	}
}

// Register creates a new account with a unique email.
func (s *UserService) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := domain.NewUser(domain.UserInput{
		Email:          email,
		HashedPassword: hash,
		Name:           name,
	})
	if err != nil {
		return nil, err
	}
	return s.Create(ctx, user)
}

// Authenticate verifies the credentials and touches LastOnlineAt.
// Unknown email and wrong password return the same error so the
// response never reveals which accounts exist.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.GetByKey(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	user.LastOnlineAt = time.Now().UTC()
	if _, err := s.Update(ctx, user); err != nil {
		// Login succeeded; a failed presence update is not worth
		// failing the whole authentication over.
		s.logger.Warn().Err(err).
			Str("id", user.AggregateID().String()).
			Msg("failed to update last online time")
	}
	return user, nil
}

// ChangePassword replaces the password of an existing account.
func (s *UserService) ChangePassword(ctx context.Context, id uuid.UUID, password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	user.HashedPassword = hash
	_, err = s.Update(ctx, user)
	return err
}

func hashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", domain.ErrShortPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return string(hash), nil
}
