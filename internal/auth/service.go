package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ndreev/passport/internal/config"
	"github.com/ndreev/passport/internal/database/users"
	"github.com/ndreev/passport/internal/entities"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password. Callers must not distinguish the two.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrEmailTaken         = errors.New("email already registered")
)

// Service handles credential verification and account creation.
type Service struct {
	users  *users.Repository
	config config.Auth
	decoy  string
}

// NewService creates a new authentication service.
func NewService(userRepo *users.Repository, cfg config.Auth) *Service {
	// Hashed at the same cost as stored credentials so the comparison
	// burned on an unknown email takes as long as a real one.
	decoy, _ := HashPassword("decoy", cfg.BcryptCost)
	return &Service{users: userRepo, config: cfg, decoy: decoy}
}

// Signup registers a new user. Returns ErrEmailTaken when the email is
// already registered.
func (s *Service) Signup(ctx context.Context, name, email, password string) (*entities.User, error) {
	passwordHash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entities.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, users.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and returns the user. Unknown email and wrong
// password both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*entities.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		// Compare against the decoy so an unknown email costs one
		// bcrypt comparison, same as a wrong password.
		_ = CheckPassword(password, s.decoy)
		return nil, ErrInvalidCredentials
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		return nil, err
	}

	return user, nil
}
