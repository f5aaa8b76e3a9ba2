package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/contalink/backoffice/internal/core/domain"
	"github.com/contalink/backoffice/internal/core/ports"
	"github.com/contalink/backoffice/internal/core/schema"
	"github.com/contalink/backoffice/internal/core/session"
)

// AuthService implements registration and login.
type AuthService struct {
	repo      ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(repo ports.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Register creates an account inside tenantID. Callers decide who may register;
// the service only validates and hashes.
func (s *AuthService) Register(ctx context.Context, tenantID string, form *schema.UserForm) (*domain.User, error) {
	if tenantID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if err := schema.Validate(form); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		TenantID:     tenantID,
		Name:         form.Name,
		Email:        form.Email,
		PasswordHash: string(hash),
		Role:         form.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Login checks the credentials and returns a signed session token.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, form *schema.LoginForm) (_ string, _ *domain.User, err error) {
	defer func() { observe("auth", "login", err) }()

	if err := schema.Validate(form); err != nil {
		return "", nil, err
	}

	user, err := s.repo.FindByEmail(ctx, form.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.Password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := session.Sign(session.NewClaims(user, s.tokenTTL), s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}
