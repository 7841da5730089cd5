package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront-be/internal/apperror"
	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(u *User) (string, error)
}

type Service interface {
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	CreateUser(ctx context.Context, params CreateUserParams) (*User, error)
	Login(ctx context.Context, email, password string) (string, *User, error)
	SeedAdmin(ctx context.Context, email, password, name string) (*User, error)
}

type service struct {
	repo   Repository
	issuer TokenIssuer
	now    func() time.Time
}

func NewService(repo Repository, issuer TokenIssuer) Service {
	return &service{repo: repo, issuer: issuer, now: time.Now}
}

func (s *service) GetUser(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *service) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *service) CreateUser(ctx context.Context, params CreateUserParams) (*User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateUser"),
	)

	email := strings.TrimSpace(params.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperror.Validation("a valid email is required")
	}
	if params.Password == "" {
		return nil, apperror.Validation("password is required")
	}

	role := params.Role
	if role == "" {
		role = RoleUser
	}
	if !role.Valid() {
		return nil, apperror.Validation("unknown role %q", role)
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hashed, err := HashPassword(params.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return nil, err
	}

	u, err := s.repo.Create(ctx, &User{
		Email:     email,
		Password:  hashed,
		Name:      params.Name,
		Role:      role,
		CreatedAt: s.now(),
	})
	if err != nil {
		log.Error("failed to create user", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	log.Info("user created",
		zap.String("user_id", u.ID),
		zap.String("role", string(u.Role)),
	)
	return u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, *User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Login"),
	)

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		log.Error("failed to look up user", zap.Error(err))
		return "", nil, err
	}
	if u == nil {
		log.Warn("email not found")
		return "", nil, ErrInvalidCredentials
	}

	if !CheckPasswordHash(password, u.Password) {
		log.Warn("password mismatch", zap.String("user_id", u.ID))
		return "", nil, ErrInvalidCredentials
	}

	if s.issuer == nil {
		return "", nil, ErrNoIssuer
	}
	token, err := s.issuer.Issue(u)
	if err != nil {
		log.Error("failed to issue token", zap.String("user_id", u.ID), zap.Error(err))
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	return token, u, nil
}

// SeedAdmin creates the admin account unless a user with that email exists.
func (s *service) SeedAdmin(ctx context.Context, email, password, name string) (*User, error) {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	return s.CreateUser(ctx, CreateUserParams{
		Email:    email,
		Password: password,
		Name:     name,
		Role:     RoleAdmin,
	})
}
