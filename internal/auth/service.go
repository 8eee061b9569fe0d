package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"digisign/portal-backend/internal/common"
	"digisign/portal-backend/pkg/security"
)

var errInvalidCredentials = fmt.Errorf("%w: invalid credentials", common.ErrNotAuthenticated)

// Service handles account registration and session tokens.
type Service struct {
	repo         Repository
	tokens       *security.TokenIssuer
	autoRegister bool
	logger       *zap.Logger
	now          func() time.Time
}

func NewService(repo Repository, tokens *security.TokenIssuer, autoRegister bool, logger *zap.Logger) *Service {
	return &Service{
		repo:         repo,
		tokens:       tokens,
		autoRegister: autoRegister,
		logger:       logger,
		now:          time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if name == "" || email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", common.ErrValidation)
	}

	user, err := s.createUser(ctx, name, email, req.Password)
	if err != nil {
		return nil, err
	}
	s.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	return s.result(user)
}

// Login checks the credentials and returns a session token. With
// auto-registration enabled an unknown email is registered on the spot,
// named after the local part of the address.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrValidation)
	}

	user, err := s.repo.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, common.ErrNotFound):
		if !s.autoRegister {
			return nil, errInvalidCredentials
		}
		name, _, _ := strings.Cut(email, "@")
		user, err = s.createUser(ctx, name, email, req.Password)
		if err != nil {
			return nil, err
		}
		s.logger.Info("User auto-registered on login", zap.String("user_id", user.ID.String()))
		return s.result(user)
	case err != nil:
		return nil, fmt.Errorf("find user: %w", err)
	}

	ok, err := security.CheckPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errInvalidCredentials
	}
	return s.result(user)
}

// Me returns the account behind identity.
func (s *Service) Me(ctx context.Context, identity *Identity) (*UserResponse, error) {
	if identity == nil {
		return nil, common.ErrNotAuthenticated
	}
	user, err := s.repo.FindByID(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}

// Authenticate turns a bearer token into an identity.
func (s *Service) Authenticate(token string) (*Identity, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrNotAuthenticated, err)
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed user id", common.ErrNotAuthenticated)
	}
	return &Identity{UserID: id, Email: claims.Email, Name: claims.Name}, nil
}

func (s *Service) createUser(ctx context.Context, name, email, password string) (*User, error) {
	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) result(user *User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID.String(), user.Email, user.Name)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user.ToResponse()}, nil
}
