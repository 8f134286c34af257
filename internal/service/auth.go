package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"clinicapi/internal/auth"
	"clinicapi/internal/model"
	"clinicapi/internal/repository"
)

// TokenIssuer signs API tokens.
type TokenIssuer interface {
	Issue(username string) (string, time.Time, error)
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// AuthService authenticates operators.
type AuthService interface {
	// EnsureAdmin creates the bootstrap account unless a user with that name
	// exists. Empty credentials skip the bootstrap.
	EnsureAdmin(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}

type authService struct {
	users  repository.UserRepository
	tokens TokenIssuer
	log    zerolog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(users repository.UserRepository, tokens TokenIssuer, log zerolog.Logger) AuthService {
	return &authService{users: users, tokens: tokens, log: log}
}

func (s *authService) EnsureAdmin(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		s.log.Warn().Msg("admin credentials not configured, skipping bootstrap")
		return nil
	}

	_, err := s.users.FindByUsername(ctx, username)
	if err == nil {
		s.log.Debug().Str("username", username).Msg("admin user already exists")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if _, err := s.users.Create(ctx, &model.User{Username: username, PasswordHash: hash}); err != nil {
		// Another instance bootstrapped first.
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil
		}
		return err
	}
	s.log.Info().Str("username", username).Msg("admin user created")
	return nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	u, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.tokens.Issue(u.Username)
	if err != nil {
		return nil, err
	}
	return &LoginResult{AccessToken: token, TokenType: "Bearer", ExpiresAt: exp}, nil
}
