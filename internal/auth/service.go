// Package auth verifies credentials and manages session tokens.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rogerio-castellano/shop-inventory/internal/models"
	"github.com/rogerio-castellano/shop-inventory/internal/repo"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrPasswordMismatch   = errors.New("new passwords do not match")
	ErrEmptyPassword      = errors.New("new password must not be empty")
)

// dummyHash is compared against when the username is unknown, so a failed
// login costs the same either way.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

type Service struct {
	users       repo.UserRepository
	tokens      *Tokens
	revocations Revocations
	log         zerolog.Logger
	cost        int
}

func NewService(users repo.UserRepository, tokens *Tokens, revocations Revocations, log zerolog.Logger) *Service {
	return &Service{
		users:       users,
		tokens:      tokens,
		revocations: revocations,
		log:         log,
		cost:        bcrypt.DefaultCost,
	}
}

// Login checks the credentials and returns a signed session token.
func (s *Service) Login(ctx context.Context, username, password string) (string, Session, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, repo.ErrUserNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		s.log.Info().Str("username", username).Msg("login rejected")
		return "", Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", Session{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.log.Info().Str("username", username).Msg("login rejected")
		return "", Session{}, ErrInvalidCredentials
	}

	token, session, err := s.tokens.Issue(user.Username)
	if err != nil {
		return "", Session{}, err
	}
	s.log.Info().Str("username", username).Msg("login")
	return token, session, nil
}

// Authenticate resolves a token into its session, rejecting revoked tokens.
func (s *Service) Authenticate(ctx context.Context, token string) (Session, error) {
	session, err := s.tokens.Parse(token)
	if err != nil {
		return Session{}, err
	}

	revoked, err := s.revocations.IsRevoked(ctx, session.TokenID)
	if err != nil {
		return Session{}, err
	}
	if revoked {
		return Session{}, ErrInvalidToken
	}
	return session, nil
}

func (s *Service) Logout(ctx context.Context, session Session) error {
	if err := s.revocations.Revoke(ctx, session.TokenID, session.ExpiresAt); err != nil {
		return err
	}
	s.log.Info().Str("username", session.Username).Msg("logout")
	return nil
}

// ChangePassword replaces the session user's password. The stored hash is
// left untouched on any rejection.
func (s *Service) ChangePassword(ctx context.Context, session Session, current, next, confirm string) error {
	if next != confirm {
		return ErrPasswordMismatch
	}
	if next == "" {
		return ErrEmptyPassword
	}

	user, err := s.users.GetByUsername(ctx, session.Username)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return ErrWrongPassword
	}

	if err := s.SetPassword(ctx, user.Username, next); err != nil {
		return err
	}
	s.log.Info().Str("username", user.Username).Msg("password changed")
	return nil
}

// SetPassword stores a new hash for username without checking the old one.
func (s *Service) SetPassword(ctx context.Context, username, password string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.users.UpdatePasswordHash(ctx, username, string(hash))
}

// EnsureDefaultUser creates the bootstrap account when no user exists yet.
// It reports whether an account was created.
func (s *Service) EnsureDefaultUser(ctx context.Context, username, password string) (bool, error) {
	n, err := s.users.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}
	if _, err := s.users.CreateUser(ctx, models.User{Username: username, PasswordHash: string(hash)}); err != nil {
		return false, err
	}
	s.log.Warn().Str("username", username).Msg("created default user, change its password")
	return true, nil
}
