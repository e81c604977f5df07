package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"carlot/internal/auth"
	apperrors "carlot/internal/errors"
	"carlot/internal/model"
	"carlot/internal/repository"
)

const (
	bcryptCost = 10
	// maxSecretBytes is the longest input bcrypt hashes.
	maxSecretBytes = 72
)

// AuthService handles registration, login and logout.
type AuthService interface {
	Register(ctx context.Context, username, secret string) (token string, err error)
	Login(ctx context.Context, username, secret string) (token string, err error)
	Logout(ctx context.Context, claims *auth.Claims) error
}

type authService struct {
	userRepo   repository.UserRepository
	tokens     *auth.TokenService
	tokenStore auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		userRepo:   userRepo,
		tokens:     tokens,
		tokenStore: tokenStore,
	}
}

// Register stores a new user with a hashed secret and returns a token for it.
func (s *authService) Register(ctx context.Context, username, secret string) (string, error) {
	if len(secret) > maxSecretBytes {
		return "", apperrors.ErrSecretTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}

	user := &model.User{
		Username: username,
		KeyHash:  string(hashed),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// Login checks the secret against the stored hash and returns a token.
func (s *authService) Login(ctx context.Context, username, secret string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrInvalidCredentials
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.KeyHash), []byte(secret)); err != nil {
		return "", apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// Logout revokes the presented token for as long as it would stay valid.
func (s *authService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return apperrors.ErrInvalidToken
	}
	if err := s.tokenStore.Revoke(ctx, claims.ID, auth.Remaining(claims)); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}
