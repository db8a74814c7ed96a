package auth

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/user"
	"github.com/frahmantamala/expense-tracker/pkg/logger"
)

// UserStore is the slice of the user service auth depends on.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Create(ctx context.Context, email, passwordHash string) (*user.User, error)
}

type Service struct {
	users          UserStore
	tokenGenerator TokenGenerator
	bcryptCost     int
	logger         *slog.Logger
}

func NewService(users UserStore, tokenGen TokenGenerator, bcryptCost int, lg *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		users:          users,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
		logger:         lg,
	}
}

func (s *Service) Signup(ctx context.Context, dto SignupDTO) (*AuthResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	u, err := s.users.Create(ctx, dto.Email, hash)
	if err != nil {
		return nil, err
	}

	logger.From(ctx, s.logger).Info("user signed up", "user_id", u.ID)
	return s.issue(u)
}

// Authenticate never reveals whether the email or the password was wrong.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (*AuthResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.users.GetByEmail(ctx, dto.Email)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, internal.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		logger.From(ctx, s.logger).Warn("login rejected", "user_id", u.ID)
		return nil, internal.ErrInvalidCredentials
	}

	return s.issue(u)
}

// ValidateAccessToken returns the user id carried by a valid token.
func (s *Service) ValidateAccessToken(tokenString string) (int64, error) {
	claims, err := s.tokenGenerator.ValidateToken(tokenString)
	if err != nil {
		return 0, err
	}
	return claims.UserID()
}

func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) issue(u *user.User) (*AuthResponse, error) {
	token, expiresAt, err := s.tokenGenerator.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return nil, internal.NewInternalError("failed to issue token", err)
	}
	return &AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        u,
	}, nil
}
