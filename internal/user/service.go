package user

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/expense-tracker/internal"
	userDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/expense-tracker/pkg/logger"
)

// Repository returns (nil, nil) when no user matches.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	Create(ctx context.Context, u *userDatamodel.User) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, lg *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: lg,
	}
}

func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	if id <= 0 {
		return nil, internal.ErrMissingUser
	}

	dm, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get user", err)
	}
	if dm == nil {
		return nil, internal.ErrUserNotFound
	}
	return FromDataModel(dm), nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	dm, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, internal.NewInternalError("failed to get user", err)
	}
	if dm == nil {
		return nil, internal.ErrUserNotFound
	}
	return FromDataModel(dm), nil
}

// Create stores a user whose password is already hashed.
func (s *Service) Create(ctx context.Context, email, passwordHash string) (*User, error) {
	u := NewUser(email, passwordHash)

	existing, err := s.repo.GetByEmail(ctx, u.Email)
	if err != nil {
		return nil, internal.NewInternalError("failed to check email", err)
	}
	if existing != nil {
		return nil, internal.ErrEmailTaken
	}

	dm := ToDataModel(u)
	if err := s.repo.Create(ctx, dm); err != nil {
		if errors.Is(err, internal.ErrEmailTaken) {
			return nil, internal.ErrEmailTaken
		}
		return nil, internal.NewInternalError("failed to create user", err)
	}

	logger.From(ctx, s.logger).Info("user created", "user_id", dm.ID)
	return FromDataModel(dm), nil
}
