// internal/services/user_service.go
package services

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"maw-backend/internal/models"
	"maw-backend/internal/repository"
	apperrors "maw-backend/pkg/errors"
)

type UserService interface {
	Register(ctx context.Context, req *models.RegisterUserRequest) (*models.User, error)
	GetByUserID(ctx context.Context, userID string) (*models.User, error)
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{
		users: users,
	}
}

func (s *userService) Register(ctx context.Context, req *models.RegisterUserRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrValidation, http.StatusBadRequest, err.Error())
	}

	user := &models.User{
		UserID:         req.UserID,
		Email:          req.Email,
		FoundingMember: req.FoundingMember,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if apperrors.IsErrorType(err, apperrors.ErrUserAlreadyExists) {
			return nil, err
		}
		zap.L().Error("failed to register user", zap.String("user_id", req.UserID), zap.Error(err))
		return nil, apperrors.NewAppError(
			apperrors.ErrInternalServer,
			http.StatusInternalServerError,
			"failed to register user",
		)
	}

	zap.L().Info("user registered",
		zap.String("user_id", user.UserID),
		zap.Bool("founding_member", user.FoundingMember))
	return user, nil
}

func (s *userService) GetByUserID(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetByUserID(ctx, userID)
}
