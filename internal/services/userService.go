package services

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"notely/internal/models"
	"notely/internal/repositories"
)

type UserService interface {
	GetUserProfile(ctx context.Context, userID primitive.ObjectID) (*models.PublicUser, error)
}

type userService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetUserProfile(ctx context.Context, userID primitive.ObjectID) (*models.PublicUser, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.Hex()).Msg("Failed to fetch user profile")
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	public := user.Public()
	return &public, nil
}
