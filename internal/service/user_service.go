package service

import (
	"context"
	"errors"

	"fitlife/challenge-api/internal/domain"
	"fitlife/challenge-api/internal/repository"
)

// ErrUserNotFound is shared by every service that resolves a user ID.
var ErrUserNotFound = errors.New("user not found")

// EditProfileInput is a partial profile update. Nil fields are left untouched.
type EditProfileInput struct {
	FirstName *string
	LastName  *string
}

// UserService handles profile reads/edits and creator-side listings.
type UserService interface {
	EditProfile(ctx context.Context, id uint, input EditProfileInput) (*domain.User, error)
	CreatedChallenges(ctx context.Context, userID uint) ([]domain.Challenge, error)
}

// userService implements the UserService interface.
type userService struct {
	userRepo      repository.UserRepository
	challengeRepo repository.ChallengeRepository
}

// NewUserService creates a new instance of userService.
func NewUserService(userRepo repository.UserRepository, challengeRepo repository.ChallengeRepository) UserService {
	return &userService{
		userRepo:      userRepo,
		challengeRepo: challengeRepo,
	}
}

// EditProfile merges the supplied fields into the user row.
func (s *userService) EditProfile(ctx context.Context, id uint, input EditProfileInput) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// CreatedChallenges lists challenges created by the user, with the creator
// and each participant's user populated for name projection.
func (s *userService) CreatedChallenges(ctx context.Context, userID uint) ([]domain.Challenge, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.challengeRepo.ListByCreator(ctx, userID)
}
