package service

import (
	"context"
	"errors"

	"github.com/sociogram/backend/internal/apperr"
	"github.com/sociogram/backend/internal/domain"
	"github.com/sociogram/backend/internal/dto"
	"github.com/sociogram/backend/internal/repository"
	"github.com/sociogram/backend/internal/utils"
)

// userService implements UserService.
type userService struct {
	users              repository.UserRepository
	bcryptCost         int
	passwordMinEntropy float64
}

// NewUserService creates the account service.
func NewUserService(users repository.UserRepository, bcryptCost int, passwordMinEntropy float64) UserService {
	return &userService{
		users:              users,
		bcryptCost:         bcryptCost,
		passwordMinEntropy: passwordMinEntropy,
	}
}

// Register creates a new account after normalization, validation, and a
// uniqueness check. The caller logs in separately to obtain tokens.
func (s *userService) Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, error) {
	username := utils.NormalizeUsername(req.Username)
	email := utils.NormalizeEmail(req.Email)

	if !utils.ValidateUsername(username) {
		return nil, apperr.New(apperr.InvalidArgument, "username must be 3-30 lowercase letters, digits, dots, or underscores")
	}
	if !utils.ValidateEmail(email) {
		return nil, apperr.New(apperr.InvalidArgument, "invalid email format")
	}
	if req.FullName == "" {
		return nil, apperr.New(apperr.InvalidArgument, "full name is required")
	}
	if err := utils.ValidatePasswordStrength(req.Password, s.passwordMinEntropy); err != nil {
		return nil, apperr.Wrap(err, apperr.InvalidArgument, "password is too weak")
	}

	if _, err := s.users.GetByIdentifier(ctx, username); err == nil {
		return nil, apperr.New(apperr.Conflict, "username already taken")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to check username")
	}
	if _, err := s.users.GetByIdentifier(ctx, email); err == nil {
		return nil, apperr.New(apperr.Conflict, "email already registered")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to check email")
	}

	hash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to hash password")
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Followers:    []string{},
		Following:    []string{},
	}

	if err := s.users.Create(ctx, user); err != nil {
		// The uniqueness pre-check races with concurrent registrations;
		// the unique index is the authority.
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, apperr.New(apperr.Conflict, "username or email already taken")
		}
		return nil, apperr.Wrap(err, apperr.Internal, "failed to create user")
	}

	sanitized := user.Sanitized()
	return &sanitized, nil
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sanitized := user.Sanitized()
	return &sanitized, nil
}

// UpdateAccount applies a partial profile update. Password and session
// state are not reachable through this operation.
func (s *userService) UpdateAccount(ctx context.Context, userID string, req *dto.UpdateAccountRequest) (*domain.User, error) {
	patch := repository.ProfilePatch{
		FullName:  req.FullName,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
		CoverURL:  req.CoverURL,
		Phone:     req.Phone,
		BirthDate: req.BirthDate,
		Gender:    req.Gender,
		Location:  req.Location,
		Interests: req.Interests,
	}

	user, err := s.users.UpdateProfile(ctx, userID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "user does not exist")
		}
		return nil, apperr.Wrap(err, apperr.Internal, "failed to update account")
	}

	sanitized := user.Sanitized()
	return &sanitized, nil
}

func (s *userService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.New(apperr.NotFound, "user does not exist")
		}
		return apperr.Wrap(err, apperr.Internal, "failed to delete account")
	}
	return nil
}

// Follow adds targetID to the actor's following set and the actor to the
// target's followers set. Both writes happen in one store transaction.
func (s *userService) Follow(ctx context.Context, actorID, targetID string) error {
	if err := s.validatePair(ctx, actorID, targetID); err != nil {
		return err
	}

	if err := s.users.Follow(ctx, actorID, targetID); err != nil {
		if errors.Is(err, repository.ErrAlreadyFollowing) {
			return apperr.New(apperr.Conflict, "already following this user")
		}
		return apperr.Wrap(err, apperr.Internal, "failed to follow user")
	}
	return nil
}

// Unfollow removes the relationship symmetrically.
func (s *userService) Unfollow(ctx context.Context, actorID, targetID string) error {
	if err := s.validatePair(ctx, actorID, targetID); err != nil {
		return err
	}

	if err := s.users.Unfollow(ctx, actorID, targetID); err != nil {
		if errors.Is(err, repository.ErrNotFollowing) {
			return apperr.New(apperr.Conflict, "not following this user")
		}
		return apperr.Wrap(err, apperr.Internal, "failed to unfollow user")
	}
	return nil
}

func (s *userService) validatePair(ctx context.Context, actorID, targetID string) error {
	if !utils.ValidateID(actorID) || !utils.ValidateID(targetID) {
		return apperr.New(apperr.InvalidArgument, "invalid user id")
	}
	if actorID == targetID {
		return apperr.New(apperr.InvalidArgument, "cannot follow yourself")
	}

	if _, err := s.getUser(ctx, actorID); err != nil {
		return err
	}
	if _, err := s.getUser(ctx, targetID); err != nil {
		return err
	}
	return nil
}

func (s *userService) getUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "user does not exist")
		}
		return nil, apperr.Wrap(err, apperr.Internal, "failed to look up user")
	}
	return user, nil
}
