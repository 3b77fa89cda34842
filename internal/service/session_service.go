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

// sessionService implements SessionService. It holds no in-process
// mutable state: every transition reads and writes the credential store,
// so concurrency correctness reduces to the store's per-record update
// semantics (last writer wins on the refresh-token field).
type sessionService struct {
	users      repository.UserRepository
	tokens     *utils.TokenManager
	bcryptCost int
}

// NewSessionService creates the session manager.
func NewSessionService(users repository.UserRepository, tokens *utils.TokenManager, bcryptCost int) SessionService {
	return &sessionService{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// IssueTokenPair signs both tokens and overwrites the stored refresh
// token in a single write. A concurrent call for the same user races
// with last-writer-wins: the loser's refresh token fails the stored
// compare on its next refresh.
func (s *sessionService) IssueTokenPair(ctx context.Context, userID string) (domain.TokenPair, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.TokenPair{}, apperr.New(apperr.NotFound, "user does not exist")
		}
		return domain.TokenPair{}, apperr.Wrap(err, apperr.Internal, "failed to look up user")
	}

	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return domain.TokenPair{}, apperr.Wrap(err, apperr.Internal, "failed to generate tokens")
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		return domain.TokenPair{}, apperr.Wrap(err, apperr.Internal, "failed to generate tokens")
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.TokenPair{}, apperr.New(apperr.NotFound, "user does not exist")
		}
		return domain.TokenPair{}, apperr.Wrap(err, apperr.Internal, "failed to persist refresh token")
	}

	return domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.tokens.AccessExpirySeconds(),
	}, nil
}

// Login authenticates by username or email and starts a new session,
// invalidating any previously stored refresh token.
func (s *sessionService) Login(ctx context.Context, req *dto.LoginRequest) (*domain.User, domain.TokenPair, error) {
	identifier := utils.NormalizeUsername(req.Username)
	if identifier == "" {
		identifier = utils.NormalizeEmail(req.Email)
	}
	if identifier == "" {
		return nil, domain.TokenPair{}, apperr.New(apperr.InvalidArgument, "username or email is required")
	}

	user, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.TokenPair{}, apperr.New(apperr.NotFound, "user does not exist")
		}
		return nil, domain.TokenPair{}, apperr.Wrap(err, apperr.Internal, "failed to look up user")
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, domain.TokenPair{}, apperr.New(apperr.Unauthorized, "invalid credentials")
	}

	pair, err := s.IssueTokenPair(ctx, user.ID)
	if err != nil {
		return nil, domain.TokenPair{}, err
	}

	sanitized := user.Sanitized()
	return &sanitized, pair, nil
}

// Refresh rotates the session: it validates the presented token against
// signature, expiry, and the exact value stored on the user record, then
// issues a new pair. A token superseded by a later login or refresh
// always fails the stored compare, even before its own expiry.
func (s *sessionService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	if refreshToken == "" {
		return domain.TokenPair{}, apperr.New(apperr.Unauthorized, "refresh token is required")
	}

	userID, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return domain.TokenPair{}, apperr.Wrap(err, apperr.Unauthorized, "invalid refresh token")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.TokenPair{}, apperr.New(apperr.NotFound, "user does not exist")
		}
		return domain.TokenPair{}, apperr.Wrap(err, apperr.Internal, "failed to look up user")
	}

	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return domain.TokenPair{}, apperr.New(apperr.Unauthorized, "refresh token expired or reused")
	}

	return s.IssueTokenPair(ctx, user.ID)
}

// Logout clears the stored refresh token. Logging out an already
// logged-out user succeeds.
func (s *sessionService) Logout(ctx context.Context, userID string) error {
	if err := s.users.ClearRefreshToken(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.New(apperr.NotFound, "user does not exist")
		}
		return apperr.Wrap(err, apperr.Internal, "failed to clear refresh token")
	}
	return nil
}

// ChangePassword verifies the current password and persists a new hash.
// The stored refresh token is left untouched: the active session stays
// valid after a password change.
func (s *sessionService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.New(apperr.NotFound, "user does not exist")
		}
		return apperr.Wrap(err, apperr.Internal, "failed to look up user")
	}

	if !utils.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.New(apperr.Unauthorized, "current password is incorrect")
	}

	hash, err := utils.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperr.Wrap(err, apperr.Internal, "failed to hash password")
	}

	if err := s.users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.New(apperr.NotFound, "user does not exist")
		}
		return apperr.Wrap(err, apperr.Internal, "failed to update password")
	}
	return nil
}

// ValidateAccessToken verifies signature and expiry and returns the
// identity claims for the auth middleware.
func (s *sessionService) ValidateAccessToken(_ context.Context, token string) (*domain.AccessClaims, error) {
	claims, err := s.tokens.VerifyAccessToken(token)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.Unauthorized, "invalid or expired token")
	}
	return claims, nil
}
