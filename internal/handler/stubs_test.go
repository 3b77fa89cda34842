package handler

import (
	"context"

	"github.com/sociogram/backend/internal/apperr"
	"github.com/sociogram/backend/internal/domain"
	"github.com/sociogram/backend/internal/dto"
)

// Function-field stubs for the service interfaces. Unset fields reject
// the call so a test only wires the paths it exercises.

type sessionServiceStub struct {
	issueFn          func(ctx context.Context, userID string) (domain.TokenPair, error)
	loginFn          func(ctx context.Context, req *dto.LoginRequest) (*domain.User, domain.TokenPair, error)
	refreshFn        func(ctx context.Context, refreshToken string) (domain.TokenPair, error)
	logoutFn         func(ctx context.Context, userID string) error
	changePasswordFn func(ctx context.Context, userID, currentPassword, newPassword string) error
	validateFn       func(ctx context.Context, token string) (*domain.AccessClaims, error)
}

func (s *sessionServiceStub) IssueTokenPair(ctx context.Context, userID string) (domain.TokenPair, error) {
	if s.issueFn == nil {
		return domain.TokenPair{}, apperr.New(apperr.Internal, "not wired")
	}
	return s.issueFn(ctx, userID)
}

func (s *sessionServiceStub) Login(ctx context.Context, req *dto.LoginRequest) (*domain.User, domain.TokenPair, error) {
	if s.loginFn == nil {
		return nil, domain.TokenPair{}, apperr.New(apperr.Internal, "not wired")
	}
	return s.loginFn(ctx, req)
}

func (s *sessionServiceStub) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	if s.refreshFn == nil {
		return domain.TokenPair{}, apperr.New(apperr.Internal, "not wired")
	}
	return s.refreshFn(ctx, refreshToken)
}

func (s *sessionServiceStub) Logout(ctx context.Context, userID string) error {
	if s.logoutFn == nil {
		return apperr.New(apperr.Internal, "not wired")
	}
	return s.logoutFn(ctx, userID)
}

func (s *sessionServiceStub) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if s.changePasswordFn == nil {
		return apperr.New(apperr.Internal, "not wired")
	}
	return s.changePasswordFn(ctx, userID, currentPassword, newPassword)
}

func (s *sessionServiceStub) ValidateAccessToken(ctx context.Context, token string) (*domain.AccessClaims, error) {
	if s.validateFn == nil {
		return nil, apperr.New(apperr.Unauthorized, "invalid or expired token")
	}
	return s.validateFn(ctx, token)
}

type userServiceStub struct {
	registerFn      func(ctx context.Context, req *dto.RegisterRequest) (*domain.User, error)
	getProfileFn    func(ctx context.Context, userID string) (*domain.User, error)
	updateAccountFn func(ctx context.Context, userID string, req *dto.UpdateAccountRequest) (*domain.User, error)
	deleteAccountFn func(ctx context.Context, userID string) error
	followFn        func(ctx context.Context, actorID, targetID string) error
	unfollowFn      func(ctx context.Context, actorID, targetID string) error
}

func (s *userServiceStub) Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, error) {
	if s.registerFn == nil {
		return nil, apperr.New(apperr.Internal, "not wired")
	}
	return s.registerFn(ctx, req)
}

func (s *userServiceStub) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	if s.getProfileFn == nil {
		return nil, apperr.New(apperr.Internal, "not wired")
	}
	return s.getProfileFn(ctx, userID)
}

func (s *userServiceStub) UpdateAccount(ctx context.Context, userID string, req *dto.UpdateAccountRequest) (*domain.User, error) {
	if s.updateAccountFn == nil {
		return nil, apperr.New(apperr.Internal, "not wired")
	}
	return s.updateAccountFn(ctx, userID, req)
}

func (s *userServiceStub) DeleteAccount(ctx context.Context, userID string) error {
	if s.deleteAccountFn == nil {
		return apperr.New(apperr.Internal, "not wired")
	}
	return s.deleteAccountFn(ctx, userID)
}

func (s *userServiceStub) Follow(ctx context.Context, actorID, targetID string) error {
	if s.followFn == nil {
		return apperr.New(apperr.Internal, "not wired")
	}
	return s.followFn(ctx, actorID, targetID)
}

func (s *userServiceStub) Unfollow(ctx context.Context, actorID, targetID string) error {
	if s.unfollowFn == nil {
		return apperr.New(apperr.Internal, "not wired")
	}
	return s.unfollowFn(ctx, actorID, targetID)
}

type postServiceStub struct {
	createFn  func(ctx context.Context, authorID string, req *dto.CreatePostRequest) (*domain.Post, error)
	listFn    func(ctx context.Context) ([]*domain.Post, error)
	getFn     func(ctx context.Context, id string) (*domain.Post, error)
	updateFn  func(ctx context.Context, id string, req *dto.UpdatePostRequest) (*domain.Post, error)
	deleteFn  func(ctx context.Context, id string) error
	likeFn    func(ctx context.Context, postID, userID string) (*domain.Post, error)
	commentFn func(ctx context.Context, postID, userID, text string) (*domain.Post, error)
}

func (s *postServiceStub) Create(ctx context.Context, authorID string, req *dto.CreatePostRequest) (*domain.Post, error) {
	if s.createFn == nil {
		return nil, apperr.New(apperr.Internal, "not wired")
	}
	return s.createFn(ctx, authorID, req)
}

func (s *postServiceStub) List(ctx context.Context) ([]*domain.Post, error) {
	if s.listFn == nil {
		return nil, apperr.New(apperr.Internal, "not wired")
	}
	return s.listFn(ctx)
}

func (s *postServiceStub) Get(ctx context.Context, id string) (*domain.Post, error) {
	if s.getFn == nil {
		return nil, apperr.New(apperr.Internal, "not wired")
	}
	return s.getFn(ctx, id)
}

func (s *postServiceStub) Update(ctx context.Context, id string, req *dto.UpdatePostRequest) (*domain.Post, error) {
	if s.updateFn == nil {
		return nil, apperr.New(apperr.Internal, "not wired")
	}
	return s.updateFn(ctx, id, req)
}

func (s *postServiceStub) Delete(ctx context.Context, id string) error {
	if s.deleteFn == nil {
		return apperr.New(apperr.Internal, "not wired")
	}
	return s.deleteFn(ctx, id)
}

func (s *postServiceStub) Like(ctx context.Context, postID, userID string) (*domain.Post, error) {
	if s.likeFn == nil {
		return nil, apperr.New(apperr.Internal, "not wired")
	}
	return s.likeFn(ctx, postID, userID)
}

func (s *postServiceStub) Comment(ctx context.Context, postID, userID, text string) (*domain.Post, error) {
	if s.commentFn == nil {
		return nil, apperr.New(apperr.Internal, "not wired")
	}
	return s.commentFn(ctx, postID, userID, text)
}

// staticClaims returns a ValidateAccessToken stub accepting exactly one
// token value.
func staticClaims(token, userID string) func(ctx context.Context, got string) (*domain.AccessClaims, error) {
	return func(_ context.Context, got string) (*domain.AccessClaims, error) {
		if got != token {
			return nil, apperr.New(apperr.Unauthorized, "invalid or expired token")
		}
		return &domain.AccessClaims{UserID: userID, Username: "poster"}, nil
	}
}
