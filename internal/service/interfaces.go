package service

import (
	"context"

	"github.com/sociogram/backend/internal/domain"
	"github.com/sociogram/backend/internal/dto"
)

// SessionService owns the session lifecycle: token issuance, rotation,
// invalidation, and credential checks.
type SessionService interface {
	// IssueTokenPair signs a fresh access/refresh pair and persists the
	// refresh token on the user record, invalidating any prior session.
	IssueTokenPair(ctx context.Context, userID string) (domain.TokenPair, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*domain.User, domain.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error)
	Logout(ctx context.Context, userID string) error
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	ValidateAccessToken(ctx context.Context, token string) (*domain.AccessClaims, error)
}

// UserService owns accounts and the social graph.
type UserService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, error)
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateAccount(ctx context.Context, userID string, req *dto.UpdateAccountRequest) (*domain.User, error)
	DeleteAccount(ctx context.Context, userID string) error
	Follow(ctx context.Context, actorID, targetID string) error
	Unfollow(ctx context.Context, actorID, targetID string) error
}

// PostService owns posts, likes, and comments.
type PostService interface {
	Create(ctx context.Context, authorID string, req *dto.CreatePostRequest) (*domain.Post, error)
	List(ctx context.Context) ([]*domain.Post, error)
	Get(ctx context.Context, id string) (*domain.Post, error)
	Update(ctx context.Context, id string, req *dto.UpdatePostRequest) (*domain.Post, error)
	Delete(ctx context.Context, id string) error
	Like(ctx context.Context, postID, userID string) (*domain.Post, error)
	Comment(ctx context.Context, postID, userID, text string) (*domain.Post, error)
}
