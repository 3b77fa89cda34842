package repository

import (
	"context"

	"github.com/sociogram/backend/internal/domain"
)

// ProfilePatch is a partial update of user profile fields. Nil fields
// are left untouched. Credential hash and refresh token are deliberately
// not reachable through this type.
type ProfilePatch struct {
	FullName  *string
	Bio       *string
	AvatarURL *string
	CoverURL  *string
	Phone     *string
	BirthDate *string
	Gender    *string
	Location  *string
	Interests *[]string
}

// PostPatch is a partial update of post fields.
type PostPatch struct {
	Title    *string
	Content  *string
	ImageURL *string
	VideoURL *string
}

// UserRepository defines credential-store operations over user records.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByIdentifier resolves a user by username or email.
	GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, patch ProfilePatch) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
	// SetRefreshToken overwrites the stored refresh token in a single
	// statement; concurrent callers race with last-writer-wins semantics.
	SetRefreshToken(ctx context.Context, id, token string) error
	ClearRefreshToken(ctx context.Context, id string) error
	// Follow and Unfollow apply both sides of the relationship inside one
	// transaction.
	Follow(ctx context.Context, actorID, targetID string) error
	Unfollow(ctx context.Context, actorID, targetID string) error
	Delete(ctx context.Context, id string) error
}

// PostRepository defines storage operations over posts and comments.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id string) (*domain.Post, error)
	// List returns all posts newest-first with author summaries attached.
	List(ctx context.Context) ([]*domain.Post, error)
	Update(ctx context.Context, id string, patch PostPatch) (*domain.Post, error)
	Delete(ctx context.Context, id string) error
	// AddLike records a like with set semantics: liking twice is a no-op.
	AddLike(ctx context.Context, postID, userID string) (*domain.Post, error)
	AddComment(ctx context.Context, comment *domain.Comment) error
	ListComments(ctx context.Context, postID string) ([]domain.Comment, error)
}
