package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sociogram/backend/internal/domain"
	"github.com/sociogram/backend/pkg/database"
)

const postColumns = `p.id, p.user_id, p.title, p.content, p.image_url, p.video_url,
	p.likes, p.created_at, p.updated_at,
	u.id, u.username, u.full_name, u.avatar_url`

// postRepository implements PostRepository on PostgreSQL.
type postRepository struct {
	db *database.Postgres
}

// NewPostRepository creates a post repository.
func NewPostRepository(db *database.Postgres) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	query := `
		INSERT INTO posts (id, user_id, title, content, image_url, video_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if post.ID == "" {
		post.ID = uuid.New().String()
	}

	now := time.Now()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	if post.UpdatedAt.IsZero() {
		post.UpdatedAt = now
	}

	_, err := r.db.DB.ExecContext(ctx, query,
		post.ID,
		post.UserID,
		post.Title,
		post.Content,
		post.ImageURL,
		post.VideoURL,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	if post.Likes == nil {
		post.Likes = []string{}
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM posts p JOIN users u ON u.id = p.user_id
		WHERE p.id = $1`, postColumns)

	post, err := r.scanPost(r.db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post %s: %w", id, ErrNotFound)
		}
		return nil, err
	}

	comments, err := r.ListComments(ctx, id)
	if err != nil {
		return nil, err
	}
	post.Comments = comments
	return post, nil
}

func (r *postRepository) List(ctx context.Context) ([]*domain.Post, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM posts p JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC`, postColumns)

	rows, err := r.db.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		post, err := r.scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, id string, patch PostPatch) (*domain.Post, error) {
	query := `
		UPDATE posts SET
			title      = COALESCE($2, title),
			content    = COALESCE($3, content),
			image_url  = COALESCE($4, image_url),
			video_url  = COALESCE($5, video_url),
			updated_at = now()
		WHERE id = $1
	`

	result, err := r.db.DB.ExecContext(ctx, query,
		id,
		nullable(patch.Title),
		nullable(patch.Content),
		nullable(patch.ImageURL),
		nullable(patch.VideoURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, fmt.Errorf("post %s: %w", id, ErrNotFound)
	}

	return r.GetByID(ctx, id)
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("post %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *postRepository) AddLike(ctx context.Context, postID, userID string) (*domain.Post, error) {
	// Set semantics: the guard makes a second like from the same user a
	// no-op rather than a duplicate.
	query := `
		UPDATE posts SET likes = array_append(likes, $2), updated_at = now()
		WHERE id = $1 AND NOT ($2 = ANY(likes))
	`

	if _, err := r.db.DB.ExecContext(ctx, query, postID, userID); err != nil {
		return nil, fmt.Errorf("failed to like post: %w", err)
	}

	return r.GetByID(ctx, postID)
}

func (r *postRepository) AddComment(ctx context.Context, comment *domain.Comment) error {
	query := `
		INSERT INTO post_comments (id, post_id, user_id, text, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}

	_, err := r.db.DB.ExecContext(ctx, query,
		comment.ID,
		comment.PostID,
		comment.UserID,
		comment.Text,
		comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

func (r *postRepository) ListComments(ctx context.Context, postID string) ([]domain.Comment, error) {
	query := `
		SELECT c.id, c.post_id, c.user_id, c.text, c.created_at,
			u.id, u.username, u.full_name, u.avatar_url
		FROM post_comments c JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC
	`

	rows, err := r.db.DB.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		var c domain.Comment
		author := &domain.AuthorSummary{}
		err := rows.Scan(
			&c.ID, &c.PostID, &c.UserID, &c.Text, &c.CreatedAt,
			&author.ID, &author.Username, &author.FullName, &author.AvatarURL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		c.Author = author
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}
	return comments, nil
}

func (r *postRepository) scanPost(row rowScanner) (*domain.Post, error) {
	post := &domain.Post{}
	author := &domain.AuthorSummary{}

	err := row.Scan(
		&post.ID,
		&post.UserID,
		&post.Title,
		&post.Content,
		&post.ImageURL,
		&post.VideoURL,
		pq.Array(&post.Likes),
		&post.CreatedAt,
		&post.UpdatedAt,
		&author.ID,
		&author.Username,
		&author.FullName,
		&author.AvatarURL,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan post: %w", err)
	}

	post.Author = author
	if post.Likes == nil {
		post.Likes = []string{}
	}
	return post, nil
}
