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

const userColumns = `id, username, email, password_hash, full_name, bio, avatar_url,
	cover_url, phone, birth_date, gender, location, interests, followers, following,
	refresh_token, created_at, updated_at`

// userRepository implements UserRepository on PostgreSQL.
type userRepository struct {
	db *database.Postgres
}

// NewUserRepository creates a user repository.
func NewUserRepository(db *database.Postgres) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, full_name, bio, avatar_url,
			cover_url, phone, birth_date, gender, location, interests, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}

	_, err := r.db.DB.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.Bio,
		user.AvatarURL,
		user.CoverURL,
		user.Phone,
		user.BirthDate,
		user.Gender,
		user.Location,
		pq.Array(user.Interests),
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %s: %w", user.Username, ErrDuplicateUser)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	return r.scanUser(r.db.DB.QueryRowContext(ctx, query, id), id)
}

func (r *userRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE username = $1 OR email = $1`, userColumns)
	return r.scanUser(r.db.DB.QueryRowContext(ctx, query, identifier), identifier)
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, patch ProfilePatch) (*domain.User, error) {
	query := fmt.Sprintf(`
		UPDATE users SET
			full_name  = COALESCE($2, full_name),
			bio        = COALESCE($3, bio),
			avatar_url = COALESCE($4, avatar_url),
			cover_url  = COALESCE($5, cover_url),
			phone      = COALESCE($6, phone),
			birth_date = COALESCE($7, birth_date),
			gender     = COALESCE($8, gender),
			location   = COALESCE($9, location),
			interests  = COALESCE($10, interests),
			updated_at = now()
		WHERE id = $1
		RETURNING %s`, userColumns)

	var interests interface{}
	if patch.Interests != nil {
		interests = pq.Array(*patch.Interests)
	}

	return r.scanUser(r.db.DB.QueryRowContext(ctx, query,
		id,
		nullable(patch.FullName),
		nullable(patch.Bio),
		nullable(patch.AvatarURL),
		nullable(patch.CoverURL),
		nullable(patch.Phone),
		nullable(patch.BirthDate),
		nullable(patch.Gender),
		nullable(patch.Location),
		interests,
	), id)
}

func (r *userRepository) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`
	return r.execExpectingRow(ctx, query, id, passwordHash)
}

func (r *userRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	query := `UPDATE users SET refresh_token = $2, updated_at = now() WHERE id = $1`
	return r.execExpectingRow(ctx, query, id, token)
}

func (r *userRepository) ClearRefreshToken(ctx context.Context, id string) error {
	query := `UPDATE users SET refresh_token = NULL, updated_at = now() WHERE id = $1`
	return r.execExpectingRow(ctx, query, id)
}

func (r *userRepository) Follow(ctx context.Context, actorID, targetID string) error {
	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin follow transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE users SET following = array_append(following, $2), updated_at = now()
		WHERE id = $1 AND NOT ($2 = ANY(following))`,
		actorID, targetID,
	)
	if err != nil {
		return fmt.Errorf("failed to update following: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("user %s already follows %s: %w", actorID, targetID, ErrAlreadyFollowing)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE users SET followers = array_append(followers, $1), updated_at = now()
		WHERE id = $2 AND NOT ($1 = ANY(followers))`,
		actorID, targetID,
	)
	if err != nil {
		return fmt.Errorf("failed to update followers: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit follow: %w", err)
	}
	return nil
}

func (r *userRepository) Unfollow(ctx context.Context, actorID, targetID string) error {
	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin unfollow transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE users SET following = array_remove(following, $2), updated_at = now()
		WHERE id = $1 AND $2 = ANY(following)`,
		actorID, targetID,
	)
	if err != nil {
		return fmt.Errorf("failed to update following: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("user %s does not follow %s: %w", actorID, targetID, ErrNotFollowing)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE users SET followers = array_remove(followers, $1), updated_at = now()
		WHERE id = $2`,
		actorID, targetID,
	)
	if err != nil {
		return fmt.Errorf("failed to update followers: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit unfollow: %w", err)
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete transaction: %w", err)
	}
	defer tx.Rollback()

	// Scrub back-references before removing the record itself. Posts and
	// comments go away through ON DELETE CASCADE.
	if _, err := tx.ExecContext(ctx, `
		UPDATE users SET
			followers = array_remove(followers, $1),
			following = array_remove(following, $1)
		WHERE $1 = ANY(followers) OR $1 = ANY(following)`, id); err != nil {
		return fmt.Errorf("failed to scrub relationship sets: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE posts SET likes = array_remove(likes, $1) WHERE $1 = ANY(likes)`, id); err != nil {
		return fmt.Errorf("failed to scrub likes: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *userRepository) scanUser(row rowScanner, key string) (*domain.User, error) {
	user := &domain.User{}
	var refreshToken sql.NullString

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.Bio,
		&user.AvatarURL,
		&user.CoverURL,
		&user.Phone,
		&user.BirthDate,
		&user.Gender,
		&user.Location,
		pq.Array(&user.Interests),
		pq.Array(&user.Followers),
		pq.Array(&user.Following),
		&refreshToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	if refreshToken.Valid {
		user.RefreshToken = refreshToken.String
	}
	return user, nil
}

func (r *userRepository) execExpectingRow(ctx context.Context, query string, args ...any) error {
	result, err := r.db.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
