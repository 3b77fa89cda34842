package domain

import "time"

// Post is a piece of authored content. Likes hold user ids with set
// semantics: a user appears at most once regardless of how many times
// they like the post.
type Post struct {
	ID        string         `json:"id" db:"id"`
	UserID    string         `json:"user_id" db:"user_id"`
	Title     string         `json:"title" db:"title"`
	Content   string         `json:"content" db:"content"`
	ImageURL  string         `json:"image_url,omitempty" db:"image_url"`
	VideoURL  string         `json:"video_url,omitempty" db:"video_url"`
	Likes     []string       `json:"likes" db:"likes"`
	Author    *AuthorSummary `json:"author,omitempty"`
	Comments  []Comment      `json:"comments,omitempty"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}

// Comment is a single comment attached to a post.
type Comment struct {
	ID        string         `json:"id" db:"id"`
	PostID    string         `json:"post_id" db:"post_id"`
	UserID    string         `json:"user_id" db:"user_id"`
	Text      string         `json:"text" db:"text"`
	Author    *AuthorSummary `json:"author,omitempty"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}
