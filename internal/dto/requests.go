package dto

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
}

// LoginRequest authenticates by username or email; at least one of the
// identifiers must be present.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries the refresh token for non-browser clients that
// do not use the cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ChangePasswordRequest rotates the account password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// UpdateAccountRequest is a partial profile update; absent fields are
// left untouched.
type UpdateAccountRequest struct {
	FullName  *string   `json:"full_name"`
	Bio       *string   `json:"bio"`
	AvatarURL *string   `json:"avatar_url"`
	CoverURL  *string   `json:"cover_url"`
	Phone     *string   `json:"phone"`
	BirthDate *string   `json:"birth_date"`
	Gender    *string   `json:"gender"`
	Location  *string   `json:"location"`
	Interests *[]string `json:"interests"`
}

// CreatePostRequest creates a post; media references are plain URLs.
type CreatePostRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	ImageURL string `json:"image_url"`
	VideoURL string `json:"video_url"`
}

// UpdatePostRequest is a partial post update; at least one field must be
// present.
type UpdatePostRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	ImageURL *string `json:"image_url"`
	VideoURL *string `json:"video_url"`
}

// CommentRequest adds a comment to a post.
type CommentRequest struct {
	Text string `json:"text" binding:"required"`
}
