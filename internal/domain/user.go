package domain

import "time"

// User represents a registered account together with its social graph
// and session state. The refresh token is stored inline on the record:
// at most one value is valid at a time, and issuing a new pair
// overwrites (and thereby invalidates) the previous one.
type User struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FullName     string    `json:"full_name" db:"full_name"`
	Bio          string    `json:"bio,omitempty" db:"bio"`
	AvatarURL    string    `json:"avatar_url,omitempty" db:"avatar_url"`
	CoverURL     string    `json:"cover_url,omitempty" db:"cover_url"`
	Phone        string    `json:"phone,omitempty" db:"phone"`
	BirthDate    string    `json:"birth_date,omitempty" db:"birth_date"`
	Gender       string    `json:"gender,omitempty" db:"gender"`
	Location     string    `json:"location,omitempty" db:"location"`
	Interests    []string  `json:"interests,omitempty" db:"interests"`
	Followers    []string  `json:"followers" db:"followers"`
	Following    []string  `json:"following" db:"following"`
	RefreshToken string    `json:"-" db:"refresh_token"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Sanitized returns a copy safe to hand to clients: credential hash and
// session state stripped.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	u.RefreshToken = ""
	return u
}

// IsFollowing reports whether the user already follows targetID.
func (u User) IsFollowing(targetID string) bool {
	for _, id := range u.Following {
		if id == targetID {
			return true
		}
	}
	return false
}

// AuthorSummary is the subset of user fields embedded in post listings.
type AuthorSummary struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Summary projects the user onto the fields shown next to authored content.
func (u User) Summary() AuthorSummary {
	return AuthorSummary{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
	}
}
