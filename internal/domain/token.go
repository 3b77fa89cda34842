package domain

import "time"

// AccessClaims are the identity claims carried by an access token.
type AccessClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Exp      int64  `json:"exp"`
	Iat      int64  `json:"iat"`
}

// IsExpired checks the claim expiry against the wall clock.
func (c AccessClaims) IsExpired() bool {
	return time.Now().Unix() > c.Exp
}

// TokenPair is the result of a successful login or refresh. The refresh
// token has also been persisted on the user record at the time the pair
// is returned; the caller must treat it as provisional until no newer
// login or refresh for the same user supersedes it.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}
