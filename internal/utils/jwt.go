package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sociogram/backend/internal/domain"
)

// TokenManager signs and verifies the session token pair. Access and
// refresh tokens are signed with distinct secrets and expiries; a token
// signed with one secret never verifies against the other.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewTokenManager creates a token manager from signing configuration.
func NewTokenManager(accessSecret, refreshSecret string, accessExpiry, refreshExpiry time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// GenerateAccessToken signs a short-lived token carrying the identity
// claims used to authenticate individual requests.
func (m *TokenManager) GenerateAccessToken(user *domain.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":   user.ID,
		"username":  user.Username,
		"email":     user.Email,
		"full_name": user.FullName,
		"exp":       now.Add(m.accessExpiry).Unix(),
		"iat":       now.Unix(),
	})

	signed, err := token.SignedString(m.accessSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// GenerateRefreshToken signs a longer-lived token carrying only the user
// id. The jti makes consecutive tokens for the same user distinct, which
// the rotation compare relies on.
func (m *TokenManager) GenerateRefreshToken(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"type":    "refresh",
		"jti":     uuid.New().String(),
		"exp":     now.Add(m.refreshExpiry).Unix(),
		"iat":     now.Unix(),
	})

	signed, err := token.SignedString(m.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return signed, nil
}

// VerifyAccessToken validates signature and expiry and returns the
// identity claims.
func (m *TokenManager) VerifyAccessToken(tokenString string) (*domain.AccessClaims, error) {
	claims, err := m.parse(tokenString, m.accessSecret)
	if err != nil {
		return nil, err
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, fmt.Errorf("missing user_id claim")
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, fmt.Errorf("missing exp claim")
	}
	iat, _ := claims["iat"].(float64)
	username, _ := claims["username"].(string)
	email, _ := claims["email"].(string)
	fullName, _ := claims["full_name"].(string)

	accessClaims := &domain.AccessClaims{
		UserID:   userID,
		Username: username,
		Email:    email,
		FullName: fullName,
		Exp:      int64(exp),
		Iat:      int64(iat),
	}

	if accessClaims.IsExpired() {
		return nil, fmt.Errorf("token is expired")
	}
	return accessClaims, nil
}

// VerifyRefreshToken validates signature, type, and expiry and returns
// the subject user id.
func (m *TokenManager) VerifyRefreshToken(tokenString string) (string, error) {
	claims, err := m.parse(tokenString, m.refreshSecret)
	if err != nil {
		return "", err
	}

	if claims["type"] != "refresh" {
		return "", fmt.Errorf("not a refresh token")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", fmt.Errorf("missing user_id claim")
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return "", fmt.Errorf("missing exp claim")
	}
	if time.Now().Unix() > int64(exp) {
		return "", fmt.Errorf("token is expired")
	}
	return userID, nil
}

// AccessExpirySeconds returns the access token lifetime in seconds for
// the expires_in response field.
func (m *TokenManager) AccessExpirySeconds() int {
	return int(m.accessExpiry.Seconds())
}

// RefreshExpiry returns the refresh token lifetime.
func (m *TokenManager) RefreshExpiry() time.Duration {
	return m.refreshExpiry
}

func (m *TokenManager) parse(tokenString string, secret []byte) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
