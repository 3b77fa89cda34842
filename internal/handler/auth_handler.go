package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sociogram/backend/internal/apperr"
	"github.com/sociogram/backend/internal/dto"
	"github.com/sociogram/backend/internal/service"
)

const (
	refreshCookieName = "refresh_token"
	refreshCookiePath = "/api/v1/users"
)

// AuthHandler handles registration and the session lifecycle.
type AuthHandler struct {
	sessions      service.SessionService
	users         service.UserService
	refreshExpiry time.Duration
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(sessions service.SessionService, users service.UserService, refreshExpiry time.Duration) *AuthHandler {
	return &AuthHandler{
		sessions:      sessions,
		users:         users,
		refreshExpiry: refreshExpiry,
	}
}

// Register creates a new account. Tokens are not issued here; the client
// logs in afterwards.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.users.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, user, "user created successfully")
}

// Login authenticates by username or email and starts a session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, pair, err := h.sessions.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)

	respond(c, http.StatusOK, dto.LoginResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    pair.ExpiresIn,
	}, "user logged in successfully")
}

// Refresh rotates the token pair. The refresh token is read from the
// httpOnly cookie, falling back to the request body for non-browser
// clients.
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, _ := c.Cookie(refreshCookieName)
	if refreshToken == "" {
		var req dto.RefreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}

	pair, err := h.sessions.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)

	respond(c, http.StatusOK, pair, "tokens refreshed successfully")
}

// Logout clears the stored refresh token and the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperr.New(apperr.Unauthorized, "not authenticated"))
		return
	}

	if err := h.sessions.Logout(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	c.SetCookie(refreshCookieName, "", -1, refreshCookiePath, "", true, true)

	respond(c, http.StatusOK, nil, "user logged out successfully")
}

// ChangePassword rotates the account password. The active session is
// kept valid.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperr.New(apperr.Unauthorized, "not authenticated"))
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.sessions.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, nil, "password changed successfully")
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetCookie(refreshCookieName, token, int(h.refreshExpiry.Seconds()), refreshCookiePath, "", true, true)
}
