package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sociogram/backend/internal/apperr"
	"github.com/sociogram/backend/internal/dto"
	"github.com/sociogram/backend/internal/service"
)

// UserHandler handles profile and social-graph requests.
type UserHandler struct {
	users service.UserService
}

// NewUserHandler creates the user handler.
func NewUserHandler(users service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Profile returns the authenticated user's profile.
func (h *UserHandler) Profile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperr.New(apperr.Unauthorized, "not authenticated"))
		return
	}

	user, err := h.users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, user, "profile")
}

// UpdateAccount applies a partial profile update.
func (h *UserHandler) UpdateAccount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperr.New(apperr.Unauthorized, "not authenticated"))
		return
	}

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.users.UpdateAccount(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, user, "account updated successfully")
}

// DeleteAccount removes the authenticated user and scrubs
// back-references held by other records.
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperr.New(apperr.Unauthorized, "not authenticated"))
		return
	}

	if err := h.users.DeleteAccount(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	c.SetCookie(refreshCookieName, "", -1, refreshCookiePath, "", true, true)

	respond(c, http.StatusOK, nil, "account deleted successfully")
}

// Follow adds the target user to the authenticated user's following set.
func (h *UserHandler) Follow(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperr.New(apperr.Unauthorized, "not authenticated"))
		return
	}

	if err := h.users.Follow(c.Request.Context(), actorID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, nil, "user followed successfully")
}

// Unfollow removes the relationship.
func (h *UserHandler) Unfollow(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperr.New(apperr.Unauthorized, "not authenticated"))
		return
	}

	if err := h.users.Unfollow(c.Request.Context(), actorID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, nil, "user unfollowed successfully")
}
