package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sociogram/backend/internal/apperr"
	"github.com/sociogram/backend/internal/dto"
	"github.com/sociogram/backend/internal/service"
)

// PostHandler handles post, like, and comment requests.
type PostHandler struct {
	posts service.PostService
}

// NewPostHandler creates the post handler.
func NewPostHandler(posts service.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// Create publishes a post authored by the authenticated user.
func (h *PostHandler) Create(c *gin.Context) {
	authorID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperr.New(apperr.Unauthorized, "not authenticated"))
		return
	}

	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	post, err := h.posts.Create(c.Request.Context(), authorID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, post, "post created successfully")
}

// List returns all posts newest-first.
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.posts.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, posts, "all posts")
}

// Get returns a single post with comments.
func (h *PostHandler) Get(c *gin.Context) {
	post, err := h.posts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, post, "post")
}

// Update applies a partial post update.
func (h *PostHandler) Update(c *gin.Context) {
	var req dto.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	post, err := h.posts.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, post, "post updated successfully")
}

// Delete removes a post.
func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.posts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, nil, "post deleted successfully")
}

// Like records a like from the authenticated user; liking twice is a
// no-op.
func (h *PostHandler) Like(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperr.New(apperr.Unauthorized, "not authenticated"))
		return
	}

	post, err := h.posts.Like(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, post, "likes on post")
}

// Comment adds a comment from the authenticated user.
func (h *PostHandler) Comment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperr.New(apperr.Unauthorized, "not authenticated"))
		return
	}

	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	post, err := h.posts.Comment(c.Request.Context(), c.Param("id"), userID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, post, "comment on post")
}
