package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sociogram/backend/internal/apperr"
	"github.com/sociogram/backend/internal/domain"
	"github.com/sociogram/backend/internal/dto"
	"github.com/sociogram/backend/internal/repository"
	"github.com/sociogram/backend/internal/utils"
)

// postService implements PostService.
type postService struct {
	posts repository.PostRepository
	users repository.UserRepository
}

// NewPostService creates the content service.
func NewPostService(posts repository.PostRepository, users repository.UserRepository) PostService {
	return &postService{posts: posts, users: users}
}

func (s *postService) Create(ctx context.Context, authorID string, req *dto.CreatePostRequest) (*domain.Post, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return nil, apperr.New(apperr.InvalidArgument, "title and content are required")
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "user does not exist")
		}
		return nil, apperr.Wrap(err, apperr.Internal, "failed to look up user")
	}

	post := &domain.Post{
		UserID:   author.ID,
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		VideoURL: req.VideoURL,
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to create post")
	}

	summary := author.Summary()
	post.Author = &summary
	return post, nil
}

func (s *postService) List(ctx context.Context) ([]*domain.Post, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to list posts")
	}

	for _, post := range posts {
		comments, err := s.posts.ListComments(ctx, post.ID)
		if err != nil {
			return nil, apperr.Wrap(err, apperr.Internal, "failed to load comments")
		}
		post.Comments = comments
	}
	return posts, nil
}

func (s *postService) Get(ctx context.Context, id string) (*domain.Post, error) {
	if !utils.ValidateID(id) {
		return nil, apperr.New(apperr.InvalidArgument, "invalid post id")
	}
	return s.getPost(ctx, id)
}

func (s *postService) Update(ctx context.Context, id string, req *dto.UpdatePostRequest) (*domain.Post, error) {
	if !utils.ValidateID(id) {
		return nil, apperr.New(apperr.InvalidArgument, "invalid post id")
	}
	if req.Title == nil && req.Content == nil && req.ImageURL == nil && req.VideoURL == nil {
		return nil, apperr.New(apperr.InvalidArgument, "at least one field must be provided")
	}

	post, err := s.posts.Update(ctx, id, repository.PostPatch{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		VideoURL: req.VideoURL,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "post does not exist")
		}
		return nil, apperr.Wrap(err, apperr.Internal, "failed to update post")
	}
	return post, nil
}

func (s *postService) Delete(ctx context.Context, id string) error {
	if !utils.ValidateID(id) {
		return apperr.New(apperr.InvalidArgument, "invalid post id")
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.New(apperr.NotFound, "post does not exist")
		}
		return apperr.Wrap(err, apperr.Internal, "failed to delete post")
	}
	return nil
}

// Like records a like with set semantics; liking a post twice leaves a
// single entry and succeeds.
func (s *postService) Like(ctx context.Context, postID, userID string) (*domain.Post, error) {
	if !utils.ValidateID(postID) {
		return nil, apperr.New(apperr.InvalidArgument, "invalid post id")
	}
	if !utils.ValidateID(userID) {
		return nil, apperr.New(apperr.InvalidArgument, "invalid user id")
	}

	if _, err := s.getPost(ctx, postID); err != nil {
		return nil, err
	}

	post, err := s.posts.AddLike(ctx, postID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "post does not exist")
		}
		return nil, apperr.Wrap(err, apperr.Internal, "failed to like post")
	}
	return post, nil
}

func (s *postService) Comment(ctx context.Context, postID, userID, text string) (*domain.Post, error) {
	if !utils.ValidateID(postID) {
		return nil, apperr.New(apperr.InvalidArgument, "invalid post id")
	}
	if !utils.ValidateID(userID) {
		return nil, apperr.New(apperr.InvalidArgument, "invalid user id")
	}
	if strings.TrimSpace(text) == "" {
		return nil, apperr.New(apperr.InvalidArgument, "comment text is required")
	}

	if _, err := s.getPost(ctx, postID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		PostID: postID,
		UserID: userID,
		Text:   text,
	}
	if err := s.posts.AddComment(ctx, comment); err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "failed to create comment")
	}

	return s.getPost(ctx, postID)
}

func (s *postService) getPost(ctx context.Context, id string) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "post does not exist")
		}
		return nil, apperr.Wrap(err, apperr.Internal, "failed to look up post")
	}
	return post, nil
}
