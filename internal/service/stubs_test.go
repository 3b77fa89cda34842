package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sociogram/backend/internal/domain"
	"github.com/sociogram/backend/internal/repository"
)

// userRepoStub is an in-memory UserRepository mirroring the store's
// per-record update semantics.
type userRepoStub struct {
	users map[string]*domain.User
}

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{users: make(map[string]*domain.User)}
}

func (s *userRepoStub) Create(_ context.Context, user *domain.User) error {
	for _, u := range s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repository.ErrDuplicateUser
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *userRepoStub) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *userRepoStub) GetByIdentifier(_ context.Context, identifier string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Username == identifier || u.Email == identifier {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *userRepoStub) UpdateProfile(_ context.Context, id string, patch repository.ProfilePatch) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&u.FullName, patch.FullName)
	apply(&u.Bio, patch.Bio)
	apply(&u.AvatarURL, patch.AvatarURL)
	apply(&u.CoverURL, patch.CoverURL)
	apply(&u.Phone, patch.Phone)
	apply(&u.BirthDate, patch.BirthDate)
	apply(&u.Gender, patch.Gender)
	apply(&u.Location, patch.Location)
	if patch.Interests != nil {
		u.Interests = append([]string(nil), (*patch.Interests)...)
	}
	u.UpdatedAt = time.Now()
	clone := *u
	return &clone, nil
}

func (s *userRepoStub) UpdatePasswordHash(_ context.Context, id, passwordHash string) error {
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (s *userRepoStub) SetRefreshToken(_ context.Context, id, token string) error {
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.RefreshToken = token
	return nil
}

func (s *userRepoStub) ClearRefreshToken(_ context.Context, id string) error {
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.RefreshToken = ""
	return nil
}

func (s *userRepoStub) Follow(_ context.Context, actorID, targetID string) error {
	actor, ok := s.users[actorID]
	if !ok {
		return repository.ErrNotFound
	}
	target, ok := s.users[targetID]
	if !ok {
		return repository.ErrNotFound
	}
	if actor.IsFollowing(targetID) {
		return repository.ErrAlreadyFollowing
	}
	actor.Following = append(actor.Following, targetID)
	target.Followers = append(target.Followers, actorID)
	return nil
}

func (s *userRepoStub) Unfollow(_ context.Context, actorID, targetID string) error {
	actor, ok := s.users[actorID]
	if !ok {
		return repository.ErrNotFound
	}
	target, ok := s.users[targetID]
	if !ok {
		return repository.ErrNotFound
	}
	if !actor.IsFollowing(targetID) {
		return repository.ErrNotFollowing
	}
	actor.Following = remove(actor.Following, targetID)
	target.Followers = remove(target.Followers, actorID)
	return nil
}

func (s *userRepoStub) Delete(_ context.Context, id string) error {
	if _, ok := s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.users, id)
	for _, u := range s.users {
		u.Followers = remove(u.Followers, id)
		u.Following = remove(u.Following, id)
	}
	return nil
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// postRepoStub is an in-memory PostRepository.
type postRepoStub struct {
	posts    map[string]*domain.Post
	comments map[string][]domain.Comment
	users    *userRepoStub
}

func newPostRepoStub(users *userRepoStub) *postRepoStub {
	return &postRepoStub{
		posts:    make(map[string]*domain.Post),
		comments: make(map[string][]domain.Comment),
		users:    users,
	}
}

func (s *postRepoStub) Create(_ context.Context, post *domain.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Likes == nil {
		post.Likes = []string{}
	}
	clone := *post
	s.posts[post.ID] = &clone
	return nil
}

func (s *postRepoStub) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	p, ok := s.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *p
	if author, ok := s.users.users[p.UserID]; ok {
		summary := author.Summary()
		clone.Author = &summary
	}
	clone.Comments = append([]domain.Comment(nil), s.comments[id]...)
	return &clone, nil
}

func (s *postRepoStub) List(ctx context.Context) ([]*domain.Post, error) {
	var posts []*domain.Post
	for id := range s.posts {
		p, err := s.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

func (s *postRepoStub) Update(ctx context.Context, id string, patch repository.PostPatch) (*domain.Post, error) {
	p, ok := s.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if patch.ImageURL != nil {
		p.ImageURL = *patch.ImageURL
	}
	if patch.VideoURL != nil {
		p.VideoURL = *patch.VideoURL
	}
	p.UpdatedAt = time.Now()
	return s.GetByID(ctx, id)
}

func (s *postRepoStub) Delete(_ context.Context, id string) error {
	if _, ok := s.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.posts, id)
	delete(s.comments, id)
	return nil
}

func (s *postRepoStub) AddLike(ctx context.Context, postID, userID string) (*domain.Post, error) {
	p, ok := s.posts[postID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	liked := false
	for _, id := range p.Likes {
		if id == userID {
			liked = true
			break
		}
	}
	if !liked {
		p.Likes = append(p.Likes, userID)
	}
	return s.GetByID(ctx, postID)
}

func (s *postRepoStub) AddComment(_ context.Context, comment *domain.Comment) error {
	if _, ok := s.posts[comment.PostID]; !ok {
		return repository.ErrNotFound
	}
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	comment.CreatedAt = time.Now()
	s.comments[comment.PostID] = append(s.comments[comment.PostID], *comment)
	return nil
}

func (s *postRepoStub) ListComments(_ context.Context, postID string) ([]domain.Comment, error) {
	return append([]domain.Comment(nil), s.comments[postID]...), nil
}
