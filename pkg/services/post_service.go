package services

import (
	"database/sql"
	"errors"
	"time"

	"catedra/pkg/apperrors"
	"catedra/pkg/cache"
	"catedra/pkg/models"
	"catedra/pkg/policy"
	"catedra/pkg/repository"
	"catedra/pkg/search"
)

const (
	postListCacheKey = "posts:list"
	postListCacheTTL = 15 * time.Second
)

type PostService interface {
	Create(p policy.Principal, req models.CreatePostRequest) (models.Post, error)
	List() ([]models.Post, error)
	ListByAuthor(authorID string) ([]models.Post, error)
	GetByID(id string) (models.Post, error)
	Update(p policy.Principal, id string, req models.UpdatePostRequest) (models.Post, error)
	Delete(p policy.Principal, id string) error
	Search(keyword string) ([]models.Post, error)
}

type postService struct {
	posts repository.PostRepository
	users repository.UserRepository
	redis *cache.Redis
}

func NewPostService(posts repository.PostRepository, users repository.UserRepository, redis *cache.Redis) PostService {
	return &postService{posts: posts, users: users, redis: redis}
}

func (s *postService) Create(p policy.Principal, req models.CreatePostRequest) (models.Post, error) {
	if !policy.CanCreate(p.Role) {
		return models.Post{}, apperrors.Authorization("Acesso negado. Permissão insuficiente.")
	}

	post, err := s.posts.Create(req.Title, req.Content, p.ID)
	if err != nil {
		return models.Post{}, apperrors.Internal(err)
	}

	s.redis.DelPattern("posts:*")
	return post, nil
}

func (s *postService) List() ([]models.Post, error) {
	var cached []models.Post
	if s.redis.Get(postListCacheKey, &cached) {
		return cached, nil
	}

	posts, err := s.posts.List()
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.redis.Set(postListCacheKey, posts, postListCacheTTL)
	return posts, nil
}

func (s *postService) ListByAuthor(authorID string) ([]models.Post, error) {
	posts, err := s.posts.ListByAuthor(authorID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return posts, nil
}

func (s *postService) GetByID(id string) (models.Post, error) {
	post, err := s.posts.GetByID(id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Post{}, apperrors.BareNotFound("Post não encontrado")
	}
	if err != nil {
		return models.Post{}, apperrors.Internal(err)
	}
	return post, nil
}

// Update resolves existence before ownership: a non-owner probing a missing
// id gets 404, not 403.
func (s *postService) Update(p policy.Principal, id string, req models.UpdatePostRequest) (models.Post, error) {
	post, err := s.GetByID(id)
	if err != nil {
		return models.Post{}, err
	}

	if !policy.CanModify(p, post.AuthorID) {
		return models.Post{}, apperrors.Authorization("Acesso negado. Apenas o autor do post ou admin podem editá-lo.")
	}

	title := post.Title
	if req.Title != "" {
		title = req.Title
	}
	content := post.Content
	if req.Content != "" {
		content = req.Content
	}

	updated, err := s.posts.Update(id, title, content)
	if err != nil {
		return models.Post{}, apperrors.Internal(err)
	}

	s.redis.DelPattern("posts:*")
	return updated, nil
}

func (s *postService) Delete(p policy.Principal, id string) error {
	post, err := s.GetByID(id)
	if err != nil {
		return err
	}

	if !policy.CanModify(p, post.AuthorID) {
		return apperrors.Authorization("Acesso negado. Apenas o autor do post ou admin podem deletá-lo.")
	}

	if err := s.posts.Delete(id); err != nil {
		return apperrors.Internal(err)
	}

	s.redis.DelPattern("posts:*")
	return nil
}

// Search runs the fold-and-match engine over a full snapshot of posts and
// users. The keyword is guaranteed non-empty by the handler.
func (s *postService) Search(keyword string) ([]models.Post, error) {
	users, err := s.users.List()
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	posts, err := s.posts.List()
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return search.Posts(keyword, posts, users), nil
}
