package services

import (
	"context"
	"unicode/utf8"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pulse-social/pulse/internal/database"
	"github.com/pulse-social/pulse/internal/models"
	"github.com/pulse-social/pulse/pkg/logger"
)

type PostService interface {
	List(ctx context.Context) ([]models.Post, error)
	ListByAuthor(ctx context.Context, authorID uint) ([]models.Post, error)
	Create(ctx context.Context, authorID uint, content string) (*models.Post, error)
	Update(ctx context.Context, postID, callerID uint, content string) (*models.Post, error)
	Delete(ctx context.Context, postID, callerID uint) error
	Like(ctx context.Context, postID uint) (int, error)
}

type postService struct {
	db *database.Database
}

func NewPostService(db *database.Database) PostService {
	return &postService{db: db}
}

func (s *postService) List(ctx context.Context) ([]models.Post, error) {
	return s.db.ListPosts(ctx)
}

func (s *postService) ListByAuthor(ctx context.Context, authorID uint) ([]models.Post, error) {
	if _, err := s.db.GetUser(ctx, authorID); err != nil {
		return nil, notFound(err, "User not found", "loading author failed")
	}
	return s.db.ListPostsByAuthor(ctx, authorID)
}

func (s *postService) Create(ctx context.Context, authorID uint, content string) (*models.Post, error) {
	if err := validateContent(content); err != nil {
		return nil, err
	}
	post := &models.Post{Content: content, AuthorID: authorID}
	if err := s.db.CreatePost(ctx, post); err != nil {
		return nil, errors.Wrap(err, "creating post failed")
	}
	logger.Debug("post created", zap.Uint("post_id", post.ID), zap.Uint("author_id", authorID))
	return post, nil
}

func (s *postService) Update(ctx context.Context, postID, callerID uint, content string) (*models.Post, error) {
	if err := validateContent(content); err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, postID, callerID); err != nil {
		return nil, err
	}
	if err := s.db.UpdatePostContent(ctx, postID, content); err != nil {
		return nil, notFound(err, "Post not found", "updating post failed")
	}
	post, err := s.db.GetPost(ctx, postID)
	if err != nil {
		return nil, notFound(err, "Post not found", "reloading post failed")
	}
	return post, nil
}

func (s *postService) Delete(ctx context.Context, postID, callerID uint) error {
	if _, err := s.owned(ctx, postID, callerID); err != nil {
		return err
	}
	if err := s.db.DeletePost(ctx, postID); err != nil {
		return notFound(err, "Post not found", "deleting post failed")
	}
	return nil
}

// Like adds one like. Likes are not tracked per user, so the same caller
// may like a post any number of times.
func (s *postService) Like(ctx context.Context, postID uint) (int, error) {
	likes, err := s.db.IncrementLikes(ctx, postID)
	if err != nil {
		return 0, notFound(err, "Post not found", "liking post failed")
	}
	return likes, nil
}

func (s *postService) owned(ctx context.Context, postID, callerID uint) (*models.Post, error) {
	post, err := s.db.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Errorf(ErrNotFound, "Post not found")
		}
		return nil, errors.Wrap(err, "loading post failed")
	}
	if post.AuthorID != callerID {
		return nil, Errorf(ErrForbidden, "Unauthorized")
	}
	return post, nil
}

func validateContent(content string) error {
	if content == "" {
		return Errorf(ErrInvalidInput, "Missing content")
	}
	if utf8.RuneCountInString(content) > models.MaxPostLength {
		return Errorf(ErrInvalidInput, "Content must be at most %d characters", models.MaxPostLength)
	}
	return nil
}
