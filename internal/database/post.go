package database

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pulse-social/pulse/internal/models"
)

func (d *Database) CreatePost(ctx context.Context, post *models.Post) error {
	if err := d.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		return err
	}
	return d.db.WithContext(ctx).First(&post.Author, "id = ?", post.AuthorID).Error
}

func (d *Database) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := d.db.WithContext(ctx).Preload("Author").First(&post, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPosts returns every post, newest first.
func (d *Database) ListPosts(ctx context.Context) ([]models.Post, error) {
	return d.listPosts(ctx, d.db.WithContext(ctx))
}

func (d *Database) ListPostsByAuthor(ctx context.Context, authorID uint) ([]models.Post, error) {
	return d.listPosts(ctx, d.db.WithContext(ctx).Where("author_id = ?", authorID))
}

func (d *Database) listPosts(_ context.Context, query *gorm.DB) ([]models.Post, error) {
	posts := []models.Post{}
	err := query.
		Preload("Author").
		Order("created_at DESC").
		Order("id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, errors.Wrap(err, "listing posts failed")
	}
	return posts, nil
}

// UpdatePostContent replaces the content and bumps updated_at.
func (d *Database) UpdatePostContent(ctx context.Context, id uint, content string) error {
	res := d.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Update("content", content)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (d *Database) DeletePost(ctx context.Context, id uint) error {
	res := d.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementLikes adds one like and returns the new counter. The increment is
// a single UPDATE so concurrent likes never lose a write.
func (d *Database) IncrementLikes(ctx context.Context, id uint) (int, error) {
	var likes int
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Post{}).Where("id = ?", id).Update("likes", gorm.Expr("likes + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		var post models.Post
		if err := tx.Select("likes").First(&post, "id = ?", id).Error; err != nil {
			return err
		}
		likes = post.Likes
		return nil
	})
	return likes, err
}
