package database

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/pulse-social/pulse/internal/models"
)

const userStatsColumns = `users.*,
	(SELECT COUNT(*) FROM posts WHERE posts.author_id = users.id) AS posts_count,
	(SELECT COUNT(*) FROM friendships WHERE friendships.friend_id = users.id) AS followers_count,
	(SELECT COUNT(*) FROM friendships WHERE friendships.user_id = users.id) AS following_count`

func (d *Database) SaveUser(ctx context.Context, user *models.User) error {
	return d.db.WithContext(ctx).Create(user).Error
}

func (d *Database) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user := models.User{}
	if err := d.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := models.User{}
	if err := d.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// IdentityTaken reports which of email and username are already registered.
func (d *Database) IdentityTaken(ctx context.Context, email, username string) (emailTaken, usernameTaken bool, err error) {
	var taken []models.User
	err = d.db.WithContext(ctx).
		Select("email", "username").
		Where("email = ? OR username = ?", email, username).
		Find(&taken).Error
	if err != nil {
		return false, false, errors.Wrap(err, "checking identity failed")
	}
	for _, u := range taken {
		emailTaken = emailTaken || u.Email == email
		usernameTaken = usernameTaken || u.Username == username
	}
	return emailTaken, usernameTaken, nil
}

// UpdateUserFields overwrites the given columns only.
func (d *Database) UpdateUserFields(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := d.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (d *Database) GetUserStats(ctx context.Context, id uint) (*models.UserStats, error) {
	var stats models.UserStats
	res := d.db.WithContext(ctx).
		Model(&models.User{}).
		Select(userStatsColumns).
		Where("users.id = ?", id).
		Scan(&stats)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &stats, nil
}

// ListUserStats returns every user except excludeID, ordered by id.
func (d *Database) ListUserStats(ctx context.Context, excludeID uint) ([]models.UserStats, error) {
	var stats []models.UserStats
	err := d.db.WithContext(ctx).
		Model(&models.User{}).
		Select(userStatsColumns).
		Where("users.id <> ?", excludeID).
		Order("users.id").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// DeleteUser removes the user together with their posts and friendship rows.
func (d *Database) DeleteUser(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? OR friend_id = ?", id, id).Delete(&models.Friendship{}).Error; err != nil {
			return errors.Wrap(err, "deleting friendships failed")
		}
		if err := tx.Where("author_id = ?", id).Delete(&models.Post{}).Error; err != nil {
			return errors.Wrap(err, "deleting posts failed")
		}
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
