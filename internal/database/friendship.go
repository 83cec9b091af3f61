package database

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pulse-social/pulse/internal/models"
)

func (d *Database) IsFriend(ctx context.Context, userID, otherID uint) (bool, error) {
	return isFriend(d.db.WithContext(ctx), userID, otherID)
}

func isFriend(db *gorm.DB, userID, otherID uint) (bool, error) {
	var cnt int64
	err := db.Model(&models.Friendship{}).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)", userID, otherID, otherID, userID).
		Count(&cnt).Error
	if err != nil {
		return false, errors.Wrap(err, "checking friendship failed")
	}
	return cnt > 0, nil
}

// FriendIDs returns the ids connected to userID in either direction.
func (d *Database) FriendIDs(ctx context.Context, userID uint) (map[uint]bool, error) {
	var outbound, inbound []uint
	db := d.db.WithContext(ctx).Model(&models.Friendship{})
	if err := db.Where("user_id = ?", userID).Pluck("friend_id", &outbound).Error; err != nil {
		return nil, errors.Wrap(err, "listing friends failed")
	}
	db = d.db.WithContext(ctx).Model(&models.Friendship{})
	if err := db.Where("friend_id = ?", userID).Pluck("user_id", &inbound).Error; err != nil {
		return nil, errors.Wrap(err, "listing friends failed")
	}
	ids := make(map[uint]bool, len(outbound)+len(inbound))
	for _, id := range outbound {
		ids[id] = true
	}
	for _, id := range inbound {
		ids[id] = true
	}
	return ids, nil
}

// ToggleFriendship removes the friendship between userID and friendID when it
// exists and creates it otherwise, writing both directions in one transaction.
// It returns the new state. gorm.ErrRecordNotFound means friendID is unknown.
func (d *Database) ToggleFriendship(ctx context.Context, userID, friendID uint) (bool, error) {
	var friends bool
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockUsers(tx, userID, friendID); err != nil {
			return err
		}

		exists, err := isFriend(tx, userID, friendID)
		if err != nil {
			return err
		}

		if exists {
			err := tx.Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
				userID, friendID, friendID, userID).
				Delete(&models.Friendship{}).Error
			if err != nil {
				return errors.Wrap(err, "removing friendship failed")
			}
			friends = false
			return nil
		}

		edges := []models.Friendship{
			{UserID: userID, FriendID: friendID},
			{UserID: friendID, FriendID: userID},
		}
		err = tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&edges).Error
		if err != nil {
			return errors.Wrap(err, "adding friendship failed")
		}
		friends = true
		return nil
	})
	return friends, err
}

// lockUsers makes sure both users exist and, on PostgreSQL, row-locks them in
// id order so concurrent toggles of the same pair run one after another.
// SQLite already serialises writers.
func lockUsers(tx *gorm.DB, a, b uint) error {
	q := tx.Model(&models.User{}).Where("id IN ?", []uint{a, b}).Order("id")
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var found []uint
	if err := q.Pluck("id", &found).Error; err != nil {
		return errors.Wrap(err, "locking users failed")
	}
	if len(found) != 2 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
