package models

import "time"

// Friendship is one direction of a friendship edge. A friendship between
// A and B is stored as the two rows (A, B) and (B, A).
type Friendship struct {
	UserID    uint `gorm:"primaryKey;autoIncrement:false"`
	FriendID  uint `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time

	User   User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Friend User `gorm:"foreignKey:FriendID;constraint:OnDelete:CASCADE"`
}

func (Friendship) TableName() string { return "friendships" }
