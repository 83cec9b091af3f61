package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey"`
	Name         string    `gorm:"type:varchar(100);not null"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Email        string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:varchar(200);not null"`
	Avatar       string    `gorm:"type:varchar(200)"`
	Bio          string    `gorm:"type:varchar(500)"`
	CreatedAt    time.Time `gorm:"index"`
}

// UserStats is a user row together with its post and friendship counters.
type UserStats struct {
	User           `gorm:"embedded"`
	PostsCount     int64
	FollowersCount int64
	FollowingCount int64
}
