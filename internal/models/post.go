package models

import (
	"time"
)

// MaxPostLength bounds Post.Content in characters.
const MaxPostLength = 500

type Post struct {
	ID        uint      `gorm:"primaryKey"`
	Content   string    `gorm:"type:varchar(500);not null"`
	AuthorID  uint      `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
	Likes     int `gorm:"not null;default:0"`

	Author User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}
