package dto

import (
	"time"

	"github.com/pulse-social/pulse/internal/models"
	"github.com/pulse-social/pulse/internal/services"
)

// UserResponse is the public projection of a user. Email is only filled
// for the caller's own account.
type UserResponse struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	Username       string    `json:"username"`
	Avatar         string    `json:"avatar"`
	Bio            string    `json:"bio"`
	PostsCount     int64     `json:"posts_count"`
	FollowersCount int64     `json:"followers_count"`
	FollowingCount int64     `json:"following_count"`
	CreatedAt      time.Time `json:"created_at"`
	Email          string    `json:"email,omitempty"`
	IsFriend       *bool     `json:"isFriend,omitempty"`
}

func NewUserResponse(u *models.UserStats) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Name:           u.Name,
		Username:       u.Username,
		Avatar:         u.Avatar,
		Bio:            u.Bio,
		PostsCount:     u.PostsCount,
		FollowersCount: u.FollowersCount,
		FollowingCount: u.FollowingCount,
		CreatedAt:      u.CreatedAt.UTC(),
	}
}

// NewSelfResponse includes the email address.
func NewSelfResponse(u *models.UserStats) UserResponse {
	r := NewUserResponse(u)
	r.Email = u.Email
	return r
}

func NewProfileResponse(p *services.Profile) UserResponse {
	r := NewUserResponse(&p.UserStats)
	isFriend := p.IsFriend
	r.IsFriend = &isFriend
	return r
}

type FriendshipResponse struct {
	IsFriend bool `json:"isFriend"`
}
