package dto

import (
	"time"

	"github.com/pulse-social/pulse/internal/models"
)

type PostRequest struct {
	Content string `json:"content" binding:"required"`
}

type PostResponse struct {
	ID        uint        `json:"id"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Likes     int         `json:"likes"`
	Author    *AuthorInfo `json:"author,omitempty"`
}

type AuthorInfo struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

type LikeResponse struct {
	Likes int `json:"likes"`
}

// NewPostResponse projects p; the author summary is left out when the
// author was not loaded.
func NewPostResponse(p *models.Post) PostResponse {
	r := PostResponse{
		ID:        p.ID,
		Content:   p.Content,
		CreatedAt: p.CreatedAt.UTC(),
		UpdatedAt: p.UpdatedAt.UTC(),
		Likes:     p.Likes,
	}
	if p.Author.ID != 0 {
		r.Author = &AuthorInfo{
			ID:       p.Author.ID,
			Name:     p.Author.Name,
			Username: p.Author.Username,
			Avatar:   p.Author.Avatar,
		}
	}
	return r
}

func NewPostList(posts []models.Post) []PostResponse {
	out := make([]PostResponse, len(posts))
	for i := range posts {
		out[i] = NewPostResponse(&posts[i])
	}
	return out
}
