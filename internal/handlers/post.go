package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pulse-social/pulse/internal/handlers/dto"
	"github.com/pulse-social/pulse/internal/metrics"
	"github.com/pulse-social/pulse/internal/middleware"
	"github.com/pulse-social/pulse/internal/services"
)

type PostHandler struct {
	posts   services.PostService
	metrics *metrics.Metrics
}

func NewPostHandler(posts services.PostService, m *metrics.Metrics) *PostHandler {
	return &PostHandler{posts: posts, metrics: m}
}

func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.posts.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPostList(posts))
}

func (h *PostHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req dto.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing content"})
		return
	}

	post, err := h.posts.Create(c.Request.Context(), user.ID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	h.metrics.PostsCreated.Inc()
	c.JSON(http.StatusCreated, dto.NewPostResponse(post))
}

// Update changes the content of a post owned by the caller.
func (h *PostHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req dto.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing content"})
		return
	}
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	post, err := h.posts.Update(c.Request.Context(), postID, user.ID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPostResponse(post))
}

func (h *PostHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.posts.Delete(c.Request.Context(), postID, user.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Post deleted"})
}

func (h *PostHandler) Like(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	likes, err := h.posts.Like(c.Request.Context(), postID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.metrics.Likes.Inc()
	c.JSON(http.StatusOK, dto.LikeResponse{Likes: likes})
}
