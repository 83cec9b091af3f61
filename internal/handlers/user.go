package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pulse-social/pulse/internal/handlers/dto"
	"github.com/pulse-social/pulse/internal/metrics"
	"github.com/pulse-social/pulse/internal/middleware"
	"github.com/pulse-social/pulse/internal/services"
)

type UserHandler struct {
	users   services.UserService
	posts   services.PostService
	metrics *metrics.Metrics
}

func NewUserHandler(users services.UserService, posts services.PostService, m *metrics.Metrics) *UserHandler {
	return &UserHandler{users: users, posts: posts, metrics: m}
}

// GetMe returns the caller's own profile, email included.
func (h *UserHandler) GetMe(c *gin.Context) {
	user := middleware.CurrentUser(c)

	me, err := h.users.Me(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSelfResponse(me))
}

// UpdateMe applies only the fields present in the body.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req services.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	me, err := h.users.UpdateSelf(c.Request.Context(), user.ID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSelfResponse(me))
}

func (h *UserHandler) DeleteMe(c *gin.Context) {
	user := middleware.CurrentUser(c)

	if err := h.users.DeleteSelf(c.Request.Context(), user.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Account deleted"})
}

// List returns every other user with the caller's friendship flag.
func (h *UserHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)

	profiles, err := h.users.ListUsers(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	result := make([]dto.UserResponse, len(profiles))
	for i := range profiles {
		result[i] = dto.NewProfileResponse(&profiles[i])
	}
	c.JSON(http.StatusOK, result)
}

func (h *UserHandler) Get(c *gin.Context) {
	user := middleware.CurrentUser(c)
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	profile, err := h.users.GetProfile(c.Request.Context(), user.ID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProfileResponse(profile))
}

func (h *UserHandler) Posts(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	posts, err := h.posts.ListByAuthor(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPostList(posts))
}

// ToggleFriend adds or removes the friendship between the caller and :id.
func (h *UserHandler) ToggleFriend(c *gin.Context) {
	user := middleware.CurrentUser(c)
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	isFriend, err := h.users.ToggleFriendship(c.Request.Context(), user.ID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	state := "removed"
	if isFriend {
		state = "added"
	}
	h.metrics.FriendshipToggles.WithLabelValues(state).Inc()
	c.JSON(http.StatusOK, dto.FriendshipResponse{IsFriend: isFriend})
}
