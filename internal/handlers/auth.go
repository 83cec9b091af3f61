package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/pulse-social/pulse/internal/handlers/dto"
	"github.com/pulse-social/pulse/internal/metrics"
	"github.com/pulse-social/pulse/internal/middleware"
	"github.com/pulse-social/pulse/internal/services"
)

type AuthHandler struct {
	auth    services.AuthService
	metrics *metrics.Metrics
}

func NewAuthHandler(auth services.AuthService, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{auth: auth, metrics: m}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	res, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.metrics.Registrations.Inc()
	c.JSON(http.StatusCreated, dto.AuthResponse{Token: res.Token, User: dto.NewSelfResponse(res.User)})
}

// Login issues a token for valid credentials.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing email or password"})
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			h.metrics.FailedLogins.Inc()
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{Token: res.Token, User: dto.NewSelfResponse(res.User)})
}

// Logout revokes the current token when a revocation store is configured.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), middleware.CurrentToken(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logged out"})
}
