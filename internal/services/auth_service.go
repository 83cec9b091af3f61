package services

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pulse-social/pulse/internal/database"
	"github.com/pulse-social/pulse/internal/models"
	"github.com/pulse-social/pulse/pkg/auth"
	"github.com/pulse-social/pulse/pkg/logger"
)

const avatarURL = "https://i.pravatar.cc/150?u="

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Logout(ctx context.Context, token string) error
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Username string `json:"username" binding:"required,max=50"`
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	User  *models.UserStats
	Token string
}

type authService struct {
	db         *database.Database
	jwtManager *auth.JWTManager
	revoker    auth.Revoker
	hashCost   int
	// dummyHash is compared against when the email is unknown so both
	// failure paths spend the same bcrypt time.
	dummyHash []byte
}

// NewAuthService builds the credential store. hashCost <= 0 selects
// bcrypt.DefaultCost.
func NewAuthService(db *database.Database, jwtMgr *auth.JWTManager, revoker auth.Revoker, hashCost int) AuthService {
	if hashCost <= 0 {
		hashCost = bcrypt.DefaultCost
	}
	if revoker == nil {
		revoker = auth.NoopRevoker{}
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), hashCost)
	return &authService{db: db, jwtManager: jwtMgr, revoker: revoker, hashCost: hashCost, dummyHash: dummy}
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if req.Name == "" || req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, Errorf(ErrInvalidInput, "Missing required fields")
	}

	emailTaken, usernameTaken, err := s.db.IdentityTaken(ctx, req.Email, req.Username)
	if err != nil {
		return nil, err
	}
	if emailTaken {
		return nil, Errorf(ErrConflict, "Email already registered")
	}
	if usernameTaken {
		return nil, Errorf(ErrConflict, "Username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, Errorf(ErrInvalidInput, "Password is too long")
		}
		return nil, errors.Wrap(err, "hashing password failed")
	}

	user := &models.User{
		Name:         req.Name,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Avatar:       avatarURL + req.Email,
	}
	if err := s.db.SaveUser(ctx, user); err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, Errorf(ErrConflict, "Email or username already registered")
		}
		return nil, errors.Wrap(err, "saving user failed")
	}

	logger.Info("user registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	return s.issue(ctx, user.ID)
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, Errorf(ErrInvalidInput, "Missing email or password")
	}

	user, err := s.db.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrap(err, "finding user failed")
		}
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(req.Password))
		return nil, Errorf(ErrUnauthorized, "Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, Errorf(ErrUnauthorized, "Invalid credentials")
	}

	return s.issue(ctx, user.ID)
}

// Logout revokes token until it would have expired anyway.
func (s *authService) Logout(ctx context.Context, token string) error {
	exp, err := s.jwtManager.Expiry(token)
	if err != nil {
		return Errorf(ErrUnauthorized, "Token is invalid")
	}
	if ttl := time.Until(exp); ttl > 0 {
		if err := s.revoker.Revoke(ctx, token, ttl); err != nil {
			return errors.Wrap(err, "revoking token failed")
		}
	}
	return nil
}

func (s *authService) issue(ctx context.Context, userID uint) (*AuthResponse, error) {
	stats, err := s.db.GetUserStats(ctx, userID)
	if err != nil {
		return nil, notFound(err, "User not found", "loading user failed")
	}
	token, err := s.jwtManager.Generate(userID)
	if err != nil {
		return nil, errors.Wrap(err, "generating token failed")
	}
	return &AuthResponse{User: stats, Token: token}, nil
}
