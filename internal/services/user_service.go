package services

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pulse-social/pulse/internal/database"
	"github.com/pulse-social/pulse/internal/models"
	"github.com/pulse-social/pulse/pkg/logger"
)

type UserService interface {
	Me(ctx context.Context, userID uint) (*models.UserStats, error)
	GetProfile(ctx context.Context, viewerID, userID uint) (*Profile, error)
	ListUsers(ctx context.Context, viewerID uint) ([]Profile, error)
	UpdateSelf(ctx context.Context, userID uint, update ProfileUpdate) (*models.UserStats, error)
	DeleteSelf(ctx context.Context, userID uint) error
	IsFriend(ctx context.Context, userID, otherID uint) (bool, error)
	ToggleFriendship(ctx context.Context, userID, otherID uint) (bool, error)
}

// Profile is a user as seen by another user.
type Profile struct {
	models.UserStats
	IsFriend bool
}

// ProfileUpdate carries the fields of a partial profile update; nil means
// "leave unchanged".
type ProfileUpdate struct {
	Name   *string `json:"name" binding:"omitempty,max=100"`
	Bio    *string `json:"bio" binding:"omitempty,max=500"`
	Avatar *string `json:"avatar" binding:"omitempty,max=200"`
}

type userService struct {
	db *database.Database
}

func NewUserService(db *database.Database) UserService {
	return &userService{db: db}
}

func (s *userService) Me(ctx context.Context, userID uint) (*models.UserStats, error) {
	stats, err := s.db.GetUserStats(ctx, userID)
	if err != nil {
		return nil, notFound(err, "User not found", "loading user failed")
	}
	return stats, nil
}

func (s *userService) GetProfile(ctx context.Context, viewerID, userID uint) (*Profile, error) {
	stats, err := s.db.GetUserStats(ctx, userID)
	if err != nil {
		return nil, notFound(err, "User not found", "loading user failed")
	}
	friend, err := s.db.IsFriend(ctx, viewerID, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{UserStats: *stats, IsFriend: friend}, nil
}

// ListUsers returns everyone except the viewer.
func (s *userService) ListUsers(ctx context.Context, viewerID uint) ([]Profile, error) {
	stats, err := s.db.ListUserStats(ctx, viewerID)
	if err != nil {
		return nil, errors.Wrap(err, "listing users failed")
	}
	friends, err := s.db.FriendIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	profiles := make([]Profile, len(stats))
	for i, st := range stats {
		profiles[i] = Profile{UserStats: st, IsFriend: friends[st.ID]}
	}
	return profiles, nil
}

func (s *userService) UpdateSelf(ctx context.Context, userID uint, update ProfileUpdate) (*models.UserStats, error) {
	fields := map[string]any{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Bio != nil {
		fields["bio"] = *update.Bio
	}
	if update.Avatar != nil {
		fields["avatar"] = *update.Avatar
	}
	if err := s.db.UpdateUserFields(ctx, userID, fields); err != nil {
		return nil, notFound(err, "User not found", "updating user failed")
	}
	return s.Me(ctx, userID)
}

func (s *userService) DeleteSelf(ctx context.Context, userID uint) error {
	if err := s.db.DeleteUser(ctx, userID); err != nil {
		return notFound(err, "User not found", "deleting user failed")
	}
	logger.Info("user deleted", zap.Uint("user_id", userID))
	return nil
}

func (s *userService) IsFriend(ctx context.Context, userID, otherID uint) (bool, error) {
	return s.db.IsFriend(ctx, userID, otherID)
}

func (s *userService) ToggleFriendship(ctx context.Context, userID, otherID uint) (bool, error) {
	if userID == otherID {
		return false, Errorf(ErrInvalidInput, "Cannot friend yourself")
	}
	friends, err := s.db.ToggleFriendship(ctx, userID, otherID)
	if err != nil {
		return false, notFound(err, "User not found", "toggling friendship failed")
	}
	return friends, nil
}
