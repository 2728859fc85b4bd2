package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"foodgram/internal/cache"
	apperrors "foodgram/internal/errors"
	"foodgram/internal/images"
	"foodgram/internal/model"
	"foodgram/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserView is a user's public profile as seen by a particular viewer.
type UserView struct {
	User         *model.User
	IsSubscribed bool
}

// UserService exposes user profile operations.
type UserService interface {
	// GetUser returns a profile with is_subscribed computed relative to the
	// viewer; viewerID 0 means anonymous.
	GetUser(ctx context.Context, id, viewerID uint) (*UserView, error)
	ListUsers(ctx context.Context, offset, limit int, viewerID uint) ([]UserView, error)
	UpdateAvatar(ctx context.Context, userID uint, avatarDataURI string) (*model.User, error)
	DeleteAvatar(ctx context.Context, userID uint) error
}

type userService struct {
	userRepo repository.UserRepository
	subRepo  repository.SubscriptionRepository
	cache    *cache.Client
	mediaDir string
}

// NewUserService builds a UserService.
func NewUserService(userRepo repository.UserRepository, subRepo repository.SubscriptionRepository, cache *cache.Client, mediaDir string) UserService {
	return &userService{userRepo: userRepo, subRepo: subRepo, cache: cache, mediaDir: mediaDir}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

func (s *userService) GetUser(ctx context.Context, id, viewerID uint) (*UserView, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	subscribed, err := s.isSubscribed(ctx, user.ID, viewerID)
	if err != nil {
		return nil, err
	}
	return &UserView{User: user, IsSubscribed: subscribed}, nil
}

func (s *userService) ListUsers(ctx context.Context, offset, limit int, viewerID uint) ([]UserView, error) {
	users, err := s.userRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	views := make([]UserView, 0, len(users))
	for i := range users {
		subscribed, err := s.isSubscribed(ctx, users[i].ID, viewerID)
		if err != nil {
			return nil, err
		}
		views = append(views, UserView{User: &users[i], IsSubscribed: subscribed})
	}
	return views, nil
}

func (s *userService) UpdateAvatar(ctx context.Context, userID uint, avatarDataURI string) (*model.User, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	path, err := images.DecodeAndStore(s.mediaDir, "avatars", avatarDataURI)
	if err != nil {
		if errors.Is(err, images.ErrInvalidDataURI) {
			return nil, apperrors.NewValidationError("avatar must be a base64 image data URI")
		}
		return nil, fmt.Errorf("store avatar: %w", err)
	}

	// The user may have come from the cache, which strips the password hash,
	// so only the avatar column is written.
	if err := s.userRepo.UpdateAvatar(ctx, userID, path); err != nil {
		return nil, fmt.Errorf("update avatar: %w", err)
	}
	user.Avatar = path
	_ = s.cache.Delete(ctx, s.cacheKey(userID))
	return user, nil
}

func (s *userService) DeleteAvatar(ctx context.Context, userID uint) error {
	if _, err := s.findUser(ctx, userID); err != nil {
		return err
	}
	if err := s.userRepo.UpdateAvatar(ctx, userID, ""); err != nil {
		return fmt.Errorf("delete avatar: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(userID))
	return nil
}

func (s *userService) findUser(ctx context.Context, id uint) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

func (s *userService) isSubscribed(ctx context.Context, userID, viewerID uint) (bool, error) {
	if viewerID == 0 || viewerID == userID {
		return false, nil
	}
	return s.subRepo.Exists(ctx, userID, viewerID)
}
