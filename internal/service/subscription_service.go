package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "foodgram/internal/errors"
	"foodgram/internal/model"
	"foodgram/internal/repository"
)

// SubscriptionView is a followed user's profile with their recipes.
type SubscriptionView struct {
	User         *model.User
	Recipes      []model.Recipe
	RecipesCount int64
}

// SubscriptionService drives follow edges between users.
type SubscriptionService interface {
	// Subscribe makes subscriberID follow userID. Following yourself or an
	// already-followed user fails.
	Subscribe(ctx context.Context, userID, subscriberID uint) (*SubscriptionView, error)
	Unsubscribe(ctx context.Context, userID, subscriberID uint) error
	// ListSubscriptions returns followed users with recipesLimit recipes
	// each (0 means no cap) and their total recipe count.
	ListSubscriptions(ctx context.Context, subscriberID uint, recipesLimit int) ([]SubscriptionView, error)
}

type subscriptionService struct {
	subRepo    repository.SubscriptionRepository
	userRepo   repository.UserRepository
	recipeRepo repository.RecipeRepository
}

// NewSubscriptionService builds a SubscriptionService.
func NewSubscriptionService(subRepo repository.SubscriptionRepository, userRepo repository.UserRepository, recipeRepo repository.RecipeRepository) SubscriptionService {
	return &subscriptionService{subRepo: subRepo, userRepo: userRepo, recipeRepo: recipeRepo}
}

func (s *subscriptionService) Subscribe(ctx context.Context, userID, subscriberID uint) (*SubscriptionView, error) {
	if userID == subscriberID {
		return nil, apperrors.ErrSelfSubscription
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	exists, err := s.subRepo.Exists(ctx, userID, subscriberID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrAlreadySubscribed
	}

	sub := &model.Subscription{UserID: userID, SubscriberID: subscriberID}
	if err := s.subRepo.Create(ctx, sub); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrAlreadySubscribed
		}
		return nil, fmt.Errorf("create subscription: %w", err)
	}
	return s.buildView(ctx, user, 0)
}

func (s *subscriptionService) Unsubscribe(ctx context.Context, userID, subscriberID uint) error {
	removed, err := s.subRepo.Delete(ctx, userID, subscriberID)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	if !removed {
		return apperrors.ErrSubscriptionNotFound
	}
	return nil
}

func (s *subscriptionService) ListSubscriptions(ctx context.Context, subscriberID uint, recipesLimit int) ([]SubscriptionView, error) {
	users, err := s.subRepo.ListFollowed(ctx, subscriberID)
	if err != nil {
		return nil, err
	}

	views := make([]SubscriptionView, 0, len(users))
	for i := range users {
		view, err := s.buildView(ctx, &users[i], recipesLimit)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *subscriptionService) buildView(ctx context.Context, user *model.User, recipesLimit int) (*SubscriptionView, error) {
	recipes, err := s.recipeRepo.ListByAuthor(ctx, user.ID, recipesLimit)
	if err != nil {
		return nil, err
	}
	count, err := s.recipeRepo.CountByAuthor(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &SubscriptionView{User: user, Recipes: recipes, RecipesCount: count}, nil
}
