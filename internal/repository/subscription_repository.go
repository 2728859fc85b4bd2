package repository

import (
	"context"

	"gorm.io/gorm"

	"foodgram/internal/model"
)

// SubscriptionRepository defines persistence for follow edges.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *model.Subscription) error
	// Delete removes the (user, subscriber) edge and reports whether it existed.
	Delete(ctx context.Context, userID, subscriberID uint) (bool, error)
	Exists(ctx context.Context, userID, subscriberID uint) (bool, error)
	// ListFollowed returns the users the subscriber follows.
	ListFollowed(ctx context.Context, subscriberID uint) ([]model.User, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository builds a GORM-backed repository.
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *model.Subscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *subscriptionRepository) Delete(ctx context.Context, userID, subscriberID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND subscriber_id = ?", userID, subscriberID).
		Delete(&model.Subscription{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *subscriptionRepository) Exists(ctx context.Context, userID, subscriberID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("user_id = ? AND subscriber_id = ?", userID, subscriberID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *subscriptionRepository) ListFollowed(ctx context.Context, subscriberID uint) ([]model.User, error) {
	followed := r.db.Model(&model.Subscription{}).
		Select("user_id").
		Where("subscriber_id = ?", subscriberID)

	var users []model.User
	err := r.db.WithContext(ctx).
		Where("id IN (?)", followed).
		Order("username").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
