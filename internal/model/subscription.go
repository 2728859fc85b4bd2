package model

import "time"

// Subscription is a directed follow edge: Subscriber follows User.
// Self-subscription is rejected in the service layer; the unique index
// keeps the edge set free of duplicates under concurrent adds.
type Subscription struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"uniqueIndex:idx_user_subscriber;not null"`
	SubscriberID uint      `json:"subscriber_id" gorm:"uniqueIndex:idx_user_subscriber;not null"`
	CreatedAt    time.Time `json:"created_at"`

	User       User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Subscriber User `json:"-" gorm:"foreignKey:SubscriberID;constraint:OnDelete:CASCADE"`
}
