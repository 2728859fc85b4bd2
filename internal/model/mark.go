package model

import "time"

// MarkKind discriminates the two per-user recipe marker relations.
type MarkKind string

const (
	// MarkFavorite marks a recipe as favorited by a user.
	MarkFavorite MarkKind = "favorite"
	// MarkCart marks a recipe as present in a user's shopping cart.
	MarkCart MarkKind = "cart"
)

// RecipeMark is a (user, recipe, kind) marker row. Row presence is the
// "true" state; the unique index makes concurrent duplicate adds fail at
// the storage layer.
type RecipeMark struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex:idx_user_recipe_kind;not null"`
	RecipeID  uint      `json:"recipe_id" gorm:"uniqueIndex:idx_user_recipe_kind;not null"`
	Kind      MarkKind  `json:"kind" gorm:"uniqueIndex:idx_user_recipe_kind;size:16;not null"`
	CreatedAt time.Time `json:"created_at"`

	User   User   `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe Recipe `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}
