package model

import "time"

// Recipe is owned by exactly one author. Deleting a recipe cascades to its
// ingredient rows, tag associations and marks.
type Recipe struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	AuthorID    uint      `json:"author_id" gorm:"index;not null"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	Text        string    `json:"text" gorm:"type:text;not null"`
	Image       string    `json:"image" gorm:"size:255;not null"`
	CookingTime int       `json:"cooking_time" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Author      User               `json:"author" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Tags        []Tag              `json:"tags" gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	Ingredients []RecipeIngredient `json:"ingredients" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// RecipeIngredient joins a recipe to one ingredient with its amount.
// An ingredient may appear at most once per recipe.
type RecipeIngredient struct {
	ID           uint `json:"-" gorm:"primaryKey"`
	RecipeID     uint `json:"-" gorm:"uniqueIndex:idx_recipe_ingredient;not null"`
	IngredientID uint `json:"ingredient_id" gorm:"uniqueIndex:idx_recipe_ingredient;not null"`
	Amount       int  `json:"amount" gorm:"not null"`

	Ingredient Ingredient `json:"ingredient" gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
}
