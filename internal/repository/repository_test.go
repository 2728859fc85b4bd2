package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"foodgram/internal/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Unique in-memory database per test to avoid leakage via shared cache.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Tag{},
		&model.Ingredient{},
		&model.Recipe{},
		&model.RecipeIngredient{},
		&model.RecipeMark{},
		&model.Subscription{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedAuthor(t *testing.T, db *gorm.DB, username string) model.User {
	t.Helper()
	user := model.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedRecipe(t *testing.T, db *gorm.DB, authorID uint, name string) model.Recipe {
	t.Helper()
	recipe := model.Recipe{
		AuthorID:    authorID,
		Name:        name,
		Text:        "some steps",
		Image:       "media/recipes/x.png",
		CookingTime: 10,
	}
	require.NoError(t, db.Create(&recipe).Error)
	return recipe
}

func TestRecipeRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	author := seedAuthor(t, db, "cook")

	tag := model.Tag{Name: "Dinner", Slug: "dinner"}
	require.NoError(t, db.Create(&tag).Error)
	salt := model.Ingredient{Name: "Salt", MeasurementUnit: "g"}
	require.NoError(t, db.Create(&salt).Error)

	repo := NewRecipeRepository(db)
	recipe := &model.Recipe{
		AuthorID:    author.ID,
		Name:        "Soup",
		Text:        "Boil everything.",
		Image:       "media/recipes/soup.png",
		CookingTime: 30,
		Tags:        []model.Tag{tag},
		Ingredients: []model.RecipeIngredient{{IngredientID: salt.ID, Amount: 2}},
	}
	require.NoError(t, repo.Create(ctx, recipe))
	require.NotZero(t, recipe.ID)

	found, err := repo.FindByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Soup", found.Name)
	assert.Equal(t, "cook", found.Author.Username)
	require.Len(t, found.Tags, 1)
	assert.Equal(t, "dinner", found.Tags[0].Slug)
	require.Len(t, found.Ingredients, 1)
	assert.Equal(t, "Salt", found.Ingredients[0].Ingredient.Name)
	assert.Equal(t, 2, found.Ingredients[0].Amount)
}

func TestRecipeRepository_UpdateReplacesSets(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	author := seedAuthor(t, db, "cook")

	dinner := model.Tag{Name: "Dinner", Slug: "dinner"}
	lunch := model.Tag{Name: "Lunch", Slug: "lunch"}
	require.NoError(t, db.Create(&dinner).Error)
	require.NoError(t, db.Create(&lunch).Error)
	salt := model.Ingredient{Name: "Salt", MeasurementUnit: "g"}
	water := model.Ingredient{Name: "Water", MeasurementUnit: "ml"}
	require.NoError(t, db.Create(&salt).Error)
	require.NoError(t, db.Create(&water).Error)

	repo := NewRecipeRepository(db)
	recipe := &model.Recipe{
		AuthorID:    author.ID,
		Name:        "Soup",
		Text:        "Boil everything.",
		Image:       "media/recipes/soup.png",
		CookingTime: 30,
		Tags:        []model.Tag{dinner},
		Ingredients: []model.RecipeIngredient{{IngredientID: salt.ID, Amount: 2}},
	}
	require.NoError(t, repo.Create(ctx, recipe))

	recipe.Name = "Better soup"
	recipe.CookingTime = 45
	err := repo.Update(ctx, recipe,
		[]model.RecipeIngredient{{IngredientID: water.ID, Amount: 100}},
		[]model.Tag{lunch},
	)
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Better soup", found.Name)
	assert.Equal(t, 45, found.CookingTime)
	require.Len(t, found.Tags, 1)
	assert.Equal(t, "lunch", found.Tags[0].Slug)
	require.Len(t, found.Ingredients, 1)
	assert.Equal(t, water.ID, found.Ingredients[0].IngredientID)
	assert.Equal(t, 100, found.Ingredients[0].Amount)
}

func TestRecipeRepository_DeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	author := seedAuthor(t, db, "cook")

	salt := model.Ingredient{Name: "Salt", MeasurementUnit: "g"}
	require.NoError(t, db.Create(&salt).Error)

	repo := NewRecipeRepository(db)
	recipe := &model.Recipe{
		AuthorID:    author.ID,
		Name:        "Soup",
		Text:        "Boil everything.",
		Image:       "media/recipes/soup.png",
		CookingTime: 30,
		Ingredients: []model.RecipeIngredient{{IngredientID: salt.ID, Amount: 2}},
	}
	require.NoError(t, repo.Create(ctx, recipe))
	require.NoError(t, db.Create(&model.RecipeMark{UserID: author.ID, RecipeID: recipe.ID, Kind: model.MarkFavorite}).Error)

	require.NoError(t, repo.Delete(ctx, recipe))

	_, err := repo.FindByID(ctx, recipe.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var lines, marks int64
	require.NoError(t, db.Model(&model.RecipeIngredient{}).Where("recipe_id = ?", recipe.ID).Count(&lines).Error)
	require.NoError(t, db.Model(&model.RecipeMark{}).Where("recipe_id = ?", recipe.ID).Count(&marks).Error)
	assert.Zero(t, lines)
	assert.Zero(t, marks)
}

func TestRecipeRepository_ListFilters(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	alice := seedAuthor(t, db, "alice")
	bob := seedAuthor(t, db, "bob")

	dinner := model.Tag{Name: "Dinner", Slug: "dinner"}
	require.NoError(t, db.Create(&dinner).Error)

	repo := NewRecipeRepository(db)
	soup := seedRecipe(t, db, alice.ID, "Soup")
	require.NoError(t, db.Model(&soup).Association("Tags").Append(&dinner))
	cake := seedRecipe(t, db, bob.ID, "Cake")
	require.NoError(t, db.Create(&model.RecipeMark{UserID: alice.ID, RecipeID: cake.ID, Kind: model.MarkCart}).Error)

	byAuthor, err := repo.List(ctx, RecipeFilter{AuthorID: bob.ID})
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, "Cake", byAuthor[0].Name)

	byTag, err := repo.List(ctx, RecipeFilter{TagSlugs: []string{"dinner"}})
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, "Soup", byTag[0].Name)

	inCart, err := repo.List(ctx, RecipeFilter{ViewerID: alice.ID, InCart: true})
	require.NoError(t, err)
	require.Len(t, inCart, 1)
	assert.Equal(t, "Cake", inCart[0].Name)

	// Cart filter ignored for anonymous viewers.
	all, err := repo.List(ctx, RecipeFilter{InCart: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMarkRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := seedAuthor(t, db, "alice")
	recipe := seedRecipe(t, db, user.ID, "Soup")
	repo := NewMarkRepository(db)

	require.NoError(t, repo.Create(ctx, &model.RecipeMark{UserID: user.ID, RecipeID: recipe.ID, Kind: model.MarkFavorite}))

	exists, err := repo.Exists(ctx, user.ID, recipe.ID, model.MarkFavorite)
	require.NoError(t, err)
	assert.True(t, exists)

	// Same recipe in a different relation is a distinct row.
	require.NoError(t, repo.Create(ctx, &model.RecipeMark{UserID: user.ID, RecipeID: recipe.ID, Kind: model.MarkCart}))

	// The unique index rejects a duplicate of the same relation, and error
	// translation turns the driver error into gorm.ErrDuplicatedKey.
	err = repo.Create(ctx, &model.RecipeMark{UserID: user.ID, RecipeID: recipe.ID, Kind: model.MarkFavorite})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	removed, err := repo.Delete(ctx, user.ID, recipe.ID, model.MarkFavorite)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(ctx, user.ID, recipe.ID, model.MarkFavorite)
	require.NoError(t, err)
	assert.False(t, removed)

	recipes, err := repo.ListRecipes(ctx, user.ID, model.MarkCart)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Soup", recipes[0].Name)
}

func TestSubscriptionRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	alice := seedAuthor(t, db, "alice")
	bob := seedAuthor(t, db, "bob")
	repo := NewSubscriptionRepository(db)

	require.NoError(t, repo.Create(ctx, &model.Subscription{UserID: bob.ID, SubscriberID: alice.ID}))

	exists, err := repo.Exists(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	// The reverse edge is independent.
	exists, err = repo.Exists(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	err = repo.Create(ctx, &model.Subscription{UserID: bob.ID, SubscriberID: alice.ID})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	followed, err := repo.ListFollowed(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, followed, 1)
	assert.Equal(t, "bob", followed[0].Username)

	removed, err := repo.Delete(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestUserRepository_UpdateAvatarKeepsPasswordHash(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	user := model.User{
		Email:        "alice@example.com",
		Username:     "alice",
		FirstName:    "Alice",
		LastName:     "Smith",
		PasswordHash: "$2a$10$storedbcrypthash",
	}
	require.NoError(t, repo.Create(ctx, &user))

	require.NoError(t, repo.UpdateAvatar(ctx, user.ID, "avatars/new.png"))

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "avatars/new.png", found.Avatar)
	assert.Equal(t, "$2a$10$storedbcrypthash", found.PasswordHash)
	assert.Equal(t, "Alice", found.FirstName)
}

func TestIngredientRepository_FirstOrCreate(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewIngredientRepository(db)

	first := model.Ingredient{Name: "Salt", MeasurementUnit: "g"}
	require.NoError(t, repo.FirstOrCreate(ctx, &first))
	require.NotZero(t, first.ID)

	second := model.Ingredient{Name: "Salt", MeasurementUnit: "g"}
	require.NoError(t, repo.FirstOrCreate(ctx, &second))
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&model.Ingredient{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestIngredientRepository_ListFiltersBySubstring(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewIngredientRepository(db)

	for _, ing := range []model.Ingredient{
		{Name: "Sea salt", MeasurementUnit: "g"},
		{Name: "Salted butter", MeasurementUnit: "g"},
		{Name: "Water", MeasurementUnit: "ml"},
	} {
		require.NoError(t, repo.FirstOrCreate(ctx, &ing))
	}

	matches, err := repo.List(ctx, "salt")
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
