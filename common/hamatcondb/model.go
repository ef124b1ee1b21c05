// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package hamatcondb

import "time"

const (
	// CollectionRecipes is the top-level collection holding recipes.
	CollectionRecipes = "Recipes"
	// CollectionRatings is the subcollection of a recipe holding per-user ratings.
	CollectionRatings = "ratings"
	// CollectionUsers is the top-level collection holding users.
	CollectionUsers = "users"
	// CollectionFavorites is the subcollection of a user holding favorited recipes.
	CollectionFavorites = "favorites"
)

// OwnerSeed is the ownerUid of recipes written by the bulk importer.
const OwnerSeed = "seed"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Field names of a Recipe document that are updated individually.
const (
	FieldName           = "name"
	FieldCuisine        = "cuisine"
	FieldInstructions   = "instructions"
	FieldIngredients    = "ingredients"
	FieldImageURL       = "imageUrl"
	FieldCookTime       = "cookTime"
	FieldDifficulty     = "difficulty"
	FieldFavoritesCount = "favoritesCount"
	FieldRatingSum      = "ratingSum"
	FieldRatingCount    = "ratingCount"
	FieldOwnerUID       = "ownerUid"
)

// Recipe represents a recipe stored in Firestore.
type Recipe struct {
	// ID is the document ID of the recipe. It is not stored as a field.
	ID string `firestore:"-" json:"id"`

	// Name is the name of the recipe.
	Name string `firestore:"name" json:"name"`

	// Cuisine is the free-form cuisine of the recipe, e.g. Italian.
	Cuisine string `firestore:"cuisine" json:"cuisine"`

	// Instructions are the preparation instructions as free text.
	Instructions string `firestore:"instructions" json:"instructions"`

	// Ingredients are the ingredients as entered, e.g. "2 cups chopped tomatoes".
	Ingredients []string `firestore:"ingredients" json:"ingredients"`

	// CookTime is the display cook time, e.g. "45 min". Empty when unknown.
	CookTime string `firestore:"cookTime" json:"cookTime"`

	// Difficulty is the difficulty label. Empty when unknown.
	Difficulty Difficulty `firestore:"difficulty" json:"difficulty"`

	// FavoritesCount is the number of users that favorited the recipe.
	FavoritesCount int64 `firestore:"favoritesCount" json:"favoritesCount"`

	// RatingSum is the sum of all ratings in half-star units.
	RatingSum int64 `firestore:"ratingSum" json:"ratingSum"`

	// RatingCount is the number of ratings.
	RatingCount int64 `firestore:"ratingCount" json:"ratingCount"`

	// OwnerUID is the UID of the user who created the recipe, or OwnerSeed.
	OwnerUID string `firestore:"ownerUid" json:"ownerUid"`

	// ImageURL is the URL for the main image of the recipe.
	ImageURL string `firestore:"imageUrl" json:"imageUrl"`

	// CreatedAt is the time the recipe was created.
	CreatedAt time.Time `firestore:"createdAt,serverTimestamp" json:"createdAt"`
}

// Favorite marks a recipe as favorited by a user. Stored under
// users/{uid}/favorites/{recipeId}.
type Favorite struct {
	// RecipeID is the document ID, the ID of the favorited recipe.
	RecipeID string `firestore:"-" json:"recipeId"`

	// Saved is always true for an existing favorite.
	Saved bool `firestore:"saved" json:"saved"`

	// CreatedAt is set by the server and only used for ordering.
	CreatedAt time.Time `firestore:"ts,serverTimestamp" json:"createdAt"`
}

// Rating is a user's rating of a recipe. Stored under
// Recipes/{recipeId}/ratings/{uid}.
type Rating struct {
	// Value2 is the rating in half-star units, 1 to 10.
	Value2 int64 `firestore:"value2" json:"value2"`

	// UpdatedAt is set by the server on every submission.
	UpdatedAt time.Time `firestore:"ts,serverTimestamp" json:"updatedAt"`
}
