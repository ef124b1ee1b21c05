// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package frontendapi defines the procedures and JSON messages of the
// frontend API. Requests are validated against their validate tags before
// reaching handlers.
package frontendapi

// FrontendServiceName is the fully-qualified name of the FrontendService service.
const FrontendServiceName = "frontendapi.FrontendService"

// Procedures of FrontendService, served as connect unary procedures.
const (
	FrontendServiceAddRecipeProcedure       = "/frontendapi.FrontendService/AddRecipe"
	FrontendServiceUpdateRecipeProcedure    = "/frontendapi.FrontendService/UpdateRecipe"
	FrontendServiceDeleteRecipeProcedure    = "/frontendapi.FrontendService/DeleteRecipe"
	FrontendServiceListRecipesProcedure     = "/frontendapi.FrontendService/ListRecipes"
	FrontendServiceToggleFavoriteProcedure  = "/frontendapi.FrontendService/ToggleFavorite"
	FrontendServiceSubmitRatingProcedure    = "/frontendapi.FrontendService/SubmitRating"
	FrontendServiceGetRatingProcedure       = "/frontendapi.FrontendService/GetRating"
	FrontendServiceListFavoritesProcedure   = "/frontendapi.FrontendService/ListFavorites"
	FrontendServiceGetProfileStatsProcedure = "/frontendapi.FrontendService/GetProfileStats"
	FrontendServiceBackfillProcedure        = "/frontendapi.FrontendService/Backfill"
)

// Recipe is a recipe as displayed to a user.
type Recipe struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Cuisine        string   `json:"cuisine"`
	Instructions   string   `json:"instructions"`
	Ingredients    []string `json:"ingredients"`
	CookTime       string   `json:"cookTime"`
	Difficulty     string   `json:"difficulty"`
	ImageURL       string   `json:"imageUrl"`
	FavoritesCount int64    `json:"favoritesCount"`
	RatingCount    int64    `json:"ratingCount"`
	AverageRating  float64  `json:"averageRating"`
	Favorited      bool     `json:"favorited"`
	Owned          bool     `json:"owned"`
}

type AddRecipeRequest struct {
	Name         string `json:"name" validate:"notblank,max=200"`
	Cuisine      string `json:"cuisine" validate:"max=100"`
	Instructions string `json:"instructions"`
	// Ingredients are split on commas, semicolons and newlines.
	Ingredients []string `json:"ingredients" validate:"max=100"`
	// CookTime is optional, e.g. "45 min". Inferred when empty.
	CookTime string `json:"cookTime" validate:"max=50"`
	// Difficulty is optional, one of Easy, Medium or Hard. Inferred when empty.
	Difficulty string `json:"difficulty" validate:"omitempty,oneof=Easy Medium Hard"`
	// ImageDataURL is an optional base64 PNG or JPEG data URL of the main image.
	ImageDataURL string `json:"imageDataUrl"`
}

type AddRecipeResponse struct {
	Recipe *Recipe `json:"recipe"`
}

// UpdateRecipeRequest replaces the content of a recipe owned by the user.
// Favorites and ratings are unchanged.
type UpdateRecipeRequest struct {
	RecipeID     string   `json:"recipeId" validate:"required"`
	Name         string   `json:"name" validate:"notblank,max=200"`
	Cuisine      string   `json:"cuisine" validate:"max=100"`
	Instructions string   `json:"instructions"`
	Ingredients  []string `json:"ingredients" validate:"max=100"`
	// CookTime is optional. Inferred when empty.
	CookTime string `json:"cookTime" validate:"max=50"`
	// Difficulty is optional. Inferred when empty.
	Difficulty string `json:"difficulty" validate:"omitempty,oneof=Easy Medium Hard"`
	// ImageDataURL replaces the main image when set.
	ImageDataURL string `json:"imageDataUrl"`
}

type UpdateRecipeResponse struct {
	Recipe *Recipe `json:"recipe"`
}

type DeleteRecipeRequest struct {
	RecipeID string `json:"recipeId" validate:"required"`
}

type DeleteRecipeResponse struct{}

type ListRecipesRequest struct {
	Cuisine string   `json:"cuisine"`
	Chips   []string `json:"chips"`
	Query   string   `json:"query"`
	// Prefix is the partially typed ingredient to return suggestions for.
	Prefix string `json:"prefix"`
	// Mine only lists recipes created by the user.
	Mine bool `json:"mine"`
}

type ListRecipesResponse struct {
	Recipes     []*Recipe `json:"recipes"`
	Cuisines    []string  `json:"cuisines"`
	Suggestions []string  `json:"suggestions"`
}

type ToggleFavoriteRequest struct {
	RecipeID           string `json:"recipeId" validate:"required"`
	CurrentlyFavorited bool   `json:"currentlyFavorited"`
}

type ToggleFavoriteResponse struct {
	Favorited bool `json:"favorited"`
}

type SubmitRatingRequest struct {
	RecipeID string `json:"recipeId" validate:"required"`
	// Stars is rounded to the nearest half star and clamped to 0.5 to 5.
	Stars float64 `json:"stars"`
}

type SubmitRatingResponse struct {
	Stars         float64 `json:"stars"`
	AverageRating float64 `json:"averageRating"`
	RatingCount   int64   `json:"ratingCount"`
}

type GetRatingRequest struct {
	RecipeID string `json:"recipeId" validate:"required"`
}

type GetRatingResponse struct {
	// Stars is the user's rating, 0 if not rated.
	Stars         float64 `json:"stars"`
	AverageRating float64 `json:"averageRating"`
	RatingCount   int64   `json:"ratingCount"`
}

type ListFavoritesRequest struct{}

type ListFavoritesResponse struct {
	Recipes []*Recipe `json:"recipes"`
}

type GetProfileStatsRequest struct{}

type GetProfileStatsResponse struct {
	// RecipeCount is the number of recipes created by the user.
	RecipeCount int `json:"recipeCount"`
	// FavoriteCount is the number of the user's favorites whose recipe
	// still exists.
	FavoriteCount int `json:"favoriteCount"`
}

type BackfillRequest struct {
	// OwnerUID selects recipes to backfill. "*" backfills all recipes and
	// empty uses the configured default.
	OwnerUID string `json:"ownerUid"`
}

type BackfillResponse struct {
	Updated int `json:"updated"`
}
