// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package aggregate maintains the favorite and rating counters denormalized
// onto recipes. Counters are only changed in the same transaction that
// creates, changes or deletes the per-user record they count, so
// favoritesCount always equals the number of favorites of a recipe and
// ratingSum and ratingCount the sum and number of its ratings.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/curioswitch/hamatcon/common/docstore"
	"github.com/curioswitch/hamatcon/common/hamatcondb"
)

var (
	// ErrRecipeNotFound is returned when favoriting or rating a missing recipe.
	ErrRecipeNotFound = errors.New("aggregate: recipe not found")

	// ErrInvalidRating is returned for a rating that is not a number.
	ErrInvalidRating = errors.New("aggregate: invalid rating")
)

// Engine updates favorites and ratings along with the counters on recipes.
type Engine struct {
	store docstore.Store
}

// NewEngine returns an Engine writing to store.
func NewEngine(store docstore.Store) *Engine {
	return &Engine{
		store: store,
	}
}

// ToggleFavorite favorites the recipe for the user if currentlyFavorited is
// false and unfavorites it otherwise, returning whether the recipe is now
// favorited. If the user's favorite already is in the requested state, for
// example after toggling from another device, nothing is changed. A favorite
// of a deleted recipe can only be removed.
func (e *Engine) ToggleFavorite(ctx context.Context, userID string, recipeID string, currentlyFavorited bool) (bool, error) {
	var favorited bool
	err := e.store.RunTransaction(ctx, func(_ context.Context, tx docstore.Tx) error {
		_, recipeErr := tx.Recipe(recipeID)
		if recipeErr != nil && !errors.Is(recipeErr, docstore.ErrNotFound) {
			return recipeErr
		}
		fav, err := tx.Favorite(userID, recipeID)
		if err != nil {
			return err
		}

		exists := fav != nil
		favorited = exists
		if recipeErr != nil {
			// The recipe was deleted. Unfavoriting drops the user's dangling
			// favorite and there is no counter left to change.
			if currentlyFavorited && exists {
				favorited = false
				return tx.DeleteFavorite(userID, recipeID)
			}
			return recipeErr
		}
		switch {
		case currentlyFavorited && exists:
			if err := tx.DeleteFavorite(userID, recipeID); err != nil {
				return err
			}
			favorited = false
			return tx.UpdateRecipe(recipeID, docstore.Increment(hamatcondb.FieldFavoritesCount, -1))
		case !currentlyFavorited && !exists:
			if err := tx.SetFavorite(userID, &hamatcondb.Favorite{RecipeID: recipeID, Saved: true}); err != nil {
				return err
			}
			favorited = true
			return tx.UpdateRecipe(recipeID, docstore.Increment(hamatcondb.FieldFavoritesCount, 1))
		default:
			return nil
		}
	})
	if err != nil {
		return false, wrapErr("toggling favorite", recipeID, err)
	}
	if favorited == currentlyFavorited {
		slog.InfoContext(ctx, "aggregate: favorite already up to date", "recipe", recipeID, "favorited", favorited)
	}
	return favorited, nil
}

// SubmitRating records the user's rating of a recipe in stars, from 0.5 to
// 5, rounded to the nearest half star. A user has at most one rating per
// recipe, submitting again replaces it.
func (e *Engine) SubmitRating(ctx context.Context, userID string, recipeID string, stars float64) (hamatcondb.Rating, error) {
	if math.IsNaN(stars) {
		return hamatcondb.Rating{}, ErrInvalidRating
	}
	units := hamatcondb.RatingUnits(stars)

	err := e.store.RunTransaction(ctx, func(_ context.Context, tx docstore.Tx) error {
		if _, err := tx.Recipe(recipeID); err != nil {
			return err
		}
		prev, err := tx.Rating(recipeID, userID)
		if err != nil {
			return err
		}

		if prev != nil {
			if delta := units - prev.Value2; delta != 0 {
				if err := tx.UpdateRecipe(recipeID, docstore.Increment(hamatcondb.FieldRatingSum, delta)); err != nil {
					return err
				}
			}
		} else {
			if err := tx.UpdateRecipe(recipeID,
				docstore.Increment(hamatcondb.FieldRatingSum, units),
				docstore.Increment(hamatcondb.FieldRatingCount, 1),
			); err != nil {
				return err
			}
		}

		return tx.SetRating(recipeID, userID, &hamatcondb.Rating{Value2: units})
	})
	if err != nil {
		return hamatcondb.Rating{}, wrapErr("submitting rating", recipeID, err)
	}
	return hamatcondb.Rating{Value2: units}, nil
}

// UserRating returns the user's rating of a recipe, or nil if not rated.
func (e *Engine) UserRating(ctx context.Context, userID string, recipeID string) (*hamatcondb.Rating, error) {
	r, err := e.store.Rating(ctx, recipeID, userID)
	if err != nil {
		return nil, fmt.Errorf("aggregate: reading rating of recipe %s: %w", recipeID, err)
	}
	return r, nil
}

func wrapErr(action string, recipeID string, err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return fmt.Errorf("aggregate: %s for recipe %s: %w", action, recipeID, ErrRecipeNotFound)
	}
	return fmt.Errorf("aggregate: %s for recipe %s: %w", action, recipeID, err)
}
