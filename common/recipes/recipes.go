// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package recipes creates, edits and deletes user recipes. Editing only
// replaces the content of a recipe, its favorite and rating counters are
// left to package aggregate.
package recipes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/curioswitch/hamatcon/common/autofill"
	"github.com/curioswitch/hamatcon/common/docstore"
	"github.com/curioswitch/hamatcon/common/hamatcondb"
	"github.com/curioswitch/hamatcon/common/images"
	"github.com/curioswitch/hamatcon/common/ingredient"
)

var (
	// ErrNotFound is returned when editing or deleting a missing recipe.
	ErrNotFound = errors.New("recipes: recipe not found")

	// ErrNotOwner is returned when editing or deleting a recipe created by
	// another user.
	ErrNotOwner = errors.New("recipes: recipe owned by another user")
)

// Edit is the user-entered content of a recipe.
type Edit struct {
	Name         string
	Cuisine      string
	Instructions string

	// Ingredients are split on commas, semicolons and newlines, lowercased
	// and deduplicated.
	Ingredients []string

	// CookTime and Difficulty are inferred when empty.
	CookTime   string
	Difficulty hamatcondb.Difficulty

	// Image is the JPEG main image. When empty, an edit keeps the current one.
	Image []byte
}

func (e *Edit) recipe() *hamatcondb.Recipe {
	r := &hamatcondb.Recipe{
		Name:         strings.TrimSpace(e.Name),
		Cuisine:      strings.TrimSpace(e.Cuisine),
		Instructions: e.Instructions,
		Ingredients:  ingredient.Clean(e.Ingredients),
		CookTime:     strings.TrimSpace(e.CookTime),
		Difficulty:   e.Difficulty,
	}
	r.Sanitize()
	autofill.EnrichRecipe(r)
	return r
}

// Stats are the counts shown on a user's profile.
type Stats struct {
	// Recipes is the number of recipes created by the user.
	Recipes int

	// Favorites is the number of the user's favorites whose recipe exists.
	Favorites int
}

// Manager writes user recipes and their images.
type Manager struct {
	store  docstore.Store
	images images.Writer
}

// NewManager returns a Manager writing to store and images.
func NewManager(store docstore.Store, images images.Writer) *Manager {
	return &Manager{
		store:  store,
		images: images,
	}
}

// Create creates a recipe owned by userID.
func (m *Manager) Create(ctx context.Context, userID string, e Edit) (*hamatcondb.Recipe, error) {
	r := e.recipe()
	r.ID = uuid.NewString()
	r.OwnerUID = userID

	if len(e.Image) > 0 {
		url, err := images.WriteRecipeImage(ctx, m.images, r.ID, e.Image)
		if err != nil {
			return nil, fmt.Errorf("recipes: creating recipe: %w", err)
		}
		r.ImageURL = url
	}

	if _, err := m.store.CreateRecipe(ctx, r); err != nil {
		if r.ImageURL != "" {
			m.deleteImage(ctx, r.ID)
		}
		return nil, fmt.Errorf("recipes: creating recipe: %w", err)
	}
	return r, nil
}

// Update replaces the content of a recipe owned by userID and returns the
// updated recipe.
func (m *Manager) Update(ctx context.Context, userID string, recipeID string, e Edit) (*hamatcondb.Recipe, error) {
	// The image path is per recipe, so it is only written once the user is
	// known to own it.
	if _, err := m.owned(ctx, userID, recipeID); err != nil {
		return nil, err
	}

	edited := e.recipe()
	updates := []docstore.Update{
		docstore.Set(hamatcondb.FieldName, edited.Name),
		docstore.Set(hamatcondb.FieldCuisine, edited.Cuisine),
		docstore.Set(hamatcondb.FieldInstructions, edited.Instructions),
		docstore.Set(hamatcondb.FieldIngredients, edited.Ingredients),
		docstore.Set(hamatcondb.FieldCookTime, edited.CookTime),
		docstore.Set(hamatcondb.FieldDifficulty, string(edited.Difficulty)),
	}
	var imageURL string
	if len(e.Image) > 0 {
		url, err := images.WriteRecipeImage(ctx, m.images, recipeID, e.Image)
		if err != nil {
			return nil, fmt.Errorf("recipes: updating recipe %s: %w", recipeID, err)
		}
		imageURL = url
		updates = append(updates, docstore.Set(hamatcondb.FieldImageURL, url))
	}

	var updated *hamatcondb.Recipe
	err := m.store.RunTransaction(ctx, func(_ context.Context, tx docstore.Tx) error {
		r, err := tx.Recipe(recipeID)
		if err != nil {
			return err
		}
		if r.OwnerUID != userID {
			return ErrNotOwner
		}
		if err := tx.UpdateRecipe(recipeID, updates...); err != nil {
			return err
		}
		updated = r
		return nil
	})
	if err != nil {
		return nil, wrapErr("updating", recipeID, err)
	}

	updated.Name = edited.Name
	updated.Cuisine = edited.Cuisine
	updated.Instructions = edited.Instructions
	updated.Ingredients = edited.Ingredients
	updated.CookTime = edited.CookTime
	updated.Difficulty = edited.Difficulty
	if imageURL != "" {
		updated.ImageURL = imageURL
	}
	return updated, nil
}

// Delete deletes a recipe owned by userID along with its ratings and image.
// Favorites of the recipe stay with their users until unfavorited and are
// not counted in Stats.
func (m *Manager) Delete(ctx context.Context, userID string, recipeID string) error {
	r, err := m.owned(ctx, userID, recipeID)
	if err != nil {
		return err
	}
	if err := m.store.DeleteRecipe(ctx, recipeID); err != nil {
		return wrapErr("deleting", recipeID, err)
	}
	if r.ImageURL != "" {
		m.deleteImage(ctx, recipeID)
	}
	return nil
}

// Stats returns the profile counts of userID.
func (m *Manager) Stats(ctx context.Context, userID string) (Stats, error) {
	owned, err := m.store.Recipes(ctx, userID)
	if err != nil {
		return Stats{}, fmt.Errorf("recipes: listing recipes of %s: %w", userID, err)
	}
	favs, err := m.store.Favorites(ctx, userID)
	if err != nil {
		return Stats{}, fmt.Errorf("recipes: listing favorites of %s: %w", userID, err)
	}

	var existing atomic.Int64
	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(10)
	for _, f := range favs {
		grp.Go(func() error {
			_, err := m.store.Recipe(ctx, f.RecipeID)
			switch {
			case err == nil:
				existing.Add(1)
			case !errors.Is(err, docstore.ErrNotFound):
				return fmt.Errorf("recipes: reading favorite %s: %w", f.RecipeID, err)
			}
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return Stats{}, err
	}

	return Stats{
		Recipes:   len(owned),
		Favorites: int(existing.Load()),
	}, nil
}

func (m *Manager) owned(ctx context.Context, userID string, recipeID string) (*hamatcondb.Recipe, error) {
	r, err := m.store.Recipe(ctx, recipeID)
	if err != nil {
		return nil, wrapErr("reading", recipeID, err)
	}
	if r.OwnerUID != userID {
		return nil, fmt.Errorf("recipes: recipe %s: %w", recipeID, ErrNotOwner)
	}
	return r, nil
}

func (m *Manager) deleteImage(ctx context.Context, recipeID string) {
	if err := images.DeleteRecipeImage(ctx, m.images, recipeID); err != nil {
		slog.WarnContext(ctx, "recipes: leaving orphaned image", "recipe", recipeID, "error", err)
	}
}

func wrapErr(action string, recipeID string, err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return fmt.Errorf("recipes: %s recipe %s: %w", action, recipeID, ErrNotFound)
	}
	return fmt.Errorf("recipes: %s recipe %s: %w", action, recipeID, err)
}
