// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package updaterecipe

import (
	"context"
	"fmt"

	"github.com/curioswitch/hamatcon/common/docstore"
	"github.com/curioswitch/hamatcon/common/hamatcondb"
	"github.com/curioswitch/hamatcon/common/recipes"
	frontendapi "github.com/curioswitch/hamatcon/frontend/api"
	"github.com/curioswitch/hamatcon/frontend/server/internal/auth"
	"github.com/curioswitch/hamatcon/frontend/server/internal/handler/recipeview"
)

func NewHandler(recipes *recipes.Manager, store docstore.Store) *Handler {
	return &Handler{
		recipes: recipes,
		store:   store,
	}
}

type Handler struct {
	recipes *recipes.Manager
	store   docstore.Store
}

func (h *Handler) UpdateRecipe(ctx context.Context, req *frontendapi.UpdateRecipeRequest) (*frontendapi.UpdateRecipeResponse, error) {
	image, err := recipeview.DecodeImage(req.ImageDataURL)
	if err != nil {
		return nil, fmt.Errorf("updaterecipe: %w", err)
	}

	uid := auth.UserFromContext(ctx).UID
	recipe, err := h.recipes.Update(ctx, uid, req.RecipeID, recipes.Edit{
		Name:         req.Name,
		Cuisine:      req.Cuisine,
		Instructions: req.Instructions,
		Ingredients:  req.Ingredients,
		CookTime:     req.CookTime,
		Difficulty:   hamatcondb.Difficulty(req.Difficulty),
		Image:        image,
	})
	if err != nil {
		return nil, recipeview.EditError(fmt.Errorf("updaterecipe: %w", err))
	}

	fav, err := h.store.Favorites(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("updaterecipe: %w", err)
	}
	favorited := false
	for _, f := range fav {
		if f.RecipeID == recipe.ID {
			favorited = true
			break
		}
	}

	return &frontendapi.UpdateRecipeResponse{
		Recipe: recipeview.New(ctx, recipe, favorited),
	}, nil
}
