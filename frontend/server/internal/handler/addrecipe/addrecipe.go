// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package addrecipe

import (
	"context"
	"fmt"

	"github.com/curioswitch/hamatcon/common/hamatcondb"
	"github.com/curioswitch/hamatcon/common/recipes"
	frontendapi "github.com/curioswitch/hamatcon/frontend/api"
	"github.com/curioswitch/hamatcon/frontend/server/internal/auth"
	"github.com/curioswitch/hamatcon/frontend/server/internal/handler/recipeview"
)

func NewHandler(recipes *recipes.Manager) *Handler {
	return &Handler{
		recipes: recipes,
	}
}

type Handler struct {
	recipes *recipes.Manager
}

func (h *Handler) AddRecipe(ctx context.Context, req *frontendapi.AddRecipeRequest) (*frontendapi.AddRecipeResponse, error) {
	image, err := recipeview.DecodeImage(req.ImageDataURL)
	if err != nil {
		return nil, fmt.Errorf("addrecipe: %w", err)
	}

	recipe, err := h.recipes.Create(ctx, auth.UserFromContext(ctx).UID, recipes.Edit{
		Name:         req.Name,
		Cuisine:      req.Cuisine,
		Instructions: req.Instructions,
		Ingredients:  req.Ingredients,
		CookTime:     req.CookTime,
		Difficulty:   hamatcondb.Difficulty(req.Difficulty),
		Image:        image,
	})
	if err != nil {
		return nil, fmt.Errorf("addrecipe: %w", err)
	}

	return &frontendapi.AddRecipeResponse{
		Recipe: recipeview.New(ctx, recipe, false),
	}, nil
}
