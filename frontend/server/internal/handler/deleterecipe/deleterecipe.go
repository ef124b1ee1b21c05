// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package deleterecipe

import (
	"context"
	"fmt"

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

func (h *Handler) DeleteRecipe(ctx context.Context, req *frontendapi.DeleteRecipeRequest) (*frontendapi.DeleteRecipeResponse, error) {
	if err := h.recipes.Delete(ctx, auth.UserFromContext(ctx).UID, req.RecipeID); err != nil {
		return nil, recipeview.EditError(fmt.Errorf("deleterecipe: %w", err))
	}
	return &frontendapi.DeleteRecipeResponse{}, nil
}
