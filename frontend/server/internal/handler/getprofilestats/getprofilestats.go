// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package getprofilestats

import (
	"context"
	"fmt"

	"github.com/curioswitch/hamatcon/common/recipes"
	frontendapi "github.com/curioswitch/hamatcon/frontend/api"
	"github.com/curioswitch/hamatcon/frontend/server/internal/auth"
)

func NewHandler(recipes *recipes.Manager) *Handler {
	return &Handler{
		recipes: recipes,
	}
}

type Handler struct {
	recipes *recipes.Manager
}

func (h *Handler) GetProfileStats(ctx context.Context, _ *frontendapi.GetProfileStatsRequest) (*frontendapi.GetProfileStatsResponse, error) {
	stats, err := h.recipes.Stats(ctx, auth.UserFromContext(ctx).UID)
	if err != nil {
		return nil, fmt.Errorf("getprofilestats: %w", err)
	}
	return &frontendapi.GetProfileStatsResponse{
		RecipeCount:   stats.Recipes,
		FavoriteCount: stats.Favorites,
	}, nil
}
