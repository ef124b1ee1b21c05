// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package listfavorites

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/curioswitch/hamatcon/common/docstore"
	"github.com/curioswitch/hamatcon/common/hamatcondb"
	frontendapi "github.com/curioswitch/hamatcon/frontend/api"
	"github.com/curioswitch/hamatcon/frontend/server/internal/auth"
	"github.com/curioswitch/hamatcon/frontend/server/internal/handler/recipeview"
)

func NewHandler(store docstore.Store) *Handler {
	return &Handler{
		store: store,
	}
}

type Handler struct {
	store docstore.Store
}

func (h *Handler) ListFavorites(ctx context.Context, _ *frontendapi.ListFavoritesRequest) (*frontendapi.ListFavoritesResponse, error) {
	favs, err := h.store.Favorites(ctx, auth.UserFromContext(ctx).UID)
	if err != nil {
		return nil, fmt.Errorf("listfavorites: %w", err)
	}

	recipes := make([]*hamatcondb.Recipe, len(favs))
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(10)
	for i, f := range favs {
		grp.Go(func() error {
			r, err := h.store.Recipe(gctx, f.RecipeID)
			if err != nil {
				// Favorites of deleted recipes are skipped.
				if errors.Is(err, docstore.ErrNotFound) {
					return nil
				}
				return fmt.Errorf("listfavorites: %w", err)
			}
			recipes[i] = r
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	res := &frontendapi.ListFavoritesResponse{
		Recipes: []*frontendapi.Recipe{},
	}
	for _, r := range recipes {
		if r != nil {
			res.Recipes = append(res.Recipes, recipeview.New(ctx, r, true))
		}
	}
	return res, nil
}
