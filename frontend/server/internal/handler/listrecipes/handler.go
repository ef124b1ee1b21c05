// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package listrecipes

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/curioswitch/hamatcon/common/docstore"
	"github.com/curioswitch/hamatcon/common/hamatcondb"
	"github.com/curioswitch/hamatcon/common/search"
	frontendapi "github.com/curioswitch/hamatcon/frontend/api"
	"github.com/curioswitch/hamatcon/frontend/server/internal/auth"
	"github.com/curioswitch/hamatcon/frontend/server/internal/handler/recipeview"
)

func NewHandler(store docstore.Store, suggestionLimit int) *Handler {
	return &Handler{
		store:           store,
		suggestionLimit: suggestionLimit,
	}
}

type Handler struct {
	store           docstore.Store
	suggestionLimit int
}

func (h *Handler) ListRecipes(ctx context.Context, req *frontendapi.ListRecipesRequest) (*frontendapi.ListRecipesResponse, error) {
	uid := auth.UserFromContext(ctx).UID
	owner := ""
	if req.Mine {
		owner = uid
	}

	var recipes []*hamatcondb.Recipe
	var favs []*hamatcondb.Favorite
	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		var err error
		recipes, err = h.store.Recipes(gctx, owner)
		if err != nil {
			return fmt.Errorf("listrecipes: %w", err)
		}
		return nil
	})
	grp.Go(func() error {
		var err error
		favs, err = h.store.Favorites(gctx, uid)
		if err != nil {
			return fmt.Errorf("listrecipes: %w", err)
		}
		return nil
	})
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	favorited := make(map[string]struct{}, len(favs))
	for _, f := range favs {
		favorited[f.RecipeID] = struct{}{}
	}

	matched := search.Criteria{
		Cuisine: req.Cuisine,
		Chips:   req.Chips,
		Query:   req.Query,
	}.Apply(recipes)

	res := &frontendapi.ListRecipesResponse{
		Recipes:     make([]*frontendapi.Recipe, len(matched)),
		Cuisines:    search.Cuisines(recipes),
		Suggestions: search.Suggest(search.Autocomplete(recipes), req.Prefix, h.suggestionLimit),
	}
	for i, r := range matched {
		_, fav := favorited[r.ID]
		res.Recipes[i] = recipeview.New(ctx, r, fav)
	}
	if res.Suggestions == nil {
		res.Suggestions = []string{}
	}
	return res, nil
}
