// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package getrating

import (
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"github.com/curioswitch/hamatcon/common/aggregate"
	"github.com/curioswitch/hamatcon/common/docstore"
	frontendapi "github.com/curioswitch/hamatcon/frontend/api"
	"github.com/curioswitch/hamatcon/frontend/server/internal/auth"
)

func NewHandler(engine *aggregate.Engine, store docstore.Store) *Handler {
	return &Handler{
		engine: engine,
		store:  store,
	}
}

type Handler struct {
	engine *aggregate.Engine
	store  docstore.Store
}

func (h *Handler) GetRating(ctx context.Context, req *frontendapi.GetRatingRequest) (*frontendapi.GetRatingResponse, error) {
	recipe, err := h.store.Recipe(ctx, req.RecipeID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("getrating: %w", err))
		}
		return nil, fmt.Errorf("getrating: reading recipe: %w", err)
	}

	mine, err := h.engine.UserRating(ctx, auth.UserFromContext(ctx).UID, req.RecipeID)
	if err != nil {
		return nil, fmt.Errorf("getrating: %w", err)
	}

	res := &frontendapi.GetRatingResponse{
		AverageRating: recipe.AverageRating(),
		RatingCount:   recipe.RatingCount,
	}
	if mine != nil {
		res.Stars = mine.Stars()
	}
	return res, nil
}
