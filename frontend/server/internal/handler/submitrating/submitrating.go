// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package submitrating

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

func (h *Handler) SubmitRating(ctx context.Context, req *frontendapi.SubmitRatingRequest) (*frontendapi.SubmitRatingResponse, error) {
	rating, err := h.engine.SubmitRating(ctx, auth.UserFromContext(ctx).UID, req.RecipeID, req.Stars)
	if err != nil {
		err = fmt.Errorf("submitrating: %w", err)
		switch {
		case errors.Is(err, aggregate.ErrRecipeNotFound):
			return nil, connect.NewError(connect.CodeNotFound, err)
		case errors.Is(err, aggregate.ErrInvalidRating):
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		case errors.Is(err, docstore.ErrConflict):
			return nil, connect.NewError(connect.CodeAborted, err)
		}
		return nil, err
	}

	recipe, err := h.store.Recipe(ctx, req.RecipeID)
	if err != nil {
		return nil, fmt.Errorf("submitrating: reading recipe: %w", err)
	}

	return &frontendapi.SubmitRatingResponse{
		Stars:         rating.Stars(),
		AverageRating: recipe.AverageRating(),
		RatingCount:   recipe.RatingCount,
	}, nil
}
