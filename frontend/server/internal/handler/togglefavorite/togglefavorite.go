// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package togglefavorite

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

func NewHandler(engine *aggregate.Engine) *Handler {
	return &Handler{
		engine: engine,
	}
}

type Handler struct {
	engine *aggregate.Engine
}

func (h *Handler) ToggleFavorite(ctx context.Context, req *frontendapi.ToggleFavoriteRequest) (*frontendapi.ToggleFavoriteResponse, error) {
	favorited, err := h.engine.ToggleFavorite(ctx, auth.UserFromContext(ctx).UID, req.RecipeID, req.CurrentlyFavorited)
	if err != nil {
		err = fmt.Errorf("togglefavorite: %w", err)
		switch {
		case errors.Is(err, aggregate.ErrRecipeNotFound):
			return nil, connect.NewError(connect.CodeNotFound, err)
		case errors.Is(err, docstore.ErrConflict):
			return nil, connect.NewError(connect.CodeAborted, err)
		}
		return nil, err
	}
	return &frontendapi.ToggleFavoriteResponse{
		Favorited: favorited,
	}, nil
}
