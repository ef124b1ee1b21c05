// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package recipeview

import (
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"github.com/curioswitch/hamatcon/common/hamatcondb"
	"github.com/curioswitch/hamatcon/common/images"
	"github.com/curioswitch/hamatcon/common/recipes"
	frontendapi "github.com/curioswitch/hamatcon/frontend/api"
	"github.com/curioswitch/hamatcon/frontend/server/internal/auth"
	"github.com/curioswitch/hamatcon/frontend/server/internal/i18n"
)

// New returns the API form of a recipe for the user of ctx.
func New(ctx context.Context, r *hamatcondb.Recipe, favorited bool) *frontendapi.Recipe {
	return &frontendapi.Recipe{
		ID:             r.ID,
		Name:           r.Name,
		Cuisine:        r.Cuisine,
		Instructions:   r.Instructions,
		Ingredients:    r.Ingredients,
		CookTime:       i18n.FormatCookTime(ctx, r.CookTime),
		Difficulty:     string(r.Difficulty),
		ImageURL:       r.ImageURL,
		FavoritesCount: r.FavoritesCount,
		RatingCount:    r.RatingCount,
		AverageRating:  r.AverageRating(),
		Favorited:      favorited,
		Owned:          r.OwnerUID != "" && r.OwnerUID == auth.UserFromContext(ctx).UID,
	}
}

// DecodeImage returns the JPEG contents of an uploaded image data URL, or nil
// for no image.
func DecodeImage(dataURL string) ([]byte, error) {
	if dataURL == "" {
		return nil, nil
	}
	jpg, err := images.DecodeDataURL(dataURL)
	if errors.Is(err, images.ErrInvalidDataURL) {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return jpg, nil
}

// EditError converts an error editing a recipe to its connect code.
func EditError(err error) error {
	switch {
	case errors.Is(err, recipes.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, recipes.ErrNotOwner):
		return connect.NewError(connect.CodePermissionDenied, err)
	default:
		return err
	}
}
