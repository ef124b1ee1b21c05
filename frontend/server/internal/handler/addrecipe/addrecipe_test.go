// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package addrecipe

import (
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/require"

	"github.com/curioswitch/hamatcon/common/hamatcondb"
	"github.com/curioswitch/hamatcon/common/images"
	"github.com/curioswitch/hamatcon/common/recipes"
	frontendapi "github.com/curioswitch/hamatcon/frontend/api"
	"github.com/curioswitch/hamatcon/frontend/server/internal/handler/handlertest"
)

func TestAddRecipe(t *testing.T) {
	ctx := handlertest.Context(t, "u2")
	store := handlertest.Store(t)
	h := NewHandler(recipes.NewManager(store, images.NewMemory()))

	res, err := h.AddRecipe(ctx, &frontendapi.AddRecipeRequest{
		Name:         " Lamb roast ",
		Cuisine:      "British",
		Instructions: "Season the lamb.\nRoast until done.",
		Ingredients:  []string{"1 leg of lamb", " ", "2 cloves garlic; Rosemary", "rosemary"},
	})
	require.NoError(t, err)
	require.Equal(t, "Lamb roast", res.Recipe.Name)
	require.Equal(t, "45 min", res.Recipe.CookTime)
	require.Equal(t, "Medium", res.Recipe.Difficulty)
	require.True(t, res.Recipe.Owned)

	stored, err := store.Recipe(ctx, res.Recipe.ID)
	require.NoError(t, err)
	require.Equal(t, "u2", stored.OwnerUID)
	require.Equal(t, []string{"1 leg of lamb", "2 cloves garlic", "rosemary"}, stored.Ingredients)
	require.Equal(t, "45 min", stored.CookTime)
	require.Zero(t, stored.FavoritesCount)
	require.Zero(t, stored.RatingCount)
}

func TestAddRecipeKeepsGivenFields(t *testing.T) {
	ctx := handlertest.Context(t, "u2")
	store := handlertest.Store(t)
	h := NewHandler(recipes.NewManager(store, images.NewMemory()))

	res, err := h.AddRecipe(ctx, &frontendapi.AddRecipeRequest{
		Name:        "Beef tartare",
		Ingredients: []string{"beef"},
		CookTime:    "10 min",
		Difficulty:  "Hard",
	})
	require.NoError(t, err)

	stored, err := store.Recipe(ctx, res.Recipe.ID)
	require.NoError(t, err)
	require.Equal(t, "10 min", stored.CookTime)
	require.Equal(t, hamatcondb.DifficultyHard, stored.Difficulty)
}

func TestAddRecipeImage(t *testing.T) {
	ctx := handlertest.Context(t, "u2")
	files := images.NewMemory()
	h := NewHandler(recipes.NewManager(handlertest.Store(t), files))

	res, err := h.AddRecipe(ctx, &frontendapi.AddRecipeRequest{
		Name:         "Toast",
		ImageDataURL: "data:image/jpeg;base64,anBlZw==",
	})
	require.NoError(t, err)
	require.Equal(t, "memory:///recipes/"+res.Recipe.ID+"/main-image.jpg", res.Recipe.ImageURL)

	data, ok := files.File("recipes/" + res.Recipe.ID + "/main-image.jpg")
	require.True(t, ok)
	require.Equal(t, []byte("jpeg"), data)
}

func TestAddRecipeInvalidImage(t *testing.T) {
	ctx := handlertest.Context(t, "u2")
	store := handlertest.Store(t)
	h := NewHandler(recipes.NewManager(store, images.NewMemory()))

	for _, dataURL := range []string{
		"https://example.com/toast.jpg",
		"data:image/gif;base64,R0lG",
		"data:image/png;base64,bm90IHBuZw==",
	} {
		_, err := h.AddRecipe(ctx, &frontendapi.AddRecipeRequest{Name: "Toast", ImageDataURL: dataURL})
		require.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err), dataURL)
	}

	mine, err := store.Recipes(ctx, "u2")
	require.NoError(t, err)
	require.Empty(t, mine)
}
