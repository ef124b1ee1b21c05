// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package recipes

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/curioswitch/hamatcon/common/aggregate"
	"github.com/curioswitch/hamatcon/common/docstore"
	"github.com/curioswitch/hamatcon/common/hamatcondb"
	"github.com/curioswitch/hamatcon/common/images"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newManager(t *testing.T) (*Manager, *docstore.Memory, *images.Memory) {
	t.Helper()

	store := docstore.NewMemory()
	files := images.NewMemory()
	return NewManager(store, files), store, files
}

func TestCreate(t *testing.T) {
	ctx := t.Context()
	m, store, files := newManager(t)

	r, err := m.Create(ctx, "u1", Edit{
		Name:         " Lamb roast ",
		Cuisine:      "British",
		Instructions: "Season the lamb.\nRoast until done.",
		Ingredients:  []string{"1 leg of lamb, Garlic", " ", "garlic;rosemary"},
		Image:        []byte("jpeg"),
	})
	require.NoError(t, err)
	require.Equal(t, "Lamb roast", r.Name)
	require.Equal(t, "u1", r.OwnerUID)
	require.Equal(t, []string{"1 leg of lamb", "garlic", "rosemary"}, r.Ingredients)
	require.NotEmpty(t, r.CookTime)
	require.NotEmpty(t, r.Difficulty)
	require.Equal(t, "memory:///"+images.RecipeImagePath(r.ID), r.ImageURL)

	stored, err := store.Recipe(ctx, r.ID)
	require.NoError(t, err)
	require.Equal(t, r.Ingredients, stored.Ingredients)
	require.Equal(t, r.ImageURL, stored.ImageURL)

	_, ok := files.File(images.RecipeImagePath(r.ID))
	require.True(t, ok)
}

type failingStore struct {
	docstore.Store

	id string
}

func (s *failingStore) CreateRecipe(_ context.Context, r *hamatcondb.Recipe) (string, error) {
	s.id = r.ID
	return "", errors.New("unavailable")
}

func TestCreateFailureDeletesImage(t *testing.T) {
	files := images.NewMemory()
	store := &failingStore{Store: docstore.NewMemory()}
	m := NewManager(store, files)

	_, err := m.Create(t.Context(), "u1", Edit{Name: "Toast", Image: []byte("jpeg")})
	require.Error(t, err)

	require.NotEmpty(t, store.id)
	_, ok := files.File(images.RecipeImagePath(store.id))
	require.False(t, ok)
}

func TestUpdate(t *testing.T) {
	ctx := t.Context()
	m, store, files := newManager(t)
	engine := aggregate.NewEngine(store)

	r, err := m.Create(ctx, "u1", Edit{Name: "Toast", Ingredients: []string{"bread"}, Image: []byte("old")})
	require.NoError(t, err)
	_, err = engine.ToggleFavorite(ctx, "u2", r.ID, false)
	require.NoError(t, err)
	_, err = engine.SubmitRating(ctx, "u2", r.ID, 4)
	require.NoError(t, err)

	updated, err := m.Update(ctx, "u1", r.ID, Edit{
		Name:        "Cheese toast",
		Cuisine:     "British",
		Ingredients: []string{"Bread, cheddar"},
		CookTime:    "10 min",
		Difficulty:  hamatcondb.DifficultyEasy,
	})
	require.NoError(t, err)
	require.Equal(t, "Cheese toast", updated.Name)
	require.Equal(t, r.ImageURL, updated.ImageURL)

	stored, err := store.Recipe(ctx, r.ID)
	require.NoError(t, err)
	require.Equal(t, "Cheese toast", stored.Name)
	require.Equal(t, "British", stored.Cuisine)
	require.Equal(t, []string{"bread", "cheddar"}, stored.Ingredients)
	require.Equal(t, "10 min", stored.CookTime)
	require.Equal(t, hamatcondb.DifficultyEasy, stored.Difficulty)
	require.Equal(t, r.ImageURL, stored.ImageURL)
	require.Equal(t, "u1", stored.OwnerUID)

	// Aggregates are untouched.
	require.Equal(t, int64(1), stored.FavoritesCount)
	require.Equal(t, int64(8), stored.RatingSum)
	require.Equal(t, int64(1), stored.RatingCount)

	_, err = m.Update(ctx, "u1", r.ID, Edit{Name: "Cheese toast", Image: []byte("new")})
	require.NoError(t, err)
	data, ok := files.File(images.RecipeImagePath(r.ID))
	require.True(t, ok)
	require.Equal(t, []byte("new"), data)
}

func TestUpdateNotAllowed(t *testing.T) {
	ctx := t.Context()
	m, store, files := newManager(t)

	r, err := m.Create(ctx, "u1", Edit{Name: "Toast", Image: []byte("mine")})
	require.NoError(t, err)

	_, err = m.Update(ctx, "u2", r.ID, Edit{Name: "Stolen", Image: []byte("theirs")})
	require.ErrorIs(t, err, ErrNotOwner)

	stored, err := store.Recipe(ctx, r.ID)
	require.NoError(t, err)
	require.Equal(t, "Toast", stored.Name)
	data, _ := files.File(images.RecipeImagePath(r.ID))
	require.Equal(t, []byte("mine"), data)

	_, err = m.Update(ctx, "u1", "missing", Edit{Name: "Toast"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	ctx := t.Context()
	m, store, files := newManager(t)
	engine := aggregate.NewEngine(store)

	r, err := m.Create(ctx, "u1", Edit{Name: "Toast", Image: []byte("jpeg")})
	require.NoError(t, err)
	_, err = engine.ToggleFavorite(ctx, "u2", r.ID, false)
	require.NoError(t, err)
	_, err = engine.SubmitRating(ctx, "u2", r.ID, 3)
	require.NoError(t, err)

	require.ErrorIs(t, m.Delete(ctx, "u2", r.ID), ErrNotOwner)

	require.NoError(t, m.Delete(ctx, "u1", r.ID))
	_, err = store.Recipe(ctx, r.ID)
	require.ErrorIs(t, err, docstore.ErrNotFound)
	_, ok := files.File(images.RecipeImagePath(r.ID))
	require.False(t, ok)
	rating, err := store.Rating(ctx, r.ID, "u2")
	require.NoError(t, err)
	require.Nil(t, rating)

	require.ErrorIs(t, m.Delete(ctx, "u1", r.ID), ErrNotFound)

	// The dangling favorite can still be removed.
	favorited, err := engine.ToggleFavorite(ctx, "u2", r.ID, true)
	require.NoError(t, err)
	require.False(t, favorited)
}

func TestStats(t *testing.T) {
	ctx := t.Context()
	m, store, _ := newManager(t)
	engine := aggregate.NewEngine(store)

	var ids []string
	for _, name := range []string{"Toast", "Soup", "Salad"} {
		r, err := m.Create(ctx, "u1", Edit{Name: name})
		require.NoError(t, err)
		ids = append(ids, r.ID)
	}
	other, err := m.Create(ctx, "u2", Edit{Name: "Stew"})
	require.NoError(t, err)

	for _, id := range []string{ids[0], ids[1], other.ID} {
		_, err := engine.ToggleFavorite(ctx, "u1", id, false)
		require.NoError(t, err)
	}
	require.NoError(t, m.Delete(ctx, "u2", other.ID))
	require.NoError(t, m.Delete(ctx, "u1", ids[2]))

	stats, err := m.Stats(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, Stats{Recipes: 2, Favorites: 2}, stats)

	stats, err = m.Stats(ctx, "u3")
	require.NoError(t, err)
	require.Zero(t, stats)
}
