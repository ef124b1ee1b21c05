// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/curioswitch/hamatcon/common/aggregate"
	"github.com/curioswitch/hamatcon/common/docstore"
	"github.com/curioswitch/hamatcon/common/hamatcondb"
	"github.com/curioswitch/hamatcon/common/search"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newStore(t *testing.T) *docstore.Memory {
	t.Helper()

	store := docstore.NewMemory()
	for _, r := range []*hamatcondb.Recipe{
		{ID: "caprese", Name: "Caprese", Cuisine: "Italian", Ingredients: []string{"2 roma tomatoes", "salt"}, OwnerUID: hamatcondb.OwnerSeed},
		{ID: "curry", Name: "Curry", Cuisine: "Indian", Ingredients: []string{"chicken", "garam masala"}, OwnerUID: hamatcondb.OwnerSeed},
		{ID: "toast", Name: "Toast", Cuisine: "British", Ingredients: []string{"bread", "butter"}, OwnerUID: "u1"},
	} {
		_, err := store.CreateRecipe(t.Context(), r)
		require.NoError(t, err)
	}
	return store
}

func ids(recipes []*hamatcondb.Recipe) []string {
	res := []string{}
	for _, r := range recipes {
		res = append(res, r.ID)
	}
	return res
}

func TestAttach(t *testing.T) {
	l := NewRecipeList(newStore(t))
	require.NoError(t, l.Attach(t.Context()))
	defer func() { require.NoError(t, l.Detach()) }()

	require.Equal(t, []string{"caprese", "curry", "toast"}, ids(l.Recipes()))
	require.Equal(t, []string{"caprese", "curry", "toast"}, ids(l.View()))
	require.Equal(t, []string{search.AllCuisines, "British", "Indian", "Italian"}, l.Cuisines())
	require.Equal(t, []string{"roma tomatoes"}, l.Suggestions("tom", 5))
	require.Empty(t, l.Favorites())

	l.SetFilter(search.Criteria{Cuisine: "italian", Chips: []string{"tomato"}})
	require.Equal(t, []string{"caprese"}, ids(l.View()))
	require.Equal(t, []string{"curry"}, ids(l.Filter(search.Criteria{Query: "masala"})))
}

func TestWithOwner(t *testing.T) {
	l := NewRecipeList(newStore(t), WithOwner("u1"))
	require.NoError(t, l.Attach(t.Context()))
	defer func() { require.NoError(t, l.Detach()) }()

	require.Equal(t, []string{"toast"}, ids(l.Recipes()))
}

func TestUpdates(t *testing.T) {
	ctx := t.Context()
	store := newStore(t)
	engine := aggregate.NewEngine(store)

	l := NewRecipeList(store, WithUser("u1"))
	require.NoError(t, l.Attach(ctx))
	defer func() { require.NoError(t, l.Detach()) }()

	_, err := engine.ToggleFavorite(ctx, "u1", "curry", false)
	require.NoError(t, err)
	_, err = engine.ToggleFavorite(ctx, "u1", "caprese", false)
	require.NoError(t, err)
	_, err = engine.ToggleFavorite(ctx, "u2", "toast", false)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		favs := ids(l.Favorites())
		return len(favs) == 2 && favs[0] == "caprese" && favs[1] == "curry"
	}, time.Second, time.Millisecond)
	require.True(t, l.IsFavorite("curry"))
	require.False(t, l.IsFavorite("toast"))

	require.Eventually(t, func() bool {
		for _, r := range l.Recipes() {
			if r.ID == "toast" {
				return r.FavoritesCount == 1
			}
		}
		return false
	}, time.Second, time.Millisecond)

	_, err = store.CreateRecipe(ctx, &hamatcondb.Recipe{ID: "soup", Cuisine: "French", Ingredients: []string{"onion"}})
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return len(l.Recipes()) == 4
	}, time.Second, time.Millisecond)
	require.Contains(t, l.Cuisines(), "French")
}

func TestOnChange(t *testing.T) {
	ctx := t.Context()
	store := newStore(t)

	changed := make(chan struct{}, 10)
	l := NewRecipeList(store, WithUser("u1"), OnChange(func() {
		changed <- struct{}{}
	}))
	require.NoError(t, l.Attach(ctx))

	// One call per initial snapshot.
	<-changed
	<-changed

	require.NoError(t, store.DeleteRecipe(ctx, "curry"))
	select {
	case <-changed:
	case <-time.After(time.Second):
		t.Fatal("no change after deleting a recipe")
	}
	require.Equal(t, []string{"caprese", "toast"}, ids(l.Recipes()))

	require.NoError(t, l.Detach())
	_, err := store.CreateRecipe(ctx, &hamatcondb.Recipe{ID: "soup"})
	require.NoError(t, err)
	require.Empty(t, changed)
}

func TestDetach(t *testing.T) {
	ctx := t.Context()
	store := newStore(t)

	l := NewRecipeList(store, WithUser("u1"))
	require.NoError(t, l.Attach(ctx))
	require.NoError(t, l.Detach())
	require.ErrorIs(t, l.Detach(), ErrNotAttached)

	_, err := store.CreateRecipe(ctx, &hamatcondb.Recipe{ID: "soup"})
	require.NoError(t, err)
	_, err = aggregate.NewEngine(store).ToggleFavorite(ctx, "u1", "soup", false)
	require.NoError(t, err)

	// Detached state is stale.
	require.Len(t, l.Recipes(), 3)
	require.Empty(t, l.Favorites())

	// Reattaching refreshes fully.
	require.NoError(t, l.Attach(ctx))
	defer func() { require.NoError(t, l.Detach()) }()
	require.Len(t, l.Recipes(), 4)
	require.Equal(t, []string{"soup"}, ids(l.Favorites()))
}

func TestAttachTwice(t *testing.T) {
	l := NewRecipeList(newStore(t))
	require.NoError(t, l.Attach(t.Context()))
	require.NoError(t, l.Attach(t.Context()))
	require.NoError(t, l.Detach())
}

func TestAttachCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	l := NewRecipeList(newStore(t))
	err := l.Attach(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, l.Detach(), ErrNotAttached)
}

type failingStore struct {
	*docstore.Memory
}

func (failingStore) WatchFavorites(context.Context, string, func([]*hamatcondb.Favorite)) error {
	return errors.New("permission denied")
}

func TestAttachWatchError(t *testing.T) {
	l := NewRecipeList(failingStore{newStore(t)}, WithUser("u1"))
	err := l.Attach(t.Context())
	require.ErrorContains(t, err, "permission denied")
}
