// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package session holds the state of a recipe list being viewed: the latest
// recipes, the viewer's favorites and the selected filters. The state is kept
// current by store subscriptions that live between Attach and Detach.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/curioswitch/hamatcon/common/docstore"
	"github.com/curioswitch/hamatcon/common/hamatcondb"
	"github.com/curioswitch/hamatcon/common/search"
)

// ErrNotAttached is returned when detaching a list that is not attached.
var ErrNotAttached = errors.New("session: not attached")

// Option configures a RecipeList.
type Option func(*RecipeList)

// WithUser subscribes to the favorites of the user.
func WithUser(userID string) Option {
	return func(l *RecipeList) {
		l.userID = userID
	}
}

// WithOwner only lists recipes owned by ownerUID.
func WithOwner(ownerUID string) Option {
	return func(l *RecipeList) {
		l.ownerUID = ownerUID
	}
}

// OnChange calls fn after each snapshot of recipes or favorites is applied.
// fn is called from the subscriptions and must not block.
func OnChange(fn func()) Option {
	return func(l *RecipeList) {
		l.onChange = fn
	}
}

// RecipeList is the state of one recipe list view. It is safe for concurrent
// use.
type RecipeList struct {
	store    docstore.Store
	userID   string
	ownerUID string
	onChange func()

	mu        sync.Mutex
	gen       uint64
	cancel    context.CancelFunc
	group     *errgroup.Group
	recipes   []*hamatcondb.Recipe
	index     []string
	favorites []string
	criteria  search.Criteria
}

// NewRecipeList returns a detached RecipeList reading from store.
func NewRecipeList(store docstore.Store, opts ...Option) *RecipeList {
	l := &RecipeList{
		store: store,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Attach subscribes to recipes, and favorites when a user is set, and returns
// once the first snapshot of each has been applied. Any previous attachment
// is detached first and state is fully replaced by the new snapshots.
// Subscriptions end when ctx is done or on Detach.
func (l *RecipeList) Attach(ctx context.Context) error {
	_ = l.Detach()

	wctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(wctx)

	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.cancel = cancel
	l.group = g
	l.recipes = nil
	l.index = nil
	l.favorites = nil
	l.mu.Unlock()

	ready := make(chan struct{}, 2)
	subs := 1
	g.Go(func() error {
		var once sync.Once
		err := l.store.WatchRecipes(gctx, l.ownerUID, func(recipes []*hamatcondb.Recipe) {
			l.setRecipes(gen, recipes)
			once.Do(func() { ready <- struct{}{} })
		})
		if err != nil {
			return fmt.Errorf("session: watching recipes: %w", err)
		}
		return nil
	})
	if l.userID != "" {
		subs++
		g.Go(func() error {
			var once sync.Once
			err := l.store.WatchFavorites(gctx, l.userID, func(favs []*hamatcondb.Favorite) {
				l.setFavorites(gen, favs)
				once.Do(func() { ready <- struct{}{} })
			})
			if err != nil {
				return fmt.Errorf("session: watching favorites: %w", err)
			}
			return nil
		})
	}

	for range subs {
		select {
		case <-ready:
		case <-gctx.Done():
			err := l.Detach()
			if err == nil {
				err = ctx.Err()
			}
			return fmt.Errorf("session: attaching: %w", err)
		}
	}
	return nil
}

// Detach cancels the subscriptions and waits for them to stop. Snapshots are
// never applied after Detach returns. It returns the error that ended a
// subscription early, if any.
func (l *RecipeList) Detach() error {
	l.mu.Lock()
	cancel, g := l.cancel, l.group
	l.cancel, l.group = nil, nil
	l.gen++
	l.mu.Unlock()

	if g == nil {
		return ErrNotAttached
	}
	cancel()
	return g.Wait()
}

func (l *RecipeList) setRecipes(gen uint64, recipes []*hamatcondb.Recipe) {
	index := search.Autocomplete(recipes)

	l.mu.Lock()
	if gen != l.gen {
		l.mu.Unlock()
		return
	}
	l.recipes = recipes
	l.index = index
	l.mu.Unlock()

	l.changed()
}

func (l *RecipeList) setFavorites(gen uint64, favs []*hamatcondb.Favorite) {
	ids := make([]string, len(favs))
	for i, f := range favs {
		ids[i] = f.RecipeID
	}

	l.mu.Lock()
	if gen != l.gen {
		l.mu.Unlock()
		return
	}
	l.favorites = ids
	l.mu.Unlock()

	l.changed()
}

func (l *RecipeList) changed() {
	if l.onChange != nil {
		l.onChange()
	}
}

// SetFilter sets the criteria used by View.
func (l *RecipeList) SetFilter(c search.Criteria) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.criteria = c
}

// Filter returns the current recipes matching c.
func (l *RecipeList) Filter(c search.Criteria) []*hamatcondb.Recipe {
	l.mu.Lock()
	recipes := l.recipes
	l.mu.Unlock()

	return c.Apply(recipes)
}

// View returns the current recipes matching the criteria set by SetFilter.
func (l *RecipeList) View() []*hamatcondb.Recipe {
	l.mu.Lock()
	c := l.criteria
	l.mu.Unlock()

	return l.Filter(c)
}

// Recipes returns all current recipes.
func (l *RecipeList) Recipes() []*hamatcondb.Recipe {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.recipes
}

// Favorites returns the current recipes favorited by the user, most recently
// favorited first. Favorites of recipes not in the list are skipped.
func (l *RecipeList) Favorites() []*hamatcondb.Recipe {
	l.mu.Lock()
	defer l.mu.Unlock()

	byID := make(map[string]*hamatcondb.Recipe, len(l.recipes))
	for _, r := range l.recipes {
		byID[r.ID] = r
	}
	res := []*hamatcondb.Recipe{}
	for _, id := range l.favorites {
		if r, ok := byID[id]; ok {
			res = append(res, r)
		}
	}
	return res
}

// IsFavorite returns whether the user has favorited the recipe.
func (l *RecipeList) IsFavorite(recipeID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Contains(l.favorites, recipeID)
}

// Suggestions returns up to limit ingredients of the current recipes matching
// prefix.
func (l *RecipeList) Suggestions(prefix string, limit int) []string {
	l.mu.Lock()
	index := l.index
	l.mu.Unlock()

	return search.Suggest(index, prefix, limit)
}

// Cuisines returns the cuisines of the current recipes for a cuisine filter.
func (l *RecipeList) Cuisines() []string {
	l.mu.Lock()
	recipes := l.recipes
	l.mu.Unlock()

	return search.Cuisines(recipes)
}
