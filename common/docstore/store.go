// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package docstore is the document store holding recipes and the per-user
// records backing their aggregates. Firestore is used in production and
// Memory in tests and local runs; both provide retrying read-modify-write
// transactions, bounded atomic batches and snapshot subscriptions.
package docstore

import (
	"context"
	"errors"

	"github.com/curioswitch/hamatcon/common/hamatcondb"
)

var (
	// ErrNotFound is returned when reading a recipe that does not exist.
	ErrNotFound = errors.New("docstore: document not found")

	// ErrAlreadyExists is returned when creating a recipe with an ID in use.
	ErrAlreadyExists = errors.New("docstore: document already exists")

	// ErrConflict is returned when a transaction read a document that was
	// modified before it committed. Transactions are retried on conflict.
	ErrConflict = errors.New("docstore: transaction conflict")

	// ErrReadAfterWrite is returned when a transaction reads after writing.
	ErrReadAfterWrite = errors.New("docstore: transactions must read before writing")

	// ErrTooManyOps is returned when adding more than MaxBatchWrites to a batch.
	ErrTooManyOps = errors.New("docstore: too many operations in batch")
)

// MaxBatchWrites is the maximum number of writes in one batch commit.
const MaxBatchWrites = 500

// Update is a change to a single field of a document.
type Update struct {
	// Field is the name of the field.
	Field string

	// Value is the new value of the field when not an increment.
	Value any

	// Delta is added to the numeric field when Increment is set.
	Delta int64

	// Increment makes the update add Delta instead of setting Value.
	Increment bool
}

// Set returns an Update setting field to v.
func Set(field string, v any) Update {
	return Update{Field: field, Value: v}
}

// Increment returns an Update atomically adding delta to a numeric field.
func Increment(field string, delta int64) Update {
	return Update{Field: field, Delta: delta, Increment: true}
}

// Tx is a read-modify-write transaction. All reads must happen before any
// write. Writes are applied atomically when the transaction function returns
// nil. The function may be run several times, so it must not have side
// effects outside of the transaction.
type Tx interface {
	// Recipe reads a recipe, returning ErrNotFound if it does not exist.
	Recipe(id string) (*hamatcondb.Recipe, error)

	// Favorite reads a user's favorite of a recipe, nil if not favorited.
	Favorite(userID string, recipeID string) (*hamatcondb.Favorite, error)

	// Rating reads a user's rating of a recipe, nil if not rated.
	Rating(recipeID string, userID string) (*hamatcondb.Rating, error)

	// SetFavorite creates or replaces a user's favorite of f.RecipeID.
	SetFavorite(userID string, f *hamatcondb.Favorite) error

	// DeleteFavorite deletes a user's favorite of a recipe.
	DeleteFavorite(userID string, recipeID string) error

	// SetRating creates or replaces a user's rating of a recipe.
	SetRating(recipeID string, userID string, r *hamatcondb.Rating) error

	// UpdateRecipe updates fields of an existing recipe.
	UpdateRecipe(id string, updates ...Update) error
}

// Batch is a set of writes committed atomically. A batch holds at most
// MaxBatchWrites writes.
type Batch interface {
	// UpdateRecipe adds an update of an existing recipe to the batch.
	UpdateRecipe(id string, updates ...Update) error

	// Len returns the number of writes in the batch.
	Len() int

	// Commit applies all writes in the batch or none of them.
	Commit(ctx context.Context) error
}

// Store is the document store.
type Store interface {
	// RunTransaction runs f in a transaction, retrying it with fresh reads
	// on conflict up to a bounded number of attempts.
	RunTransaction(ctx context.Context, f func(ctx context.Context, tx Tx) error) error

	// NewBatch returns an empty batch.
	NewBatch() Batch

	// CreateRecipe creates a recipe with r.ID, or a generated ID when empty,
	// and returns the ID.
	CreateRecipe(ctx context.Context, r *hamatcondb.Recipe) (string, error)

	// DeleteRecipe deletes a recipe and its ratings, returning ErrNotFound if
	// it does not exist. Favorites of the recipe are left to their users.
	DeleteRecipe(ctx context.Context, id string) error

	// Recipe reads a recipe, returning ErrNotFound if it does not exist.
	Recipe(ctx context.Context, id string) (*hamatcondb.Recipe, error)

	// Recipes returns recipes owned by ownerUID, or all recipes when empty.
	Recipes(ctx context.Context, ownerUID string) ([]*hamatcondb.Recipe, error)

	// Rating reads a user's rating of a recipe, nil if not rated.
	Rating(ctx context.Context, recipeID string, userID string) (*hamatcondb.Rating, error)

	// Favorites returns a user's favorites, most recent first.
	Favorites(ctx context.Context, userID string) ([]*hamatcondb.Favorite, error)

	// WatchRecipes calls fn with the full result of Recipes(ownerUID) now and
	// whenever it changes, until ctx is done. fn is never called after
	// WatchRecipes returns.
	WatchRecipes(ctx context.Context, ownerUID string, fn func([]*hamatcondb.Recipe)) error

	// WatchFavorites calls fn with the full result of Favorites(userID) now
	// and whenever it changes, until ctx is done. fn is never called after
	// WatchFavorites returns.
	WatchFavorites(ctx context.Context, userID string, fn func([]*hamatcondb.Favorite)) error
}
