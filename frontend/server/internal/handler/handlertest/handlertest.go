// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package handlertest sets up stores and users for handler tests.
package handlertest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/curioswitch/hamatcon/common/docstore"
	"github.com/curioswitch/hamatcon/common/hamatcondb"
	"github.com/curioswitch/hamatcon/frontend/server/internal/auth"
)

// Context returns a test context signed in as uid.
func Context(t *testing.T, uid string) context.Context {
	t.Helper()
	return auth.WithUser(t.Context(), auth.User{UID: uid, Email: uid + "@example.com"})
}

// AdminContext returns a test context signed in as a CurioSwitch user.
func AdminContext(t *testing.T) context.Context {
	t.Helper()
	return auth.WithUser(t.Context(), auth.User{UID: "admin", Email: "choko@curioswitch.org"})
}

// Store returns an in-memory store with seeded recipes.
func Store(t *testing.T) *docstore.Memory {
	t.Helper()

	store := docstore.NewMemory()
	for _, r := range []*hamatcondb.Recipe{
		{
			ID:           "caprese",
			Name:         "Caprese",
			Cuisine:      "Italian",
			Instructions: "Slice and serve.",
			Ingredients:  []string{"2 roma tomatoes", "salt", "4 oz mozzarella"},
			OwnerUID:     hamatcondb.OwnerSeed,
		},
		{
			ID:           "stew",
			Name:         "Beef stew",
			Cuisine:      "French",
			Instructions: "Braise for 2 hours until tender.",
			Ingredients:  []string{"2 lbs beef chuck", "1 onion"},
			OwnerUID:     hamatcondb.OwnerSeed,
		},
		{
			ID:          "toast",
			Name:        "Toast",
			Cuisine:     "British",
			Ingredients: []string{"bread", "butter"},
			CookTime:    "5 min",
			Difficulty:  hamatcondb.DifficultyEasy,
			OwnerUID:    "u1",
		},
	} {
		_, err := store.CreateRecipe(t.Context(), r)
		require.NoError(t, err)
	}
	return store
}
