// Copyright (c) Choko (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package config

import (
	"github.com/curioswitch/go-curiostack/config"
)

type Store struct {
	// InMemory serves from an in-memory store instead of Firestore, for local runs.
	InMemory bool `koanf:"inmemory"`
}

type Search struct {
	// SuggestionLimit is the maximum number of ingredient suggestions returned.
	SuggestionLimit int `koanf:"suggestionlimit"`
}

type Backfill struct {
	// Owner is the default ownerUid of recipes to backfill, e.g. seed.
	Owner string `koanf:"owner"`
}

type Config struct {
	config.Common

	// Store is the configuration for the document store.
	Store Store `koanf:"store"`

	// Search is the configuration for search.
	Search Search `koanf:"search"`

	// Backfill is the configuration for backfilling recipes.
	Backfill Backfill `koanf:"backfill"`
}
