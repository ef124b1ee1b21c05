// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package backfill recomputes the inferred cook time and difficulty of
// existing recipes in bulk.
package backfill

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/curioswitch/hamatcon/common/autofill"
	"github.com/curioswitch/hamatcon/common/docstore"
	"github.com/curioswitch/hamatcon/common/hamatcondb"
)

// MaxBatchOps is the number of recipe updates committed together, below the
// store's limit of docstore.MaxBatchWrites.
const MaxBatchOps = 450

// BatchError is returned when committing a batch fails. Batches committed
// before it stay applied.
type BatchError struct {
	// Committed is the number of recipes updated by earlier batches.
	Committed int

	// Unapplied is the number of recipes not updated.
	Unapplied int

	// Err is the error committing the batch.
	Err error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("backfill: committing batch: %d recipes updated, %d not updated: %v", e.Committed, e.Unapplied, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// Backfiller updates recipes with inferred fields.
type Backfiller struct {
	store     docstore.Store
	batchSize int
}

// Option configures a Backfiller.
type Option func(*Backfiller)

// WithBatchSize sets the number of updates per batch, capped at MaxBatchOps.
func WithBatchSize(n int) Option {
	return func(b *Backfiller) {
		b.batchSize = min(max(n, 1), MaxBatchOps)
	}
}

// NewBackfiller returns a Backfiller writing to store.
func NewBackfiller(store docstore.Store, opts ...Option) *Backfiller {
	b := &Backfiller{
		store:     store,
		batchSize: MaxBatchOps,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Run sets the cook time and difficulty of every recipe owned by ownerUID,
// or of all recipes when empty, and returns the number updated. Existing
// values are overwritten. Running again on unchanged recipes writes the same
// values, so a failed run can simply be retried.
func (b *Backfiller) Run(ctx context.Context, ownerUID string) (int, error) {
	recipes, err := b.store.Recipes(ctx, ownerUID)
	if err != nil {
		return 0, fmt.Errorf("backfill: listing recipes: %w", err)
	}

	committed := 0
	batch := b.store.NewBatch()
	commit := func() error {
		n := batch.Len()
		if err := batch.Commit(ctx); err != nil {
			return &BatchError{
				Committed: committed,
				Unapplied: len(recipes) - committed,
				Err:       err,
			}
		}
		committed += n
		slog.InfoContext(ctx, "backfill: committed batch", "size", n, "committed", committed, "total", len(recipes))
		batch = b.store.NewBatch()
		return nil
	}

	for _, r := range recipes {
		res := autofill.Enrich(r.Name, r.Instructions, r.Ingredients)
		if err := batch.UpdateRecipe(r.ID,
			docstore.Set(hamatcondb.FieldCookTime, res.CookTime),
			docstore.Set(hamatcondb.FieldDifficulty, string(res.Difficulty)),
		); err != nil {
			return committed, fmt.Errorf("backfill: adding recipe %s to batch: %w", r.ID, err)
		}
		if batch.Len() >= b.batchSize {
			if err := commit(); err != nil {
				return committed, err
			}
		}
	}

	if batch.Len() > 0 {
		if err := commit(); err != nil {
			return committed, err
		}
	}

	return committed, nil
}
