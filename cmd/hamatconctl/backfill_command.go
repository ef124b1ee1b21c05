// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/curioswitch/hamatcon/common/backfill"
	"github.com/curioswitch/hamatcon/common/hamatcondb"
)

func newBackfillCommand(ctx *commandContext) *cobra.Command {
	var owner string
	var all bool
	var batchSize int

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Infer cook time and difficulty of existing recipes",
		Long: "Recomputes the cook time and difficulty of recipes, by default those\n" +
			"bulk-imported with owner seed. Safe to run again after a failure.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeStore, err := ctx.store(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			if all {
				owner = ""
			}
			n, err := backfill.NewBackfiller(store, backfill.WithBatchSize(batchSize)).Run(cmd.Context(), owner)
			if err != nil {
				var be *backfill.BatchError
				if errors.As(err, &be) {
					fmt.Fprintf(cmd.ErrOrStderr(), "Updated %d recipes, %d not updated. Run again to retry.\n", be.Committed, be.Unapplied)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d recipes\n", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&owner, "owner", hamatcondb.OwnerSeed, "ownerUid of recipes to backfill")
	cmd.Flags().BoolVar(&all, "all", false, "Backfill recipes of all owners")
	cmd.Flags().IntVar(&batchSize, "batch-size", backfill.MaxBatchOps, "Updates per batch commit")

	return cmd
}
