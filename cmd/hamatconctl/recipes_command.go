// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/curioswitch/hamatcon/common/autofill"
	"github.com/curioswitch/hamatcon/common/search"
)

func newRecipesCommand(ctx *commandContext) *cobra.Command {
	var owner string
	var cuisine string
	var query string

	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "List recipes with their inferred fields and aggregates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeStore, err := ctx.store(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			recipes, err := store.Recipes(cmd.Context(), owner)
			if err != nil {
				return err
			}
			recipes = search.Filter(recipes, cuisine, nil, query)

			rows := make([][]string, len(recipes))
			for i, r := range recipes {
				rows[i] = []string{
					r.ID,
					r.Name,
					r.Cuisine,
					autofill.FormatCookTime(r.CookTime),
					string(r.Difficulty),
					strconv.FormatInt(r.FavoritesCount, 10),
					fmt.Sprintf("%.2f (%d)", r.AverageRating(), r.RatingCount),
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "Cuisine", "Cook time", "Difficulty", "Favorites", "Rating"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignRight},
			))
			fmt.Fprintf(cmd.OutOrStdout(), "%d recipes\n", len(recipes))
			return nil
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "Only list recipes with this ownerUid")
	cmd.Flags().StringVar(&cuisine, "cuisine", search.AllCuisines, "Only list recipes of this cuisine")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Only list recipes with all of these ingredients")

	return cmd
}
