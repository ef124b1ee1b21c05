// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/curioswitch/hamatcon/common/autofill"
	"github.com/curioswitch/hamatcon/common/hamatcondb"
	"github.com/curioswitch/hamatcon/common/search"
	"github.com/curioswitch/hamatcon/common/session"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var user string
	var owner string
	var cuisine string
	var query string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print recipes again whenever they change, until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeStore, err := ctx.store(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			changed := make(chan struct{}, 1)
			opts := []session.Option{
				session.WithOwner(owner),
				session.OnChange(func() {
					select {
					case changed <- struct{}{}:
					default:
					}
				}),
			}
			if user != "" {
				opts = append(opts, session.WithUser(user))
			}
			list := session.NewRecipeList(store, opts...)
			list.SetFilter(search.Criteria{Cuisine: cuisine, Query: query})

			if err := list.Attach(cmd.Context()); err != nil {
				return err
			}
			for {
				select {
				case <-cmd.Context().Done():
					return list.Detach()
				case <-changed:
					printWatched(cmd.OutOrStdout(), list.View(), list.IsFavorite)
				}
			}
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "Mark recipes favorited by this user")
	cmd.Flags().StringVar(&owner, "owner", "", "Only watch recipes with this ownerUid")
	cmd.Flags().StringVar(&cuisine, "cuisine", search.AllCuisines, "Only show recipes of this cuisine")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Only show recipes with all of these ingredients")

	return cmd
}

func printWatched(out io.Writer, recipes []*hamatcondb.Recipe, favorited func(id string) bool) {
	rows := make([][]string, len(recipes))
	for i, r := range recipes {
		fav := ""
		if favorited(r.ID) {
			fav = "*"
		}
		rows[i] = []string{
			fav,
			r.ID,
			r.Name,
			autofill.FormatCookTime(r.CookTime),
			strconv.FormatInt(r.FavoritesCount, 10),
			fmt.Sprintf("%.2f (%d)", r.AverageRating(), r.RatingCount),
		}
	}
	fmt.Fprintln(out, renderTable(
		[]string{"", "ID", "Name", "Cook time", "Favorites", "Rating"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
	))
	fmt.Fprintf(out, "%d recipes\n", len(recipes))
}
