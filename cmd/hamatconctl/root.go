// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	firebase "firebase.google.com/go/v4"
	"github.com/gocolly/colly/v2"
	"github.com/spf13/cobra"

	"github.com/curioswitch/hamatcon/common/docstore"
)

type commandContext struct {
	project string

	// collector is the base collector for fetching recipe pages.
	collector *colly.Collector

	// openStore opens the store of the project, returning a function to
	// close it.
	openStore func(ctx context.Context, project string) (docstore.Store, func(), error)
}

func newCommandContext() *commandContext {
	return &commandContext{
		collector: newCollector(),
		openStore: openFirestore,
	}
}

func (c *commandContext) store(ctx context.Context) (docstore.Store, func(), error) {
	if c.project == "" {
		return nil, nil, errors.New("--project is required")
	}
	return c.openStore(ctx, c.project)
}

func newRootCommand(ctx *commandContext) *cobra.Command {
	root := &cobra.Command{
		Use:           "hamatconctl",
		Short:         "Administer hamatcon recipes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&ctx.project, "project", "", "Google Cloud project of the Firestore database")

	root.AddCommand(newBackfillCommand(ctx))
	root.AddCommand(newImportCommand(ctx))
	root.AddCommand(newRecipesCommand(ctx))
	root.AddCommand(newWatchCommand(ctx))

	return root
}

func openFirestore(ctx context.Context, project string) (docstore.Store, func(), error) {
	fbApp, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: project})
	if err != nil {
		return nil, nil, fmt.Errorf("create firebase app: %w", err)
	}
	client, err := fbApp.Firestore(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("create firestore client: %w", err)
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			slog.ErrorContext(ctx, "close firestore client", "error", err)
		}
	}
	return docstore.NewFirestore(client), closeFn, nil
}
