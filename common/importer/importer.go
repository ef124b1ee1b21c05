// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package importer imports recipes from web pages publishing schema.org
// Recipe JSON-LD. Imported recipes are owned by hamatcondb.OwnerSeed and have
// no cook time or difficulty until backfilled.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gocolly/colly/v2"
	"github.com/google/uuid"
	"github.com/wandb/parallel"

	"github.com/curioswitch/hamatcon/common/docstore"
	"github.com/curioswitch/hamatcon/common/hamatcondb"
)

// ErrNoRecipe is returned when a page has no Recipe JSON-LD.
var ErrNoRecipe = errors.New("importer: no recipe found on page")

// DefaultConcurrency is the number of pages fetched at once by ImportAll.
const DefaultConcurrency = 4

func NewImporter(baseCollector *colly.Collector, store docstore.Store) *Importer {
	return &Importer{
		baseCollector: baseCollector,
		store:         store,
	}
}

type Importer struct {
	baseCollector *colly.Collector
	store         docstore.Store
}

// Result is the outcome of importing one page.
type Result struct {
	URL string

	// RecipeID is the ID of the recipe of the page.
	RecipeID string

	// Created is false if the page had already been imported.
	Created bool

	Err error
}

// RecipeID returns the ID of the recipe imported from url. Importing the
// same page again always maps to the same recipe.
func RecipeID(url string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(url)).String()
}

// Scrape fetches the page at url and returns the recipe it describes.
func (i *Importer) Scrape(ctx context.Context, url string) (*hamatcondb.Recipe, error) {
	// Avoid clone since we don't want to share storage.
	c := colly.NewCollector(
		colly.UserAgent(i.baseCollector.UserAgent),
		colly.StdlibContext(ctx),
	)

	var recipe *hamatcondb.Recipe
	c.OnHTML(`script[type="application/ld+json"]`, func(e *colly.HTMLElement) {
		if recipe != nil {
			return
		}
		schema, ok := parseLDJSON([]byte(e.Text))
		if !ok {
			return
		}
		recipe = schema.toRecipe()
	})

	if err := c.Visit(url); err != nil {
		return nil, fmt.Errorf("importer: scraping %s: %w", url, err)
	}
	if recipe == nil || recipe.Name == "" {
		return nil, fmt.Errorf("importer: scraping %s: %w", url, ErrNoRecipe)
	}
	recipe.ID = RecipeID(url)
	return recipe, nil
}

// Import scrapes the page at url and creates its recipe unless it was
// imported before.
func (i *Importer) Import(ctx context.Context, url string) Result {
	res := Result{URL: url, RecipeID: RecipeID(url)}

	if _, err := i.store.Recipe(ctx, res.RecipeID); err == nil {
		return res
	} else if !errors.Is(err, docstore.ErrNotFound) {
		res.Err = fmt.Errorf("importer: checking existing recipe: %w", err)
		return res
	}

	recipe, err := i.Scrape(ctx, url)
	if err != nil {
		res.Err = err
		return res
	}

	if _, err := i.store.CreateRecipe(ctx, recipe); err != nil {
		if errors.Is(err, docstore.ErrAlreadyExists) {
			return res
		}
		res.Err = fmt.Errorf("importer: creating recipe: %w", err)
		return res
	}
	res.Created = true
	slog.InfoContext(ctx, "importer: imported recipe", "url", url, "id", recipe.ID, "name", recipe.Name)
	return res
}

// ImportAll imports every page with up to concurrency fetches at once. A
// failure of one page does not stop the others.
func (i *Importer) ImportAll(ctx context.Context, urls []string, concurrency int) []Result {
	results := make([]Result, len(urls))

	grp := parallel.ErrGroup(parallel.Limited(ctx, max(concurrency, 1)))
	for idx, url := range urls {
		grp.Go(func(ctx context.Context) error {
			results[idx] = i.Import(ctx, url)
			return nil
		})
	}
	_ = grp.Wait()

	for idx, url := range urls {
		if results[idx].URL == "" {
			results[idx] = Result{URL: url, RecipeID: RecipeID(url), Err: ctx.Err()}
		}
	}
	return results
}
