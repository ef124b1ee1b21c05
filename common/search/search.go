// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package search filters recipe lists by cuisine and ingredients and builds
// ingredient autocomplete suggestions.
package search

import (
	"slices"
	"strings"

	"github.com/curioswitch/hamatcon/common/hamatcondb"
	"github.com/curioswitch/hamatcon/common/ingredient"
)

// AllCuisines is the cuisine filter matching every recipe.
const AllCuisines = "All"

// Criteria are the filters selected in a recipe list.
type Criteria struct {
	// Cuisine is the selected cuisine, AllCuisines or empty for any.
	Cuisine string

	// Chips are selected ingredients, all of which must be in a recipe.
	Chips []string

	// Query is free text of comma or space separated ingredients, all of
	// which must be in a recipe.
	Query string
}

// Filter returns the recipes matching all of the cuisine, every chip and
// every query token, in their original order. A chip or token matches a
// recipe when its normalized form is a substring of any of the recipe's
// normalized ingredients.
func Filter(recipes []*hamatcondb.Recipe, cuisine string, chips []string, query string) []*hamatcondb.Recipe {
	var needles []string
	for _, c := range chips {
		if n := ingredient.Normalize(c); n != "" {
			needles = append(needles, n)
		}
	}
	needles = append(needles, ingredient.Tokens(query)...)

	res := []*hamatcondb.Recipe{}
	for _, r := range recipes {
		if !matchesCuisine(r, cuisine) {
			continue
		}
		if !containsAll(ingredient.NormalizeAll(r.Ingredients), needles) {
			continue
		}
		res = append(res, r)
	}
	return res
}

// Apply filters recipes by c.
func (c Criteria) Apply(recipes []*hamatcondb.Recipe) []*hamatcondb.Recipe {
	return Filter(recipes, c.Cuisine, c.Chips, c.Query)
}

func matchesCuisine(r *hamatcondb.Recipe, cuisine string) bool {
	if cuisine == "" || cuisine == AllCuisines {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(r.Cuisine), strings.TrimSpace(cuisine))
}

func containsAll(ingredients []string, needles []string) bool {
	for _, n := range needles {
		found := slices.ContainsFunc(ingredients, func(ing string) bool {
			return strings.Contains(ing, n)
		})
		if !found {
			return false
		}
	}
	return true
}

// Autocomplete returns the sorted distinct normalized ingredients of all
// recipes.
func Autocomplete(recipes []*hamatcondb.Recipe) []string {
	var res []string
	for _, r := range recipes {
		for _, ing := range r.Ingredients {
			if n := ingredient.Normalize(ing); n != "" {
				res = append(res, n)
			}
		}
	}
	slices.Sort(res)
	return slices.Compact(res)
}

// Suggest returns up to limit entries of an Autocomplete index containing
// the normalized prefix, entries starting with it first. A non-positive limit
// returns all matches.
func Suggest(index []string, prefix string, limit int) []string {
	p := ingredient.Normalize(prefix)
	if p == "" {
		return nil
	}

	var starts, contains []string
	for _, entry := range index {
		switch {
		case strings.HasPrefix(entry, p):
			starts = append(starts, entry)
		case strings.Contains(entry, p):
			contains = append(contains, entry)
		}
	}
	res := append(starts, contains...)
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res
}

// Cuisines returns AllCuisines followed by the sorted distinct cuisines of
// the recipes, ignoring blank ones. Cuisines differing only in case are
// listed once, as first seen.
func Cuisines(recipes []*hamatcondb.Recipe) []string {
	seen := map[string]struct{}{}
	var names []string
	for _, r := range recipes {
		c := strings.TrimSpace(r.Cuisine)
		if c == "" {
			continue
		}
		key := strings.ToLower(c)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, c)
	}
	slices.SortFunc(names, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return append([]string{AllCuisines}, names...)
}
