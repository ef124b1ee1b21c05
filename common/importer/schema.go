// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package importer

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/curioswitch/hamatcon/common/hamatcondb"
)

// recipeSchema is a schema.org Recipe. Most fields take several shapes in
// the wild so they are decoded lazily.
type recipeSchema struct {
	Type               json.RawMessage `json:"@type"`
	Name               string          `json:"name"`
	RecipeCuisine      json.RawMessage `json:"recipeCuisine"`
	RecipeIngredient   []string        `json:"recipeIngredient"`
	RecipeInstructions json.RawMessage `json:"recipeInstructions"`
	Image              json.RawMessage `json:"image"`
}

type graphSchema struct {
	Graph []json.RawMessage `json:"@graph"`
}

// howToSchema is a HowToStep or a HowToSection of steps.
type howToSchema struct {
	Text            string            `json:"text"`
	ItemListElement []json.RawMessage `json:"itemListElement"`
}

type imageSchema struct {
	URL string `json:"url"`
}

// parseLDJSON returns the first Recipe in the contents of a JSON-LD script,
// which may be a single object, an array of objects or a @graph.
func parseLDJSON(data []byte) (*recipeSchema, bool) {
	var nodes []json.RawMessage
	if err := json.Unmarshal(data, &nodes); err != nil {
		nodes = []json.RawMessage{data}
	}

	for _, node := range nodes {
		var graph graphSchema
		if err := json.Unmarshal(node, &graph); err == nil && len(graph.Graph) > 0 {
			for _, g := range graph.Graph {
				if r, ok := parseRecipe(g); ok {
					return r, true
				}
			}
			continue
		}
		if r, ok := parseRecipe(node); ok {
			return r, true
		}
	}
	return nil, false
}

func parseRecipe(node json.RawMessage) (*recipeSchema, bool) {
	var r recipeSchema
	if err := json.Unmarshal(node, &r); err != nil {
		return nil, false
	}
	if !slices.Contains(stringOrList(r.Type), "Recipe") {
		return nil, false
	}
	return &r, true
}

// toRecipe converts the schema to a recipe as written by the bulk importer,
// with no inferred fields or aggregates.
func (r *recipeSchema) toRecipe() *hamatcondb.Recipe {
	var ingredients []string
	for _, ing := range r.RecipeIngredient {
		if ing = strings.TrimSpace(ing); ing != "" {
			ingredients = append(ingredients, ing)
		}
	}

	cuisine := ""
	if c := stringOrList(r.RecipeCuisine); len(c) > 0 {
		cuisine = c[0]
	}

	recipe := &hamatcondb.Recipe{
		Name:         strings.TrimSpace(r.Name),
		Cuisine:      cuisine,
		Instructions: strings.Join(instructions(r.RecipeInstructions), "\n"),
		Ingredients:  ingredients,
		ImageURL:     imageURL(r.Image),
		OwnerUID:     hamatcondb.OwnerSeed,
	}
	recipe.Sanitize()
	return recipe
}

func stringOrList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return []string{strings.TrimSpace(s)}
	}
	var l []string
	if err := json.Unmarshal(raw, &l); err == nil {
		return l
	}
	return nil
}

// instructions flattens strings, HowToSteps and HowToSections into one
// step per element.
func instructions(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return nonEmpty(strings.TrimSpace(s))
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return steps(items)
}

func steps(items []json.RawMessage) []string {
	var res []string
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			res = append(res, nonEmpty(strings.TrimSpace(s))...)
			continue
		}
		var step howToSchema
		if err := json.Unmarshal(item, &step); err != nil {
			continue
		}
		if len(step.ItemListElement) > 0 {
			res = append(res, steps(step.ItemListElement)...)
			continue
		}
		res = append(res, nonEmpty(strings.TrimSpace(step.Text))...)
	}
	return res
}

func imageURL(raw json.RawMessage) string {
	if l := stringOrList(raw); len(l) > 0 {
		return l[0]
	}
	var img imageSchema
	if err := json.Unmarshal(raw, &img); err == nil && img.URL != "" {
		return img.URL
	}
	var imgs []imageSchema
	if err := json.Unmarshal(raw, &imgs); err == nil && len(imgs) > 0 {
		return imgs[0].URL
	}
	return ""
}

func nonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}
