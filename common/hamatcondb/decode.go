// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package hamatcondb

import (
	"math"
	"slices"
	"time"
)

// RecipeFromData decodes the fields of a recipe document. Documents are
// written by several clients, so a field with an unexpected type is left at
// its zero value instead of failing the document. The names of such fields
// are returned for logging.
func RecipeFromData(id string, data map[string]any) (*Recipe, []string) {
	d := decoder{data: data}
	r := &Recipe{
		ID:             id,
		Name:           d.string(FieldName),
		Cuisine:        d.string(FieldCuisine),
		Instructions:   d.string(FieldInstructions),
		Ingredients:    d.strings(FieldIngredients),
		CookTime:       d.string(FieldCookTime),
		Difficulty:     Difficulty(d.string(FieldDifficulty)),
		FavoritesCount: d.int(FieldFavoritesCount),
		RatingSum:      d.int(FieldRatingSum),
		RatingCount:    d.int(FieldRatingCount),
		OwnerUID:       d.string(FieldOwnerUID),
		ImageURL:       d.string(FieldImageURL),
		CreatedAt:      d.time("createdAt"),
	}
	r.Sanitize()
	return r, d.invalid
}

// FavoriteFromData decodes the fields of a favorite document like
// RecipeFromData.
func FavoriteFromData(recipeID string, data map[string]any) (*Favorite, []string) {
	d := decoder{data: data}
	f := &Favorite{
		RecipeID:  recipeID,
		Saved:     d.bool("saved"),
		CreatedAt: d.time("ts"),
	}
	return f, d.invalid
}

// RatingFromData decodes the fields of a rating document like
// RecipeFromData. The value is clamped to the valid range.
func RatingFromData(data map[string]any) (*Rating, []string) {
	d := decoder{data: data}
	r := &Rating{
		Value2:    min(max(d.int("value2"), MinRatingUnits), MaxRatingUnits),
		UpdatedAt: d.time("ts"),
	}
	return r, d.invalid
}

type decoder struct {
	data    map[string]any
	invalid []string
}

// get returns the value of a present, non-null field.
func (d *decoder) get(field string) (any, bool) {
	v, ok := d.data[field]
	return v, ok && v != nil
}

func (d *decoder) fail(field string) {
	d.invalid = append(d.invalid, field)
}

func (d *decoder) string(field string) string {
	v, ok := d.get(field)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		d.fail(field)
	}
	return s
}

func (d *decoder) strings(field string) []string {
	v, ok := d.get(field)
	if !ok {
		return nil
	}
	l, ok := v.([]any)
	if !ok {
		d.fail(field)
		return nil
	}
	res := make([]string, 0, len(l))
	for _, e := range l {
		if s, ok := e.(string); ok {
			res = append(res, s)
		}
	}
	if len(res) != len(l) {
		d.fail(field)
	}
	return slices.Clip(res)
}

func (d *decoder) int(field string) int64 {
	v, ok := d.get(field)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int64:
		return n
	case float64:
		if math.Abs(n) < 1<<62 {
			return int64(math.Round(n))
		}
	}
	d.fail(field)
	return 0
}

func (d *decoder) bool(field string) bool {
	v, ok := d.get(field)
	if !ok {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		d.fail(field)
	}
	return b
}

func (d *decoder) time(field string) time.Time {
	v, ok := d.get(field)
	if !ok {
		return time.Time{}
	}
	t, ok := v.(time.Time)
	if !ok {
		d.fail(field)
	}
	return t
}
