// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package autofill

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/curioswitch/hamatcon/common/hamatcondb"
)

func TestEstimateCookTime(t *testing.T) {
	tests := []struct {
		name         string
		instructions string
		ingredients  []string
		want         int
		wantOK       bool
	}{
		{
			name:         "explicit hours with braise and beef floors",
			instructions: "Braise for 2 hours until tender.",
			ingredients:  []string{"beef chuck", "onion"},
			want:         120,
			wantOK:       true,
		},
		{
			name:         "no hints uses generic baseline",
			instructions: "Mix and serve.",
			ingredients:  []string{"lettuce", "tomato"},
			want:         15,
			wantOK:       true,
		},
		{
			name:         "explicit minutes",
			instructions: "Simmer the sauce 25 minutes, stirring.",
			ingredients:  []string{"tomatoes"},
			want:         25,
			wantOK:       true,
		},
		{
			name:         "patterns are summed independently",
			instructions: "Cook 1h 30m.",
			want:         180,
			wantOK:       true,
		},
		{
			name:         "bake baseline",
			instructions: "Bake until golden.",
			want:         40,
			wantOK:       true,
		},
		{
			name:         "stew baseline",
			instructions: "Stew everything slowly.",
			want:         75,
			wantOK:       true,
		},
		{
			name:         "grill baseline",
			instructions: "Grill over high heat.",
			want:         20,
			wantOK:       true,
		},
		{
			name:         "accented saute baseline",
			instructions: "Sauté the onions.",
			want:         12,
			wantOK:       true,
		},
		{
			name:         "boil baseline",
			instructions: "Boil the eggs.",
			want:         20,
			wantOK:       true,
		},
		{
			name:         "chicken thighs floor",
			instructions: "Grill over high heat.",
			ingredients:  []string{"4 chicken thighs"},
			want:         45,
			wantOK:       true,
		},
		{
			name:         "chicken breast floor",
			instructions: "Toss together.",
			ingredients:  []string{"1 chicken breast"},
			want:         25,
			wantOK:       true,
		},
		{
			name:         "dried legumes floor",
			instructions: "Cook 10 min.",
			ingredients:  []string{"2 cups dried beans"},
			want:         60,
			wantOK:       true,
		},
		{
			name:         "rice floor",
			instructions: "Cook 5 min.",
			ingredients:  []string{"1 cup rice"},
			want:         18,
			wantOK:       true,
		},
		{
			name:         "pasta floor below explicit time",
			instructions: "Cook 12 min.",
			ingredients:  []string{"200 g spaghetti"},
			want:         12,
			wantOK:       true,
		},
		{
			name:         "marinate floor",
			instructions: "Marinate, then cook 5 min.",
			want:         30,
			wantOK:       true,
		},
		{
			name:         "deep fry floor",
			instructions: "Deep-fry 4 min.",
			want:         15,
			wantOK:       true,
		},
		{
			name:         "zero explicit time",
			instructions: "Rest 0 min.",
			want:         0,
			wantOK:       false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := EstimateCookTime(tc.instructions, tc.ingredients)
			require.Equal(t, tc.wantOK, ok)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestEstimateCookTimeFloors(t *testing.T) {
	instructions := []string{
		"",
		"Mix and serve.",
		"Cook 2 min.",
		"Stir-fry quickly.",
		"Rest 0 min.",
	}
	floors := []struct {
		ingredient string
		minutes    int
	}{
		{ingredient: "beef", minutes: 30},
		{ingredient: "500g sirloin", minutes: 30},
		{ingredient: "lamb shoulder", minutes: 45},
		{ingredient: "pork belly", minutes: 35},
		{ingredient: "whole chicken", minutes: 45},
		{ingredient: "chicken", minutes: 25},
		{ingredient: "turkey", minutes: 40},
		{ingredient: "chickpeas (dry)", minutes: 60},
		{ingredient: "risotto rice", minutes: 18},
		{ingredient: "penne", minutes: 10},
	}

	for _, f := range floors {
		for _, in := range instructions {
			got, ok := EstimateCookTime(in, []string{"salt", f.ingredient})
			require.True(t, ok)
			require.GreaterOrEqual(t, got, f.minutes, "%q with %q", in, f.ingredient)
		}
	}
}

func TestCountSteps(t *testing.T) {
	tests := []struct {
		name         string
		instructions string
		want         int
	}{
		{name: "lines", instructions: "Chop.\nFry.\n\n  \nServe.", want: 3},
		{name: "sentences", instructions: "Chop the onion. Fry it! Done? Serve", want: 4},
		{name: "single sentence", instructions: "Braise for 2 hours until tender.", want: 1},
		{name: "one line with trailing newline", instructions: "Chop. Fry.\n", want: 2},
		{name: "empty", instructions: "", want: 1},
		{name: "decimal is not a sentence end", instructions: "Add 1.5 cups. Stir.", want: 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, CountSteps(tc.instructions))
		})
	}
}

func TestEstimateDifficulty(t *testing.T) {
	tests := []struct {
		name            string
		ingredientCount int
		steps           int
		cookMinutes     int
		recipeName      string
		ingredients     []string
		want            hamatcondb.Difficulty
	}{
		{
			name:            "simple salad",
			ingredientCount: 2,
			steps:           1,
			cookMinutes:     15,
			recipeName:      "Salad",
			ingredients:     []string{"lettuce", "tomato"},
			want:            hamatcondb.DifficultyEasy,
		},
		{
			name:            "large beef recipe",
			ingredientCount: 16,
			steps:           13,
			cookMinutes:     95,
			recipeName:      "Beef Wellington",
			ingredients:     []string{"beef"},
			want:            hamatcondb.DifficultyHard,
		},
		{
			name:            "beef is never easy",
			ingredientCount: 3,
			steps:           2,
			cookMinutes:     20,
			recipeName:      "Steak",
			ingredients:     []string{"steak", "salt", "pepper"},
			want:            hamatcondb.DifficultyMedium,
		},
		{
			name:            "accented technique keyword",
			ingredientCount: 10,
			steps:           3,
			cookMinutes:     30,
			recipeName:      "Cheese Soufflé",
			ingredients:     []string{"eggs"},
			want:            hamatcondb.DifficultyMedium,
		},
		{
			name:            "without technique keyword",
			ingredientCount: 10,
			steps:           3,
			cookMinutes:     30,
			recipeName:      "Cheese Omelette",
			ingredients:     []string{"eggs"},
			want:            hamatcondb.DifficultyEasy,
		},
		{
			name:            "medium upper bound",
			ingredientCount: 15,
			steps:           8,
			cookMinutes:     0,
			recipeName:      "Vegetable Curry",
			want:            hamatcondb.DifficultyMedium,
		},
		{
			name:            "hard lower bound",
			ingredientCount: 15,
			steps:           12,
			cookMinutes:     0,
			recipeName:      "Vegetable Curry",
			want:            hamatcondb.DifficultyHard,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := EstimateDifficulty(tc.ingredientCount, tc.steps, tc.cookMinutes, tc.recipeName, tc.ingredients)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestEnrich(t *testing.T) {
	res := Enrich("Beef stew", "Braise for 2 hours until tender.", []string{"beef chuck", "onion"})
	require.Equal(t, Result{
		Steps:       1,
		CookMinutes: 120,
		CookTime:    "120 min",
		Difficulty:  hamatcondb.DifficultyMedium,
	}, res)

	res = Enrich("Salad", "Mix and serve.", []string{"lettuce", "tomato"})
	require.Equal(t, "15 min", res.CookTime)
	require.Equal(t, hamatcondb.DifficultyEasy, res.Difficulty)

	res = Enrich("Nothing", "Rest 0 min.", nil)
	require.Zero(t, res.CookMinutes)
	require.Empty(t, res.CookTime)
	require.Equal(t, hamatcondb.DifficultyEasy, res.Difficulty)
}

func TestEnrichIsIdempotent(t *testing.T) {
	inputs := []struct {
		name         string
		instructions string
		ingredients  []string
	}{
		{name: "Beef stew", instructions: "Braise for 2 hours until tender.", ingredients: []string{"beef chuck", "onion"}},
		{name: "Risotto", instructions: "Toast rice.\nAdd stock slowly.\nStir 20 minutes.", ingredients: []string{"arborio rice", "stock", "parmesan"}},
		{name: "", instructions: "", ingredients: nil},
	}

	for _, in := range inputs {
		first := Enrich(in.name, in.instructions, in.ingredients)
		for range 3 {
			require.Equal(t, first, Enrich(in.name, in.instructions, in.ingredients))
		}
	}
}

func TestEnrichRecipe(t *testing.T) {
	r := &hamatcondb.Recipe{
		Name:         "Salad",
		Instructions: "Mix and serve.",
		Ingredients:  []string{"lettuce"},
		CookTime:     "5 min",
	}
	EnrichRecipe(r)
	require.Equal(t, "5 min", r.CookTime)
	require.Equal(t, hamatcondb.DifficultyEasy, r.Difficulty)

	r = &hamatcondb.Recipe{Name: "Salad", CookTime: "1 min", Difficulty: hamatcondb.DifficultyHard}
	EnrichRecipe(r)
	require.Equal(t, "1 min", r.CookTime)
	require.Equal(t, hamatcondb.DifficultyHard, r.Difficulty)
}

func TestFormatCookTime(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "45 min", want: "45 min"},
		{raw: "60 min", want: "1 hr"},
		{raw: "95 min", want: "1 hr 35 min"},
		{raw: "120", want: "2 hr"},
		{raw: "", want: ""},
		{raw: "a while", want: "a while"},
	}

	for _, tc := range tests {
		require.Equal(t, tc.want, FormatCookTime(tc.raw), "raw %q", tc.raw)
	}
}
