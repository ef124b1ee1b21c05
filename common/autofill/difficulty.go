// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package autofill

import (
	"strings"

	"github.com/curioswitch/hamatcon/common/hamatcondb"
	"github.com/curioswitch/hamatcon/common/ingredient"
)

var beefKeywords = []string{"beef", "steak", "brisket", "chuck", "sirloin"}

var advancedTechniques = []string{
	"emulsify", "temper", "caramelize", "poach", "confit", "hollandaise", "souffle", "proof",
}

var proteins = []string{"beef", "pork", "lamb"}

// EstimateDifficulty labels a recipe Easy, Medium or Hard by scoring its size,
// length and cook time along with keywords in its name and ingredients.
// Recipes with beef are never Easy.
func EstimateDifficulty(ingredientCount int, steps int, cookMinutes int, name string, ingredients []string) hamatcondb.Difficulty {
	text := ingredient.Fold(name + " " + strings.Join(ingredients, " "))

	score := 0
	score += thresholds(ingredientCount, 10, 15)
	score += thresholds(steps, 8, 12)
	score += thresholds(cookMinutes, 45, 90)
	if containsAny(text, advancedTechniques...) {
		score++
	}
	if containsAny(text, proteins...) {
		score++
	}

	var label hamatcondb.Difficulty
	switch {
	case score <= 1:
		label = hamatcondb.DifficultyEasy
	case score <= 3:
		label = hamatcondb.DifficultyMedium
	default:
		label = hamatcondb.DifficultyHard
	}

	if label == hamatcondb.DifficultyEasy && containsAny(text, beefKeywords...) {
		label = hamatcondb.DifficultyMedium
	}
	return label
}

// thresholds returns how many of the limits v reaches.
func thresholds(v int, limits ...int) int {
	n := 0
	for _, l := range limits {
		if v >= l {
			n++
		}
	}
	return n
}
