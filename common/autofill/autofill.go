// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package autofill infers the cook time and difficulty of recipes that were
// entered or imported without them. All functions are deterministic, so
// running them again on unchanged input gives the same result.
package autofill

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/curioswitch/hamatcon/common/hamatcondb"
)

// Result is the inferred fields of a recipe.
type Result struct {
	// Steps is the number of steps in the instructions.
	Steps int

	// CookMinutes is the estimated cook time, 0 if unknown.
	CookMinutes int

	// CookTime is CookMinutes formatted for storage, e.g. "45 min", or empty.
	CookTime string

	// Difficulty is the estimated difficulty.
	Difficulty hamatcondb.Difficulty
}

// Enrich infers all fields for a recipe.
func Enrich(name string, instructions string, ingredients []string) Result {
	steps := CountSteps(instructions)
	minutes, ok := EstimateCookTime(instructions, ingredients)
	if !ok {
		minutes = 0
	}
	return Result{
		Steps:       steps,
		CookMinutes: minutes,
		CookTime:    CookTimeString(minutes),
		Difficulty:  EstimateDifficulty(len(ingredients), steps, minutes, name, ingredients),
	}
}

// EnrichRecipe fills in the cook time and difficulty of the recipe if they
// are blank.
func EnrichRecipe(r *hamatcondb.Recipe) {
	if r.CookTime != "" && r.Difficulty != "" {
		return
	}
	res := Enrich(r.Name, r.Instructions, r.Ingredients)
	if r.CookTime == "" {
		r.CookTime = res.CookTime
	}
	if r.Difficulty == "" {
		r.Difficulty = res.Difficulty
	}
}

// CookTimeString formats minutes for storage in a recipe.
func CookTimeString(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	return fmt.Sprintf("%d min", minutes)
}

var firstNumberRE = regexp.MustCompile(`\d+`)

// ParseCookTime returns the minutes of a stored cook time such as "95 min".
func ParseCookTime(raw string) (int, bool) {
	m := firstNumberRE.FindString(raw)
	if m == "" {
		return 0, false
	}
	minutes, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return minutes, true
}

// FormatCookTime renders a stored cook time for display, e.g. "95 min"
// becomes "1 hr 35 min". Values without a number are returned as is.
func FormatCookTime(raw string) string {
	minutes, ok := ParseCookTime(raw)
	if !ok {
		return raw
	}
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	h, rem := minutes/60, minutes%60
	if rem == 0 {
		return fmt.Sprintf("%d hr", h)
	}
	return fmt.Sprintf("%d hr %d min", h, rem)
}
