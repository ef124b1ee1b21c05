// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package autofill

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/curioswitch/hamatcon/common/ingredient"
)

var (
	hoursMinutesRE = regexp.MustCompile(`(\d+)\s*h(?:ours?)?\s*(\d+)\s*m`)
	hoursRE        = regexp.MustCompile(`(\d+)\s*h(?:ours?)?`)
	minutesRE      = regexp.MustCompile(`(\d+)\s*m(?:in(?:ute)?s?)?`)
)

// floor raises the cook time to at least minutes when the text mentions any
// of the keywords.
type floor struct {
	keywords []string
	minutes  int
}

func (f floor) apply(text string, minutes int) int {
	if containsAny(text, f.keywords...) {
		return max(minutes, f.minutes)
	}
	return minutes
}

var ingredientFloors = []floor{
	{keywords: beefKeywords, minutes: 30},
	{keywords: []string{"lamb", "mutton"}, minutes: 45},
	{keywords: []string{"pork"}, minutes: 35},
	{keywords: []string{"turkey"}, minutes: 40},
	{keywords: []string{"dried beans", "dry beans", "kidney beans (dry)", "chickpeas (dry)"}, minutes: 60},
	{keywords: []string{"rice", "risotto"}, minutes: 18},
	{keywords: []string{"pasta", "spaghetti", "penne", "fettuccine"}, minutes: 10},
}

var (
	chickenCutFloor = floor{keywords: []string{"chicken thigh", "chicken legs", "whole chicken"}, minutes: 45}
	chickenFloor    = floor{keywords: []string{"chicken breast", "chicken"}, minutes: 25}
)

var techniqueFloors = []floor{
	{keywords: []string{"braise", "stew", "slow cook", "simmer for"}, minutes: 60},
	{keywords: []string{"bake", "roast"}, minutes: 30},
	{keywords: []string{"deep-fry", "deep fry"}, minutes: 15},
	{keywords: []string{"marinate"}, minutes: 30},
}

// Baselines are checked in order and the first match wins.
var techniqueBaselines = []floor{
	{keywords: []string{"braise", "stew", "slow cook"}, minutes: 75},
	{keywords: []string{"bake", "roast"}, minutes: 40},
	{keywords: []string{"grill", "barbecue", "bbq"}, minutes: 20},
	{keywords: []string{"stir-fry", "stir fry", "saute"}, minutes: 12},
	{keywords: []string{"boil", "simmer"}, minutes: 20},
}

const genericBaselineMinutes = 15

// EstimateCookTime estimates the total cook time in minutes from recipe
// instructions and ingredients. Durations written in the instructions are
// summed; without any, a baseline for the cooking technique is used. The
// result is then raised to minimums for slow-cooking ingredients and
// techniques. It returns false if no positive estimate could be made.
func EstimateCookTime(instructions string, ingredients []string) (int, bool) {
	text := ingredient.Fold(instructions)

	minutes, found := explicitMinutes(text)
	if !found {
		minutes = baselineMinutes(text)
	}

	ing := ingredient.Fold(strings.Join(ingredients, " | "))
	for _, f := range ingredientFloors {
		minutes = f.apply(ing, minutes)
	}
	if containsAny(ing, chickenCutFloor.keywords...) {
		minutes = chickenCutFloor.apply(ing, minutes)
	} else {
		minutes = chickenFloor.apply(ing, minutes)
	}

	for _, f := range techniqueFloors {
		minutes = f.apply(text, minutes)
	}

	if minutes <= 0 {
		return 0, false
	}
	return minutes, true
}

// explicitMinutes sums every duration pattern match. The patterns are applied
// independently, so "1h 30m" also counts as one hour and thirty minutes.
func explicitMinutes(text string) (int, bool) {
	total := 0
	found := false
	for _, m := range hoursMinutesRE.FindAllStringSubmatch(text, -1) {
		total += atoi(m[1])*60 + atoi(m[2])
		found = true
	}
	for _, m := range hoursRE.FindAllStringSubmatch(text, -1) {
		total += atoi(m[1]) * 60
		found = true
	}
	for _, m := range minutesRE.FindAllStringSubmatch(text, -1) {
		total += atoi(m[1])
		found = true
	}
	return total, found
}

func baselineMinutes(text string) int {
	for _, b := range techniqueBaselines {
		if containsAny(text, b.keywords...) {
			return b.minutes
		}
	}
	return genericBaselineMinutes
}

func atoi(s string) int {
	// Matches are all digits, only overflow can fail.
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func containsAny(text string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
