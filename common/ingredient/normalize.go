// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package ingredient normalizes free-text ingredient strings, e.g.
// "2 cups chopped tomatoes, diced", into canonical lowercase word sequences
// such as "chopped tomatoes diced" for indexing and matching.
package ingredient

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	quantityRE    = regexp.MustCompile(`[\p{N}./-]+`)
	punctuationRE = regexp.MustCompile(`[()\[\],.:]`)
)

var units = map[string]struct{}{
	"lb": {}, "lbs": {}, "pound": {}, "pounds": {},
	"kg": {}, "g": {}, "gram": {}, "grams": {}, "mg": {},
	"l": {}, "ml": {}, "liter": {}, "liters": {}, "litre": {}, "litres": {},
	"cup": {}, "cups": {},
	"tbsp": {}, "tsp": {}, "tablespoon": {}, "tablespoons": {}, "teaspoon": {}, "teaspoons": {},
	"oz": {}, "ounce": {}, "ounces": {},
	"pinch": {}, "pinches": {},
	"clove": {}, "cloves": {},
	"slice": {}, "slices": {},
}

// IsUnit returns whether the lowercase word is a measurement unit dropped by
// Normalize.
func IsUnit(word string) bool {
	_, ok := units[word]
	return ok
}

// Normalize strips quantities, units and punctuation from a raw ingredient
// string and returns the remaining lowercase words separated by single spaces.
func Normalize(raw string) string {
	s := strings.ToLower(raw)
	s = quantityRE.ReplaceAllString(s, " ")
	s = punctuationRE.ReplaceAllString(s, " ")

	words := strings.Fields(s)
	kept := words[:0]
	for _, w := range words {
		if IsUnit(w) {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// NormalizeAll normalizes each ingredient, keeping positions.
func NormalizeAll(raw []string) []string {
	res := make([]string, len(raw))
	for i, r := range raw {
		res[i] = Normalize(r)
	}
	return res
}

// Clean splits each entered ingredient line on commas, semicolons and
// newlines and returns the trimmed, lowercase, non-empty entries in order of
// first appearance without duplicates.
func Clean(raw []string) []string {
	var res []string
	seen := map[string]struct{}{}
	for _, r := range raw {
		for _, f := range strings.FieldsFunc(r, func(r rune) bool {
			return r == ',' || r == ';' || r == '\n'
		}) {
			f = strings.ToLower(strings.TrimSpace(f))
			if f == "" {
				continue
			}
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			res = append(res, f)
		}
	}
	return res
}

// Tokens splits a search query on commas and whitespace and normalizes each
// token, dropping tokens that normalize to nothing.
func Tokens(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	var res []string
	for _, f := range fields {
		if n := Normalize(f); n != "" {
			res = append(res, n)
		}
	}
	return res
}

// Fold lower-cases s and removes diacritics so that keyword checks match
// "sauté" and "saute" alike.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}
