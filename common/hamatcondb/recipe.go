// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package hamatcondb

import "math"

const (
	// MinRatingUnits is the lowest rating in half-star units, 0.5 stars.
	MinRatingUnits = 1
	// MaxRatingUnits is the highest rating in half-star units, 5 stars.
	MaxRatingUnits = 10
)

// Sanitize defaults missing or malformed fields after decoding a document so
// callers never need to check for them.
func (r *Recipe) Sanitize() {
	if r.Ingredients == nil {
		r.Ingredients = []string{}
	}
	r.FavoritesCount = max(r.FavoritesCount, 0)
	r.RatingCount = max(r.RatingCount, 0)
	if r.RatingCount == 0 {
		r.RatingSum = 0
	}
	switch r.Difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		r.Difficulty = ""
	}
}

// AverageRating returns the average rating of the recipe in stars.
func (r *Recipe) AverageRating() float64 {
	return AverageRating(r.RatingSum, r.RatingCount)
}

// AverageRating returns the average in stars of ratings summing to sum
// half-star units over count ratings, or 0 without ratings.
func AverageRating(sum int64, count int64) float64 {
	if count <= 0 {
		return 0
	}
	return (float64(sum) / 2) / float64(count)
}

// RatingUnits converts a star rating to half-star units, clamped to the
// valid range. stars must not be NaN.
func RatingUnits(stars float64) int64 {
	units := min(max(math.Round(stars*2), MinRatingUnits), MaxRatingUnits)
	return int64(units)
}

// Stars returns the rating in stars.
func (r *Rating) Stars() float64 {
	return float64(r.Value2) / 2
}
