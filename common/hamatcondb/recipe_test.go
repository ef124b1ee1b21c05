// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package hamatcondb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	r := &Recipe{
		FavoritesCount: -2,
		RatingSum:      7,
		RatingCount:    0,
		Difficulty:     "Impossible",
	}
	r.Sanitize()

	require.NotNil(t, r.Ingredients)
	require.Empty(t, r.Ingredients)
	require.Zero(t, r.FavoritesCount)
	require.Zero(t, r.RatingSum)
	require.Empty(t, r.Difficulty)

	r = &Recipe{Ingredients: []string{"salt"}, Difficulty: DifficultyHard, RatingSum: 9, RatingCount: 2}
	r.Sanitize()
	require.Equal(t, []string{"salt"}, r.Ingredients)
	require.Equal(t, DifficultyHard, r.Difficulty)
	require.Equal(t, int64(9), r.RatingSum)
}

func TestAverageRating(t *testing.T) {
	tests := []struct {
		name  string
		sum   int64
		count int64
		want  float64
	}{
		{name: "no ratings", sum: 0, count: 0, want: 0},
		{name: "single half star", sum: 1, count: 1, want: 0.5},
		{name: "two ratings", sum: 9, count: 2, want: 2.25},
		{name: "all five stars", sum: 30, count: 3, want: 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.InDelta(t, tc.want, AverageRating(tc.sum, tc.count), 1e-9)
		})
	}
}

func TestRatingUnits(t *testing.T) {
	tests := []struct {
		stars float64
		want  int64
	}{
		{stars: 0, want: 1},
		{stars: 0.5, want: 1},
		{stars: 1.2, want: 2},
		{stars: 3.5, want: 7},
		{stars: 3.74, want: 7},
		{stars: 3.76, want: 8},
		{stars: 5, want: 10},
		{stars: 7, want: 10},
		{stars: -1, want: 1},
	}

	for _, tc := range tests {
		require.Equal(t, tc.want, RatingUnits(tc.stars), "stars %v", tc.stars)
	}
}
