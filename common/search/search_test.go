// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package search

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/curioswitch/hamatcon/common/hamatcondb"
)

func recipes() []*hamatcondb.Recipe {
	return []*hamatcondb.Recipe{
		{ID: "caprese", Cuisine: "Italian", Ingredients: []string{"2 roma tomatoes", "salt", "4 oz mozzarella"}},
		{ID: "curry", Cuisine: "Indian", Ingredients: []string{"1 lb chicken thighs", "2 cups chopped tomatoes, diced", "garam masala"}},
		{ID: "salad", Cuisine: "italian", Ingredients: []string{"lettuce", "olive oil", "salt"}},
		{ID: "stew", Cuisine: "French", Ingredients: []string{"2 lbs beef chuck", "3 carrots", "1 tbsp salt"}},
		{ID: "empty", Cuisine: "", Ingredients: []string{}},
	}
}

func ids(recipes []*hamatcondb.Recipe) []string {
	res := []string{}
	for _, r := range recipes {
		res = append(res, r.ID)
	}
	return res
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name    string
		cuisine string
		chips   []string
		query   string
		want    []string
	}{
		{
			name:    "all",
			cuisine: AllCuisines,
			want:    []string{"caprese", "curry", "salad", "stew", "empty"},
		},
		{
			name: "empty cuisine is all",
			want: []string{"caprese", "curry", "salad", "stew", "empty"},
		},
		{
			name:    "cuisine case insensitive",
			cuisine: "ITALIAN",
			want:    []string{"caprese", "salad"},
		},
		{
			name:    "chip substring of normalized ingredient",
			cuisine: AllCuisines,
			chips:   []string{"tomato"},
			want:    []string{"caprese", "curry"},
		},
		{
			name:    "chips are anded",
			cuisine: AllCuisines,
			chips:   []string{"tomato", "salt"},
			want:    []string{"caprese"},
		},
		{
			name:    "chip normalized",
			cuisine: AllCuisines,
			chips:   []string{"2 cups Carrots"},
			want:    []string{"stew"},
		},
		{
			name:    "chip normalizing to empty ignored",
			cuisine: "French",
			chips:   []string{"2 cups"},
			want:    []string{"stew"},
		},
		{
			name:    "query tokens anded",
			cuisine: AllCuisines,
			query:   "salt, oil",
			want:    []string{"salad"},
		},
		{
			name:    "query and cuisine",
			cuisine: "italian",
			query:   "salt",
			want:    []string{"caprese", "salad"},
		},
		{
			name:    "no match",
			cuisine: AllCuisines,
			query:   "saffron",
			want:    []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(Filter(recipes(), tc.cuisine, tc.chips, tc.query))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Filter() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterChipScenario(t *testing.T) {
	r := &hamatcondb.Recipe{ID: "r", Ingredients: []string{"2 roma tomatoes", "salt"}}
	got := Filter([]*hamatcondb.Recipe{r}, AllCuisines, []string{"tomato"}, "")
	require.Equal(t, []*hamatcondb.Recipe{r}, got)
}

func TestFilterMonotonic(t *testing.T) {
	chips := []string{"salt", "tomato", "mozzarella"}

	prev := len(recipes())
	for i := range chips {
		got := Filter(recipes(), AllCuisines, chips[:i+1], "")
		require.LessOrEqual(t, len(got), prev, "adding chip %q grew the result", chips[i])

		// Every recipe included with more chips stays included with fewer.
		fewer := ids(Filter(recipes(), AllCuisines, chips[:i], ""))
		for _, id := range ids(got) {
			require.Contains(t, fewer, id)
		}
		prev = len(got)
	}
}

func TestCriteriaApply(t *testing.T) {
	c := Criteria{Cuisine: "Indian", Chips: []string{"chicken"}, Query: "masala"}
	require.Equal(t, []string{"curry"}, ids(c.Apply(recipes())))
}

func TestAutocomplete(t *testing.T) {
	want := []string{
		"beef chuck",
		"carrots",
		"chicken thighs",
		"chopped tomatoes diced",
		"garam masala",
		"lettuce",
		"mozzarella",
		"olive oil",
		"roma tomatoes",
		"salt",
	}
	if diff := cmp.Diff(want, Autocomplete(recipes())); diff != "" {
		t.Errorf("Autocomplete() mismatch (-want +got):\n%s", diff)
	}
}

func TestSuggest(t *testing.T) {
	index := Autocomplete(recipes())

	require.Equal(t, []string{"chicken thighs", "chopped tomatoes diced", "beef chuck"}, Suggest(index, "ch", 0))
	require.Equal(t, []string{"chopped tomatoes diced", "roma tomatoes"}, Suggest(index, "Tomato", 0))
	require.Equal(t, []string{"chopped tomatoes diced"}, Suggest(index, "tomato", 1))
	require.Empty(t, Suggest(index, "2 cups", 5))
	require.Empty(t, Suggest(index, "saffron", 5))
}

func TestCuisines(t *testing.T) {
	want := []string{AllCuisines, "French", "Indian", "Italian"}
	if diff := cmp.Diff(want, Cuisines(recipes())); diff != "" {
		t.Errorf("Cuisines() mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, []string{AllCuisines}, Cuisines(nil))
}
