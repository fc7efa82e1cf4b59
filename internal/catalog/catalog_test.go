package catalog

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drstein77/storefront/internal/models"
)

func product(id string, cat models.Category, price float64, ratings ...int) models.Product {
	p := models.Product{ID: id, Name: "Item " + id, Category: cat, Price: price, Description: "plain"}
	for _, r := range ratings {
		p.Reviews = append(p.Reviews, models.Review{Rating: r})
	}
	return p
}

func ids(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestSort(t *testing.T) {
	in := []models.Product{
		product("a", models.CategorySummer, 30),
		product("b", models.CategorySummer, 10),
		product("c", models.CategorySummer, 20),
	}

	tests := []struct {
		name string
		by   SortOption
		want []string
	}{
		{"default keeps order", SortDefault, []string{"a", "b", "c"}},
		{"ascending", SortPriceAsc, []string{"b", "c", "a"}},
		{"descending", SortPriceDesc, []string{"a", "c", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Sort(in, tt.by)))
		})
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids(in), "input must not be mutated")
}

func TestParseSortOption(t *testing.T) {
	assert.Equal(t, SortPriceAsc, ParseSortOption("price-asc"))
	assert.Equal(t, SortPriceDesc, ParseSortOption("price-desc"))
	assert.Equal(t, SortDefault, ParseSortOption("popular"))
}

func TestFilterByCategory(t *testing.T) {
	in := []models.Product{
		product("s1", models.CategorySummer, 1),
		product("w1", models.CategoryWinter, 1),
		product("s2", models.CategorySummer, 1),
	}
	assert.Equal(t, []string{"s1", "s2"}, ids(FilterByCategory(in, models.CategorySummer)))
	assert.Empty(t, FilterByCategory(in, "spring"))
}

func TestSearch(t *testing.T) {
	in := []models.Product{
		{ID: "1", Name: "Denim Rancher Shirt", Description: "summer evenings", Category: models.CategorySummer},
		{ID: "2", Name: "Sherpa-Lined Denim Jacket", Description: "stay warm", Category: models.CategoryWinter},
		{ID: "3", Name: "Felt Cattleman Hat", Description: "wool felt", Category: models.CategoryWinter},
	}

	assert.Equal(t, []string{"1", "2"}, ids(Search(in, "  DENIM ")))
	assert.Empty(t, Search(in, "   "))
	assert.Empty(t, Search(in, "warm"), "name-only search ignores descriptions")

	assert.Equal(t, []string{"2"}, ids(AssistantSearch(in, "warm")))
	assert.Equal(t, []string{"2", "3"}, ids(AssistantSearch(in, "winter")))
	assert.Empty(t, AssistantSearch(in, ""))
}

func TestAverageRating(t *testing.T) {
	assert.Zero(t, AverageRating(product("x", models.CategorySummer, 1)))
	assert.InDelta(t, 4.5, AverageRating(product("x", models.CategorySummer, 1, 5, 4)), 1e-9)
}

func TestRecommendPrefersClosestRatingInCategory(t *testing.T) {
	current := product("cur", models.CategoryWinter, 1, 5)
	all := []models.Product{
		current,
		product("w-far", models.CategoryWinter, 1, 1),
		product("w-close", models.CategoryWinter, 1, 5, 4),
		product("w-exact", models.CategoryWinter, 1, 5),
		product("w-none", models.CategoryWinter, 1),
		product("w-mid", models.CategoryWinter, 1, 3),
		product("s1", models.CategorySummer, 1, 5),
	}

	got := Recommend(all, current, rand.New(rand.NewPCG(1, 2)))
	assert.Equal(t, []string{"w-exact", "w-close", "w-mid", "w-far"}, ids(got))
}

func TestRecommendFallsBackToOtherProducts(t *testing.T) {
	current := product("cur", models.CategoryWinter, 1)
	all := []models.Product{
		current,
		product("w1", models.CategoryWinter, 1),
		product("s1", models.CategorySummer, 1),
		product("s2", models.CategorySummer, 1),
		product("s3", models.CategorySummer, 1),
		product("s4", models.CategorySummer, 1),
	}

	got := Recommend(all, current, rand.New(rand.NewPCG(7, 7)))
	require.Len(t, got, MaxRecommendations)
	assert.Equal(t, "w1", got[0].ID)

	seen := map[string]bool{}
	for _, p := range got {
		assert.NotEqual(t, "cur", p.ID)
		assert.False(t, seen[p.ID], "duplicate %s", p.ID)
		seen[p.ID] = true
	}
}

func TestRecommendSmallCatalog(t *testing.T) {
	current := product("cur", models.CategoryWinter, 1)
	assert.Empty(t, Recommend([]models.Product{current}, current, nil))

	two := []models.Product{current, product("s1", models.CategorySummer, 1)}
	assert.Equal(t, []string{"s1"}, ids(Recommend(two, current, nil)))
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, OutOfStock, StatusOf(0))
	assert.Equal(t, LowStock, StatusOf(1))
	assert.Equal(t, LowStock, StatusOf(9))
	assert.Equal(t, InStock, StatusOf(10))
}
