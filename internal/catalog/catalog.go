// Package catalog implements the read-side product logic of the storefront:
// category listing, sorting, search, ratings, recommendations and stock status.
package catalog

import (
	"math"
	"math/rand/v2"
	"slices"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/drstein77/storefront/internal/models"
)

// MaxRecommendations caps the "you may also like" list.
const MaxRecommendations = 4

type SortOption string

const (
	SortDefault   SortOption = "default"
	SortPriceAsc  SortOption = "price-asc"
	SortPriceDesc SortOption = "price-desc"
)

// ParseSortOption maps unknown values to SortDefault.
func ParseSortOption(s string) SortOption {
	switch SortOption(s) {
	case SortPriceAsc, SortPriceDesc:
		return SortOption(s)
	}
	return SortDefault
}

func FilterByCategory(products []models.Product, category models.Category) []models.Product {
	out := []models.Product{}
	for _, p := range products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Sort returns a sorted copy of products; the input is left untouched.
func Sort(products []models.Product, by SortOption) []models.Product {
	out := slices.Clone(products)
	switch by {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	}
	return out
}

// Search matches the trimmed, case-insensitive query against product names.
// A blank query matches nothing.
func Search(products []models.Product, query string) []models.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []models.Product{}
	if q == "" {
		return out
	}
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	return out
}

// AssistantSearch is the wider search behind the chat assistant's
// productSearch tool: name, description and category are all matched.
func AssistantSearch(products []models.Product, query string) []models.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []models.Product{}
	if q == "" {
		return out
	}
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(string(p.Category)), q) {
			out = append(out, p)
		}
	}
	return out
}

// AverageRating is the mean review rating, or 0 without reviews.
func AverageRating(p models.Product) float64 {
	if len(p.Reviews) == 0 {
		return 0
	}
	ratings := make(stats.Float64Data, 0, len(p.Reviews))
	for _, r := range p.Reviews {
		ratings = append(ratings, float64(r.Rating))
	}
	mean, err := ratings.Mean()
	if err != nil {
		return 0
	}
	return mean
}

// Recommend picks up to MaxRecommendations products for current. Products of
// the same category come first, closest average rating first; the remainder is
// filled with a random selection of other products. rnd may be nil.
func Recommend(all []models.Product, current models.Product, rnd *rand.Rand) []models.Product {
	type scored struct {
		product models.Product
		diff    float64
	}

	currentRating := AverageRating(current)
	var same []scored
	for _, p := range all {
		if p.Category != current.Category || p.ID == current.ID {
			continue
		}
		same = append(same, scored{product: p, diff: math.Abs(AverageRating(p) - currentRating)})
	}
	sort.SliceStable(same, func(i, j int) bool { return same[i].diff < same[j].diff })

	out := make([]models.Product, 0, MaxRecommendations)
	chosen := map[string]struct{}{current.ID: {}}
	for _, s := range same {
		if len(out) == MaxRecommendations {
			break
		}
		out = append(out, s.product)
		chosen[s.product.ID] = struct{}{}
	}
	if len(out) == MaxRecommendations {
		return out
	}

	var rest []models.Product
	for _, p := range all {
		if _, ok := chosen[p.ID]; !ok {
			rest = append(rest, p)
		}
	}
	shuffle := rand.Shuffle
	if rnd != nil {
		shuffle = rnd.Shuffle
	}
	shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })

	need := MaxRecommendations - len(out)
	if need > len(rest) {
		need = len(rest)
	}
	return append(out, rest[:need]...)
}

type StockStatus string

const (
	OutOfStock StockStatus = "Out of Stock"
	LowStock   StockStatus = "Low Stock"
	InStock    StockStatus = "In Stock"
)

// LowStockThreshold is the stock level below which a product is flagged.
const LowStockThreshold = 10

func StatusOf(stock int) StockStatus {
	switch {
	case stock <= 0:
		return OutOfStock
	case stock < LowStockThreshold:
		return LowStock
	}
	return InStock
}
