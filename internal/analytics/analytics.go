// Package analytics aggregates order history for the back-office sales view.
package analytics

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/drstein77/storefront/internal/models"
)

type ViewMode string

const (
	Daily   ViewMode = "daily"
	Monthly ViewMode = "monthly"
	Yearly  ViewMode = "yearly"
)

func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case Daily, Monthly, Yearly:
		return ViewMode(s), nil
	case "":
		return Daily, nil
	}
	return "", fmt.Errorf("unknown view mode %q", s)
}

func (m ViewMode) layout() string {
	switch m {
	case Monthly:
		return "2006-01"
	case Yearly:
		return "2006"
	}
	return "2006-01-02"
}

type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type Sales struct {
	Mode              ViewMode `json:"mode"`
	Chart             []Point  `json:"chart"`
	TotalRevenue      float64  `json:"totalRevenue"`
	AverageOrderValue float64  `json:"averageOrderValue"`
	Orders            int      `json:"orders"`
}

// Buckets sums order totals per day, month or year (UTC), ordered by label.
func Buckets(orders []models.Order, mode ViewMode) []Point {
	sums := make(map[string]float64)
	layout := mode.layout()
	for _, o := range orders {
		sums[o.Date.UTC().Format(layout)] += o.Total
	}

	points := make([]Point, 0, len(sums))
	for label, v := range sums {
		points = append(points, Point{Label: label, Value: v})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Label < points[j].Label })
	return points
}

func Summarize(orders []models.Order, mode ViewMode) Sales {
	totals := make(stats.Float64Data, 0, len(orders))
	for _, o := range orders {
		totals = append(totals, o.Total)
	}

	s := Sales{Mode: mode, Chart: Buckets(orders, mode), Orders: len(orders)}
	if len(totals) == 0 {
		return s
	}
	// Sum and Mean only fail on empty input.
	s.TotalRevenue, _ = totals.Sum()
	s.AverageOrderValue, _ = totals.Mean()
	return s
}
