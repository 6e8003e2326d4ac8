// Package stats implements the quartile statistics the strategies are built
// on. The median/quartile rules here are deliberately nonstandard and must
// not be swapped for a generic quantile implementation: signals and backtest
// results are only reproducible under the exact tie-breaks documented below.
package stats

import (
	"math"
	"sort"

	"github.com/wonny/steamflip/internal/contracts"
)

// Quartiles holds the three quartile prices of a sale-price series.
type Quartiles struct {
	Q1 float64
	Q2 float64
	Q3 float64
}

// Median returns the median of values together with its fractional position
// in the ascending sort. A length-1 input yields position 0. Odd lengths
// yield the middle element and its integer index. Even lengths yield the
// mean of the two central elements and the half-integer position
// (rightmid - 0.5); the half-integer is a sentinel meaning "between two
// elements" and is consumed by ComputeQuartiles.
//
// values must be non-empty; ComputeQuartiles enforces that for callers.
func Median(values []float64) (float64, float64) {
	n := len(values)
	if n == 1 {
		return values[0], 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if n%2 == 1 {
		pos := n / 2
		return sorted[pos], float64(pos)
	}
	rightmid := n / 2
	return (sorted[rightmid-1] + sorted[rightmid]) / 2, float64(rightmid) - 0.5
}

// ComputeQuartiles returns (Q1, Q2, Q3) for the series, or
// contracts.ErrInsufficientData for fewer than 3 observations.
//
// When the median sits exactly on an element (integer position), that
// element is excluded from both halves: Q1 = median(values[:mid]),
// Q3 = median(values[mid+1:]). When it sits between two elements
// (half-integer position), both halves include from the rounded-up
// midpoint: Q1 = median(values[:ceil(mid)]), Q3 = median(values[ceil(mid):]).
//
// The asymmetry (exclude the exact median, include the boundary element on
// even lengths) is almost certainly a historical accident rather than a
// statistical choice, but it is load-bearing: downstream thresholds were
// tuned against it, so it is preserved as-is.
func ComputeQuartiles(values []float64) (Quartiles, error) {
	if len(values) < 3 {
		return Quartiles{}, contracts.ErrInsufficientData
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	q2, midpoint := Median(sorted)

	var q1, q3 float64
	if midpoint == math.Trunc(midpoint) {
		mid := int(midpoint)
		q1, _ = Median(sorted[:mid])
		q3, _ = Median(sorted[mid+1:])
	} else {
		mid := int(math.Ceil(midpoint))
		q1, _ = Median(sorted[:mid])
		q3, _ = Median(sorted[mid:])
	}
	return Quartiles{Q1: q1, Q2: q2, Q3: q3}, nil
}

// QuartilesOf is ComputeQuartiles over the prices of a sale-event window.
func QuartilesOf(events []contracts.SaleEvent) (Quartiles, error) {
	prices := make([]float64, len(events))
	for i, ev := range events {
		prices[i] = ev.Price
	}
	return ComputeQuartiles(prices)
}
