// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package algorithms

import (
	"math"
	"slices"
	"strings"
)

// Metric names a supported distance function.
type Metric string

// Supported metrics.
const (
	MetricCosine    Metric = "cosine"
	MetricEuclidean Metric = "euclidean"
	MetricManhattan Metric = "manhattan"
	MetricChebyshev Metric = "chebyshev"
)

var metricAliases = map[string]Metric{
	"cosine":    MetricCosine,
	"euclidean": MetricEuclidean,
	"l2":        MetricEuclidean,
	"manhattan": MetricManhattan,
	"l1":        MetricManhattan,
	"cityblock": MetricManhattan,
	"chebyshev": MetricChebyshev,
}

// ParseMetric resolves a metric name or alias, case-insensitively.
func ParseMetric(name string) (Metric, bool) {
	m, ok := metricAliases[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}

// SupportedMetrics lists the accepted metric names and aliases.
func SupportedMetrics() []string {
	names := make([]string, 0, len(metricAliases))
	for name := range metricAliases {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// sparseRow is one matrix row: ascending column positions and their values.
type sparseRow struct {
	cols []int
	vals []float64
	norm float64
}

// merge walks the union of the nonzero columns of a and b, calling fn with
// the pair of values at each.
func merge(a, b sparseRow, fn func(x, y float64)) {
	i, j := 0, 0
	for i < len(a.cols) || j < len(b.cols) {
		switch {
		case j >= len(b.cols) || (i < len(a.cols) && a.cols[i] < b.cols[j]):
			fn(a.vals[i], 0)
			i++
		case i >= len(a.cols) || b.cols[j] < a.cols[i]:
			fn(0, b.vals[j])
			j++
		default:
			fn(a.vals[i], b.vals[j])
			i++
			j++
		}
	}
}

func distanceFunc(m Metric) func(a, b sparseRow) float64 {
	switch m {
	case MetricCosine:
		return cosineDistance
	case MetricEuclidean:
		return euclideanDistance
	case MetricManhattan:
		return manhattanDistance
	case MetricChebyshev:
		return chebyshevDistance
	default:
		return nil
	}
}

func cosineDistance(a, b sparseRow) float64 {
	if a.norm == 0 || b.norm == 0 {
		return 1
	}
	dot := 0.0
	i, j := 0, 0
	for i < len(a.cols) && j < len(b.cols) {
		switch {
		case a.cols[i] < b.cols[j]:
			i++
		case b.cols[j] < a.cols[i]:
			j++
		default:
			dot += a.vals[i] * b.vals[j]
			i++
			j++
		}
	}
	d := 1 - dot/(a.norm*b.norm)
	// Rounding can push identical directions slightly below zero.
	return math.Max(0, d)
}

func euclideanDistance(a, b sparseRow) float64 {
	sum := 0.0
	merge(a, b, func(x, y float64) {
		d := x - y
		sum += d * d
	})
	return math.Sqrt(sum)
}

func manhattanDistance(a, b sparseRow) float64 {
	sum := 0.0
	merge(a, b, func(x, y float64) {
		sum += math.Abs(x - y)
	})
	return sum
}

func chebyshevDistance(a, b sparseRow) float64 {
	maxDiff := 0.0
	merge(a, b, func(x, y float64) {
		maxDiff = math.Max(maxDiff, math.Abs(x-y))
	})
	return maxDiff
}

func l2Norm(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v * v
	}
	return math.Sqrt(sum)
}
