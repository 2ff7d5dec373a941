// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package features

import (
	"context"
	"math"
	"slices"
	"strings"

	"github.com/tomtom215/fashionrec/internal/logging"
	"github.com/tomtom215/fashionrec/internal/recommend"
)

const aggregateStage = "get_aggregated_features"

// AggregateSpec describes a group-by aggregation. Sources, Targets and
// Functions are parallel: Sources[i] is reduced with Functions[i] and the
// result is written to column Targets[i].
type AggregateSpec struct {
	GroupBy   []string `koanf:"group_by" validate:"required,min=1,dive,required"`
	Sources   []string `koanf:"cols" validate:"required,min=1,dive,required"`
	Targets   []string `koanf:"agg_cols" validate:"required,min=1,dive,required"`
	Functions []string `koanf:"agg_funs" validate:"required,min=1,dive,required"`
}

// reducer folds the non-missing values of one group into a cell.
type reducer func(values []string) (string, error)

var reducers = map[string]reducer{
	"mean":   numeric(mean),
	"sum":    numeric(sum),
	"min":    numeric(minOf),
	"max":    numeric(maxOf),
	"median": numeric(median),
	"count": func(values []string) (string, error) {
		return recommend.FormatFloat(float64(len(values))), nil
	},
	"first": func(values []string) (string, error) {
		if len(values) == 0 {
			return "", nil
		}
		return values[0], nil
	},
}

// AggregateFunctions lists the supported function names.
func AggregateFunctions() []string {
	names := make([]string, 0, len(reducers))
	for name := range reducers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

type group struct {
	key  []string
	rows [][]string
}

// Aggregate produces one row per distinct group-by key tuple, ordered by the
// key tuple, then keeps only the first row for each value of the first
// group-by column. The output header is GroupBy followed by Targets.
func Aggregate(ctx context.Context, t *recommend.Table, spec AggregateSpec) (*recommend.Table, error) {
	if t == nil {
		return nil, recommend.Errorf(aggregateStage, recommend.ErrInvalidInput, "data", "input is not a table")
	}
	if len(spec.Sources) != len(spec.Functions) {
		return nil, recommend.Errorf(aggregateStage, recommend.ErrSchemaMismatch, "agg_funs",
			"%d source columns but %d functions", len(spec.Sources), len(spec.Functions))
	}
	if len(spec.Sources) != len(spec.Targets) {
		return nil, recommend.Errorf(aggregateStage, recommend.ErrSchemaMismatch, "agg_cols",
			"%d source columns but %d target columns", len(spec.Sources), len(spec.Targets))
	}
	if len(spec.GroupBy) == 0 {
		return nil, recommend.Errorf(aggregateStage, recommend.ErrInvalidParameter, "group_by", "no grouping columns")
	}
	fns := make([]reducer, len(spec.Functions))
	for i, name := range spec.Functions {
		fn, ok := reducers[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, recommend.Errorf(aggregateStage, recommend.ErrInvalidParameter, name,
				"unknown aggregation function, want one of %v", AggregateFunctions())
		}
		fns[i] = fn
	}
	if err := t.Validate(aggregateStage); err != nil {
		return nil, err
	}
	keyIdx, err := t.Require(aggregateStage, spec.GroupBy...)
	if err != nil {
		return nil, err
	}
	srcIdx, err := t.Require(aggregateStage, spec.Sources...)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*group)
	for _, row := range t.Rows {
		key := make([]string, len(keyIdx))
		for i, c := range keyIdx {
			key[i] = recommend.CanonicalKey(row[c])
		}
		id := strings.Join(key, "\x00")
		g, ok := groups[id]
		if !ok {
			g = &group{key: key}
			groups[id] = g
		}
		g.rows = append(g.rows, row)
	}

	ordered := make([]*group, 0, len(groups))
	for _, g := range groups {
		ordered = append(ordered, g)
	}
	slices.SortFunc(ordered, func(a, b *group) int {
		return recommend.CompareKeyTuples(a.key, b.key)
	})

	out := recommend.NewTable(append(slices.Clone(spec.GroupBy), spec.Targets...)...)
	seenFirst := make(map[string]struct{}, len(ordered))
	for _, g := range ordered {
		if _, dup := seenFirst[g.key[0]]; dup {
			continue
		}
		seenFirst[g.key[0]] = struct{}{}

		row := slices.Clone(g.key)
		for i, c := range srcIdx {
			values := make([]string, 0, len(g.rows))
			for _, r := range g.rows {
				if !recommend.IsMissing(r[c]) {
					values = append(values, r[c])
				}
			}
			cell, err := fns[i](values)
			if err != nil {
				return nil, recommend.NewError(aggregateStage, recommend.ErrInvalidInput, spec.Sources[i], err)
			}
			row = append(row, cell)
		}
		out.Append(row)
	}

	logging.Ctx(ctx).Info().
		Int("rows", t.Len()).
		Int("groups", len(ordered)).
		Int("products", out.Len()).
		Msg("Data aggregated")

	return out, nil
}

// numeric adapts a float reduction into a reducer. Groups with no values
// reduce to a missing cell, except sums which reduce to zero.
func numeric(fn func([]float64) float64) reducer {
	return func(values []string) (string, error) {
		nums := make([]float64, len(values))
		for i, v := range values {
			f, err := recommend.ParseFloat(v)
			if err != nil {
				return "", err
			}
			nums[i] = f
		}
		res := fn(nums)
		if math.IsNaN(res) {
			return "", nil
		}
		return recommend.FormatFloat(res), nil
	}
}

func sum(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x
	}
	return s
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return math.NaN()
	}
	return sum(v) / float64(len(v))
}

func minOf(v []float64) float64 {
	if len(v) == 0 {
		return math.NaN()
	}
	return slices.Min(v)
}

func maxOf(v []float64) float64 {
	if len(v) == 0 {
		return math.NaN()
	}
	return slices.Max(v)
}

func median(v []float64) float64 {
	if len(v) == 0 {
		return math.NaN()
	}
	s := slices.Clone(v)
	slices.Sort(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}
	return (s[mid-1] + s[mid]) / 2
}
