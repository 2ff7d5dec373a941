// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package algorithms

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/tomtom215/fashionrec/internal/logging"
	"github.com/tomtom215/fashionrec/internal/recommend"
	"github.com/tomtom215/fashionrec/internal/recommend/matrix"
)

const stage = "fit_model"

// NeighborModel is an exact brute-force nearest-neighbour index over the
// rows of an interaction matrix.
type NeighborModel struct {
	k      int
	metric Metric
	data   *matrix.InteractionMatrix
	rows   []sparseRow
	dist   func(a, b sparseRow) float64
}

// ModelState is the serializable form of a NeighborModel.
type ModelState struct {
	K      int
	Metric string
	Matrix matrix.InteractionMatrix
}

// Train fits a model for k neighbours under the named metric. k is checked
// before the matrix is touched; the matrix needs at least k+1 rows so every
// item can have k neighbours besides itself.
func Train(ctx context.Context, m *matrix.InteractionMatrix, k int, metric string) (*NeighborModel, error) {
	if k <= 0 {
		return nil, recommend.Errorf(stage, recommend.ErrInvalidParameter, "k", "must be positive, got %d", k)
	}
	met, ok := ParseMetric(metric)
	if !ok {
		return nil, recommend.Errorf(stage, recommend.ErrInvalidParameter, "metric", "%q is not one of %v", metric, SupportedMetrics())
	}
	if m == nil || m.Rows() == 0 {
		return nil, recommend.Errorf(stage, recommend.ErrInvalidInput, "matrix", "matrix has no rows")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if k+1 > m.Rows() {
		return nil, recommend.Errorf(stage, recommend.ErrInvalidParameter, "k",
			"k+1 = %d exceeds the %d items in the matrix", k+1, m.Rows())
	}
	if ContextCancelled(ctx) {
		return nil, fmt.Errorf("%s: %w", stage, ctx.Err())
	}

	model := newModel(k, met, cloneMatrix(m))

	logging.Ctx(ctx).Debug().
		Int("k", k).
		Str("metric", string(met)).
		Int("items", m.Rows()).
		Int("users", m.Cols()).
		Msg("Neighbor model fitted")

	return model, nil
}

// FromState rebuilds a model from its exported state, validating it as
// strictly as Train does.
func FromState(ctx context.Context, s *ModelState) (*NeighborModel, error) {
	if s == nil {
		return nil, recommend.Errorf(stage, recommend.ErrInvalidInput, "", "model state is nil")
	}
	return Train(ctx, &s.Matrix, s.K, s.Metric)
}

func newModel(k int, met Metric, m *matrix.InteractionMatrix) *NeighborModel {
	rows := make([]sparseRow, m.Rows())
	for i := range rows {
		lo, hi := m.IndPtr[i], m.IndPtr[i+1]
		rows[i] = sparseRow{
			cols: m.Indices[lo:hi],
			vals: m.Data[lo:hi],
			norm: l2Norm(m.Data[lo:hi]),
		}
	}
	return &NeighborModel{k: k, metric: met, data: m, rows: rows, dist: distanceFunc(met)}
}

func cloneMatrix(m *matrix.InteractionMatrix) *matrix.InteractionMatrix {
	return &matrix.InteractionMatrix{
		ItemIDs: slices.Clone(m.ItemIDs),
		UserIDs: slices.Clone(m.UserIDs),
		IndPtr:  slices.Clone(m.IndPtr),
		Indices: slices.Clone(m.Indices),
		Data:    slices.Clone(m.Data),
	}
}

// K returns the trained neighbour count.
func (nm *NeighborModel) K() int { return nm.k }

// Metric returns the distance metric.
func (nm *NeighborModel) Metric() Metric { return nm.metric }

// Rows returns the number of indexed items.
func (nm *NeighborModel) Rows() int { return len(nm.rows) }

// ItemIDs returns the item id of every indexed row, by position.
func (nm *NeighborModel) ItemIDs() []string { return slices.Clone(nm.data.ItemIDs) }

// State exports the model for persistence.
func (nm *NeighborModel) State() *ModelState {
	return &ModelState{K: nm.k, Metric: string(nm.metric), Matrix: *cloneMatrix(nm.data)}
}

// KNeighbors returns the n nearest rows to row pos. The row itself is
// always first.
func (nm *NeighborModel) KNeighbors(ctx context.Context, pos, n int) ([]Neighbor, error) {
	if pos < 0 || pos >= len(nm.rows) {
		return nil, recommend.Errorf(stage, recommend.ErrInvalidInput, "position", "%d is outside 0..%d", pos, len(nm.rows)-1)
	}
	return nm.search(ctx, nm.rows[pos], pos, n)
}

func (nm *NeighborModel) search(ctx context.Context, q sparseRow, self, n int) ([]Neighbor, error) {
	if n <= 0 || n > len(nm.rows) {
		return nil, recommend.Errorf(stage, recommend.ErrInvalidParameter, "n_neighbors",
			"%d is outside 1..%d", n, len(nm.rows))
	}
	if ContextCancelled(ctx) {
		return nil, ctx.Err()
	}

	all := make([]Neighbor, len(nm.rows))
	for i, r := range nm.rows {
		d := 0.0
		if i != self {
			d = nm.dist(q, r)
		}
		all[i] = Neighbor{Position: i, Distance: d}
	}

	slices.SortFunc(all, func(a, b Neighbor) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		if a.Position == b.Position {
			return 0
		}
		if a.Position == self {
			return -1
		}
		if b.Position == self {
			return 1
		}
		return cmp.Compare(a.Position, b.Position)
	})

	return all[:n:n], nil
}
