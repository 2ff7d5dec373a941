// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package matrix

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/tomtom215/fashionrec/internal/logging"
	"github.com/tomtom215/fashionrec/internal/recommend"
)

const stage = "get_csr_matrix"

// InteractionMatrix is an item x user rating matrix in CSR form.
//
// Row i spans Indices[IndPtr[i]:IndPtr[i+1]] (column positions, ascending)
// and the matching Data values. Only nonzero cells are stored.
type InteractionMatrix struct {
	// ItemIDs maps row position to item id.
	ItemIDs []string

	// UserIDs maps column position to user id.
	UserIDs []string

	IndPtr  []int
	Indices []int
	Data    []float64
}

// Rows returns the number of items.
func (m *InteractionMatrix) Rows() int { return len(m.ItemIDs) }

// Cols returns the number of users.
func (m *InteractionMatrix) Cols() int { return len(m.UserIDs) }

// NonZero returns the number of stored cells.
func (m *InteractionMatrix) NonZero() int { return len(m.Data) }

// Build pivots a review table into an interaction matrix. The item, user
// and rating columns must all be present.
func Build(ctx context.Context, reviews *recommend.Table, itemColumn, userColumn, ratingColumn string) (*InteractionMatrix, error) {
	cols := recommend.ReviewColumns{Commenter: userColumn, Item: itemColumn, Rating: ratingColumn}
	rows, err := recommend.ReviewFeaturesFromTable(stage, reviews, cols)
	if err != nil {
		return nil, err
	}
	return FromReviews(ctx, rows)
}

type cell struct {
	row, col int
	rating   float64
}

// FromReviews pivots typed review rows into an interaction matrix.
func FromReviews(ctx context.Context, reviews []recommend.ReviewFeatureRow) (*InteractionMatrix, error) {
	items := distinctSorted(reviews, func(r recommend.ReviewFeatureRow) string { return r.ItemID })
	users := distinctSorted(reviews, func(r recommend.ReviewFeatureRow) string { return r.CommenterID })

	itemPos := positions(items)
	userPos := positions(users)

	cells := make([]cell, len(reviews))
	for i, r := range reviews {
		cells[i] = cell{row: itemPos[r.ItemID], col: userPos[r.CommenterID], rating: r.Rating}
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", stage, err)
	}

	// Rating is part of the sort key so duplicate pairs are summed in the
	// same order whatever the input order was.
	slices.SortFunc(cells, func(a, b cell) int {
		if c := cmp.Compare(a.row, b.row); c != 0 {
			return c
		}
		if c := cmp.Compare(a.col, b.col); c != 0 {
			return c
		}
		return cmp.Compare(a.rating, b.rating)
	})

	m := &InteractionMatrix{
		ItemIDs: items,
		UserIDs: users,
		IndPtr:  make([]int, len(items)+1),
	}

	duplicates := 0
	for i := 0; i < len(cells); {
		j := i
		sum := 0.0
		for j < len(cells) && cells[j].row == cells[i].row && cells[j].col == cells[i].col {
			sum += cells[j].rating
			j++
		}
		if n := j - i; n > 1 {
			duplicates += n - 1
		}
		mean := sum / float64(j-i)
		if mean != 0 {
			m.Indices = append(m.Indices, cells[i].col)
			m.Data = append(m.Data, mean)
			m.IndPtr[cells[i].row+1]++
		}
		i = j
	}
	for r := 1; r < len(m.IndPtr); r++ {
		m.IndPtr[r] += m.IndPtr[r-1]
	}

	logger := logging.Ctx(ctx)
	if duplicates > 0 {
		logger.Warn().Int("duplicates", duplicates).Msg("Averaged repeated ratings for the same item and user")
	}
	logger.Debug().
		Int("items", m.Rows()).
		Int("users", m.Cols()).
		Int("nonzero", m.NonZero()).
		Msg("Interaction matrix built")

	return m, nil
}

func distinctSorted(reviews []recommend.ReviewFeatureRow, key func(recommend.ReviewFeatureRow) string) []string {
	seen := make(map[string]struct{}, len(reviews))
	out := make([]string, 0, len(reviews))
	for _, r := range reviews {
		k := key(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	slices.SortFunc(out, recommend.CompareKeys)
	return out
}

func positions(ids []string) map[string]int {
	pos := make(map[string]int, len(ids))
	for i, id := range ids {
		pos[id] = i
	}
	return pos
}

// Row returns the dense ratings of row i.
func (m *InteractionMatrix) Row(i int) []float64 {
	out := make([]float64, m.Cols())
	for p := m.IndPtr[i]; p < m.IndPtr[i+1]; p++ {
		out[m.Indices[p]] = m.Data[p]
	}
	return out
}

// Dense expands the matrix into a row-major dense array.
func (m *InteractionMatrix) Dense() [][]float64 {
	out := make([][]float64, m.Rows())
	for i := range out {
		out[i] = m.Row(i)
	}
	return out
}

// Validate checks the structural invariants of a matrix, typically one that
// was read back from storage.
func (m *InteractionMatrix) Validate() error {
	if m == nil {
		return recommend.Errorf(stage, recommend.ErrInvalidInput, "", "matrix is nil")
	}
	if len(m.IndPtr) != m.Rows()+1 {
		return recommend.Errorf(stage, recommend.ErrInvalidInput, "indptr", "has %d entries for %d rows", len(m.IndPtr), m.Rows())
	}
	if len(m.Indices) != len(m.Data) {
		return recommend.Errorf(stage, recommend.ErrInvalidInput, "indices", "%d indices for %d values", len(m.Indices), len(m.Data))
	}
	if m.IndPtr[0] != 0 || m.IndPtr[len(m.IndPtr)-1] != len(m.Data) {
		return recommend.Errorf(stage, recommend.ErrInvalidInput, "indptr", "does not span the stored values")
	}
	for i := 0; i < m.Rows(); i++ {
		lo, hi := m.IndPtr[i], m.IndPtr[i+1]
		if lo > hi {
			return recommend.Errorf(stage, recommend.ErrInvalidInput, "indptr", "decreases at row %d", i)
		}
		for p := lo; p < hi; p++ {
			c := m.Indices[p]
			if c < 0 || c >= m.Cols() || (p > lo && c <= m.Indices[p-1]) {
				return recommend.Errorf(stage, recommend.ErrInvalidInput, "indices", "row %d has invalid column %d", i, c)
			}
		}
	}
	return nil
}
