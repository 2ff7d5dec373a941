// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package algorithms

import (
	"context"
)

// Neighbor is one query result.
type Neighbor struct {
	// Position is the matrix row of the neighbour.
	Position int

	// Distance is the metric distance from the query row.
	Distance float64
}

// NeighborIndex answers nearest-row queries over a fitted matrix.
type NeighborIndex interface {
	// K returns the neighbour count the index was trained for.
	K() int

	// Rows returns the number of indexed rows.
	Rows() int

	// KNeighbors returns the n nearest rows to row pos, nearest first.
	KNeighbors(ctx context.Context, pos, n int) ([]Neighbor, error)
}

var _ NeighborIndex = (*NeighborModel)(nil)

// ContextCancelled checks if the context has been canceled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
