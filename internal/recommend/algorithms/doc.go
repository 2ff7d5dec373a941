// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

// Package algorithms implements the exact nearest-neighbour index used for
// item-to-item recommendations.
//
// # Model
//
// A [NeighborModel] is fitted on an interaction matrix and answers, for any
// item row, the n nearest rows under one of the supported distance metrics:
//
//   - cosine: 1 - cos(a, b); a zero vector is at distance 1 from everything
//   - euclidean (alias l2)
//   - manhattan (aliases l1, cityblock)
//   - chebyshev
//
// The search is brute force and exact. Results are ordered by distance, then
// with the query row itself first, then by row position, so repeated runs on
// the same input always agree. A row is always at distance 0 from itself, so
// KNeighbors(i, k+1) starts with i.
//
// # Usage
//
//	model, err := algorithms.Train(ctx, m, 5, "cosine")
//	if err != nil {
//	    return err
//	}
//	neighbors, err := model.KNeighbors(ctx, 0, model.K()+1)
//
// # Persistence
//
// Models are immutable. [NeighborModel.State] exports everything needed to
// rebuild an identical model with [FromState]; the storage package wraps the
// state in a checksummed artifact.
//
// # Thread Safety
//
// A trained model is read-only and safe for concurrent queries.
package algorithms
