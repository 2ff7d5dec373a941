// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

// Package matrix builds the item x user interaction matrix used to train the
// nearest-neighbour model.
//
// Rows are the distinct item ids and columns the distinct user ids, both in
// ascending key order (see recommend.CompareKeys). A cell holds the rating a
// user gave an item, or zero. When a user rated the same item more than once
// the cell holds the arithmetic mean of those ratings, computed in a fixed
// order so the result does not depend on input row order.
//
// The matrix is stored in compressed sparse row form and carries its axis
// labels, so the position-to-item mapping used at generation time is exactly
// the one used at build time:
//
//	m, err := matrix.Build(ctx, reviews, "itemid", "cmtid", "rating_star")
//	row := m.Row(0)        // dense ratings of m.ItemIDs[0]
//	dense := m.Dense()     // len(m.ItemIDs) x len(m.UserIDs)
package matrix
