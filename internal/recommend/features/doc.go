// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

// Package features cleans and shapes the raw product and review exports.
//
//   - Extract keeps the configured columns of a delimited file and drops rows
//     with a missing value in any of them.
//   - Aggregate collapses product rows to one row per product.
//   - Truncate keeps only the reviews of known products.
//
// All three return new tables and leave their inputs untouched.
package features
