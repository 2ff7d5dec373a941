// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

// Package recommend holds the shared data model of the offline
// item-to-item recommendation pipeline.
//
// # Pipeline
//
// Raw product and review exports flow strictly left to right through the
// subpackages:
//
//	features    extract columns, aggregate products, truncate reviews
//	matrix      build the item x user interaction matrix (CSR)
//	algorithms  train the exact nearest-neighbour index
//	generator   turn neighbours into ranked, catalog-enriched rows
//	storage     persist matrices and models as checksummed artifacts
//
// Every stage is a pure function of its inputs. Stages never mutate the
// tables they receive; filtering and reordering always produce a new
// [Table].
//
// # Errors
//
// All stages report failures as [*StageError] values whose kind is one of
// the sentinel errors below, so callers can branch with errors.Is:
//
//	if errors.Is(err, recommend.ErrMissingColumn) {
//	    // configuration names a column the data does not have
//	}
//
// Nothing in this package or its subpackages terminates the process.
//
// # Keys
//
// Item and user identifiers are compared through [CanonicalKey] and
// [CompareKeys] so that "123", "123.0" and " 123 " denote the same item and
// numeric identifiers sort numerically ahead of non-numeric ones.
package recommend
