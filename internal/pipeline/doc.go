// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

// Package pipeline runs the offline recommendation stages.
//
// Each stage reads the artifacts written by the one before it, calls into
// the recommend packages, and writes its own artifact atomically:
//
//	preprocess_products  raw products  -> product features CSV
//	preprocess_reviews   raw reviews   -> review features CSV
//	truncate_reviews     reviews + products -> reviews of known products
//	get_csr_matrix       reviews       -> interaction matrix artifact
//	fit_model            matrix        -> neighbor model artifact
//	recommend            model + matrix + products -> recommendations CSV
//
// Any stage can be re-run alone from its persisted inputs. A failing stage
// leaves its previous output untouched and returns an error that wraps one
// of the recommend error kinds.
package pipeline
