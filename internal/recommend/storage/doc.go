// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

// Package storage persists pipeline artifacts.
//
// # Binary Artifacts
//
// Interaction matrices and neighbour models are stored as a gob-encoded
// envelope holding metadata and the gzip-compressed gob encoding of the
// payload:
//
//	structure:
//	  - Metadata (kind, format version, shape, k, metric, checksum)
//	  - CompressedData (gzip-compressed gob-encoded payload)
//
// The SHA-256 checksum of the uncompressed payload is verified on load, and
// the artifact kind must match the one requested, so a model file can never
// be read back as a matrix.
//
// The envelope carries no timestamps: the same matrix always serializes to
// the same bytes.
//
// # Tables
//
// Intermediate tables are comma-separated files with a header row.
//
// # Atomic Writes
//
// Every artifact is written to a temporary file in the destination directory
// and renamed into place only after it has been fully written and synced. A
// failed write leaves any previous artifact untouched and never leaves a
// partial file behind.
package storage
