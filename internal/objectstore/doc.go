// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

// Package objectstore moves pipeline files to and from S3-compatible
// storage using minio-go. Paths are given as s3://bucket/key.
package objectstore
