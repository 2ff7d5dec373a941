// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

// Package testinfra starts backing services in Docker for integration tests.
//
// Everything here is behind the integration build tag:
//
//	go test -tags integration ./...
//
// # PostgreSQL
//
//	pg, err := testinfra.NewPostgresContainer(ctx)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	testinfra.TerminateOnCleanup(t, pg)
//	store, err := catalog.Open(ctx, &config.CatalogConfig{Driver: "postgres", DSN: pg.DSN})
//
// # MinIO
//
// MinIOContainer exposes an S3-compatible endpoint with fixed credentials,
// used by the objectstore upload and download tests.
//
// Tests call SkipIfNoDocker first so that machines without Docker skip them.
package testinfra
