// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

//go:build integration

package catalog

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/tomtom215/fashionrec/internal/config"
	"github.com/tomtom215/fashionrec/internal/recommend"
	"github.com/tomtom215/fashionrec/internal/testinfra"
)

func TestPostgresCatalog(t *testing.T) {
	testinfra.SkipIfNoDocker(t)
	ctx := context.Background()

	pg, err := testinfra.NewPostgresContainer(ctx)
	if err != nil {
		t.Fatal(err)
	}
	testinfra.TerminateOnCleanup(t, pg)

	s, err := Open(ctx, &config.CatalogConfig{
		Driver:       DriverPostgres,
		DSN:          pg.DSN,
		MaxOpenConns: 2,
		QueryTimeout: 10 * time.Second,
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if err := s.CreateSchema(ctx); err != nil {
		t.Fatalf("CreateSchema: %v", err)
	}
	if err := s.CreateSchema(ctx); err != nil {
		t.Fatalf("second CreateSchema: %v", err)
	}

	rows, err := ProductsFromTable(recommendationTable())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Ingest(ctx, rows); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	items, err := s.InputItems(ctx)
	if err != nil {
		t.Fatalf("InputItems: %v", err)
	}
	if !slices.Equal(items, []int64{101, 102}) {
		t.Errorf("InputItems = %v", items)
	}

	got, err := s.ByInputItem(ctx, 101, 2)
	if err != nil {
		t.Fatalf("ByInputItem: %v", err)
	}
	if len(got) != 2 || got[0].Rank != 1 || got[1].Rank != 2 {
		t.Errorf("ByInputItem = %+v", got)
	}

	// VARCHAR(100) is enforced by PostgreSQL, so an oversized name fails
	// the whole batch.
	bad := slices.Clone(rows)
	long := make([]byte, 150)
	for i := range long {
		long[i] = 'x'
	}
	bad[1].ProductName = string(long)
	if _, err := s.Ingest(ctx, bad); !errors.Is(err, recommend.ErrPersistence) {
		t.Fatalf("Ingest oversized = %v, want ErrPersistence", err)
	}
	after, err := s.ByInputItem(ctx, 101, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(after) != 3 {
		t.Errorf("rows after failed ingest = %d, want 3", len(after))
	}
}
