// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

/*
Package catalog stores generated recommendations in a relational database
for the lookup API.

Two drivers are supported behind database/sql:

  - duckdb: an embedded file (or ":memory:"), the default
  - postgres: a remote server through lib/pq

Both use the same schema: a products table with a sequence-backed surrogate
id, one row per (input item, rank) pair, indexed on input_itemid.

Typical flow:

	store, err := catalog.Open(ctx, &cfg.Catalog)
	defer store.Close()
	err = store.CreateSchema(ctx)          // create_db
	n, err := store.IngestFile(ctx, path)  // ingest_data
	rows, err := store.ByInputItem(ctx, id, 20)

Ingestion runs in a single transaction: either every row of the file is
committed or none is.
*/
package catalog
