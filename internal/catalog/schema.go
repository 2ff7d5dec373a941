// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package catalog

import (
	"context"
	"time"

	"github.com/tomtom215/fashionrec/internal/logging"
	"github.com/tomtom215/fashionrec/internal/recommend"
)

const createStage = "create_db"

// schemaStatements is valid on both DuckDB and PostgreSQL.
var schemaStatements = []string{
	`CREATE SEQUENCE IF NOT EXISTS products_id_seq START 1`,
	`CREATE TABLE IF NOT EXISTS products (
		id BIGINT PRIMARY KEY DEFAULT nextval('products_id_seq'),
		input_itemid BIGINT NOT NULL,
		rank INTEGER NOT NULL,
		product_itemid BIGINT NOT NULL,
		product_category VARCHAR(100) NOT NULL,
		product_name VARCHAR(100) NOT NULL,
		avg_price FLOAT8,
		avg_discount FLOAT8,
		like_count BIGINT,
		comment_count BIGINT,
		product_views BIGINT,
		avg_rating FLOAT8,
		units_sold BIGINT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_input_rank ON products (input_itemid, rank)`,
}

// CreateSchema creates the products table and its sequence and index. It is
// idempotent.
func (s *Store) CreateSchema(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { err = observe("create_schema", start, err) }()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return recommend.NewError(createStage, recommend.ErrPersistence, "products", err)
		}
	}

	logging.Ctx(ctx).Info().Str("driver", s.driver).Msg("Catalog schema ready")
	return nil
}
