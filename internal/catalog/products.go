// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/fashionrec/internal/logging"
	"github.com/tomtom215/fashionrec/internal/metrics"
	"github.com/tomtom215/fashionrec/internal/recommend"
	"github.com/tomtom215/fashionrec/internal/recommend/storage"
)

const insertProduct = `INSERT INTO products (
	input_itemid, rank, product_itemid, product_category, product_name,
	avg_price, avg_discount, like_count, comment_count, product_views,
	avg_rating, units_sold
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

const selectColumns = `id, input_itemid, rank, product_itemid, product_category, product_name,
	avg_price, avg_discount, like_count, comment_count, product_views,
	avg_rating, units_sold`

// Ingest inserts rows in a single transaction. Either every row is
// committed or none is.
func (s *Store) Ingest(ctx context.Context, rows []Product) (n int, err error) {
	start := time.Now()
	defer func() { err = observe("ingest", start, err) }()

	fail := func(cause error) (int, error) {
		return 0, recommend.NewError(ingestStage, recommend.ErrPersistence, "products", cause)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fail(fmt.Errorf("begin transaction: %w", err))
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
				logging.Ctx(ctx).Warn().Err(rbErr).Msg("Catalog rollback failed")
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx, insertProduct)
	if err != nil {
		return fail(fmt.Errorf("prepare insert: %w", err))
	}
	defer stmt.Close()

	for i := range rows {
		p := &rows[i]
		if _, err := stmt.ExecContext(ctx,
			p.InputItemID, p.Rank, p.ProductItemID, p.ProductCategory, p.ProductName,
			nullable(p.AvgPrice), nullable(p.AvgDiscount), p.LikeCount, p.CommentCount, p.ProductViews,
			nullable(p.AvgRating), p.UnitsSold,
		); err != nil {
			return fail(fmt.Errorf("insert row %d: %w", i+1, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fail(fmt.Errorf("commit: %w", err))
	}

	metrics.CatalogRowsIngested.Add(float64(len(rows)))
	logging.Ctx(ctx).Info().Int("rows", len(rows)).Str("driver", s.driver).Msg("Recommendations ingested")
	return len(rows), nil
}

// IngestFile reads a recommendation CSV and ingests every row.
func (s *Store) IngestFile(ctx context.Context, path string) (int, error) {
	t, err := storage.ReadTable(ingestStage, path)
	if err != nil {
		return 0, err
	}
	rows, err := ProductsFromTable(t)
	if err != nil {
		return 0, err
	}
	return s.Ingest(ctx, rows)
}

// ByInputItem returns up to limit recommendations for one input item,
// ordered by rank. A non-positive limit returns every row.
func (s *Store) ByInputItem(ctx context.Context, inputItemID int64, limit int) (out []Product, err error) {
	start := time.Now()
	defer func() { err = observe("by_input_item", start, err) }()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + selectColumns + ` FROM products WHERE input_itemid = $1 ORDER BY rank, id`
	args := []any{inputItemID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recommendations for %d: %w", inputItemID, err)
	}
	defer rows.Close()

	out = make([]Product, 0)
	for rows.Next() {
		var p Product
		if err := rows.Scan(
			&p.ID, &p.InputItemID, &p.Rank, &p.ProductItemID, &p.ProductCategory, &p.ProductName,
			&p.AvgPrice, &p.AvgDiscount, &p.LikeCount, &p.CommentCount, &p.ProductViews,
			&p.AvgRating, &p.UnitsSold,
		); err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recommendations: %w", err)
	}
	return out, nil
}

// InputItems returns the distinct input item ids, ascending.
func (s *Store) InputItems(ctx context.Context) (ids []int64, err error) {
	start := time.Now()
	defer func() { err = observe("input_items", start, err) }()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT input_itemid FROM products ORDER BY input_itemid`)
	if err != nil {
		return nil, fmt.Errorf("query input items: %w", err)
	}
	defer rows.Close()

	ids = make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan input item: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate input items: %w", err)
	}
	return ids, nil
}

// nullable maps a nil measure to SQL NULL.
func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
