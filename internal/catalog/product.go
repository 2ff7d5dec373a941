// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package catalog

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tomtom215/fashionrec/internal/recommend"
)

const ingestStage = "ingest_data"

// Product is one recommendation row as stored in the products table. The
// averaged measures are nil when every source value was missing.
type Product struct {
	ID              int64    `json:"id"`
	InputItemID     int64    `json:"input_itemid"`
	Rank            int      `json:"rank"`
	ProductItemID   int64    `json:"product_itemid"`
	ProductCategory string   `json:"product_category"`
	ProductName     string   `json:"product_name"`
	AvgPrice        *float64 `json:"avg_price"`
	AvgDiscount     *float64 `json:"avg_discount"`
	LikeCount       int64    `json:"like_count"`
	CommentCount    int64    `json:"comment_count"`
	ProductViews    int64    `json:"product_views"`
	AvgRating       *float64 `json:"avg_rating"`
	UnitsSold       int64    `json:"units_sold"`
}

// maxTextLen bounds category and name in characters, matching the
// VARCHAR(100) columns.
const maxTextLen = 100

// ProductsFromTable converts a recommendation table (input_itemid, rank and
// the product feature columns) into Products. Extra columns are ignored.
func ProductsFromTable(t *recommend.Table) ([]Product, error) {
	if err := t.Validate(ingestStage); err != nil {
		return nil, err
	}
	names := append([]string{recommend.ColInputItemID, recommend.ColRank}, recommend.ProductColumns...)
	idx, err := t.Require(ingestStage, names...)
	if err != nil {
		return nil, err
	}

	out := make([]Product, 0, t.Len())
	for i, row := range t.Rows {
		p, err := productFromRow(row, idx)
		if err != nil {
			return nil, recommend.Errorf(ingestStage, recommend.ErrInvalidInput, err.column,
				"row %d: %v", i+1, err.err)
		}
		out = append(out, p)
	}
	return out, nil
}

type cellError struct {
	column string
	err    error
}

// productFromRow parses one row; idx follows the order of the names list
// in ProductsFromTable.
func productFromRow(row []string, idx []int) (Product, *cellError) {
	var p Product
	var firstErr *cellError

	cell := func(i int) string { return row[idx[i]] }
	fail := func(col string, err error) {
		if firstErr == nil {
			firstErr = &cellError{column: col, err: err}
		}
	}
	id := func(i int, col string) int64 {
		v, err := recommend.ParseID(cell(i))
		if err != nil {
			fail(col, err)
		}
		return v
	}
	count := func(i int, col string) int64 {
		v, err := recommend.ParseCount(cell(i))
		if err != nil {
			fail(col, err)
		}
		return v
	}
	measure := func(i int, col string) *float64 {
		if recommend.IsMissing(strings.TrimSpace(cell(i))) {
			return nil
		}
		v, err := recommend.ParseFloat(cell(i))
		if err != nil {
			fail(col, err)
			return nil
		}
		return &v
	}
	text := func(i int, col string) string {
		v := strings.TrimSpace(cell(i))
		if v == "" {
			fail(col, strconv.ErrSyntax)
		}
		if !utf8.ValidString(v) {
			fail(col, strconv.ErrSyntax)
		}
		if utf8.RuneCountInString(v) > maxTextLen {
			fail(col, strconv.ErrRange)
		}
		return v
	}

	p.InputItemID = id(0, recommend.ColInputItemID)
	rank, err := strconv.Atoi(strings.TrimSpace(cell(1)))
	if err != nil || rank < 1 {
		fail(recommend.ColRank, strconv.ErrSyntax)
	}
	p.Rank = rank
	p.ProductItemID = id(2, recommend.ColProductItemID)
	p.ProductCategory = text(3, recommend.ColProductCategory)
	p.ProductName = text(4, recommend.ColProductName)
	p.AvgPrice = measure(5, recommend.ColAvgPrice)
	p.AvgDiscount = measure(6, recommend.ColAvgDiscount)
	p.LikeCount = count(7, recommend.ColLikeCount)
	p.CommentCount = count(8, recommend.ColCommentCount)
	p.ProductViews = count(9, recommend.ColProductViews)
	p.AvgRating = measure(10, recommend.ColAvgRating)
	p.UnitsSold = count(11, recommend.ColUnitsSold)

	return p, firstErr
}
