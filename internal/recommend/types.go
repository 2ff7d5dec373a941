// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package recommend

import (
	"math"
	"strconv"
	"strings"
)

// DefaultK is the neighbour count used by recommendation generation when the
// configured k is missing or not positive.
const DefaultK = 7

// Product feature columns as written by product aggregation and stored in
// the catalog.
const (
	ColProductItemID   = "product_itemid"
	ColProductCategory = "product_category"
	ColProductName     = "product_name"
	ColAvgPrice        = "avg_price"
	ColAvgDiscount     = "avg_discount"
	ColLikeCount       = "like_count"
	ColCommentCount    = "comment_count"
	ColProductViews    = "product_views"
	ColAvgRating       = "avg_rating"
	ColUnitsSold       = "units_sold"
)

// Recommendation columns prepended to the product columns in generator output.
const (
	ColInputItemID = "input_itemid"
	ColRank        = "rank"
)

// ProductColumns lists the product feature columns in catalog order.
var ProductColumns = []string{
	ColProductItemID,
	ColProductCategory,
	ColProductName,
	ColAvgPrice,
	ColAvgDiscount,
	ColLikeCount,
	ColCommentCount,
	ColProductViews,
	ColAvgRating,
	ColUnitsSold,
}

// ReviewColumns declares which columns of a review table carry each role.
type ReviewColumns struct {
	Commenter string `koanf:"commenter" validate:"required"`
	Item      string `koanf:"item" validate:"required"`
	Rating    string `koanf:"rating" validate:"required"`
}

// DefaultReviewColumns matches the review export format.
func DefaultReviewColumns() ReviewColumns {
	return ReviewColumns{Commenter: "cmtid", Item: "itemid", Rating: "rating_star"}
}

// Names returns the columns in commenter, item, rating order.
func (c ReviewColumns) Names() []string {
	return []string{c.Commenter, c.Item, c.Rating}
}

// ProductFeatureRow is one aggregated product. The averaged measures are
// NaN when every source value was missing.
type ProductFeatureRow struct {
	ItemID       int64
	Category     string
	Name         string
	AvgPrice     float64
	AvgDiscount  float64
	LikeCount    int64
	CommentCount int64
	Views        int64
	AvgRating    float64
	UnitsSold    int64
}

// ReviewFeatureRow is one cleaned review.
type ReviewFeatureRow struct {
	CommenterID string
	ItemID      string
	Rating      float64
}

// RecommendationRow pairs an input item with one ranked neighbour and the
// neighbour's catalog cells, aligned with the product table header.
type RecommendationRow struct {
	InputItemID string
	Rank        int
	Product     []string
}

// ProductFeaturesFromTable converts product rows into typed rows. The table
// must carry every column in ProductColumns; extra columns are ignored. A
// missing average reads as NaN.
func ProductFeaturesFromTable(stage string, t *Table) ([]ProductFeatureRow, error) {
	if err := t.Validate(stage); err != nil {
		return nil, err
	}
	idx, err := t.Require(stage, ProductColumns...)
	if err != nil {
		return nil, err
	}
	out := make([]ProductFeatureRow, len(t.Rows))
	for r, row := range t.Rows {
		p := &out[r]
		if p.ItemID, err = ParseID(row[idx[0]]); err != nil {
			return nil, Errorf(stage, ErrInvalidInput, ColProductItemID, "row %d: %v", r, err)
		}
		p.Category = row[idx[1]]
		p.Name = row[idx[2]]
		floats := []struct {
			dst *float64
			col int
		}{{&p.AvgPrice, 3}, {&p.AvgDiscount, 4}, {&p.AvgRating, 8}}
		for _, f := range floats {
			if IsMissing(row[idx[f.col]]) {
				*f.dst = math.NaN()
				continue
			}
			if *f.dst, err = ParseFloat(row[idx[f.col]]); err != nil {
				return nil, Errorf(stage, ErrInvalidInput, ProductColumns[f.col], "row %d: %v", r, err)
			}
		}
		counts := []struct {
			dst *int64
			col int
		}{{&p.LikeCount, 5}, {&p.CommentCount, 6}, {&p.Views, 7}, {&p.UnitsSold, 9}}
		for _, c := range counts {
			if *c.dst, err = ParseCount(row[idx[c.col]]); err != nil {
				return nil, Errorf(stage, ErrInvalidInput, ProductColumns[c.col], "row %d: %v", r, err)
			}
		}
	}
	return out, nil
}

// ReviewFeaturesFromTable converts review rows into typed rows with
// canonical item and commenter keys.
func ReviewFeaturesFromTable(stage string, t *Table, cols ReviewColumns) ([]ReviewFeatureRow, error) {
	if err := t.Validate(stage); err != nil {
		return nil, err
	}
	idx, err := t.Require(stage, cols.Item, cols.Commenter, cols.Rating)
	if err != nil {
		return nil, err
	}
	out := make([]ReviewFeatureRow, len(t.Rows))
	for r, row := range t.Rows {
		rating, err := ParseFloat(row[idx[2]])
		if err != nil || math.IsNaN(rating) || math.IsInf(rating, 0) {
			return nil, Errorf(stage, ErrInvalidInput, cols.Rating, "row %d: rating %q is not a finite number", r, row[idx[2]])
		}
		out[r] = ReviewFeatureRow{
			ItemID:      CanonicalKey(row[idx[0]]),
			CommenterID: CanonicalKey(row[idx[1]]),
			Rating:      rating,
		}
	}
	return out, nil
}

// ParseID parses an integer identifier, accepting integral float notation.
func ParseID(cell string) (int64, error) {
	return strconv.ParseInt(CanonicalKey(cell), 10, 64)
}

// ParseCount parses a count column. Fractional values, which appear when a
// count is aggregated with mean, are rounded half away from zero.
func ParseCount(cell string) (int64, error) {
	s := strings.TrimSpace(cell)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, strconv.ErrRange
	}
	return int64(math.Round(f)), nil
}

// ParseK parses a neighbour count strictly: it must be a positive integer.
func ParseK(stage, raw string) (int, error) {
	k, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, Errorf(stage, ErrInvalidParameter, "k", "%q is not an integer", raw)
	}
	if k <= 0 {
		return 0, Errorf(stage, ErrInvalidParameter, "k", "must be positive, got %d", k)
	}
	return k, nil
}

// ResolveK parses a neighbour count leniently. It returns DefaultK and false
// when raw is not a positive integer.
func ResolveK(raw string) (int, bool) {
	k, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || k <= 0 {
		return DefaultK, false
	}
	return k, true
}
