// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package features

import (
	"context"
	"slices"

	"github.com/tomtom215/fashionrec/internal/logging"
	"github.com/tomtom215/fashionrec/internal/recommend"
)

const truncateStage = "truncate_reviews"

// Truncate keeps the reviews whose item appears in the product table.
// Survivors keep their relative order and SourceIndex records the position
// each one had in reviews.
func Truncate(ctx context.Context, reviews *recommend.Table, reviewItemColumn string, products *recommend.Table, productItemColumn string) (*recommend.Table, error) {
	if err := reviews.Validate(truncateStage); err != nil {
		return nil, err
	}
	if err := products.Validate(truncateStage); err != nil {
		return nil, err
	}
	ri, err := reviews.Require(truncateStage, reviewItemColumn)
	if err != nil {
		return nil, err
	}
	pi, err := products.Require(truncateStage, productItemColumn)
	if err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, products.Len())
	for _, row := range products.Rows {
		known[recommend.CanonicalKey(row[pi[0]])] = struct{}{}
	}

	out := &recommend.Table{
		Columns:     slices.Clone(reviews.Columns),
		SourceIndex: []int{},
	}
	for i, row := range reviews.Rows {
		if _, ok := known[recommend.CanonicalKey(row[ri[0]])]; !ok {
			continue
		}
		out.Rows = append(out.Rows, slices.Clone(row))
		src := i
		if reviews.SourceIndex != nil {
			src = reviews.SourceIndex[i]
		}
		out.SourceIndex = append(out.SourceIndex, src)
	}

	logging.Ctx(ctx).Info().
		Int("reviews", reviews.Len()).
		Int("products", len(known)).
		Int("kept", out.Len()).
		Msg("Reviews truncated to known products")

	return out, nil
}
