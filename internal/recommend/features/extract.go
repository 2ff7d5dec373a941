// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package features

import (
	"context"
	"io"
	"slices"

	"github.com/tomtom215/fashionrec/internal/logging"
	"github.com/tomtom215/fashionrec/internal/recommend"
	"github.com/tomtom215/fashionrec/internal/recommend/storage"
)

const extractStage = "get_features"

// Extract reads the file at path and keeps exactly the required columns, in
// the order given. Rows with a missing value in any kept column are dropped
// and the survivors are numbered from 0 in their original order. A row with
// fewer cells than the header is read with its trailing cells missing. A
// cell is missing only when it equals one of the NA tokens exactly, so a
// cell holding only whitespace is kept.
func Extract(ctx context.Context, path string, required []string) (*recommend.Table, error) {
	raw, err := storage.ReadSource(extractStage, path)
	if err != nil {
		return nil, err
	}
	logging.Ctx(ctx).Info().Str("path", path).Int("rows", raw.Len()).Msg("Source data loaded")
	return Select(ctx, raw, required)
}

// ExtractFrom is Extract over an already open reader.
func ExtractFrom(ctx context.Context, r io.Reader, required []string) (*recommend.Table, error) {
	raw, err := storage.DecodeSource(extractStage, r)
	if err != nil {
		return nil, err
	}
	return Select(ctx, raw, required)
}

// Select restricts a table to the required columns and drops incomplete rows.
func Select(ctx context.Context, raw *recommend.Table, required []string) (*recommend.Table, error) {
	if len(required) == 0 {
		return nil, recommend.Errorf(extractStage, recommend.ErrInvalidParameter, "columns", "no columns requested")
	}
	if err := raw.Validate(extractStage); err != nil {
		return nil, err
	}
	idx, err := raw.Require(extractStage, required...)
	if err != nil {
		return nil, err
	}

	out := recommend.NewTable(required...)
	dropped := 0
	for _, row := range raw.Rows {
		kept := make([]string, len(idx))
		complete := true
		for i, c := range idx {
			if recommend.IsMissing(row[c]) {
				complete = false
				break
			}
			kept[i] = row[c]
		}
		if !complete {
			dropped++
			continue
		}
		out.Append(kept)
	}

	logging.Ctx(ctx).Info().
		Strs("columns", slices.Clone(required)).
		Int("kept", out.Len()).
		Int("dropped", dropped).
		Msg("Columns acquired")

	return out, nil
}
