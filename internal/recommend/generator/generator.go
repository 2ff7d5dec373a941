// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

// Package generator turns a trained neighbour model into ranked,
// catalog-enriched recommendations for every item in the matrix.
package generator

import (
	"context"
	"runtime"
	"slices"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/fashionrec/internal/logging"
	"github.com/tomtom215/fashionrec/internal/recommend"
	"github.com/tomtom215/fashionrec/internal/recommend/algorithms"
	"github.com/tomtom215/fashionrec/internal/recommend/matrix"
)

const stage = "recommend"

// Request holds the inputs of one generation run.
type Request struct {
	// Model answers the neighbour queries.
	Model algorithms.NeighborIndex

	// Matrix is the interaction matrix the model was trained on. Its
	// ItemIDs are used when PositionToID is empty.
	Matrix *matrix.InteractionMatrix

	// K is the number of recommendations per item. Values below 1 fall
	// back to recommend.DefaultK.
	K int

	// PositionToID maps matrix rows to item ids.
	PositionToID []string

	// Products is the product feature table joined onto each neighbour.
	Products *recommend.Table

	// ItemColumn is the item id column of Products.
	ItemColumn string

	// Workers bounds the number of concurrent item queries. Zero means
	// GOMAXPROCS.
	Workers int
}

// Result is the output of a generation run.
type Result struct {
	// Rows are ordered by input row position, then rank.
	Rows []recommend.RecommendationRow

	// ProductColumns is the header of each row's Product cells.
	ProductColumns []string

	// K is the neighbour count actually used.
	K int

	// DefaultedK is set when the requested K was replaced by the default.
	DefaultedK bool
}

// Generate produces K recommendations for every matrix row. An item is
// never recommended for itself; a neighbour missing from the product table
// fails the whole run with recommend.ErrJoinMismatch.
func Generate(ctx context.Context, req Request) (*Result, error) {
	logger := logging.Ctx(ctx)

	k := req.K
	defaulted := false
	if k <= 0 {
		logger.Warn().Int("k", req.K).Int("default_k", recommend.DefaultK).
			Msg("Invalid number of recommendations, using default")
		k = recommend.DefaultK
		defaulted = true
	}

	if req.Model == nil {
		return nil, recommend.Errorf(stage, recommend.ErrInvalidInput, "model", "no model supplied")
	}
	ids, err := positionIDs(req)
	if err != nil {
		return nil, err
	}
	if err := req.Products.Validate(stage); err != nil {
		return nil, err
	}
	col, err := req.Products.Require(stage, req.ItemColumn)
	if err != nil {
		return nil, err
	}
	if k+1 > len(ids) {
		return nil, recommend.Errorf(stage, recommend.ErrInvalidParameter, "k",
			"k+1 = %d exceeds the %d items in the matrix", k+1, len(ids))
	}

	catalog := make(map[string]int, req.Products.Len())
	for i, row := range req.Products.Rows {
		key := recommend.CanonicalKey(row[col[0]])
		if _, dup := catalog[key]; !dup {
			catalog[key] = i
		}
	}

	workers := req.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	perItem := make([][]recommend.RecommendationRow, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for pos := range ids {
		g.Go(func() error {
			rows, err := recommendFor(gctx, req, ids, catalog, pos, k)
			if err != nil {
				return err
			}
			perItem[pos] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Result{
		Rows:           make([]recommend.RecommendationRow, 0, len(ids)*k),
		ProductColumns: slices.Clone(req.Products.Columns),
		K:              k,
		DefaultedK:     defaulted,
	}
	for _, rows := range perItem {
		out.Rows = append(out.Rows, rows...)
	}

	logger.Info().Int("items", len(ids)).Int("k", k).Int("rows", len(out.Rows)).Msg("Recommendations generated")
	return out, nil
}

func positionIDs(req Request) ([]string, error) {
	ids := req.PositionToID
	if len(ids) == 0 {
		if req.Matrix == nil {
			return nil, recommend.Errorf(stage, recommend.ErrInvalidInput, "matrix", "neither a matrix nor an item mapping was supplied")
		}
		ids = req.Matrix.ItemIDs
	}
	if req.Matrix != nil && req.Matrix.Rows() != len(ids) {
		return nil, recommend.Errorf(stage, recommend.ErrInvalidInput, "matrix",
			"item mapping has %d entries, matrix has %d rows", len(ids), req.Matrix.Rows())
	}
	if req.Model.Rows() != len(ids) {
		return nil, recommend.Errorf(stage, recommend.ErrInvalidInput, "model",
			"model indexes %d rows, item mapping has %d", req.Model.Rows(), len(ids))
	}
	return ids, nil
}

func recommendFor(ctx context.Context, req Request, ids []string, catalog map[string]int, pos, k int) ([]recommend.RecommendationRow, error) {
	neighbors, err := req.Model.KNeighbors(ctx, pos, k+1)
	if err != nil {
		return nil, err
	}

	// The nearest result is normally the item itself; drop it wherever it
	// landed, or the nearest result if it is absent.
	self := slices.IndexFunc(neighbors, func(n algorithms.Neighbor) bool { return n.Position == pos })
	if self < 0 {
		self = 0
	}
	neighbors = slices.Delete(slices.Clone(neighbors), self, self+1)
	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}

	input := ids[pos]
	rows := make([]recommend.RecommendationRow, 0, len(neighbors))
	for rank, n := range neighbors {
		id := recommend.CanonicalKey(ids[n.Position])
		ci, ok := catalog[id]
		if !ok {
			return nil, recommend.Errorf(stage, recommend.ErrJoinMismatch, id,
				"neighbour %s of item %s has no product row in %q", id, input, req.ItemColumn)
		}
		rows = append(rows, recommend.RecommendationRow{
			InputItemID: input,
			Rank:        rank + 1,
			Product:     slices.Clone(req.Products.Rows[ci]),
		})
	}
	return rows, nil
}

// Table renders the result with the columns input_itemid, rank and then the
// product columns.
func (r *Result) Table() *recommend.Table {
	t := recommend.NewTable(append([]string{recommend.ColInputItemID, recommend.ColRank}, r.ProductColumns...)...)
	t.Rows = make([][]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		cells := make([]string, 0, 2+len(row.Product))
		cells = append(cells, row.InputItemID, strconv.Itoa(row.Rank))
		cells = append(cells, row.Product...)
		t.Rows = append(t.Rows, cells)
	}
	return t
}
