// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"slices"

	"github.com/tomtom215/fashionrec/internal/logging"
	"github.com/tomtom215/fashionrec/internal/recommend"
	"github.com/tomtom215/fashionrec/internal/recommend/algorithms"
	"github.com/tomtom215/fashionrec/internal/recommend/features"
	"github.com/tomtom215/fashionrec/internal/recommend/generator"
	"github.com/tomtom215/fashionrec/internal/recommend/matrix"
	"github.com/tomtom215/fashionrec/internal/recommend/storage"
)

func (r *Runner) preprocessProducts(ctx context.Context, rep *Report) error {
	c := r.cfg.Products

	raw, err := features.Extract(ctx, c.SourcePath, c.Columns)
	if err != nil {
		return err
	}
	rep.RowsIn = raw.Len()

	products, err := features.Aggregate(ctx, raw, c.Aggregate)
	if err != nil {
		return err
	}
	// The recommend and ingest stages read these columns back.
	if _, err := recommend.ProductFeaturesFromTable(PreprocessProducts, products); err != nil {
		return err
	}

	if err := prepareOutput(PreprocessProducts, c.OutputPath); err != nil {
		return err
	}
	if err := storage.WriteTable(PreprocessProducts, c.OutputPath, products); err != nil {
		return err
	}
	rep.RowsOut = products.Len()
	rep.Output = c.OutputPath
	return nil
}

func (r *Runner) preprocessReviews(ctx context.Context, rep *Report) error {
	c := r.cfg.Reviews

	reviews, err := features.Extract(ctx, c.SourcePath, c.Columns.Names())
	if err != nil {
		return err
	}
	rep.RowsIn = reviews.Len()

	if err := prepareOutput(PreprocessReviews, c.OutputPath); err != nil {
		return err
	}
	if err := storage.WriteTable(PreprocessReviews, c.OutputPath, reviews); err != nil {
		return err
	}
	rep.RowsOut = reviews.Len()
	rep.Output = c.OutputPath
	return nil
}

func (r *Runner) truncateReviews(ctx context.Context, rep *Report) error {
	c := r.cfg.Truncate

	reviews, err := storage.ReadTable(TruncateReviews, c.ReviewsPath)
	if err != nil {
		return err
	}
	products, err := storage.ReadTable(TruncateReviews, c.ProductsPath)
	if err != nil {
		return err
	}
	rep.RowsIn = reviews.Len()

	kept, err := features.Truncate(ctx, reviews, c.ReviewColumn, products, c.ProductColumn)
	if err != nil {
		return err
	}

	if err := prepareOutput(TruncateReviews, c.OutputPath); err != nil {
		return err
	}
	if err := storage.WriteTable(TruncateReviews, c.OutputPath, kept.Reindexed()); err != nil {
		return err
	}
	rep.RowsOut = kept.Len()
	rep.Output = c.OutputPath
	return nil
}

func (r *Runner) buildMatrix(ctx context.Context, rep *Report) error {
	c := r.cfg.Matrix

	reviews, err := storage.ReadTable(BuildMatrix, c.ReviewsPath)
	if err != nil {
		return err
	}
	rep.RowsIn = reviews.Len()

	m, err := matrix.Build(ctx, reviews, c.ItemColumn, c.UserColumn, c.RatingColumn)
	if err != nil {
		return err
	}

	if err := prepareOutput(BuildMatrix, c.OutputPath); err != nil {
		return err
	}
	if err := storage.SaveMatrix(ctx, c.OutputPath, m); err != nil {
		return err
	}
	rep.RowsOut = m.Rows()
	rep.Output = c.OutputPath
	return nil
}

// fitModel parses k before reading the matrix, so a bad k fails without
// any I/O.
func (r *Runner) fitModel(ctx context.Context, rep *Report) error {
	c := r.cfg.Model

	k, err := recommend.ParseK(FitModel, c.K)
	if err != nil {
		return err
	}

	m, _, err := storage.LoadMatrix(ctx, c.MatrixPath)
	if err != nil {
		return err
	}
	rep.RowsIn = m.Rows()

	model, err := algorithms.Train(ctx, m, k, c.Metric)
	if err != nil {
		return err
	}

	if err := prepareOutput(FitModel, c.OutputPath); err != nil {
		return err
	}
	if err := storage.SaveModel(ctx, c.OutputPath, model); err != nil {
		return err
	}
	rep.RowsOut = model.Rows()
	rep.Output = c.OutputPath
	return nil
}

func (r *Runner) generateRecommendations(ctx context.Context, rep *Report) error {
	c := r.cfg.Recommend

	k, ok := recommend.ResolveK(c.K)
	if !ok {
		logging.Ctx(ctx).Debug().Str("k", c.K).Msg("Configured k is not a positive integer")
		k = 0
	}

	model, _, err := storage.LoadModel(ctx, c.ModelPath)
	if err != nil {
		return err
	}
	m, _, err := storage.LoadMatrix(ctx, c.MatrixPath)
	if err != nil {
		return err
	}
	if !slices.Equal(model.ItemIDs(), m.ItemIDs) {
		return recommend.Errorf(Recommend, recommend.ErrInvalidInput, c.MatrixPath,
			"matrix items differ from the items the model at %s was trained on", c.ModelPath)
	}
	products, err := storage.ReadTable(Recommend, c.ProductsPath)
	if err != nil {
		return err
	}
	rep.RowsIn = m.Rows()

	res, err := generator.Generate(ctx, generator.Request{
		Model:      model,
		Matrix:     m,
		K:          k,
		Products:   products,
		ItemColumn: c.ItemColumn,
		Workers:    c.Workers,
	})
	if err != nil {
		return err
	}

	if err := prepareOutput(Recommend, c.OutputPath); err != nil {
		return err
	}
	if err := storage.WriteTable(Recommend, c.OutputPath, res.Table()); err != nil {
		return err
	}
	rep.RowsOut = len(res.Rows)
	rep.Output = c.OutputPath
	return nil
}

// prepareOutput creates the directory that will hold an artifact.
func prepareOutput(stage, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return recommend.NewError(stage, recommend.ErrPersistence, dir, err)
	}
	return nil
}
