// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/tomtom215/fashionrec/internal/config"
	"github.com/tomtom215/fashionrec/internal/logging"
	"github.com/tomtom215/fashionrec/internal/metrics"
	"github.com/tomtom215/fashionrec/internal/recommend"
)

// Stage actions accepted by Run.
const (
	PreprocessProducts = "preprocess_products"
	PreprocessReviews  = "preprocess_reviews"
	TruncateReviews    = "truncate_reviews"
	BuildMatrix        = "get_csr_matrix"
	FitModel           = "fit_model"
	Recommend          = "recommend"

	// All runs every stage in order, stopping at the first failure.
	All = "all"
)

// stageOrder is the dependency order of the stages.
var stageOrder = []string{
	PreprocessProducts,
	PreprocessReviews,
	TruncateReviews,
	BuildMatrix,
	FitModel,
	Recommend,
}

// ErrUnknownAction is returned by Run for an action that is not a stage name
// or All.
var ErrUnknownAction = errors.New("unknown action")

// Actions lists every action Run accepts, stages first in run order.
func Actions() []string {
	return append(slices.Clone(stageOrder), All)
}

// Report describes one completed stage run.
type Report struct {
	Stage    string
	Output   string
	RowsIn   int
	RowsOut  int
	Bytes    int64
	Duration time.Duration
}

// stageFunc does the work of one stage. It fills in everything in the
// report except Stage, Bytes and Duration.
type stageFunc func(ctx context.Context, rep *Report) error

// Runner executes pipeline stages against one configuration.
type Runner struct {
	cfg    *config.Config
	stages map[string]stageFunc
}

// New creates a Runner. cfg is read, never modified.
func New(cfg *config.Config) *Runner {
	r := &Runner{cfg: cfg}
	r.stages = map[string]stageFunc{
		PreprocessProducts: r.preprocessProducts,
		PreprocessReviews:  r.preprocessReviews,
		TruncateReviews:    r.truncateReviews,
		BuildMatrix:        r.buildMatrix,
		FitModel:           r.fitModel,
		Recommend:          r.generateRecommendations,
	}
	return r
}

// Run executes one action. For All the reports of the stages that completed
// are returned alongside the first failure.
func (r *Runner) Run(ctx context.Context, action string) ([]Report, error) {
	if logging.RunIDFromContext(ctx) == "" {
		ctx = logging.ContextWithRunID(ctx, logging.GenerateRunID())
	}

	if action == All {
		reports := make([]Report, 0, len(stageOrder))
		for _, name := range stageOrder {
			if err := ctx.Err(); err != nil {
				return reports, err
			}
			rep, err := r.runStage(ctx, name, r.stages[name])
			if err != nil {
				return reports, err
			}
			reports = append(reports, rep)
		}
		return reports, nil
	}

	fn, ok := r.stages[action]
	if !ok {
		return nil, fmt.Errorf("%w %q (valid: %v)", ErrUnknownAction, action, Actions())
	}
	rep, err := r.runStage(ctx, action, fn)
	if err != nil {
		return nil, err
	}
	return []Report{rep}, nil
}

// runStage wraps a stage with lifecycle logging and metrics.
func (r *Runner) runStage(ctx context.Context, name string, fn stageFunc) (Report, error) {
	sl := logging.NewStageLogger(ctx, name)
	sl.Started(r.inputsOf(name)...)

	start := time.Now()
	rep := Report{Stage: name}
	err := fn(sl.Context(), &rep)
	rep.Duration = time.Since(start)

	if err != nil {
		kind := recommend.KindName(err)
		sl.Failed(err, kind, recommend.SubjectOf(err), rep.Duration)
		metrics.RecordStage(metrics.StageOutcome{
			Stage:     name,
			Duration:  rep.Duration,
			RowsIn:    rep.RowsIn,
			ErrorKind: kind,
		})
		return rep, fmt.Errorf("stage %s: %w", name, err)
	}

	if info, statErr := os.Stat(rep.Output); statErr == nil {
		rep.Bytes = info.Size()
		metrics.RecordArtifact(name, rep.Bytes)
	}
	metrics.RecordStage(metrics.StageOutcome{
		Stage:    name,
		Duration: rep.Duration,
		RowsIn:   rep.RowsIn,
		RowsOut:  rep.RowsOut,
	})
	sl.Completed(rep.Output, rep.Duration)
	return rep, nil
}

// inputsOf lists the files a stage reads, for the start log line.
func (r *Runner) inputsOf(name string) []string {
	c := r.cfg
	switch name {
	case PreprocessProducts:
		return []string{c.Products.SourcePath}
	case PreprocessReviews:
		return []string{c.Reviews.SourcePath}
	case TruncateReviews:
		return []string{c.Truncate.ReviewsPath, c.Truncate.ProductsPath}
	case BuildMatrix:
		return []string{c.Matrix.ReviewsPath}
	case FitModel:
		return []string{c.Model.MatrixPath}
	case Recommend:
		return []string{c.Recommend.ModelPath, c.Recommend.MatrixPath, c.Recommend.ProductsPath}
	}
	return nil
}
