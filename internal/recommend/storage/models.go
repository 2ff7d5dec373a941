// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package storage

import (
	"context"
	"encoding/gob"

	"github.com/tomtom215/fashionrec/internal/logging"
	"github.com/tomtom215/fashionrec/internal/recommend/algorithms"
	"github.com/tomtom215/fashionrec/internal/recommend/matrix"
)

// SaveMatrix writes an interaction matrix artifact.
func SaveMatrix(ctx context.Context, path string, m *matrix.InteractionMatrix) error {
	if err := m.Validate(); err != nil {
		return err
	}
	meta := Metadata{
		Kind:    KindMatrix,
		Rows:    m.Rows(),
		Cols:    m.Cols(),
		NonZero: m.NonZero(),
	}
	if err := save("save_csr_matrix", path, meta, m); err != nil {
		return err
	}
	logging.Ctx(ctx).Debug().Str("path", path).Int("rows", meta.Rows).Int("cols", meta.Cols).Msg("Matrix artifact written")
	return nil
}

// LoadMatrix reads an interaction matrix artifact and validates its
// structure.
func LoadMatrix(ctx context.Context, path string) (*matrix.InteractionMatrix, *Metadata, error) {
	var m matrix.InteractionMatrix
	meta, err := load("load_csr_matrix", path, KindMatrix, &m)
	if err != nil {
		return nil, nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, nil, err
	}
	logging.Ctx(ctx).Debug().Str("path", path).Int("rows", meta.Rows).Msg("Matrix artifact loaded")
	return &m, meta, nil
}

// SaveModel writes a neighbour model artifact.
func SaveModel(ctx context.Context, path string, model *algorithms.NeighborModel) error {
	state := model.State()
	meta := Metadata{
		Kind:    KindModel,
		Rows:    state.Matrix.Rows(),
		Cols:    state.Matrix.Cols(),
		NonZero: state.Matrix.NonZero(),
		K:       state.K,
		Metric:  state.Metric,
	}
	if err := save("save_model", path, meta, state); err != nil {
		return err
	}
	logging.Ctx(ctx).Debug().Str("path", path).Int("k", meta.K).Str("metric", meta.Metric).Msg("Model artifact written")
	return nil
}

// LoadModel reads a neighbour model artifact and rebuilds the model.
func LoadModel(ctx context.Context, path string) (*algorithms.NeighborModel, *Metadata, error) {
	var state algorithms.ModelState
	meta, err := load("load_model", path, KindModel, &state)
	if err != nil {
		return nil, nil, err
	}
	model, err := algorithms.FromState(ctx, &state)
	if err != nil {
		return nil, nil, err
	}
	return model, meta, nil
}

// Register gob types for serialization.
//
//nolint:gochecknoinits // gob.Register must be called in init for type registration
func init() {
	gob.Register(matrix.InteractionMatrix{})
	gob.Register(algorithms.ModelState{})
	gob.Register(Metadata{})
	gob.Register(storedFile{})
}
