// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package matrix

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"reflect"
	"slices"
	"testing"

	"github.com/tomtom215/fashionrec/internal/recommend"
)

func loadSample(t *testing.T) *recommend.Table {
	t.Helper()

	f, err := os.Open("testdata/sample_reviews.csv")
	if err != nil {
		t.Fatalf("open sample: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	return &recommend.Table{Columns: records[0], Rows: records[1:]}
}

func TestBuild_SampleReviews(t *testing.T) {
	t.Parallel()

	m, err := Build(context.Background(), loadSample(t), "itemid", "cmtid", "rating_star")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := [][]float64{
		{0, 4, 0, 4, 0, 0, 0, 4, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 4, 0},
		{4, 0, 4, 0, 0, 0, 4, 0, 0, 0},
		{0, 0, 0, 0, 4, 4, 0, 0, 0, 4},
	}
	if got := m.Dense(); !reflect.DeepEqual(got, want) {
		t.Errorf("Dense() =\n%v\nwant\n%v", got, want)
	}

	wantItems := []string{"3550379942", "5640404015", "7543788697", "9312209380"}
	if !slices.Equal(m.ItemIDs, wantItems) {
		t.Errorf("ItemIDs = %v, want %v", m.ItemIDs, wantItems)
	}
	if m.Cols() != 10 {
		t.Errorf("Cols() = %d, want 10", m.Cols())
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestBuild_IndependentOfRowOrder(t *testing.T) {
	t.Parallel()

	sample := loadSample(t)
	reversed := sample.Clone()
	slices.Reverse(reversed.Rows)

	a, err := Build(context.Background(), sample, "itemid", "cmtid", "rating_star")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Build(context.Background(), reversed, "itemid", "cmtid", "rating_star")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("matrix depends on input row order")
	}
}

func TestBuild_ShapeMatchesDistinctIDs(t *testing.T) {
	t.Parallel()

	tbl := recommend.NewTable("itemid", "cmtid", "rating_star")
	tbl.Append([]string{"20", "u1", "5"})
	tbl.Append([]string{"3", "u2", "1"})
	tbl.Append([]string{"20", "u2", "2"})
	tbl.Append([]string{"100", "u3", "3"})
	tbl.Append([]string{"3.0", "u1", "4"})

	m, err := Build(context.Background(), tbl, "itemid", "cmtid", "rating_star")
	if err != nil {
		t.Fatal(err)
	}
	if m.Rows() != 3 || m.Cols() != 3 {
		t.Fatalf("shape = %dx%d, want 3x3", m.Rows(), m.Cols())
	}
	if !slices.Equal(m.ItemIDs, []string{"3", "20", "100"}) {
		t.Errorf("items sort numerically, got %v", m.ItemIDs)
	}
	if got := m.Dense()[0][0]; got != 4 {
		t.Errorf("cell (3, u1) = %v, want 4", got)
	}
}

func TestBuild_DuplicatePairsAveraged(t *testing.T) {
	t.Parallel()

	tbl := recommend.NewTable("itemid", "cmtid", "rating_star")
	tbl.Append([]string{"1", "a", "5"})
	tbl.Append([]string{"1", "a", "2"})
	tbl.Append([]string{"1", "b", "3"})

	m, err := Build(context.Background(), tbl, "itemid", "cmtid", "rating_star")
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Dense()[0][0]; got != 3.5 {
		t.Errorf("duplicate cell = %v, want mean 3.5", got)
	}
	if m.NonZero() != 2 {
		t.Errorf("NonZero() = %d, want 2", m.NonZero())
	}
}

func TestBuild_Errors(t *testing.T) {
	t.Parallel()

	tbl := recommend.NewTable("itemid", "cmtid")
	tbl.Append([]string{"1", "a"})
	_, err := Build(context.Background(), tbl, "itemid", "cmtid", "rating_star")
	if !errors.Is(err, recommend.ErrMissingColumn) {
		t.Errorf("expected ErrMissingColumn, got %v", err)
	}

	bad := recommend.NewTable("itemid", "cmtid", "rating_star")
	bad.Append([]string{"1", "a", "great"})
	_, err = Build(context.Background(), bad, "itemid", "cmtid", "rating_star")
	if !errors.Is(err, recommend.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestValidate_RejectsCorruptMatrix(t *testing.T) {
	t.Parallel()

	m := &InteractionMatrix{
		ItemIDs: []string{"1", "2"},
		UserIDs: []string{"a"},
		IndPtr:  []int{0, 1, 2},
		Indices: []int{0, 3},
		Data:    []float64{1, 1},
	}
	if err := m.Validate(); !errors.Is(err, recommend.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for out-of-range column, got %v", err)
	}

	var nilMatrix *InteractionMatrix
	if err := nilMatrix.Validate(); err == nil {
		t.Error("nil matrix validated")
	}
}
