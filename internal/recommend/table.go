// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package recommend

import (
	"fmt"
	"slices"
	"strings"
)

// Table is an untyped, header-addressed set of rows as read from a
// delimited file. Rows are addressed by position, which is always
// contiguous from 0.
type Table struct {
	Columns []string
	Rows    [][]string

	// SourceIndex maps each row to its position in the table it was
	// filtered from. Nil means the rows are not derived from another table.
	SourceIndex []int
}

// NewTable returns an empty table with the given header.
func NewTable(columns ...string) *Table {
	return &Table{Columns: slices.Clone(columns)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex returns the position of a column or -1.
func (t *Table) ColumnIndex(name string) int {
	return slices.Index(t.Columns, name)
}

// Require resolves the positions of the named columns. Every absent name
// is reported in a single ErrMissingColumn error.
func (t *Table) Require(stage string, names ...string) ([]int, error) {
	idx := make([]int, len(names))
	var missing []string
	for i, name := range names {
		idx[i] = t.ColumnIndex(name)
		if idx[i] < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, NewError(stage, ErrMissingColumn, strings.Join(missing, ","), nil)
	}
	return idx, nil
}

// Validate checks that the table is rectangular.
func (t *Table) Validate(stage string) error {
	if t == nil {
		return Errorf(stage, ErrInvalidInput, "", "table is nil")
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return Errorf(stage, ErrInvalidInput, "", "row %d has %d cells, header has %d", i, len(row), len(t.Columns))
		}
	}
	if t.SourceIndex != nil && len(t.SourceIndex) != len(t.Rows) {
		return Errorf(stage, ErrInvalidInput, "", "source index covers %d rows, table has %d", len(t.SourceIndex), len(t.Rows))
	}
	return nil
}

// Append adds a row. The row is stored as given.
func (t *Table) Append(row []string) {
	t.Rows = append(t.Rows, row)
}

// Column returns a copy of every value in the named column.
func (t *Table) Column(name string) ([]string, error) {
	i := t.ColumnIndex(name)
	if i < 0 {
		return nil, NewError("", ErrMissingColumn, name, nil)
	}
	out := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out, nil
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	out := &Table{
		Columns:     slices.Clone(t.Columns),
		Rows:        make([][]string, len(t.Rows)),
		SourceIndex: slices.Clone(t.SourceIndex),
	}
	for i, row := range t.Rows {
		out.Rows[i] = slices.Clone(row)
	}
	return out
}

// Reindexed returns a copy with the source positions discarded, so the rows
// are treated as original data numbered 0..n-1.
func (t *Table) Reindexed() *Table {
	out := t.Clone()
	out.SourceIndex = nil
	return out
}

// String renders a compact description for logs and test failures.
func (t *Table) String() string {
	return fmt.Sprintf("Table[%d cols x %d rows](%s)", len(t.Columns), len(t.Rows), strings.Join(t.Columns, ","))
}
