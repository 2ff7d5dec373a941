// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package storage

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tomtom215/fashionrec/internal/recommend"
)

// ReadTable reads a comma-separated file with a header row. Every row must
// have as many cells as the header.
func ReadTable(stage, path string) (*recommend.Table, error) {
	return readFile(stage, path, false)
}

// ReadSource reads a raw source file. Rows shorter than the header are padded
// with empty cells; rows longer than the header are rejected.
func ReadSource(stage, path string) (*recommend.Table, error) {
	return readFile(stage, path, true)
}

// DecodeTable parses comma-separated rows with a header from r. Every row
// must have as many cells as the header.
func DecodeTable(stage string, r io.Reader) (*recommend.Table, error) {
	return decode(stage, r, false)
}

// DecodeSource is ReadSource over an already open reader.
func DecodeSource(stage string, r io.Reader) (*recommend.Table, error) {
	return decode(stage, r, true)
}

func readFile(stage, path string, padShort bool) (*recommend.Table, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, recommend.NewError(stage, recommend.ErrSourceNotFound, path, err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after read is not actionable

	info, err := f.Stat()
	if err != nil {
		return nil, recommend.NewError(stage, recommend.ErrSourceNotFound, path, err)
	}
	if info.IsDir() {
		return nil, recommend.Errorf(stage, recommend.ErrSourceNotFound, path, "is a directory")
	}

	t, err := decode(stage, f, padShort)
	if err != nil {
		var se *recommend.StageError
		if errors.As(err, &se) && se.Subject == "" {
			se.Subject = path
		}
		return nil, err
	}
	return t, nil
}

func decode(stage string, r io.Reader, padShort bool) (*recommend.Table, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	if padShort {
		cr.FieldsPerRecord = -1
	}

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, recommend.Errorf(stage, recommend.ErrInvalidInput, "", "file has no header row")
	}
	if err != nil {
		return nil, readError(stage, fmt.Errorf("read header: %w", err))
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	t := recommend.NewTable(header...)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, readError(stage, err)
		}
		if padShort {
			switch {
			case len(rec) > len(header):
				line, _ := cr.FieldPos(0)
				return nil, recommend.NewError(stage, recommend.ErrInvalidInput, "",
					&csv.ParseError{StartLine: line, Line: line, Err: csv.ErrFieldCount})
			case len(rec) < len(header):
				rec = append(rec, make([]string, len(header)-len(rec))...)
			}
		}
		t.Append(rec)
	}
	return t, nil
}

// readError classifies a failed read: malformed content is invalid input,
// anything else means the source itself could not be read.
func readError(stage string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return recommend.NewError(stage, recommend.ErrInvalidInput, "", err)
	}
	return recommend.NewError(stage, recommend.ErrSourceNotFound, "", err)
}

// WriteTable writes t atomically as comma-separated rows with a header.
func WriteTable(stage, path string, t *recommend.Table) error {
	if err := t.Validate(stage); err != nil {
		return err
	}
	err := WriteAtomic(path, func(w io.Writer) error {
		return EncodeTable(w, t)
	})
	if err != nil {
		return recommend.NewError(stage, recommend.ErrPersistence, path, err)
	}
	return nil
}

// EncodeTable writes t to w as comma-separated rows with a header.
func EncodeTable(w io.Writer, t *recommend.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}
