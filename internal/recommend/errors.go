// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package recommend

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error returned by a pipeline stage matches exactly one
// of these with errors.Is.
var (
	// ErrSourceNotFound indicates an input path is absent or unreadable.
	ErrSourceNotFound = errors.New("source not found")

	// ErrMissingColumn indicates a required column is absent from a table.
	ErrMissingColumn = errors.New("missing column")

	// ErrSchemaMismatch indicates parallel column/function lists differ in length.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrInvalidParameter indicates a bad k, metric or aggregation function.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidInput indicates input that is not tabular or not numeric where required.
	ErrInvalidInput = errors.New("invalid input")

	// ErrJoinMismatch indicates a neighbour id with no catalog row.
	ErrJoinMismatch = errors.New("join mismatch")

	// ErrPersistence indicates an artifact could not be written or read back.
	ErrPersistence = errors.New("persistence failure")
)

var kinds = []error{
	ErrSourceNotFound,
	ErrMissingColumn,
	ErrSchemaMismatch,
	ErrInvalidParameter,
	ErrInvalidInput,
	ErrJoinMismatch,
	ErrPersistence,
}

// StageError is the concrete error returned by pipeline stages.
// Subject names the implicated path, column or parameter.
type StageError struct {
	Stage   string
	Kind    error
	Subject string
	Err     error
}

// NewError builds a StageError. err may be nil.
func NewError(stage string, kind error, subject string, err error) *StageError {
	return &StageError{Stage: stage, Kind: kind, Subject: subject, Err: err}
}

// Errorf builds a StageError whose cause is a formatted message.
func Errorf(stage string, kind error, subject, format string, args ...any) *StageError {
	return NewError(stage, kind, subject, fmt.Errorf(format, args...))
}

func (e *StageError) Error() string {
	var b strings.Builder
	if e.Stage != "" {
		b.WriteString(e.Stage)
		b.WriteString(": ")
	}
	if e.Kind != nil {
		b.WriteString(e.Kind.Error())
	} else {
		b.WriteString("error")
	}
	if e.Subject != "" {
		fmt.Fprintf(&b, " %q", e.Subject)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the underlying cause.
func (e *StageError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindName returns a short label for the error kind of err, suitable for log
// fields and metric labels. Errors outside the pipeline map to "internal".
func KindName(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSourceNotFound):
		return "source_not_found"
	case errors.Is(err, ErrMissingColumn):
		return "missing_column"
	case errors.Is(err, ErrSchemaMismatch):
		return "schema_mismatch"
	case errors.Is(err, ErrInvalidParameter):
		return "invalid_parameter"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrJoinMismatch):
		return "join_mismatch"
	case errors.Is(err, ErrPersistence):
		return "persistence"
	default:
		return "internal"
	}
}

// IsPipelineError reports whether err carries one of the pipeline error kinds.
func IsPipelineError(err error) bool {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return true
		}
	}
	return false
}

// SubjectOf returns the Subject of the first StageError in err's chain.
func SubjectOf(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Subject
	}
	return ""
}
