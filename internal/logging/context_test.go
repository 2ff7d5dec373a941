// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestGenerateRunID(t *testing.T) {
	t.Parallel()

	id1 := GenerateRunID()
	id2 := GenerateRunID()

	if len(id1) != 8 {
		t.Errorf("expected 8-character run ID, got %d", len(id1))
	}
	if id1 == id2 {
		t.Error("expected unique run IDs")
	}
	if len(GenerateRequestID()) != 36 {
		t.Error("expected a full UUID request ID")
	}
}

func TestContextIDs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if RunIDFromContext(ctx) != "" || RequestIDFromContext(ctx) != "" {
		t.Error("expected empty IDs on a bare context")
	}

	ctx = ContextWithRunID(ctx, "run12345")
	ctx = ContextWithRequestID(ctx, "req-1")
	if RunIDFromContext(ctx) != "run12345" {
		t.Errorf("run ID = %q", RunIDFromContext(ctx))
	}
	if RequestIDFromContext(ctx) != "req-1" {
		t.Errorf("request ID = %q", RequestIDFromContext(ctx))
	}
}

func TestCtx_AddsContextFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))
	ctx = ContextWithRunID(ctx, "abcd1234")
	ctx = ContextWithRequestID(ctx, "req-42")

	Ctx(ctx).Info().Msg("processing")

	output := buf.String()
	for _, want := range []string{`"run_id":"abcd1234"`, `"request_id":"req-42"`, "processing"} {
		if !strings.Contains(output, want) {
			t.Errorf("output %s missing %s", output, want)
		}
	}
}

func TestLoggerFromContext_Fallback(t *testing.T) {
	t.Parallel()

	// Without a stored logger the root logger is returned; this must not panic.
	l := LoggerFromContext(context.Background())
	_ = l.Debug()
}

func TestStageLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))
	ctx = ContextWithRunID(ctx, "run00001")

	sl := NewStageLogger(ctx, "fit_model")
	sl.Started("data/artifacts/csr.gob.gz")
	sl.Completed("models/knn.gob.gz", 150*time.Millisecond)
	sl.Failed(errors.New("k must be positive"), "invalid_parameter", "k", time.Millisecond)

	output := buf.String()
	for _, want := range []string{
		`"stage":"fit_model"`,
		`"run_id":"run00001"`,
		`"message":"Stage started"`,
		`"output":"models/knn.gob.gz"`,
		`"error_kind":"invalid_parameter"`,
		`"subject":"k"`,
		`"component":"pipeline"`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %s:\n%s", want, output)
		}
	}

	buf.Reset()
	Ctx(sl.Context()).Info().Msg("inner")
	if !strings.Contains(buf.String(), `"stage":"fit_model"`) {
		t.Errorf("stage context logger lost the stage field: %s", buf.String())
	}
}
