// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Metrics live on the default registry and are shared across tests, so each
// test uses its own label values and compares deltas.

func TestRecordStage_Success(t *testing.T) {
	stage := "test_stage_success"

	RecordStage(StageOutcome{Stage: stage, Duration: 20 * time.Millisecond, RowsIn: 10, RowsOut: 4})

	if got := testutil.ToFloat64(StageRowsIn.WithLabelValues(stage)); got != 10 {
		t.Errorf("rows in = %v, want 10", got)
	}
	if got := testutil.ToFloat64(StageRowsOut.WithLabelValues(stage)); got != 4 {
		t.Errorf("rows out = %v, want 4", got)
	}
	if got := testutil.ToFloat64(StageLastSuccess.WithLabelValues(stage)); got <= 0 {
		t.Errorf("last success = %v, want a timestamp", got)
	}
	if got := testutil.CollectAndCount(StageDuration, "fashionrec_stage_duration_seconds"); got == 0 {
		t.Error("stage duration histogram has no series")
	}
}

func TestRecordStage_Failure(t *testing.T) {
	stage := "test_stage_failure"

	RecordStage(StageOutcome{Stage: stage, Duration: time.Millisecond, RowsIn: 3, ErrorKind: "missing_column"})
	RecordStage(StageOutcome{Stage: stage, Duration: time.Millisecond, ErrorKind: "missing_column"})

	if got := testutil.ToFloat64(StageErrors.WithLabelValues(stage, "missing_column")); got != 2 {
		t.Errorf("errors = %v, want 2", got)
	}
	if got := testutil.ToFloat64(StageLastSuccess.WithLabelValues(stage)); got != 0 {
		t.Errorf("failed run set last success to %v", got)
	}
	if got := testutil.ToFloat64(StageRowsOut.WithLabelValues(stage)); got != 0 {
		t.Errorf("rows out = %v, want 0", got)
	}
}

func TestRecordArtifact(t *testing.T) {
	RecordArtifact("test_artifact", 4096)
	RecordArtifact("test_artifact", 1024)

	if got := testutil.ToFloat64(ArtifactBytes.WithLabelValues("test_artifact")); got != 1024 {
		t.Errorf("artifact bytes = %v, want latest value 1024", got)
	}
}

func TestRecordCatalogQuery(t *testing.T) {
	op := "test_by_input_item"

	RecordCatalogQuery(op, time.Millisecond, nil)
	RecordCatalogQuery(op, time.Millisecond, errors.New("connection refused"))

	if got := testutil.ToFloat64(CatalogQueryErrors.WithLabelValues(op)); got != 1 {
		t.Errorf("catalog errors = %v, want 1", got)
	}
}

func TestRecordTransfer(t *testing.T) {
	before := testutil.ToFloat64(ObjectTransferBytes.WithLabelValues("upload"))
	failBefore := testutil.ToFloat64(ObjectTransfers.WithLabelValues("upload", "failure"))

	RecordTransfer("upload", 512, nil)
	RecordTransfer("upload", 999, errors.New("no credentials"))

	if got := testutil.ToFloat64(ObjectTransferBytes.WithLabelValues("upload")) - before; got != 512 {
		t.Errorf("uploaded bytes delta = %v, want 512", got)
	}
	if got := testutil.ToFloat64(ObjectTransfers.WithLabelValues("upload", "failure")) - failBefore; got != 1 {
		t.Errorf("failed uploads delta = %v, want 1", got)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	RecordAPIRequest("GET", "/test/items", "200", 5*time.Millisecond)
	RecordAPIRequest("GET", "/test/items", "200", 7*time.Millisecond)

	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/test/items", "200")); got != 2 {
		t.Errorf("requests = %v, want 2", got)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	TrackActiveRequest(true)
	TrackActiveRequest(false)

	if got := testutil.ToFloat64(APIActiveRequests) - before; got != 1 {
		t.Errorf("active delta = %v, want 1", got)
	}
	TrackActiveRequest(false)
}

func TestSetAppInfo(t *testing.T) {
	SetAppInfo("test-version")

	if got := testutil.CollectAndCount(AppInfo, "app_info"); got == 0 {
		t.Error("app_info has no series")
	}
}

func TestMetricLint(t *testing.T) {
	RecordStage(StageOutcome{Stage: "lint", Duration: time.Millisecond})

	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Fatalf("GatherAndLint: %v", err)
	}
	for _, p := range problems {
		t.Logf("Metric lint problem: %s: %s", p.Metric, p.Text)
	}
}
