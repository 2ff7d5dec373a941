// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

/*
Package metrics provides Prometheus instrumentation for the pipeline, the
catalog and the lookup API.

# Overview

All collectors are registered on the default registry through promauto.
The serve command exposes them at /metrics. Batch commands are short-lived,
so after each model command the pipeline series are pushed to a
Pushgateway when metrics.pushgateway_url is configured (see Push).

# Available Metrics

Pipeline:
  - fashionrec_stage_duration_seconds{stage,status} (histogram)
  - fashionrec_stage_rows_in_total{stage}, fashionrec_stage_rows_out_total{stage}
  - fashionrec_stage_errors_total{stage,kind}
  - fashionrec_stage_last_success_timestamp_seconds{stage}
  - fashionrec_artifact_bytes{artifact}

Catalog and object storage:
  - fashionrec_catalog_query_duration_seconds{operation}
  - fashionrec_catalog_query_errors_total{operation}
  - fashionrec_catalog_rows_ingested_total
  - fashionrec_object_transfers_total{direction,status}
  - fashionrec_object_transfer_bytes_total{direction}

API:
  - fashionrec_api_requests_total{method,endpoint,status_code}
  - fashionrec_api_request_duration_seconds{method,endpoint}
  - fashionrec_api_active_requests
  - circuit_breaker_state{name}, circuit_breaker_requests_total{name,result},
    circuit_breaker_state_transitions_total{name,from_state,to_state}

# Usage

	start := time.Now()
	rows, err := runStage(ctx)
	metrics.RecordStage(metrics.StageOutcome{
	    Stage:     "fit_model",
	    Duration:  time.Since(start),
	    RowsOut:   rows,
	    ErrorKind: recommend.KindName(err),
	})
*/
package metrics
