// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

type modelSection struct {
	MatrixPath string `koanf:"matrix_path" validate:"required"`
	Metric     string `koanf:"metric" validate:"required,metric"`
	Workers    int    `koanf:"workers" validate:"gte=0,lte=256"`
}

type testConfig struct {
	Model   modelSection `koanf:"model"`
	Columns []string     `koanf:"columns" validate:"min=1"`
	Driver  string       `koanf:"driver" validate:"oneof=duckdb postgres"`
}

func validTestConfig() testConfig {
	return testConfig{
		Model:   modelSection{MatrixPath: "matrix.bin", Metric: "cosine"},
		Columns: []string{"itemid"},
		Driver:  "duckdb",
	}
}

func TestValidateStruct_Valid(t *testing.T) {
	t.Parallel()

	metrics := []string{"cosine", "euclidean", "l2", "manhattan", "cityblock", "l1", "chebyshev", "COSINE"}
	for _, m := range metrics {
		cfg := validTestConfig()
		cfg.Model.Metric = m
		if err := ValidateStruct(&cfg); err != nil {
			t.Errorf("metric %q: unexpected error: %v", m, err)
		}
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*testConfig)
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{
			name:      "missing matrix path",
			mutate:    func(c *testConfig) { c.Model.MatrixPath = "" },
			wantField: "model.matrix_path",
			wantTag:   "required",
			wantMsg:   "model.matrix_path is required",
		},
		{
			name:      "unsupported metric",
			mutate:    func(c *testConfig) { c.Model.Metric = "jaccard" },
			wantField: "model.metric",
			wantTag:   "metric",
			wantMsg:   "model.metric must be a supported distance metric",
		},
		{
			name:      "workers too high",
			mutate:    func(c *testConfig) { c.Model.Workers = 1000 },
			wantField: "model.workers",
			wantTag:   "lte",
			wantMsg:   "model.workers must be less than or equal to 256",
		},
		{
			name:      "no columns",
			mutate:    func(c *testConfig) { c.Columns = nil },
			wantField: "columns",
			wantTag:   "min",
			wantMsg:   "columns must have at least 1 entries",
		},
		{
			name:      "unknown driver",
			mutate:    func(c *testConfig) { c.Driver = "sqlite" },
			wantField: "driver",
			wantTag:   "oneof",
			wantMsg:   "driver must be one of: duckdb postgres",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validTestConfig()
			tt.mutate(&cfg)

			verr := ValidateStruct(&cfg)
			if verr == nil {
				t.Fatal("ValidateStruct() returned nil, want error")
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), verr)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
			if errs[0].Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", errs[0].Error(), tt.wantMsg)
			}
		})
	}
}

func TestToAPIError_SingleError(t *testing.T) {
	t.Parallel()

	cfg := validTestConfig()
	cfg.Model.Metric = "hamming"

	apiErr := ValidateStruct(&cfg).ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Details["field"] != "model.metric" {
		t.Errorf("Details[field] = %v, want model.metric", apiErr.Details["field"])
	}
	if apiErr.Details["value"] != "hamming" {
		t.Errorf("Details[value] = %v, want hamming", apiErr.Details["value"])
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	t.Parallel()

	cfg := validTestConfig()
	cfg.Model.MatrixPath = ""
	cfg.Driver = "sqlite"

	verr := ValidateStruct(&cfg)
	if verr == nil {
		t.Fatal("expected errors")
	}
	fields := verr.Fields()
	if len(fields) != 2 || fields[0] != "model.matrix_path" || fields[1] != "driver" {
		t.Errorf("Fields() = %v", fields)
	}

	apiErr := verr.ToAPIError()
	if !strings.Contains(apiErr.Message, "model.matrix_path: model.matrix_path is required") {
		t.Errorf("Message = %q", apiErr.Message)
	}
	list, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(list) != 2 {
		t.Fatalf("Details[fields] = %#v", apiErr.Details["fields"])
	}
}

type requestQuery struct {
	Limit int    `query:"limit" validate:"gte=0"`
	Item  string `json:"item_id" validate:"required"`
}

func TestValidateStruct_RequestTags(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&requestQuery{Limit: -1})
	if verr == nil {
		t.Fatal("expected errors")
	}
	got := verr.Fields()
	if len(got) != 2 || got[0] != "limit" || got[1] != "item_id" {
		t.Errorf("Fields() = %v, want [limit item_id]", got)
	}
}
