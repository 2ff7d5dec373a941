// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeConfig writes a config that runs the pipeline on the pipeline
// package fixtures with every output under a temp dir.
func writeConfig(t *testing.T) (path, dir string) {
	t.Helper()
	dir = t.TempDir()
	fixtures, err := filepath.Abs(filepath.Join("..", "..", "internal", "pipeline", "testdata"))
	if err != nil {
		t.Fatal(err)
	}
	out := func(name string) string { return filepath.Join(dir, name) }

	yaml := fmt.Sprintf(`products:
  source_path: %[1]s
  output_path: %[2]s
reviews:
  source_path: %[3]s
  output_path: %[4]s
truncate:
  reviews_path: %[4]s
  products_path: %[2]s
  output_path: %[5]s
matrix:
  reviews_path: %[5]s
  output_path: %[6]s
model:
  matrix_path: %[6]s
  k: 3
  output_path: %[7]s
recommend:
  model_path: %[7]s
  matrix_path: %[6]s
  products_path: %[2]s
  k: 3
  output_path: %[8]s
catalog:
  driver: duckdb
  dsn: %[9]s
  input_path: %[8]s
logging:
  level: error
`,
		filepath.Join(fixtures, "products.csv"),
		out("processed/products.csv"),
		filepath.Join(fixtures, "reviews.csv"),
		out("processed/reviews.csv"),
		out("processed/reviews_truncated.csv"),
		out("model/matrix.bin"),
		out("model/model.bin"),
		out("output/recommendations.csv"),
		out("db/catalog.duckdb"),
	)
	path = filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	return path, dir
}

func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_Usage(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no command", nil, exitUsage},
		{"unknown command", []string{"train"}, exitUsage},
		{"bad global flag", []string{"--nope"}, exitUsage},
		{"help", []string{"-h"}, exitOK},
		{"version", []string{"--version"}, exitOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code, _, stderr := runCLI(t, tt.args...); code != tt.want {
				t.Errorf("exit = %d, want %d (stderr %s)", code, tt.want, stderr)
			}
		})
	}
}

func TestRun_ModelUsageErrors(t *testing.T) {
	cfgPath, _ := writeConfig(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown action", []string{"model", "train_everything"}},
		{"missing action", []string{"model"}},
		{"two actions", []string{"model", "fit_model", "recommend"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, _ := runCLI(t, append([]string{"--config", cfgPath}, tt.args...)...)
			if code != exitUsage {
				t.Errorf("exit = %d, want %d", code, exitUsage)
			}
		})
	}
}

func TestRun_MissingConfigFile(t *testing.T) {
	code, _, stderr := runCLI(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"), "model", "all")
	if code != exitFailure {
		t.Errorf("exit = %d, want %d", code, exitFailure)
	}
	if !strings.Contains(stderr, "absent.yaml") {
		t.Errorf("stderr does not name the file: %s", stderr)
	}
}

func TestRun_PipelineToCatalog(t *testing.T) {
	cfgPath, dir := writeConfig(t)

	code, stdout, stderr := runCLI(t, "--config", cfgPath, "model", "all")
	if code != exitOK {
		t.Fatalf("model all exit = %d, stderr %s", code, stderr)
	}
	for _, stage := range []string{"preprocess_products", "get_csr_matrix", "recommend"} {
		if !strings.Contains(stdout, stage) {
			t.Errorf("summary is missing %s:\n%s", stage, stdout)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "output", "recommendations.csv")); err != nil {
		t.Fatalf("recommendations not written: %v", err)
	}

	if code, _, stderr := runCLI(t, "--config", cfgPath, "create_db"); code != exitOK {
		t.Fatalf("create_db exit = %d, stderr %s", code, stderr)
	}
	code, stdout, stderr = runCLI(t, "--config", cfgPath, "ingest_data")
	if code != exitOK {
		t.Fatalf("ingest_data exit = %d, stderr %s", code, stderr)
	}
	if !strings.Contains(stdout, "ingested 27 rows") {
		t.Errorf("ingest output = %q, want 27 rows", stdout)
	}
}

func TestRun_StageFailureExitsOne(t *testing.T) {
	cfgPath, _ := writeConfig(t)

	// Nothing has been preprocessed yet.
	code, _, _ := runCLI(t, "--config", cfgPath, "model", "truncate_reviews")
	if code != exitFailure {
		t.Errorf("exit = %d, want %d", code, exitFailure)
	}
}

func TestRun_S3(t *testing.T) {
	cfgPath, _ := writeConfig(t)
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")

	if code, _, _ := runCLI(t, "--config", cfgPath, "s3", "--s3_path", "not-a-path"); code != exitUsage {
		t.Errorf("bad path exit = %d, want %d", code, exitUsage)
	}

	code, _, stderr := runCLI(t, "--config", cfgPath, "s3", "--download")
	if code != exitFailure {
		t.Errorf("missing credentials exit = %d, want %d", code, exitFailure)
	}
	if !strings.Contains(stderr, "AWS_ACCESS_KEY_ID") {
		t.Errorf("credentials hint not logged: %s", stderr)
	}
}
