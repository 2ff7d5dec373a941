// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package objectstore

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/fashionrec/internal/config"
)

func TestParseS3Path(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path   string
		bucket string
		key    string
	}{
		{"s3://2022-msia423-wu-yuyan/raw/2021June-July_product_data.csv", "2022-msia423-wu-yuyan", "raw/2021June-July_product_data.csv"},
		{"s3://bucket/file.csv", "bucket", "file.csv"},
		{"s3://my.bucket_1/a/b/c.bin", "my.bucket_1", "a/b/c.bin"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			bucket, key, err := ParseS3Path(tt.path)
			if err != nil {
				t.Fatalf("ParseS3Path: %v", err)
			}
			if bucket != tt.bucket || key != tt.key {
				t.Errorf("got (%q, %q), want (%q, %q)", bucket, key, tt.bucket, tt.key)
			}
		})
	}
}

func TestParseS3Path_Invalid(t *testing.T) {
	t.Parallel()

	for _, path := range []string{
		"",
		"bucket/key.csv",
		"s3://bucket",
		"s3://bucket/",
		"https://bucket/key.csv",
		"s3://bucket/key with space.csv",
	} {
		if _, _, err := ParseS3Path(path); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("ParseS3Path(%q) error = %v, want ErrInvalidPath", path, err)
		}
	}
}

func TestNew_RequiresCredentials(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  config.ObjectStoreConfig
	}{
		{"none", config.ObjectStoreConfig{Endpoint: "s3.amazonaws.com"}},
		{"access key only", config.ObjectStoreConfig{Endpoint: "s3.amazonaws.com", AccessKey: "AKIA"}},
		{"secret only", config.ObjectStoreConfig{Endpoint: "s3.amazonaws.com", SecretKey: "s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := New(&tt.cfg); !errors.Is(err, ErrNoCredentials) {
				t.Errorf("error = %v, want ErrNoCredentials", err)
			}
		})
	}
}

func TestTransfers_RejectBadPathWithoutNetwork(t *testing.T) {
	t.Parallel()

	c, err := New(&config.ObjectStoreConfig{
		Endpoint:  "127.0.0.1:1",
		AccessKey: "key",
		SecretKey: "secret",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Upload(context.Background(), "local.csv", "not-s3"); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Upload error = %v, want ErrInvalidPath", err)
	}
	if err := c.Download(context.Background(), "s3://", "local.csv"); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Download error = %v, want ErrInvalidPath", err)
	}
}
