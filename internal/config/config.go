// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package config

import (
	"time"

	"github.com/tomtom215/fashionrec/internal/logging"
	"github.com/tomtom215/fashionrec/internal/recommend"
	"github.com/tomtom215/fashionrec/internal/recommend/features"
)

// Config holds every recognized option. Each pipeline stage reads only its
// own section; keys not declared here are rejected at load time.
type Config struct {
	Products    ProductsConfig    `koanf:"products"`
	Reviews     ReviewsConfig     `koanf:"reviews"`
	Truncate    TruncateConfig    `koanf:"truncate"`
	Matrix      MatrixConfig      `koanf:"matrix"`
	Model       ModelConfig       `koanf:"model"`
	Recommend   RecommendConfig   `koanf:"recommend"`
	Catalog     CatalogConfig     `koanf:"catalog"`
	ObjectStore ObjectStoreConfig `koanf:"object_store"`
	Server      ServerConfig      `koanf:"server"`
	Metrics     MetricsConfig     `koanf:"metrics"`
	Logging     logging.Config    `koanf:"logging"`
}

// ProductsConfig drives the preprocess_products stage: extract the raw
// product columns, aggregate them per item and write the product features.
type ProductsConfig struct {
	// SourcePath is the raw product export.
	SourcePath string `koanf:"source_path" validate:"required"`

	// Columns are the raw columns kept by extraction, in output order.
	Columns []string `koanf:"columns" validate:"required,min=1,dive,required"`

	Aggregate features.AggregateSpec `koanf:"aggregate"`

	OutputPath string `koanf:"output_path" validate:"required"`
}

// ReviewsConfig drives the preprocess_reviews stage.
type ReviewsConfig struct {
	SourcePath string                  `koanf:"source_path" validate:"required"`
	Columns    recommend.ReviewColumns `koanf:"columns"`
	OutputPath string                  `koanf:"output_path" validate:"required"`
}

// TruncateConfig drives the truncate_reviews stage. Reviews whose item is not
// in the product feature table are dropped.
type TruncateConfig struct {
	ReviewsPath   string `koanf:"reviews_path" validate:"required"`
	ProductsPath  string `koanf:"products_path" validate:"required"`
	ReviewColumn  string `koanf:"review_column" validate:"required"`
	ProductColumn string `koanf:"product_column" validate:"required"`
	OutputPath    string `koanf:"output_path" validate:"required"`
}

// MatrixConfig drives the get_csr_matrix stage.
type MatrixConfig struct {
	ReviewsPath  string `koanf:"reviews_path" validate:"required"`
	ItemColumn   string `koanf:"item_column" validate:"required"`
	UserColumn   string `koanf:"user_column" validate:"required"`
	RatingColumn string `koanf:"rating_column" validate:"required"`
	OutputPath   string `koanf:"output_path" validate:"required"`
}

// ModelConfig drives the fit_model stage.
//
// K is kept as text so that a malformed value reaches the trainer and fails
// there with an invalid parameter error naming "k".
type ModelConfig struct {
	MatrixPath string `koanf:"matrix_path" validate:"required"`
	K          string `koanf:"k"`
	Metric     string `koanf:"metric" validate:"required,metric"`
	OutputPath string `koanf:"output_path" validate:"required"`
}

// RecommendConfig drives the recommend stage. An empty or non-positive K
// falls back to recommend.DefaultK.
type RecommendConfig struct {
	ModelPath    string `koanf:"model_path" validate:"required"`
	MatrixPath   string `koanf:"matrix_path" validate:"required"`
	ProductsPath string `koanf:"products_path" validate:"required"`
	ItemColumn   string `koanf:"item_column" validate:"required"`
	K            string `koanf:"k"`

	// Workers bounds concurrent neighbor queries; 0 means GOMAXPROCS.
	Workers int `koanf:"workers" validate:"gte=0,lte=1024"`

	OutputPath string `koanf:"output_path" validate:"required"`
}

// CatalogConfig selects the relational store holding recommendation rows.
type CatalogConfig struct {
	// Driver is "duckdb" or "postgres".
	Driver string `koanf:"driver" validate:"oneof=duckdb postgres"`

	// DSN is the engine string: a DuckDB file path (or ":memory:") or a
	// PostgreSQL connection URL.
	DSN string `koanf:"dsn" validate:"required"`

	// InputPath is the recommendation CSV loaded by ingest_data.
	InputPath string `koanf:"input_path"`

	MaxOpenConns int           `koanf:"max_open_conns" validate:"gte=0"`
	QueryTimeout time.Duration `koanf:"query_timeout" validate:"gte=0"`
}

// ObjectStoreConfig holds S3-compatible endpoint settings. Credentials are
// normally supplied through the environment.
type ObjectStoreConfig struct {
	Endpoint  string `koanf:"endpoint" validate:"required"`
	Region    string `koanf:"region"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	UseSSL    bool   `koanf:"use_ssl"`
}

// ServerConfig configures the read-only lookup API.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gte=0"`

	// MaxRowsShow caps the number of recommendations returned per item.
	MaxRowsShow int `koanf:"max_rows_show" validate:"gte=1"`

	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gte=0"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// MetricsConfig controls how batch runs publish metrics.
type MetricsConfig struct {
	// PushgatewayURL, when set, receives stage metrics after each
	// model command. Empty disables pushing.
	PushgatewayURL string `koanf:"pushgateway_url" validate:"omitempty,url"`
	JobName        string `koanf:"job_name" validate:"required_with=PushgatewayURL"`
}
