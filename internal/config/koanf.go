// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/fashionrec/internal/logging"
	"github.com/tomtom215/fashionrec/internal/recommend"
	"github.com/tomtom215/fashionrec/internal/recommend/features"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config/model_config.yaml",
	"config.yaml",
	"config.yml",
	"/etc/fashionrec/config.yaml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with the standard data layout: raw exports
// under data/raw, stage outputs under data/processed and data/model.
func defaultConfig() *Config {
	return &Config{
		Products: ProductsConfig{
			SourcePath: "data/raw/products.csv",
			Columns: []string{
				"product_itemid", "product_name", "product_category",
				"product_price", "product_discount", "product_like_count",
				"product_comment_count", "product_views", "product_total_rating",
				"units_sold",
			},
			Aggregate: features.AggregateSpec{
				GroupBy: []string{
					recommend.ColProductItemID, recommend.ColProductCategory, recommend.ColProductName,
				},
				Sources: []string{
					"product_price", "product_discount", "product_like_count",
					"product_comment_count", "product_views", "product_total_rating",
					"units_sold",
				},
				Targets: []string{
					recommend.ColAvgPrice, recommend.ColAvgDiscount, recommend.ColLikeCount,
					recommend.ColCommentCount, recommend.ColProductViews, recommend.ColAvgRating,
					recommend.ColUnitsSold,
				},
				Functions: []string{"mean", "mean", "sum", "sum", "sum", "mean", "sum"},
			},
			OutputPath: "data/processed/products.csv",
		},
		Reviews: ReviewsConfig{
			SourcePath: "data/raw/reviews.csv",
			Columns:    recommend.DefaultReviewColumns(),
			OutputPath: "data/processed/reviews.csv",
		},
		Truncate: TruncateConfig{
			ReviewsPath:   "data/processed/reviews.csv",
			ProductsPath:  "data/processed/products.csv",
			ReviewColumn:  recommend.DefaultReviewColumns().Item,
			ProductColumn: recommend.ColProductItemID,
			OutputPath:    "data/processed/reviews_truncated.csv",
		},
		Matrix: MatrixConfig{
			ReviewsPath:  "data/processed/reviews_truncated.csv",
			ItemColumn:   recommend.DefaultReviewColumns().Item,
			UserColumn:   recommend.DefaultReviewColumns().Commenter,
			RatingColumn: recommend.DefaultReviewColumns().Rating,
			OutputPath:   "data/model/matrix.bin",
		},
		Model: ModelConfig{
			MatrixPath: "data/model/matrix.bin",
			K:          "7",
			Metric:     "cosine",
			OutputPath: "data/model/model.bin",
		},
		Recommend: RecommendConfig{
			ModelPath:    "data/model/model.bin",
			MatrixPath:   "data/model/matrix.bin",
			ProductsPath: "data/processed/products.csv",
			ItemColumn:   recommend.ColProductItemID,
			K:            "7",
			Workers:      0,
			OutputPath:   "data/output/recommendations.csv",
		},
		Catalog: CatalogConfig{
			Driver:       "duckdb",
			DSN:          "data/fashionrec.duckdb",
			InputPath:    "data/output/recommendations.csv",
			MaxOpenConns: 4,
			QueryTimeout: 10 * time.Second,
		},
		ObjectStore: ObjectStoreConfig{
			Endpoint: "s3.amazonaws.com",
			Region:   "us-east-1",
			UseSSL:   true,
		},
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			MaxRowsShow:       20,
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
		},
		Metrics: MetricsConfig{
			JobName: "fashionrec",
		},
		Logging: logging.Config{
			Level:     "info",
			Format:    "json",
			Timestamp: true,
		},
	}
}

// Default returns the built-in configuration without reading any file or
// environment variable.
func Default() *Config {
	return defaultConfig()
}

// Load builds the configuration from three layers, later layers winning:
//
//  1. built-in defaults
//  2. a YAML file: explicitPath if non-empty, else CONFIG_PATH, else the
//     first of DefaultConfigPaths that exists
//  3. mapped environment variables (see envTransformFunc)
//
// Keys that do not correspond to a declared option fail the load.
func Load(explicitPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath, err := resolveConfigPath(explicitPath)
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg, err := unmarshalStrict(k)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// unmarshalStrict decodes k into a Config, failing on any key without a
// matching field.
func unmarshalStrict(k *koanf.Koanf) (*Config, error) {
	cfg := &Config{}
	conf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
				mapstructure.TextUnmarshallerHookFunc(),
			),
			ErrorUnused:      true,
			WeaklyTypedInput: true,
			TagName:          "koanf",
			Result:           cfg,
		},
	}
	if err := k.UnmarshalWithConf("", cfg, conf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

// resolveConfigPath picks the config file. An explicit path or CONFIG_PATH
// that does not exist is an error; the default locations are optional.
func resolveConfigPath(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file %s: %w", explicitPath, err)
		}
		return explicitPath, nil
	}
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("%s=%s: %w", ConfigPathEnvVar, envPath, err)
		}
		return envPath, nil
	}
	return findConfigFile(), nil
}

func findConfigFile() string {
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths lists keys that accept a comma-separated string from the
// environment.
var sliceConfigPaths = []string{
	"products.columns",
	"products.aggregate.group_by",
	"products.aggregate.cols",
	"products.aggregate.agg_cols",
	"products.aggregate.agg_funs",
}

// processSliceFields converts comma-separated string values to slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to config keys.
// Unlisted variables are ignored.
var envMappings = map[string]string{
	"products_source_path": "products.source_path",
	"products_columns":     "products.columns",
	"products_output_path": "products.output_path",

	"reviews_source_path": "reviews.source_path",
	"reviews_output_path": "reviews.output_path",

	"matrix_output_path": "matrix.output_path",

	"model_k":           "model.k",
	"model_metric":      "model.metric",
	"model_output_path": "model.output_path",

	"recommend_k":           "recommend.k",
	"recommend_workers":     "recommend.workers",
	"recommend_output_path": "recommend.output_path",

	"catalog_driver":     "catalog.driver",
	"engine_string":      "catalog.dsn",
	"catalog_dsn":        "catalog.dsn",
	"catalog_input_path": "catalog.input_path",

	"s3_endpoint":           "object_store.endpoint",
	"aws_region":            "object_store.region",
	"aws_access_key_id":     "object_store.access_key",
	"aws_secret_access_key": "object_store.secret_key",
	"s3_use_ssl":            "object_store.use_ssl",

	"http_host":           "server.host",
	"http_port":           "server.port",
	"max_rows_show":       "server.max_rows_show",
	"rate_limit_requests": "server.rate_limit_requests",
	"rate_limit_window":   "server.rate_limit_window",
	"disable_rate_limit":  "server.rate_limit_disabled",

	"pushgateway_url":  "metrics.pushgateway_url",
	"metrics_job_name": "metrics.job_name",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps environment variable names to config keys.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
