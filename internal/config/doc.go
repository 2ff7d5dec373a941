// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

/*
Package config loads and validates FashionRec configuration.

# Configuration Sources

Values are layered, later sources overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. A YAML file named by --config, CONFIG_PATH, or found at
    config/model_config.yaml or config.yaml
 3. Environment variables listed in envMappings

Loading is strict: a YAML key that does not match a declared option is an
error, so a misspelt stage option never silently falls back to a default.

# Configuration Structure

One section per pipeline stage plus the adapters:

  - products:     preprocess_products (extraction columns, aggregation spec)
  - reviews:      preprocess_reviews (column roles)
  - truncate:     truncate_reviews
  - matrix:       get_csr_matrix
  - model:        fit_model (k, metric)
  - recommend:    recommend (k, workers)
  - catalog:      create_db / ingest_data / serve storage
  - object_store: s3 transfers
  - server:       lookup API
  - metrics:      Pushgateway publishing
  - logging:      zerolog level and format

# Environment Variables

Common overrides:

	ENGINE_STRING          catalog.dsn
	MODEL_K / RECOMMEND_K  model.k / recommend.k
	MODEL_METRIC           model.metric
	AWS_ACCESS_KEY_ID      object_store.access_key
	AWS_SECRET_ACCESS_KEY  object_store.secret_key
	PUSHGATEWAY_URL        metrics.pushgateway_url
	LOG_LEVEL / LOG_FORMAT logging.level / logging.format

Comma-separated values are accepted for list options such as
PRODUCTS_COLUMNS.
*/
package config
