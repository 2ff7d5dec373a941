// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package config

import (
	"fmt"
	"strings"

	"github.com/tomtom215/fashionrec/internal/validation"
)

// Validate checks struct tags first, then the rules that span fields.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if err := c.validateCatalog(); err != nil {
		return err
	}

	return c.validateServer()
}

func (c *Config) validateCatalog() error {
	if c.Catalog.Driver != "postgres" {
		return nil
	}
	dsn := strings.TrimSpace(c.Catalog.DSN)
	if dsn == ":memory:" {
		return fmt.Errorf("catalog.dsn: %q is only valid for the duckdb driver", dsn)
	}
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") && !strings.Contains(dsn, "=") {
		return fmt.Errorf("catalog.dsn: expected a postgres URL or key=value connection string")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.RateLimitDisabled {
		return nil
	}
	if c.Server.RateLimitRequests <= 0 {
		return fmt.Errorf("server.rate_limit_requests must be positive unless server.rate_limit_disabled is set")
	}
	if c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("server.rate_limit_window must be positive unless server.rate_limit_disabled is set")
	}
	return nil
}
