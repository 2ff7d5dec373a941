// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package supervisor

import (
	"context"
	"time"

	"github.com/tomtom215/fashionrec/internal/logging"
	"github.com/tomtom215/fashionrec/internal/metrics"
)

// Pinger is satisfied by the catalog store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CatalogProbe pings the catalog on an interval and publishes the result
// as the fashionrec_catalog_up gauge. Only state changes are logged.
type CatalogProbe struct {
	catalog  Pinger
	interval time.Duration
	timeout  time.Duration
}

// NewCatalogProbe creates a probe. A non-positive interval means 30s.
func NewCatalogProbe(catalog Pinger, interval time.Duration) *CatalogProbe {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &CatalogProbe{catalog: catalog, interval: interval, timeout: 5 * time.Second}
}

// Serve implements suture.Service.
func (p *CatalogProbe) Serve(ctx context.Context) error {
	logger := logging.WithComponent("catalog-probe")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	up := -1
	for {
		state := p.probe(ctx)
		if state != up {
			ev := logger.Info()
			if state == 0 {
				ev = logger.Warn()
			}
			ev.Bool("up", state == 1).Msg("Catalog availability changed")
			up = state
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (p *CatalogProbe) probe(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.catalog.Ping(ctx); err != nil {
		metrics.CatalogUp.Set(0)
		return 0
	}
	metrics.CatalogUp.Set(1)
	return 1
}

// String implements fmt.Stringer for suture's logs.
func (p *CatalogProbe) String() string {
	return "catalog-probe"
}
