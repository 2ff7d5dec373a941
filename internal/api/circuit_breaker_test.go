// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package api

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func tightBreaker() BreakerSettings {
	return BreakerSettings{
		MinRequests:  2,
		FailureRatio: 0.5,
		Interval:     time.Minute,
		OpenTimeout:  time.Hour,
	}
}

func TestBreakerCatalog_OpensAfterFailures(t *testing.T) {
	t.Parallel()

	fc := newFakeCatalog()
	fc.err = errors.New("db down")
	b := NewBreakerCatalog(fc, tightBreaker())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := b.InputItems(ctx); err == nil || errors.Is(err, ErrCatalogUnavailable) {
			t.Fatalf("call %d: error = %v, want the catalog error", i+1, err)
		}
	}
	if b.State() != "open" {
		t.Fatalf("state = %s, want open", b.State())
	}

	before := fc.calls
	if _, err := b.ByInputItem(ctx, 101, 5); !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("error = %v, want ErrCatalogUnavailable", err)
	}
	if fc.calls != before {
		t.Error("open breaker still reached the catalog")
	}
}

func TestBreakerCatalog_CanceledIsNotFailure(t *testing.T) {
	t.Parallel()

	fc := newFakeCatalog()
	fc.err = context.Canceled
	b := NewBreakerCatalog(fc, tightBreaker())

	for i := 0; i < 5; i++ {
		_, _ = b.InputItems(context.Background())
	}
	if b.State() != "closed" {
		t.Errorf("state = %s, want closed", b.State())
	}
}

func TestBreakerCatalog_ServiceUnavailableResponse(t *testing.T) {
	t.Parallel()

	fc := newFakeCatalog()
	fc.err = errors.New("db down")
	b := NewBreakerCatalog(fc, tightBreaker())
	h := newTestRouter(b)

	for i := 0; i < 2; i++ {
		if rec, _ := doRequest(t, h, "/api/v1/items/101/recommendations"); rec.Code != http.StatusInternalServerError {
			t.Fatalf("call %d: status %d, want 500", i+1, rec.Code)
		}
	}
	rec, env := doRequest(t, h, "/api/v1/items/101/recommendations")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeServiceUnavailable {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestBreakerCatalog_PassesThrough(t *testing.T) {
	t.Parallel()

	b := NewBreakerCatalog(newFakeCatalog(), DefaultBreakerSettings())
	rows, err := b.ByInputItem(context.Background(), 102, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].ProductItemID != 101 {
		t.Errorf("rows = %+v", rows)
	}
	if err := b.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}
