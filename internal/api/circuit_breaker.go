// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/fashionrec/internal/catalog"
	"github.com/tomtom215/fashionrec/internal/logging"
	"github.com/tomtom215/fashionrec/internal/metrics"
)

// Catalog is the read side of the catalog store used by the handlers.
type Catalog interface {
	Ping(ctx context.Context) error
	InputItems(ctx context.Context) ([]int64, error)
	ByInputItem(ctx context.Context, inputItemID int64, limit int) ([]catalog.Product, error)
}

// BreakerSettings tunes the catalog circuit breaker.
type BreakerSettings struct {
	// MinRequests is the number of requests in one Interval before the
	// failure ratio is considered.
	MinRequests  uint32
	FailureRatio float64
	Interval     time.Duration

	// OpenTimeout is how long the breaker stays open before probing.
	OpenTimeout time.Duration
}

// DefaultBreakerSettings opens after 60% failures over at least 10
// requests in a minute and probes again after 30 seconds.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MinRequests:  10,
		FailureRatio: 0.6,
		Interval:     time.Minute,
		OpenTimeout:  30 * time.Second,
	}
}

// BreakerCatalog wraps a Catalog with circuit breaker protection. Rejected
// calls return an error matching ErrCatalogUnavailable.
type BreakerCatalog struct {
	next Catalog
	cb   *gobreaker.CircuitBreaker[any]
	name string
}

// NewBreakerCatalog wraps next.
func NewBreakerCatalog(next Catalog, s BreakerSettings) *BreakerCatalog {
	name := "catalog"
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    s.Interval,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= s.FailureRatio {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", ratio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
				return true
			}
			return false
		},
		// A caller that gives up is not a catalog failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &BreakerCatalog{next: next, cb: cb, name: name}
}

// State reports the breaker state: closed, half-open or open.
func (b *BreakerCatalog) State() string {
	return stateToString(b.cb.State())
}

func (b *BreakerCatalog) execute(fn func() (any, error)) (any, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		return nil, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	return result, nil
}

// Ping checks the catalog through the breaker.
func (b *BreakerCatalog) Ping(ctx context.Context) error {
	_, err := b.execute(func() (any, error) {
		return nil, b.next.Ping(ctx)
	})
	return err
}

// InputItems lists input item ids through the breaker.
func (b *BreakerCatalog) InputItems(ctx context.Context) ([]int64, error) {
	res, err := b.execute(func() (any, error) {
		return b.next.InputItems(ctx)
	})
	if err != nil {
		return nil, err
	}
	ids, _ := res.([]int64)
	return ids, nil
}

// ByInputItem reads recommendations through the breaker.
func (b *BreakerCatalog) ByInputItem(ctx context.Context, inputItemID int64, limit int) ([]catalog.Product, error) {
	res, err := b.execute(func() (any, error) {
		return b.next.ByInputItem(ctx, inputItemID, limit)
	})
	if err != nil {
		return nil, err
	}
	rows, _ := res.([]catalog.Product)
	return rows, nil
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
