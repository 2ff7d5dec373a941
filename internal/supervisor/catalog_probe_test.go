// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/fashionrec/internal/metrics"
)

type flakyPinger struct {
	calls atomic.Int32
	fail  atomic.Bool
}

func (p *flakyPinger) Ping(context.Context) error {
	p.calls.Add(1)
	if p.fail.Load() {
		return errors.New("unreachable")
	}
	return nil
}

// The probe tests share the global gauge and so do not run in parallel.
func TestCatalogProbe_PublishesAvailability(t *testing.T) {
	p := &flakyPinger{}
	probe := NewCatalogProbe(p, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- probe.Serve(ctx) }()

	waitFor(t, func() bool { return p.calls.Load() >= 1 && testutil.ToFloat64(metrics.CatalogUp) == 1 })

	p.fail.Store(true)
	waitFor(t, func() bool { return testutil.ToFloat64(metrics.CatalogUp) == 0 })

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve = %v, want context.Canceled", err)
	}
}

func TestNewCatalogProbe_DefaultInterval(t *testing.T) {
	if probe := NewCatalogProbe(&flakyPinger{}, 0); probe.interval != 30*time.Second {
		t.Errorf("interval = %v, want 30s", probe.interval)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
