// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package metrics

import (
	"context"
	"fmt"
	"sort"

	"github.com/prometheus/client_golang/prometheus/push"
)

// Push sends the pipeline series to a Prometheus Pushgateway. Batch commands
// exit before any scrape could happen, so this is how their metrics are kept.
// Series already in the job's group under other names are left alone.
func Push(ctx context.Context, url, job string, grouping map[string]string) error {
	p := push.New(url, job)
	for _, c := range pipelineCollectors {
		p = p.Collector(c)
	}

	keys := make([]string, 0, len(grouping))
	for k := range grouping {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		p = p.Grouping(k, grouping[k])
	}

	if err := p.AddContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
