// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package watcher

import (
	"math"
	"slices"
	"strconv"

	"github.com/canonical/lead-access-service/internal/types"
)

// diff compares two observations of the same customer. Metrics that are
// new or gone are not alerted on, only metrics present in both.
func diff(prev, cur *types.CustomerState, threshold float64) []types.Alert {
	alerts := make([]types.Alert, 0)

	names := make([]string, 0, len(cur.Metrics))
	for name := range cur.Metrics {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		before, ok := prev.Metrics[name]
		if !ok {
			continue
		}

		after := cur.Metrics[name]
		if !exceeds(before, after, threshold) {
			continue
		}

		alerts = append(alerts, types.Alert{
			Kind:     types.AlertThreshold,
			Subject:  name,
			Previous: formatMetric(before),
			Current:  formatMetric(after),
		})
	}

	for _, c := range setDiff(cur.Competitors, prev.Competitors) {
		alerts = append(alerts, types.Alert{Kind: types.AlertCompetitor, Subject: c, Current: c})
	}

	for _, c := range setDiff(prev.Competitors, cur.Competitors) {
		alerts = append(alerts, types.Alert{Kind: types.AlertCompetitor, Subject: c, Previous: c})
	}

	return alerts
}

// exceeds reports a relative change of at least threshold. Any move away
// from zero counts.
func exceeds(before, after, threshold float64) bool {
	if before == after {
		return false
	}

	if before == 0 {
		return true
	}

	return math.Abs(after-before)/math.Abs(before) >= threshold
}

// setDiff returns the sorted members of a missing from b.
func setDiff(a, b []string) []string {
	out := make([]string, 0)
	for _, v := range a {
		if !slices.Contains(b, v) && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}

func formatMetric(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
