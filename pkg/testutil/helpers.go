// Package testutil provides common utility functions for testing.
package testutil

import (
	"math"

	"github.com/iwvelando/deal-underwriter/internal/analysis"
	"github.com/iwvelando/deal-underwriter/internal/underwriting"
)

// FindAnalysis finds a property by name in the results slice.
// Returns a pointer to the analysis if found, nil otherwise.
func FindAnalysis(results []analysis.Analysis, name string) *analysis.Analysis {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}

// FindMetric finds a scored metric by name, nil if absent.
func FindMetric(metrics underwriting.DealMetrics, name string) *underwriting.ScoredMetric {
	for i := range metrics.Metrics {
		if metrics.Metrics[i].Name == name {
			return &metrics.Metrics[i]
		}
	}
	return nil
}

// WithinCents reports whether two currency amounts agree to the cent.
func WithinCents(got, want float64) bool {
	return math.Abs(got-want) <= 0.01
}
