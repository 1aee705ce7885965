package testutil

import (
	"testing"

	"github.com/iwvelando/deal-underwriter/internal/analysis"
	"github.com/iwvelando/deal-underwriter/internal/underwriting"
)

func TestFindAnalysis(t *testing.T) {
	results := []analysis.Analysis{
		{Name: "Elm Street", Metrics: underwriting.DealMetrics{OverallScore: 40}},
		{Name: "Maple Court", Metrics: underwriting.DealMetrics{OverallScore: 90}},
	}

	tests := []struct {
		name        string
		searchName  string
		expectFound bool
		expectScore float64
	}{
		{name: "Find first property", searchName: "Elm Street", expectFound: true, expectScore: 40},
		{name: "Find second property", searchName: "Maple Court", expectFound: true, expectScore: 90},
		{name: "Missing property", searchName: "Oak Lane", expectFound: false},
		{name: "Case sensitive", searchName: "elm street", expectFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FindAnalysis(results, tt.searchName)
			if !tt.expectFound {
				if result != nil {
					t.Errorf("FindAnalysis(%q) = %v, expected nil", tt.searchName, result.Name)
				}
				return
			}
			if result == nil {
				t.Fatalf("FindAnalysis(%q) returned nil", tt.searchName)
			}
			if result.Metrics.OverallScore != tt.expectScore {
				t.Errorf("OverallScore = %v, expected %v", result.Metrics.OverallScore, tt.expectScore)
			}
		})
	}

	// The returned pointer refers into the slice.
	FindAnalysis(results, "Elm Street").Name = "Renamed"
	if results[0].Name != "Renamed" {
		t.Error("FindAnalysis should return a pointer into the results slice")
	}
}

func TestFindMetric(t *testing.T) {
	metrics := underwriting.DealMetrics{Metrics: []underwriting.ScoredMetric{
		{Name: underwriting.MetricCapRate, Score: underwriting.ScoreMeets},
		{Name: underwriting.MetricDSCR, Score: underwriting.ScoreFails},
	}}

	if m := FindMetric(metrics, underwriting.MetricDSCR); m == nil || m.Score != underwriting.ScoreFails {
		t.Errorf("FindMetric(DSCR) = %+v", m)
	}
	if m := FindMetric(metrics, underwriting.MetricNOI); m != nil {
		t.Errorf("FindMetric(NOI) = %+v, expected nil", m)
	}
}

func TestWithinCents(t *testing.T) {
	if !WithinCents(100.004, 100) {
		t.Error("expected amounts within a cent to match")
	}
	if WithinCents(100.02, 100) {
		t.Error("expected amounts two cents apart not to match")
	}
}
