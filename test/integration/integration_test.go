package integration

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/iwvelando/deal-underwriter/internal/analysis"
	"github.com/iwvelando/deal-underwriter/internal/config"
	"github.com/iwvelando/deal-underwriter/internal/underwriting"
	"github.com/iwvelando/deal-underwriter/pkg/output"
	"github.com/iwvelando/deal-underwriter/pkg/testutil"
	"go.uber.org/zap"
)

func loadAnalyses(t *testing.T) []analysis.Analysis {
	t.Helper()

	// Load and process the test configuration exactly as main() does
	conf, err := config.LoadConfiguration("../test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Fatalf("ValidateConfiguration() = %v, expected no warnings", warnings)
	}

	results, err := analysis.GetAnalyses(zap.NewNop(), *conf)
	if err != nil {
		t.Fatalf("GetAnalyses() error = %v", err)
	}
	return results
}

// TestMainIntegrationBaseline checks the pipeline against hand-verified
// figures for the test configuration.
func TestMainIntegrationBaseline(t *testing.T) {
	results := loadAnalyses(t)

	expectedProperties := []string{"Elm Street", "Maple Court"}
	if len(results) != len(expectedProperties) {
		t.Fatalf("Expected %d properties, got %d", len(expectedProperties), len(results))
	}
	for i, expected := range expectedProperties {
		if results[i].Name != expected {
			t.Errorf("Expected property %s, got %s", expected, results[i].Name)
		}
	}

	if testutil.FindAnalysis(results, "Oak Fourplex") != nil {
		t.Error("inactive property Oak Fourplex should not be analyzed")
	}

	baselineChecks := []struct {
		property       string
		noi            float64
		cashFlow       float64
		worstCase      float64
		recommendation underwriting.Recommendation
	}{
		{"Elm Street", 15351.00, -2612.17, -5823.37, underwriting.Pass},
		{"Maple Court", 25839.00, 7875.83, 3119.03, underwriting.StrongBuy},
	}

	for _, check := range baselineChecks {
		result := testutil.FindAnalysis(results, check.property)
		if result == nil {
			t.Errorf("Property '%s' not found in results", check.property)
			continue
		}

		metrics := result.Metrics
		if !testutil.WithinCents(metrics.Economics.NetOperatingIncome, check.noi) {
			t.Errorf("Property '%s': expected NOI %.2f, got %.2f", check.property, check.noi, metrics.Economics.NetOperatingIncome)
		}
		if !testutil.WithinCents(metrics.Economics.CashFlowAnnual, check.cashFlow) {
			t.Errorf("Property '%s': expected cash flow %.2f, got %.2f", check.property, check.cashFlow, metrics.Economics.CashFlowAnnual)
		}
		if !testutil.WithinCents(metrics.Risk.StressTest.WorstCaseCashFlow, check.worstCase) {
			t.Errorf("Property '%s': expected worst case %.2f, got %.2f", check.property, check.worstCase, metrics.Risk.StressTest.WorstCaseCashFlow)
		}
		if metrics.Recommendation != check.recommendation {
			t.Errorf("Property '%s': expected %s, got %s", check.property, check.recommendation, metrics.Recommendation)
		}
	}
}

func TestRiskBuffersBaseline(t *testing.T) {
	results := loadAnalyses(t)

	maple := testutil.FindAnalysis(results, "Maple Court")
	if maple == nil {
		t.Fatal("Property 'Maple Court' not found in results")
	}

	stress := maple.Metrics.Risk.StressTest
	if math.Abs(stress.MaxVacancyBeforeNegative-0.29) > 1e-9 {
		t.Errorf("MaxVacancyBeforeNegative = %v, expected 0.29", stress.MaxVacancyBeforeNegative)
	}
	if math.Abs(stress.MaxRateBeforeNegative-0.1125) > 1e-9 {
		t.Errorf("MaxRateBeforeNegative = %v, expected 0.1125", stress.MaxRateBeforeNegative)
	}
	if math.Abs(maple.Metrics.Risk.BreakEvenOccupancy-0.669178) > 1e-4 {
		t.Errorf("BreakEvenOccupancy = %v, expected 0.669178", maple.Metrics.Risk.BreakEvenOccupancy)
	}

	rentGrowth := testutil.FindMetric(maple.Metrics, underwriting.MetricRentGrowth)
	if rentGrowth == nil {
		t.Fatal("rent growth metric missing")
	}
	if rentGrowth.Score != underwriting.ScoreBorderline || rentGrowth.Note != underwriting.NoteNoMarketData {
		t.Errorf("rent growth without market data = %s (%q), expected borderline with note", rentGrowth.Score, rentGrowth.Note)
	}
}

// TestCSVOutputFormat checks the CSV rendering of the test configuration.
func TestCSVOutputFormat(t *testing.T) {
	results := loadAnalyses(t)

	csvOutput, err := output.CsvString(results)
	if err != nil {
		t.Fatalf("CsvString() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(csvOutput), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header and 2 rows, got %d lines", len(lines))
	}

	if !strings.HasPrefix(lines[0], "property,recommendation,overall score,") {
		t.Errorf("unexpected CSV header: %s", lines[0])
	}

	expectedElm := "Elm Street,Pass,37.6,24000.00,22800.00,7449.00,15351.00,17963.17,-2612.17,-0.0348,0.0512,0.0512,0.8546,1.0000,-5823.37,0.0500,0.0700"
	if lines[1] != expectedElm {
		t.Errorf("CSV row mismatch:\n got: %s\nwant: %s", lines[1], expectedElm)
	}
	if !strings.HasPrefix(lines[2], "Maple Court,Strong Buy,") {
		t.Errorf("unexpected CSV row: %s", lines[2])
	}
}

func TestJSONOutputFormat(t *testing.T) {
	results := loadAnalyses(t)

	var buf bytes.Buffer
	if err := output.WriteJSON(&buf, results); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	var decoded []analysis.Analysis
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode JSON output: %v", err)
	}
	if len(decoded) != len(results) {
		t.Fatalf("Expected %d analyses, got %d", len(results), len(decoded))
	}
	for i := range decoded {
		if decoded[i].Metrics.Recommendation != results[i].Metrics.Recommendation {
			t.Errorf("%s: recommendation %s did not survive JSON, got %s",
				results[i].Name, results[i].Metrics.Recommendation, decoded[i].Metrics.Recommendation)
		}
	}
}
