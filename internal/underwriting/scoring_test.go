package underwriting

import (
	"encoding/json"
	"testing"
)

func TestBandGrades(t *testing.T) {
	tests := []struct {
		name      string
		band      band
		value     float64
		threshold float64
		expected  ScoreLevel
	}{
		{"cap rate exceeds", capRateBand, 0.067, 0.06, ScoreExceeds},
		{"cap rate meets", capRateBand, 0.06, 0.06, ScoreMeets},
		{"cap rate borderline", capRateBand, 0.0512, 0.06, ScoreBorderline},
		{"cap rate fails", capRateBand, 0.05, 0.06, ScoreFails},
		{"cash on cash exceeds", cashOnCashBand, 0.11, 0.08, ScoreExceeds},
		{"cash on cash borderline", cashOnCashBand, 0.06, 0.08, ScoreBorderline},
		{"cash on cash fails", cashOnCashBand, -0.03, 0.08, ScoreFails},
		{"dscr exceeds", dscrBand, 1.44, 1.25, ScoreExceeds},
		{"dscr borderline", dscrBand, 1.13, 1.25, ScoreBorderline},
		{"dscr fails", dscrBand, 0.85, 1.25, ScoreFails},
		{"rent growth exceeds", rentGrowthBand, 0.05, 0.03, ScoreExceeds},
		{"rent growth borderline", rentGrowthBand, 0.02, 0.03, ScoreBorderline},
		{"rent growth fails", rentGrowthBand, 0.01, 0.03, ScoreFails},
		{"vacancy exceeds", vacancyBand, 0.035, 0.08, ScoreExceeds},
		{"vacancy meets", vacancyBand, 0.08, 0.08, ScoreMeets},
		{"vacancy borderline", vacancyBand, 0.095, 0.08, ScoreBorderline},
		{"vacancy fails", vacancyBand, 0.11, 0.08, ScoreFails},
		{"break even exceeds", breakEvenBand, 0.60, 0.85, ScoreExceeds},
		{"break even meets", breakEvenBand, 0.80, 0.85, ScoreMeets},
		{"break even borderline", breakEvenBand, 0.90, 0.85, ScoreBorderline},
		{"break even fails", breakEvenBand, 1.0, 0.85, ScoreFails},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.band.grade(tt.value, tt.threshold); got != tt.expected {
				t.Errorf("grade(%v, %v) = %s, expected %s", tt.value, tt.threshold, got, tt.expected)
			}
		})
	}
}

func TestScorecard(t *testing.T) {
	calc := newTestCalculator(t)
	snapshot := exampleSnapshot()
	econ := calc.DealEconomics(snapshot)
	risk := calc.RiskBuffers(snapshot, econ)

	metrics := Scorecard(snapshot, econ, risk)

	expected := []struct {
		name       string
		score      ScoreLevel
		importance Importance
		category   Category
	}{
		{"Cap Rate", ScoreBorderline, ImportanceCritical, CategoryDealEconomics},
		{"Cash-on-Cash", ScoreFails, ImportanceCritical, CategoryDealEconomics},
		{"DSCR", ScoreFails, ImportanceCritical, CategoryDealEconomics},
		{"NOI", ScoreMeets, ImportanceHigh, CategoryDealEconomics},
		{"Rent Growth", ScoreBorderline, ImportanceMedium, CategoryMarketSupport},
		{"Vacancy", ScoreMeets, ImportanceMedium, CategoryMarketSupport},
		{"Break-even Occupancy", ScoreFails, ImportanceHigh, CategoryRiskBuffers},
		{"Worst-Case Cash Flow", ScoreFails, ImportanceHigh, CategoryRiskBuffers},
	}

	if len(metrics) != len(expected) {
		t.Fatalf("Scorecard() returned %d metrics, expected %d", len(metrics), len(expected))
	}
	for i, want := range expected {
		got := metrics[i]
		if got.Name != want.name || got.Score != want.score || got.Importance != want.importance || got.Category != want.category {
			t.Errorf("metric %d = {%s %s %s %s}, expected %+v", i, got.Name, got.Score, got.Importance, got.Category, want)
		}
	}

	if metrics[4].Note != "no market data" {
		t.Errorf("Rent Growth note = %q, expected %q", metrics[4].Note, "no market data")
	}
	if metrics[5].Direction != AtMost {
		t.Errorf("Vacancy direction = %s, expected %s", metrics[5].Direction, AtMost)
	}
}

func TestScorecardUsesMarketData(t *testing.T) {
	calc := newTestCalculator(t)
	snapshot := exampleSnapshot()
	snapshot.Market = &MarketSnapshot{RentGrowth: ptr(0.05), VacancyRate: ptr(0.12)}
	econ := calc.DealEconomics(snapshot)

	metrics := Scorecard(snapshot, econ, calc.RiskBuffers(snapshot, econ))

	rentGrowth, vacancy := metrics[4], metrics[5]
	if rentGrowth.Score != ScoreExceeds || rentGrowth.Note != "" {
		t.Errorf("Rent Growth = %+v, expected exceeds without a note", rentGrowth)
	}
	if vacancy.Value != 0.12 || vacancy.Score != ScoreFails {
		t.Errorf("Vacancy = %+v, expected market vacancy 0.12 failing", vacancy)
	}
}

func TestWorstCaseCashFlowBands(t *testing.T) {
	tests := []struct {
		worstCase float64
		expected  ScoreLevel
	}{
		{worstCase: 100, expected: ScoreMeets},
		{worstCase: 0, expected: ScoreBorderline},
		{worstCase: -4999, expected: ScoreBorderline},
		{worstCase: -5000, expected: ScoreFails},
	}

	for _, tt := range tests {
		risk := RiskBuffers{StressTest: StressTestResults{WorstCaseCashFlow: tt.worstCase}}
		metrics := Scorecard(exampleSnapshot(), DealEconomics{}, risk)
		if got := metrics[7].Score; got != tt.expected {
			t.Errorf("worst case %v scored %s, expected %s", tt.worstCase, got, tt.expected)
		}
	}
}

func scored(levels ...ScoreLevel) []ScoredMetric {
	importances := []Importance{
		ImportanceCritical, ImportanceCritical, ImportanceCritical, ImportanceHigh,
		ImportanceMedium, ImportanceMedium, ImportanceHigh, ImportanceHigh,
	}
	metrics := make([]ScoredMetric, len(levels))
	for i, level := range levels {
		metrics[i] = ScoredMetric{Score: level, Importance: importances[i]}
	}
	return metrics
}

func TestRecommend(t *testing.T) {
	E, M, B, F := ScoreExceeds, ScoreMeets, ScoreBorderline, ScoreFails

	tests := []struct {
		name     string
		metrics  []ScoredMetric
		expected Recommendation
	}{
		{"all exceed", scored(E, E, E, E, E, E, E, E), StrongBuy},
		{"critical fail overrides a high score", scored(E, E, F, E, E, E, E, E), Pass},
		{"all meet", scored(M, M, M, M, M, M, M, M), Buy},
		{"one non-critical fail", scored(E, E, E, E, E, E, E, F), Hold},
		{"mostly borderline", scored(B, B, B, B, B, B, B, B), Caution},
		{"borderline with fails", scored(B, B, B, F, B, B, F, F), Pass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			overall := OverallScore(tt.metrics)
			if got := Recommend(overall, tt.metrics); got != tt.expected {
				t.Errorf("Recommend(%.2f) = %s, expected %s", overall, got, tt.expected)
			}
		})
	}
}

func TestRecommendHoldOnFewBorderlines(t *testing.T) {
	M, B, F := ScoreMeets, ScoreBorderline, ScoreFails

	metrics := scored(B, B, M, F, M, M, M, M)
	if got := Recommend(50, metrics); got != Hold {
		t.Errorf("Recommend() = %s, expected %s", got, Hold)
	}
	if got := Recommend(50, scored(B, B, B, M, M, M, M, M)); got != Caution {
		t.Errorf("Recommend() = %s, expected %s", got, Caution)
	}
}

func TestOverallScore(t *testing.T) {
	if got := OverallScore(nil); got != 0 {
		t.Errorf("OverallScore(nil) = %v, expected 0", got)
	}
	assertClose(t, "OverallScore", OverallScore(scored(ScoreExceeds, ScoreFails)), (150.0+30)/3, scoreTol)
}

func TestRecommendationJSON(t *testing.T) {
	for _, rec := range []Recommendation{StrongBuy, Buy, Hold, Caution, Pass} {
		data, err := json.Marshal(rec)
		if err != nil {
			t.Fatalf("json.Marshal(%s) error = %v", rec, err)
		}
		var decoded Recommendation
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("json.Unmarshal(%s) error = %v", data, err)
		}
		if decoded != rec {
			t.Errorf("round trip of %s gave %s", rec, decoded)
		}
	}

	var rec Recommendation
	if err := json.Unmarshal([]byte(`"Maybe"`), &rec); err == nil {
		t.Error("expected an error for an unknown recommendation")
	}
	if got := Recommendation(42).String(); got != "Recommendation(42)" {
		t.Errorf("String() = %q", got)
	}
}
