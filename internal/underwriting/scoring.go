package underwriting

import (
	"encoding/json"
	"fmt"

	"github.com/iwvelando/deal-underwriter/pkg/constants"
)

// ScoreLevel is the four-level grade of one metric against its threshold.
type ScoreLevel string

const (
	ScoreExceeds    ScoreLevel = "exceeds"
	ScoreMeets      ScoreLevel = "meets"
	ScoreBorderline ScoreLevel = "borderline"
	ScoreFails      ScoreLevel = "fails"
)

// Points is the numeric value of a level in the overall score.
func (l ScoreLevel) Points() float64 {
	switch l {
	case ScoreExceeds:
		return 100
	case ScoreMeets:
		return 80
	case ScoreBorderline:
		return 50
	default:
		return 20
	}
}

// Importance weights a metric in the overall score.
type Importance string

const (
	ImportanceCritical Importance = "critical"
	ImportanceHigh     Importance = "high"
	ImportanceMedium   Importance = "medium"
)

// Weight is the multiplier of the importance in the weighted average.
func (i Importance) Weight() float64 {
	switch i {
	case ImportanceCritical:
		return 1.5
	case ImportanceHigh:
		return 1.0
	default:
		return 0.5
	}
}

// Category groups metrics by the analysis layer they come from.
type Category string

const (
	CategoryDealEconomics Category = "deal_economics"
	CategoryMarketSupport Category = "market_support"
	CategoryRiskBuffers   Category = "risk_buffers"
)

// Direction tells whether a metric should be at least or at most its
// threshold.
type Direction string

const (
	AtLeast Direction = "at_least"
	AtMost  Direction = "at_most"
)

// Names of the scored metrics, in scorecard order.
const (
	MetricCapRate            = "Cap Rate"
	MetricCashOnCash         = "Cash-on-Cash"
	MetricDSCR               = "DSCR"
	MetricNOI                = "NOI"
	MetricRentGrowth         = "Rent Growth"
	MetricVacancy            = "Vacancy"
	MetricBreakEvenOccupancy = "Break-even Occupancy"
	MetricWorstCaseCashFlow  = "Worst-Case Cash Flow"
)

// NoteNoMarketData marks a market metric scored without market data.
const NoteNoMarketData = "no market data"

// ScoredMetric is one graded line of the scorecard.
type ScoredMetric struct {
	Name       string     `json:"name"`
	Value      float64    `json:"value"`
	Threshold  float64    `json:"threshold"`
	Direction  Direction  `json:"direction"`
	Score      ScoreLevel `json:"score"`
	Category   Category   `json:"category"`
	Importance Importance `json:"importance"`
	Note       string     `json:"note,omitempty"`
}

// Recommendation is the final investment call.
type Recommendation int

const (
	Pass Recommendation = iota
	Caution
	Hold
	Buy
	StrongBuy
)

var recommendationNames = map[Recommendation]string{
	StrongBuy: "Strong Buy",
	Buy:       "Buy",
	Hold:      "Hold",
	Caution:   "Caution",
	Pass:      "Pass",
}

func (r Recommendation) String() string {
	if name, ok := recommendationNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Recommendation(%d)", int(r))
}

// MarshalJSON encodes the recommendation by name.
func (r Recommendation) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes a recommendation name.
func (r *Recommendation) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for rec, recName := range recommendationNames {
		if recName == name {
			*r = rec
			return nil
		}
	}
	return fmt.Errorf("unknown recommendation %q", name)
}

// band grades a value against a threshold t using multipliers of t for the
// exceeds, meets and borderline cut-offs.
type band struct {
	direction  Direction
	exceeds    float64
	meets      float64
	borderline float64
}

var (
	capRateBand    = band{direction: AtLeast, exceeds: 1.10, meets: 1.0, borderline: 0.85}
	cashOnCashBand = band{direction: AtLeast, exceeds: 1.25, meets: 1.0, borderline: 0.75}
	dscrBand       = band{direction: AtLeast, exceeds: 1.15, meets: 1.0, borderline: 0.90}
	rentGrowthBand = band{direction: AtLeast, exceeds: 1.5, meets: 1.0, borderline: 0.5}
	vacancyBand    = band{direction: AtMost, exceeds: 0.5, meets: 1.0, borderline: 1.25}
	breakEvenBand  = band{direction: AtMost, exceeds: 0.8, meets: 1.0, borderline: 1.1}
)

func (b band) grade(value, threshold float64) ScoreLevel {
	passes := func(multiplier float64) bool {
		if b.direction == AtMost {
			return value <= multiplier*threshold
		}
		return value >= multiplier*threshold
	}
	switch {
	case passes(b.exceeds):
		return ScoreExceeds
	case passes(b.meets):
		return ScoreMeets
	case passes(b.borderline):
		return ScoreBorderline
	default:
		return ScoreFails
	}
}

func (b band) metric(name string, value, threshold float64, category Category, importance Importance) ScoredMetric {
	return ScoredMetric{
		Name:       name,
		Value:      value,
		Threshold:  threshold,
		Direction:  b.direction,
		Score:      b.grade(value, threshold),
		Category:   category,
		Importance: importance,
	}
}

// Scorecard grades the eight headline metrics of a deal in a fixed order.
func Scorecard(snapshot PropertySnapshot, econ DealEconomics, risk RiskBuffers) []ScoredMetric {
	t := snapshot.Thresholds

	noi := ScoredMetric{
		Name:       MetricNOI,
		Value:      econ.NetOperatingIncome,
		Direction:  AtLeast,
		Score:      ScoreFails,
		Category:   CategoryDealEconomics,
		Importance: ImportanceHigh,
	}
	if econ.NetOperatingIncome > 0 {
		noi.Score = ScoreMeets
	}

	rentGrowth := ScoredMetric{
		Name:       MetricRentGrowth,
		Threshold:  t.MinRentGrowth,
		Direction:  AtLeast,
		Score:      ScoreBorderline,
		Category:   CategoryMarketSupport,
		Importance: ImportanceMedium,
		Note:       NoteNoMarketData,
	}
	if snapshot.Market != nil && snapshot.Market.RentGrowth != nil {
		rentGrowth = rentGrowthBand.metric(MetricRentGrowth, *snapshot.Market.RentGrowth, t.MinRentGrowth,
			CategoryMarketSupport, ImportanceMedium)
	}

	vacancy := snapshot.VacancyRate
	vacancyNote := "underwritten vacancy"
	if snapshot.Market != nil && snapshot.Market.VacancyRate != nil {
		vacancy = *snapshot.Market.VacancyRate
		vacancyNote = ""
	}
	vacancyMetric := vacancyBand.metric(MetricVacancy, vacancy, t.MaxVacancy, CategoryMarketSupport, ImportanceMedium)
	vacancyMetric.Note = vacancyNote

	worstCase := risk.StressTest.WorstCaseCashFlow
	worst := ScoredMetric{
		Name:       MetricWorstCaseCashFlow,
		Value:      worstCase,
		Direction:  AtLeast,
		Category:   CategoryRiskBuffers,
		Importance: ImportanceHigh,
	}
	switch {
	case worstCase > 0:
		worst.Score = ScoreMeets
	case worstCase > constants.WorstCaseBorderlineFloor:
		worst.Score = ScoreBorderline
	default:
		worst.Score = ScoreFails
	}

	return []ScoredMetric{
		capRateBand.metric(MetricCapRate, econ.InPlaceCapRate, t.TargetCapRate, CategoryDealEconomics, ImportanceCritical),
		cashOnCashBand.metric(MetricCashOnCash, econ.CashOnCashReturn, t.TargetCashOnCash, CategoryDealEconomics, ImportanceCritical),
		dscrBand.metric(MetricDSCR, econ.DSCR, t.TargetDSCR, CategoryDealEconomics, ImportanceCritical),
		noi,
		rentGrowth,
		vacancyMetric,
		breakEvenBand.metric(MetricBreakEvenOccupancy, risk.BreakEvenOccupancy, t.MaxBreakEvenOccupancy, CategoryRiskBuffers, ImportanceHigh),
		worst,
	}
}

// OverallScore is the importance weighted average of the metric points, 0
// for an empty scorecard.
func OverallScore(metrics []ScoredMetric) float64 {
	var total, weights float64
	for _, m := range metrics {
		total += m.Score.Points() * m.Importance.Weight()
		weights += m.Importance.Weight()
	}
	if weights == 0 {
		return 0
	}
	return total / weights
}

// Recommend applies the decision procedure to a graded scorecard. The first
// matching rule wins.
func Recommend(overall float64, metrics []ScoredMetric) Recommendation {
	var fails, borderlines int
	for _, m := range metrics {
		switch m.Score {
		case ScoreFails:
			if m.Importance == ImportanceCritical {
				return Pass
			}
			fails++
		case ScoreBorderline:
			borderlines++
		}
	}

	switch {
	case overall >= 85 && fails == 0:
		return StrongBuy
	case overall >= 70 && fails == 0:
		return Buy
	case overall >= 55 || (borderlines <= 2 && fails <= 1):
		return Hold
	case overall >= 40:
		return Caution
	default:
		return Pass
	}
}

// Score grades the deal and derives the overall score and recommendation.
func Score(snapshot PropertySnapshot, econ DealEconomics, risk RiskBuffers) (float64, Recommendation, []ScoredMetric) {
	metrics := Scorecard(snapshot, econ, risk)
	overall := OverallScore(metrics)
	return overall, Recommend(overall, metrics), metrics
}

// DefaultThresholds are the goalposts used when an investor sets none.
func DefaultThresholds() ScoringThresholds {
	return ScoringThresholds{
		TargetCapRate:         constants.DefaultTargetCapRate,
		TargetCashOnCash:      constants.DefaultTargetCashOnCash,
		TargetDSCR:            constants.DefaultTargetDSCR,
		MaxBreakEvenOccupancy: constants.DefaultMaxBreakEvenOccupancy,
		MinRentGrowth:         constants.DefaultMinRentGrowth,
		MaxVacancy:            constants.DefaultMaxVacancy,
	}
}
