package underwriting

import (
	"fmt"
	"time"

	"github.com/iwvelando/deal-underwriter/pkg/mathutil"
	"go.uber.org/zap"
)

// DealMetrics is the complete result of analyzing one property.
type DealMetrics struct {
	Economics      DealEconomics  `json:"economics"`
	Market         MarketSupport  `json:"market"`
	Risk           RiskBuffers    `json:"risk"`
	OverallScore   float64        `json:"overallScore"`
	Recommendation Recommendation `json:"recommendation"`
	Metrics        []ScoredMetric `json:"metrics"`
	// Adjustments lists the inputs clamped before analysis.
	Adjustments []string `json:"adjustments,omitempty"`
}

// Calculator runs the underwriting pipeline. It holds no per-analysis state
// and is safe for concurrent use.
type Calculator struct {
	logger      *zap.Logger
	insurance   InsuranceEstimator
	currentYear int
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithInsuranceEstimator replaces the premium estimator used when a snapshot
// has no manual insurance figure. A nil estimator leaves insurance at 0.
func WithInsuranceEstimator(estimator InsuranceEstimator) Option {
	return func(c *Calculator) {
		c.insurance = estimator
	}
}

// WithCurrentYear pins the year used to age properties.
func WithCurrentYear(year int) Option {
	return func(c *Calculator) {
		if year > 0 {
			c.currentYear = year
		}
	}
}

// NewCalculator returns a Calculator using the state rate insurance estimator
// and the current calendar year unless overridden.
func NewCalculator(logger *zap.Logger, opts ...Option) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Calculator{
		logger:      logger,
		insurance:   NewStateRateEstimator(),
		currentYear: time.Now().Year(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CurrentYear is the year properties are aged against.
func (c *Calculator) CurrentYear() int {
	return c.currentYear
}

// Analyze runs the full pipeline over a snapshot. Out of range inputs are
// clamped first and each adjustment is logged as a warning.
func (c *Calculator) Analyze(snapshot PropertySnapshot) DealMetrics {
	snapshot, adjustments := c.Normalize(snapshot)

	if snapshot.InsuranceAnnual <= 0 {
		c.logger.Debug("estimated insurance premium",
			zap.String("op", "underwriting.Analyze"),
			zap.String("property", snapshot.Name),
			zap.String("state", snapshot.Address.State),
			zap.Float64("premium", c.insurancePremium(snapshot)),
		)
	}

	econ := c.DealEconomics(snapshot)
	market := ComputeMarketSupport(snapshot.Market)
	risk := c.RiskBuffers(snapshot, econ)
	overall, recommendation, metrics := Score(snapshot, econ, risk)

	return DealMetrics{
		Economics:      econ,
		Market:         market,
		Risk:           risk,
		OverallScore:   overall,
		Recommendation: recommendation,
		Metrics:        metrics,
		Adjustments:    adjustments,
	}
}

// Normalize clamps fractions into [0, 1], negative amounts and rates to 0 and
// the unit count to at least 1. It returns the clamped copy and a description
// of every adjustment.
func (c *Calculator) Normalize(snapshot PropertySnapshot) (PropertySnapshot, []string) {
	var adjustments []string
	clamp := func(field string, from, to float64) {
		c.logger.Warn("clamped out of range input",
			zap.String("op", "underwriting.Normalize"),
			zap.String("property", snapshot.Name),
			zap.String("field", field),
			zap.Float64("value", from),
			zap.Float64("clampedTo", to),
		)
		adjustments = append(adjustments, fmt.Sprintf("%s clamped from %g to %g", field, from, to))
	}
	fraction := func(field string, v *float64) {
		if clamped := mathutil.Clamp(*v, 0, 1); clamped != *v {
			clamp(field, *v, clamped)
			*v = clamped
		}
	}
	nonNegative := func(field string, v *float64) {
		if *v < 0 {
			clamp(field, *v, 0)
			*v = 0
		}
	}

	fraction("vacancyRate", &snapshot.VacancyRate)
	fraction("managementFeePercent", &snapshot.ManagementFeePercent)
	fraction("financing.ltv", &snapshot.Financing.LTV)

	nonNegative("financing.interestRate", &snapshot.Financing.InterestRate)
	nonNegative("financing.purchasePrice", &snapshot.Financing.PurchasePrice)
	nonNegative("financing.loanAmount", &snapshot.Financing.LoanAmount)
	nonNegative("financing.closingCosts", &snapshot.Financing.ClosingCosts)
	nonNegative("askingPrice", &snapshot.AskingPrice)
	nonNegative("annualTaxes", &snapshot.AnnualTaxes)
	nonNegative("estimatedRentPerUnit", &snapshot.EstimatedRentPerUnit)
	nonNegative("estimatedTotalRent", &snapshot.EstimatedTotalRent)
	nonNegative("repairsPerUnit", &snapshot.RepairsPerUnit)
	nonNegative("insuranceAnnual", &snapshot.InsuranceAnnual)
	nonNegative("otherExpenses", &snapshot.OtherExpenses)
	nonNegative("squareFeet", &snapshot.SquareFeet)

	if snapshot.UnitCount < 1 {
		clamp("unitCount", float64(snapshot.UnitCount), 1)
		snapshot.UnitCount = 1
	}
	if snapshot.Financing.TermYears < 0 {
		clamp("financing.termYears", float64(snapshot.Financing.TermYears), 0)
		snapshot.Financing.TermYears = 0
	}

	return snapshot, adjustments
}
