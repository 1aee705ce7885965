package underwriting

import (
	"github.com/iwvelando/deal-underwriter/pkg/constants"
	"github.com/iwvelando/deal-underwriter/pkg/mathutil"
	"go.uber.org/zap"
)

// ScenarioResult is the outcome of one sensitivity scenario. For the exit cap
// scenarios the operating fields repeat the base case and DeltaFromBase is
// the change in valuation against the asking price.
type ScenarioResult struct {
	Label            string  `json:"label"`
	NOI              float64 `json:"noi"`
	CashFlow         float64 `json:"cashFlow"`
	CashOnCashReturn float64 `json:"cashOnCashReturn"`
	DSCR             float64 `json:"dscr"`
	DeltaFromBase    float64 `json:"deltaFromBase"`
}

// SensitivityAnalysis holds the six single-driver scenarios.
type SensitivityAnalysis struct {
	RentUp10      ScenarioResult `json:"rentUp10"`
	RentDown10    ScenarioResult `json:"rentDown10"`
	RateUp100     ScenarioResult `json:"rateUp100"`
	RateDown100   ScenarioResult `json:"rateDown100"`
	ExitCapUp50   ScenarioResult `json:"exitCapUp50"`
	ExitCapDown50 ScenarioResult `json:"exitCapDown50"`
}

// Scenarios lists the sensitivity results in reporting order.
func (s SensitivityAnalysis) Scenarios() []ScenarioResult {
	return []ScenarioResult{s.RentUp10, s.RentDown10, s.RateUp100, s.RateDown100, s.ExitCapUp50, s.ExitCapDown50}
}

// StressTestResults describe how much adversity the deal absorbs before its
// cash flow turns negative.
type StressTestResults struct {
	WorstCaseCashFlow        float64 `json:"worstCaseCashFlow"`
	MaxVacancyBeforeNegative float64 `json:"maxVacancyBeforeNegative"`
	MaxRateBeforeNegative    float64 `json:"maxRateBeforeNegative"`
	CushionToBreakEven       float64 `json:"cushionToBreakEven"`
	VacancySearchIterations  int     `json:"vacancySearchIterations"`
	RateSearchIterations     int     `json:"rateSearchIterations"`
}

// RiskBuffers is the risk layer of a deal analysis.
type RiskBuffers struct {
	BreakEvenOccupancy float64             `json:"breakEvenOccupancy"`
	Sensitivity        SensitivityAnalysis `json:"sensitivity"`
	StressTest         StressTestResults   `json:"stressTest"`
}

// RiskBuffers computes break-even occupancy, the sensitivity matrix and the
// stress test around the base economics of snapshot.
func (c *Calculator) RiskBuffers(snapshot PropertySnapshot, base DealEconomics) RiskBuffers {
	return RiskBuffers{
		BreakEvenOccupancy: BreakEvenOccupancy(base),
		Sensitivity:        c.Sensitivity(snapshot, base),
		StressTest:         c.StressTest(snapshot, base),
	}
}

// BreakEvenOccupancy is the share of potential rent that covers taxes,
// insurance and debt service net of variable management costs, within [0, 1].
func BreakEvenOccupancy(base DealEconomics) float64 {
	variableCostRatio := base.Expenses.Management / mathutil.Max(base.EffectiveGrossIncome, 1)
	fixedCosts := base.Expenses.Taxes + base.Expenses.Insurance + base.AnnualDebtService
	occupancy := mathutil.SafeDivide(fixedCosts, base.GrossPotentialRent*(1-variableCostRatio))
	return mathutil.Clamp(occupancy, 0, 1)
}

// Sensitivity re-runs the deal with one driver perturbed per scenario. The
// exit cap scenarios only revalue the base NOI.
func (c *Calculator) Sensitivity(snapshot PropertySnapshot, base DealEconomics) SensitivityAnalysis {
	rate := snapshot.Financing.InterestRate
	return SensitivityAnalysis{
		RentUp10:      c.perturbed("Rent +10%", snapshot.WithRentScaled(1+constants.SensitivityRentShock), base),
		RentDown10:    c.perturbed("Rent -10%", snapshot.WithRentScaled(1-constants.SensitivityRentShock), base),
		RateUp100:     c.perturbed("Rate +1%", snapshot.WithInterestRate(rate+constants.SensitivityRateShock), base),
		RateDown100:   c.perturbed("Rate -1%", snapshot.WithInterestRate(rate-constants.SensitivityRateShock), base),
		ExitCapUp50:   exitCapScenario("Exit Cap +50bps", snapshot, base, base.InPlaceCapRate+constants.SensitivityExitCapShock),
		ExitCapDown50: exitCapScenario("Exit Cap -50bps", snapshot, base, mathutil.Max(base.InPlaceCapRate-constants.SensitivityExitCapShock, constants.MinimumExitCapRate)),
	}
}

func (c *Calculator) perturbed(label string, scenario PropertySnapshot, base DealEconomics) ScenarioResult {
	econ := c.DealEconomics(scenario)
	return ScenarioResult{
		Label:            label,
		NOI:              econ.NetOperatingIncome,
		CashFlow:         econ.CashFlowAnnual,
		CashOnCashReturn: econ.CashOnCashReturn,
		DSCR:             econ.DSCR,
		DeltaFromBase:    econ.CashFlowAnnual - base.CashFlowAnnual,
	}
}

func exitCapScenario(label string, snapshot PropertySnapshot, base DealEconomics, capRate float64) ScenarioResult {
	reference := snapshot.AskingPrice
	if reference <= 0 {
		reference = base.PurchasePrice
	}
	valuation := mathutil.SafeDivide(base.NetOperatingIncome, capRate)
	return ScenarioResult{
		Label:            label,
		NOI:              base.NetOperatingIncome,
		CashFlow:         base.CashFlowAnnual,
		CashOnCashReturn: base.CashOnCashReturn,
		DSCR:             base.DSCR,
		DeltaFromBase:    valuation - reference,
	}
}

// StressTest runs the worst case scenario and the two bounded break-even
// searches.
func (c *Calculator) StressTest(snapshot PropertySnapshot, base DealEconomics) StressTestResults {
	worst := snapshot.
		WithRentScaled(constants.StressRentFactor).
		WithVacancyRate(mathutil.Min(snapshot.VacancyRate+constants.StressVacancyIncrease, constants.StressVacancyCap)).
		WithRepairsPerUnit(snapshot.RepairsPerUnit * constants.StressRepairsFactor)

	maxVacancy, vacancyIterations := c.maxVacancyBeforeNegative(snapshot)
	maxRate, rateIterations := c.maxRateBeforeNegative(snapshot)

	return StressTestResults{
		WorstCaseCashFlow:        c.DealEconomics(worst).CashFlowAnnual,
		MaxVacancyBeforeNegative: maxVacancy,
		MaxRateBeforeNegative:    maxRate,
		CushionToBreakEven:       base.CashFlowAnnual / mathutil.Max(base.GrossPotentialRent, 1),
		VacancySearchIterations:  vacancyIterations,
		RateSearchIterations:     rateIterations,
	}
}

const searchPrecision = 6

// maxVacancyBeforeNegative scans vacancy upward from the snapshot's rate in
// fixed steps and returns the first rate with negative cash flow, or the
// search limit when cash flow never turns negative.
func (c *Calculator) maxVacancyBeforeNegative(snapshot PropertySnapshot) (float64, int) {
	start := mathutil.Max(snapshot.VacancyRate, 0)
	return c.scan(snapshot, start, constants.VacancySearchStep, constants.VacancySearchLimit,
		constants.VacancySearchMaxSteps, PropertySnapshot.WithVacancyRate, "underwriting.maxVacancyBeforeNegative")
}

// maxRateBeforeNegative is the interest rate counterpart of
// maxVacancyBeforeNegative.
func (c *Calculator) maxRateBeforeNegative(snapshot PropertySnapshot) (float64, int) {
	start := mathutil.Max(snapshot.Financing.InterestRate, 0)
	return c.scan(snapshot, start, constants.RateSearchStep, constants.RateSearchLimit,
		constants.RateSearchMaxSteps, PropertySnapshot.WithInterestRate, "underwriting.maxRateBeforeNegative")
}

// scan is a bounded linear search. The value at step i is start + i*step so
// the reported boundary does not accumulate floating point drift. The
// returned count is the number of increments taken.
func (c *Calculator) scan(snapshot PropertySnapshot, start, step, limit float64, maxSteps int,
	apply func(PropertySnapshot, float64) PropertySnapshot, op string) (float64, int) {
	iterations := 0
	for i := 0; i <= maxSteps; i++ {
		iterations = i
		value := mathutil.Min(mathutil.RoundPlaces(start+float64(i)*step, searchPrecision), limit)
		if c.DealEconomics(apply(snapshot, value)).CashFlowAnnual < 0 {
			return value, iterations
		}
		if value >= limit {
			break
		}
	}

	c.logger.Debug("cash flow stayed non-negative up to search limit",
		zap.String("op", op),
		zap.String("property", snapshot.Name),
		zap.Float64("start", start),
		zap.Float64("limit", limit),
		zap.Int("iterations", iterations),
	)
	return limit, iterations
}
