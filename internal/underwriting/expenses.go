package underwriting

import (
	"github.com/iwvelando/deal-underwriter/pkg/constants"
	"github.com/iwvelando/deal-underwriter/pkg/mathutil"
)

// ExpenseBreakdown is the annual operating expense budget of a property.
type ExpenseBreakdown struct {
	Taxes        float64 `json:"taxes"`
	Insurance    float64 `json:"insurance"`
	Management   float64 `json:"management"`
	Repairs      float64 `json:"repairs"`
	CapexReserve float64 `json:"capexReserve"`
	Utilities    float64 `json:"utilities"`
	Other        float64 `json:"other"`
	Total        float64 `json:"total"`
	// ExpenseRatio is Total over effective gross income, 0 without income.
	ExpenseRatio float64 `json:"expenseRatio"`
}

// Expenses derives the operating expense budget from the snapshot and the
// effective gross income it produces.
func (c *Calculator) Expenses(snapshot PropertySnapshot, effectiveGrossIncome float64) ExpenseBreakdown {
	units := float64(snapshot.UnitCount)

	breakdown := ExpenseBreakdown{
		Taxes:        snapshot.AnnualTaxes,
		Insurance:    c.insurancePremium(snapshot),
		Management:   effectiveGrossIncome * snapshot.ManagementFeePercent,
		Repairs:      snapshot.RepairsPerUnit * units,
		CapexReserve: constants.BaseCapexReservePerUnit * CapexAgeMultiplier(c.currentYear-snapshot.YearBuilt) * units,
		Utilities:    constants.UtilitiesAnnual,
		Other:        snapshot.OtherExpenses,
	}
	breakdown.Total = breakdown.Taxes + breakdown.Insurance + breakdown.Management +
		breakdown.Repairs + breakdown.CapexReserve + breakdown.Utilities + breakdown.Other
	breakdown.ExpenseRatio = mathutil.SafeDivide(breakdown.Total, effectiveGrossIncome)

	return breakdown
}

func (c *Calculator) insurancePremium(snapshot PropertySnapshot) float64 {
	if snapshot.InsuranceAnnual > 0 {
		return snapshot.InsuranceAnnual
	}
	if c.insurance == nil {
		return 0
	}
	return c.insurance.EstimateAnnual(snapshot, c.currentYear)
}

// CapexAgeMultiplier scales the capital expenditure reserve by building age
// in years.
func CapexAgeMultiplier(age int) float64 {
	switch {
	case age >= 0 && age <= 10:
		return 0.75
	case age >= 11 && age <= 20:
		return 1.0
	case age >= 21 && age <= 30:
		return 1.25
	case age >= 31 && age <= 50:
		return 1.5
	default:
		return 2.0
	}
}
