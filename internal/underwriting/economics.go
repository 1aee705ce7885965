package underwriting

import (
	"github.com/iwvelando/deal-underwriter/pkg/constants"
	"github.com/iwvelando/deal-underwriter/pkg/loans"
	"github.com/iwvelando/deal-underwriter/pkg/mathutil"
)

// DealEconomics is the operating and return profile of a property under its
// snapshot assumptions. All amounts are annual unless named monthly.
type DealEconomics struct {
	GrossPotentialRent      float64          `json:"grossPotentialRent"`
	VacancyLoss             float64          `json:"vacancyLoss"`
	EffectiveGrossIncome    float64          `json:"effectiveGrossIncome"`
	Expenses                ExpenseBreakdown `json:"expenses"`
	NetOperatingIncome      float64          `json:"netOperatingIncome"`
	PurchasePrice           float64          `json:"purchasePrice"`
	LoanAmount              float64          `json:"loanAmount"`
	TotalCashRequired       float64          `json:"totalCashRequired"`
	MonthlyDebtService      float64          `json:"monthlyDebtService"`
	AnnualDebtService       float64          `json:"annualDebtService"`
	DSCR                    float64          `json:"dscr"`
	CashFlowAnnual          float64          `json:"cashFlowAnnual"`
	CashFlowMonthly         float64          `json:"cashFlowMonthly"`
	CashOnCashReturn        float64          `json:"cashOnCashReturn"`
	InPlaceCapRate          float64          `json:"inPlaceCapRate"`
	StabilizedCapRate       float64          `json:"stabilizedCapRate"`
	PricePerUnit            float64          `json:"pricePerUnit"`
	PricePerSquareFoot      float64          `json:"pricePerSquareFoot"`
	YearOnePrincipalPaydown float64          `json:"yearOnePrincipalPaydown"`
}

// DealEconomics computes income, expenses, debt service and returns for the
// snapshot. Every ratio with a zero or negative denominator resolves to 0.
func (c *Calculator) DealEconomics(snapshot PropertySnapshot) DealEconomics {
	var econ DealEconomics

	monthlyRent := snapshot.MonthlyRent()
	econ.GrossPotentialRent = monthlyRent * constants.MonthsPerYear
	econ.VacancyLoss = econ.GrossPotentialRent * snapshot.VacancyRate
	econ.EffectiveGrossIncome = econ.GrossPotentialRent - econ.VacancyLoss

	econ.Expenses = c.Expenses(snapshot, econ.EffectiveGrossIncome)
	econ.NetOperatingIncome = econ.EffectiveGrossIncome - econ.Expenses.Total

	econ.PurchasePrice = snapshot.EffectivePurchasePrice()
	econ.LoanAmount = snapshot.EffectiveLoanAmount()

	financing := snapshot.Financing
	econ.MonthlyDebtService = loans.MonthlyPayment(econ.LoanAmount, financing.InterestRate, financing.TermYears, financing.InterestOnly)
	econ.AnnualDebtService = econ.MonthlyDebtService * constants.MonthsPerYear

	econ.CashFlowAnnual = econ.NetOperatingIncome - econ.AnnualDebtService
	econ.CashFlowMonthly = econ.CashFlowAnnual / constants.MonthsPerYear

	// The financing figure only describes the resolved terms when both the
	// price and the loan were given explicitly.
	if financing.PurchasePrice > 0 && financing.LoanAmount > 0 {
		econ.TotalCashRequired = financing.TotalCashRequired()
	} else {
		econ.TotalCashRequired = (econ.PurchasePrice - econ.LoanAmount) + financing.ClosingCosts
	}
	econ.CashOnCashReturn = mathutil.SafeDivide(econ.CashFlowAnnual, econ.TotalCashRequired)

	econ.InPlaceCapRate = mathutil.SafeDivide(econ.NetOperatingIncome, econ.PurchasePrice)
	econ.StabilizedCapRate = stabilizedCapRate(snapshot, monthlyRent, econ.Expenses.Total, econ.PurchasePrice)
	econ.DSCR = mathutil.SafeDivide(econ.NetOperatingIncome, econ.AnnualDebtService)

	if snapshot.UnitCount > 0 {
		econ.PricePerUnit = econ.PurchasePrice / float64(snapshot.UnitCount)
	} else {
		econ.PricePerUnit = econ.PurchasePrice
	}
	econ.PricePerSquareFoot = mathutil.SafeDivide(econ.PurchasePrice, snapshot.SquareFeet)

	if econ.MonthlyDebtService > 0 && !financing.InterestOnly {
		econ.YearOnePrincipalPaydown = loans.PrincipalPaid(econ.LoanAmount, financing.InterestRate,
			financing.TermYears, false, constants.MonthsPerYear)
	}

	return econ
}

// stabilizedCapRate revalues the rent roll at the market median rent per unit
// while holding the in-place expense total.
func stabilizedCapRate(snapshot PropertySnapshot, monthlyRent, totalExpenses, purchasePrice float64) float64 {
	units := float64(snapshot.UnitCount)
	rentPerUnit := monthlyRent
	if units > 0 {
		rentPerUnit = monthlyRent / units
	}
	if snapshot.Market != nil && snapshot.Market.MedianRent != nil {
		rentPerUnit = *snapshot.Market.MedianRent
	}

	stabilizedGPR := rentPerUnit * constants.MonthsPerYear * mathutil.Max(units, 1)
	stabilizedNOI := stabilizedGPR*(1-snapshot.VacancyRate) - totalExpenses
	return mathutil.SafeDivide(stabilizedNOI, purchasePrice)
}
