// Package underwriting turns a property and market snapshot into a layered
// deal analysis: operating economics, market support signals, risk buffers,
// per-metric scores and a single recommendation.
package underwriting

import "github.com/iwvelando/deal-underwriter/pkg/mathutil"

// PropertyType classifies the physical asset.
type PropertyType string

const (
	PropertyTypeSingleFamily PropertyType = "single_family"
	PropertyTypeMultiFamily  PropertyType = "multi_family"
	PropertyTypeCondo        PropertyType = "condo"
	PropertyTypeTownhouse    PropertyType = "townhouse"
)

// Address locates a property. State drives insurance estimation.
type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
}

// PropertySnapshot is the complete, immutable input of one analysis.
type PropertySnapshot struct {
	Name         string       `json:"name,omitempty"`
	Address      Address      `json:"address"`
	PropertyType PropertyType `json:"propertyType,omitempty"`
	Bedrooms     int          `json:"bedrooms,omitempty"`
	Bathrooms    float64      `json:"bathrooms,omitempty"`
	SquareFeet   float64      `json:"squareFeet,omitempty"`
	UnitCount    int          `json:"unitCount"`
	YearBuilt    int          `json:"yearBuilt,omitempty"`

	AskingPrice   float64 `json:"askingPrice"`
	AnnualTaxes   float64 `json:"annualTaxes"`
	AssessedValue float64 `json:"assessedValue,omitempty"`

	EstimatedRentPerUnit float64 `json:"estimatedRentPerUnit"`
	EstimatedTotalRent   float64 `json:"estimatedTotalRent"`

	VacancyRate          float64 `json:"vacancyRate"`
	ManagementFeePercent float64 `json:"managementFeePercent"`
	RepairsPerUnit       float64 `json:"repairsPerUnit"`
	InsuranceAnnual      float64 `json:"insuranceAnnual"`
	OtherExpenses        float64 `json:"otherExpenses"`

	Financing  FinancingTerms    `json:"financing"`
	Thresholds ScoringThresholds `json:"thresholds"`
	Market     *MarketSnapshot   `json:"market,omitempty"`
}

// FinancingTerms describes the acquisition loan. InterestRate and LTV are
// decimal fractions.
type FinancingTerms struct {
	PurchasePrice float64 `json:"purchasePrice"`
	LoanAmount    float64 `json:"loanAmount"`
	InterestRate  float64 `json:"interestRate"`
	TermYears     int     `json:"termYears"`
	LTV           float64 `json:"ltv"`
	ClosingCosts  float64 `json:"closingCosts"`
	InterestOnly  bool    `json:"interestOnly"`
}

// DownPayment is the equity portion of the purchase price.
func (f FinancingTerms) DownPayment() float64 {
	return f.PurchasePrice - f.LoanAmount
}

// TotalCashRequired is the down payment plus closing costs.
func (f FinancingTerms) TotalCashRequired() float64 {
	return f.DownPayment() + f.ClosingCosts
}

// WithLoanAmount makes the loan amount authoritative and derives LTV from it.
func (f FinancingTerms) WithLoanAmount(amount float64) FinancingTerms {
	f.LoanAmount = amount
	f.LTV = mathutil.SafeDivide(amount, f.PurchasePrice)
	return f
}

// WithLTV makes the LTV authoritative and derives the loan amount from it.
func (f FinancingTerms) WithLTV(ltv float64) FinancingTerms {
	f.LTV = ltv
	f.LoanAmount = f.PurchasePrice * ltv
	return f
}

// WithPurchasePrice changes the price while keeping LTV fixed.
func (f FinancingTerms) WithPurchasePrice(price float64) FinancingTerms {
	f.PurchasePrice = price
	return f.WithLTV(f.LTV)
}

// MarketSnapshot holds year-over-year market indicators. A nil field means the
// indicator is unknown, which is different from zero.
type MarketSnapshot struct {
	RentGrowth        *float64 `json:"rentGrowth,omitempty"`
	PriceAppreciation *float64 `json:"priceAppreciation,omitempty"`
	VacancyRate       *float64 `json:"vacancyRate,omitempty"`
	DaysOnMarket      *float64 `json:"daysOnMarket,omitempty"`
	InventoryMonths   *float64 `json:"inventoryMonths,omitempty"`
	MedianRent        *float64 `json:"medianRent,omitempty"`
	PopulationGrowth  *float64 `json:"populationGrowth,omitempty"`
	IncomeGrowth      *float64 `json:"incomeGrowth,omitempty"`
}

// ScoringThresholds are the investor goalposts each metric is scored against.
type ScoringThresholds struct {
	TargetCapRate         float64 `json:"targetCapRate"`
	TargetCashOnCash      float64 `json:"targetCashOnCash"`
	TargetDSCR            float64 `json:"targetDSCR"`
	MaxBreakEvenOccupancy float64 `json:"maxBreakEvenOccupancy"`
	MinRentGrowth         float64 `json:"minRentGrowth"`
	MaxVacancy            float64 `json:"maxVacancy"`
}

// MonthlyRent is the scheduled monthly rent for the whole property.
func (s PropertySnapshot) MonthlyRent() float64 {
	if s.EstimatedTotalRent > 0 {
		return s.EstimatedTotalRent
	}
	return s.EstimatedRentPerUnit * float64(s.UnitCount)
}

// EffectivePurchasePrice is the financing price, falling back to the asking price.
func (s PropertySnapshot) EffectivePurchasePrice() float64 {
	if s.Financing.PurchasePrice > 0 {
		return s.Financing.PurchasePrice
	}
	return s.AskingPrice
}

// EffectiveLoanAmount is the financing loan amount, falling back to price x LTV.
func (s PropertySnapshot) EffectiveLoanAmount() float64 {
	if s.Financing.LoanAmount > 0 {
		return s.Financing.LoanAmount
	}
	return s.EffectivePurchasePrice() * s.Financing.LTV
}

// WithRentScaled returns a copy with both rent estimates multiplied by factor.
func (s PropertySnapshot) WithRentScaled(factor float64) PropertySnapshot {
	s.EstimatedRentPerUnit *= factor
	s.EstimatedTotalRent *= factor
	return s
}

// WithVacancyRate returns a copy with the vacancy rate replaced.
func (s PropertySnapshot) WithVacancyRate(rate float64) PropertySnapshot {
	s.VacancyRate = rate
	return s
}

// WithInterestRate returns a copy with the financing interest rate replaced.
func (s PropertySnapshot) WithInterestRate(rate float64) PropertySnapshot {
	s.Financing.InterestRate = rate
	return s
}

// WithRepairsPerUnit returns a copy with the per unit repairs budget replaced.
func (s PropertySnapshot) WithRepairsPerUnit(amount float64) PropertySnapshot {
	s.RepairsPerUnit = amount
	return s
}
