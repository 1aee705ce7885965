package config

import (
	"strings"

	"github.com/iwvelando/deal-underwriter/internal/underwriting"
)

// Resolve overlays the thresholds that are set onto base.
func (t Thresholds) Resolve(base underwriting.ScoringThresholds) underwriting.ScoringThresholds {
	overlay := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	overlay(&base.TargetCapRate, t.TargetCapRate)
	overlay(&base.TargetCashOnCash, t.TargetCashOnCash)
	overlay(&base.TargetDSCR, t.TargetDSCR)
	overlay(&base.MaxBreakEvenOccupancy, t.MaxBreakEvenOccupancy)
	overlay(&base.MinRentGrowth, t.MinRentGrowth)
	overlay(&base.MaxVacancy, t.MaxVacancy)
	return base
}

// DefaultThresholds are the built-in thresholds overridden by the
// configuration's defaults section.
func (c *Configuration) DefaultThresholds() underwriting.ScoringThresholds {
	return c.Defaults.Thresholds.Resolve(underwriting.DefaultThresholds())
}

// ToSnapshot converts a configured property into an engine snapshot. The
// financing is made consistent: a loan amount is authoritative and derives
// the LTV, otherwise the LTV derives the loan amount.
func (p Property) ToSnapshot(defaults underwriting.ScoringThresholds) underwriting.PropertySnapshot {
	snapshot := underwriting.PropertySnapshot{
		Name: p.Name,
		Address: underwriting.Address{
			Street:  p.Address.Street,
			City:    p.Address.City,
			State:   p.Address.State,
			ZipCode: p.Address.ZipCode,
		},
		PropertyType:         ParsePropertyType(p.PropertyType),
		Bedrooms:             p.Bedrooms,
		Bathrooms:            p.Bathrooms,
		SquareFeet:           p.SquareFeet,
		UnitCount:            p.UnitCount,
		YearBuilt:            p.YearBuilt,
		AskingPrice:          p.AskingPrice,
		AnnualTaxes:          p.AnnualTaxes,
		AssessedValue:        p.AssessedValue,
		EstimatedRentPerUnit: p.EstimatedRentPerUnit,
		EstimatedTotalRent:   p.EstimatedTotalRent,
		VacancyRate:          p.VacancyRate,
		ManagementFeePercent: p.ManagementFeePercent,
		RepairsPerUnit:       p.RepairsPerUnit,
		InsuranceAnnual:      p.InsuranceAnnual,
		OtherExpenses:        p.OtherExpenses,
		Financing:            p.Financing.toTerms(p.AskingPrice),
		Thresholds:           p.Thresholds.Resolve(defaults),
	}

	if p.Market != nil {
		snapshot.Market = &underwriting.MarketSnapshot{
			RentGrowth:        p.Market.RentGrowth,
			PriceAppreciation: p.Market.PriceAppreciation,
			VacancyRate:       p.Market.VacancyRate,
			DaysOnMarket:      p.Market.DaysOnMarket,
			InventoryMonths:   p.Market.InventoryMonths,
			MedianRent:        p.Market.MedianRent,
			PopulationGrowth:  p.Market.PopulationGrowth,
			IncomeGrowth:      p.Market.IncomeGrowth,
		}
	}

	return snapshot
}

func (f Financing) toTerms(askingPrice float64) underwriting.FinancingTerms {
	terms := underwriting.FinancingTerms{
		PurchasePrice: f.PurchasePrice,
		InterestRate:  f.InterestRate,
		TermYears:     f.TermYears,
		LTV:           f.LTV,
		ClosingCosts:  f.ClosingCosts,
		InterestOnly:  f.InterestOnly,
	}
	if terms.PurchasePrice <= 0 {
		terms.PurchasePrice = askingPrice
	}

	switch {
	case f.LoanAmount > 0:
		return terms.WithLoanAmount(f.LoanAmount)
	case f.LTV > 0:
		return terms.WithLTV(f.LTV)
	default:
		return terms
	}
}

// ParsePropertyType accepts the property type in any case with dashes,
// spaces or underscores, e.g. "Multi-Family". Unknown values default to
// single family.
func ParsePropertyType(value string) underwriting.PropertyType {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)

	switch t := underwriting.PropertyType(normalized); t {
	case underwriting.PropertyTypeSingleFamily, underwriting.PropertyTypeMultiFamily,
		underwriting.PropertyTypeCondo, underwriting.PropertyTypeTownhouse:
		return t
	default:
		return underwriting.PropertyTypeSingleFamily
	}
}
