package validation

import (
	"fmt"
	"math"
	"strings"
)

// PropertyInput is the subset of a property definition that range checks
// look at.
type PropertyInput struct {
	Name                 string
	Active               bool
	UnitCount            int
	AskingPrice          float64
	PurchasePrice        float64
	LoanAmount           float64
	LTV                  float64
	InterestRate         float64
	TermYears            int
	EstimatedRentPerUnit float64
	EstimatedTotalRent   float64
	VacancyRate          float64
	ManagementFeePercent float64
	RepairsPerUnit       float64
	AnnualTaxes          float64
	InsuranceAnnual      float64
	OtherExpenses        float64
}

// ltvTolerance is how far a loan amount may drift from price x LTV before
// the two are reported as inconsistent.
const ltvTolerance = 0.005

// ValidateFraction reports a value that should lie in [0, 1].
func ValidateFraction(label string, value float64) string {
	if value < 0 || value > 1 {
		return fmt.Sprintf("%s should be a fraction between 0 and 1, got %g", label, value)
	}
	return ""
}

// ValidateNonNegative reports a negative amount or rate.
func ValidateNonNegative(label string, value float64) string {
	if value < 0 {
		return fmt.Sprintf("%s should not be negative, got %g", label, value)
	}
	return ""
}

// ValidateFinancing checks that a loan amount and an LTV given together
// describe the same loan.
func ValidateFinancing(label string, price, loanAmount, ltv float64) string {
	if price <= 0 || loanAmount <= 0 || ltv <= 0 {
		return ""
	}
	if implied := loanAmount / price; math.Abs(implied-ltv) > ltvTolerance {
		return fmt.Sprintf("%s loan amount %.2f implies LTV %.4f but ltv is %.4f; the loan amount is used",
			label, loanAmount, implied, ltv)
	}
	return ""
}

// ValidateProperties checks every property for values the underwriting
// engine would clamp or ignore and returns one warning per finding. Inactive
// properties are only checked for duplicate names.
func ValidateProperties(properties []PropertyInput) []string {
	var warnings []string
	add := func(msg string) {
		if msg != "" {
			warnings = append(warnings, msg)
		}
	}

	seen := make(map[string]int, len(properties))
	for i, p := range properties {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
			add(fmt.Sprintf("Property %s has no name", name))
		}
		if first, ok := seen[strings.ToLower(name)]; ok {
			add(fmt.Sprintf("Property '%s' duplicates the name of property #%d", name, first+1))
		} else {
			seen[strings.ToLower(name)] = i
		}

		if !p.Active {
			continue
		}

		label := fmt.Sprintf("Property '%s'", name)
		add(ValidateFraction(label+" vacancyRate", p.VacancyRate))
		add(ValidateFraction(label+" managementFeePercent", p.ManagementFeePercent))
		add(ValidateFraction(label+" financing.ltv", p.LTV))
		add(ValidateNonNegative(label+" financing.interestRate", p.InterestRate))
		add(ValidateNonNegative(label+" repairsPerUnit", p.RepairsPerUnit))
		add(ValidateNonNegative(label+" annualTaxes", p.AnnualTaxes))
		add(ValidateNonNegative(label+" insuranceAnnual", p.InsuranceAnnual))
		add(ValidateNonNegative(label+" otherExpenses", p.OtherExpenses))

		if p.UnitCount < 1 {
			add(fmt.Sprintf("%s unitCount should be at least 1, got %d", label, p.UnitCount))
		}
		if p.AskingPrice <= 0 && p.PurchasePrice <= 0 {
			add(fmt.Sprintf("%s has no asking or purchase price", label))
		}
		if p.EstimatedRentPerUnit <= 0 && p.EstimatedTotalRent <= 0 {
			add(fmt.Sprintf("%s has no rent estimate", label))
		}
		if p.TermYears <= 0 && (p.LoanAmount > 0 || p.LTV > 0) {
			add(fmt.Sprintf("%s finances a loan without a term; debt service will be 0", label))
		}

		price := p.PurchasePrice
		if price <= 0 {
			price = p.AskingPrice
		}
		add(ValidateFinancing(label, price, p.LoanAmount, p.LTV))
	}

	return warnings
}
