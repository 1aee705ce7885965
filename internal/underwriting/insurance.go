package underwriting

import "strings"

// InsuranceEstimator supplies an annual premium when the snapshot carries no
// manual insurance figure.
type InsuranceEstimator interface {
	EstimateAnnual(snapshot PropertySnapshot, currentYear int) float64
}

// InsuranceEstimatorFunc adapts a function to InsuranceEstimator.
type InsuranceEstimatorFunc func(snapshot PropertySnapshot, currentYear int) float64

// EstimateAnnual calls f.
func (f InsuranceEstimatorFunc) EstimateAnnual(snapshot PropertySnapshot, currentYear int) float64 {
	return f(snapshot, currentYear)
}

// StateRateEstimator prices a hazard policy from a per-state rate per $1,000
// of dwelling value, adjusted for property type and age.
type StateRateEstimator struct {
	// RatesPerThousand maps two letter state codes to annual premium per
	// $1,000 of insured value.
	RatesPerThousand map[string]float64
	DefaultRate      float64
	// CostPerSquareFoot prices replacement cost when square footage is known.
	CostPerSquareFoot float64
	MinimumPremium    float64
}

// NewStateRateEstimator returns the estimator with the built-in rate table.
func NewStateRateEstimator() *StateRateEstimator {
	return &StateRateEstimator{
		RatesPerThousand: map[string]float64{
			"AL": 6.8, "AZ": 4.2, "CA": 3.6, "CO": 6.1, "FL": 11.5,
			"GA": 5.0, "IL": 4.6, "KS": 7.9, "KY": 5.6, "LA": 10.8,
			"MI": 4.3, "MO": 6.2, "MS": 8.1, "NC": 4.8, "NE": 8.4,
			"NJ": 3.3, "NY": 3.9, "OH": 3.5, "OK": 9.7, "OR": 2.9,
			"PA": 3.4, "SC": 5.9, "TN": 5.1, "TX": 8.9, "UT": 2.8,
			"VA": 3.8, "WA": 3.1, "WI": 3.0,
		},
		DefaultRate:       4.5,
		CostPerSquareFoot: 175,
		MinimumPremium:    600,
	}
}

// EstimateAnnual implements InsuranceEstimator.
func (e *StateRateEstimator) EstimateAnnual(snapshot PropertySnapshot, currentYear int) float64 {
	insuredValue := snapshot.EffectivePurchasePrice()
	if snapshot.SquareFeet > 0 && e.CostPerSquareFoot > 0 {
		insuredValue = snapshot.SquareFeet * e.CostPerSquareFoot
	}
	if insuredValue <= 0 {
		return 0
	}

	rate, ok := e.RatesPerThousand[strings.ToUpper(strings.TrimSpace(snapshot.Address.State))]
	if !ok {
		rate = e.DefaultRate
	}

	premium := insuredValue / 1000 * rate
	premium *= propertyTypeInsuranceFactor(snapshot.PropertyType)
	premium *= ageInsuranceFactor(currentYear - snapshot.YearBuilt)

	if premium < e.MinimumPremium {
		return e.MinimumPremium
	}
	return premium
}

func propertyTypeInsuranceFactor(t PropertyType) float64 {
	switch t {
	case PropertyTypeCondo:
		// Walls-in coverage; the association insures the structure.
		return 0.45
	case PropertyTypeTownhouse:
		return 0.85
	case PropertyTypeMultiFamily:
		return 1.15
	default:
		return 1.0
	}
}

func ageInsuranceFactor(age int) float64 {
	switch {
	case age <= 10:
		return 0.9
	case age <= 30:
		return 1.0
	case age <= 50:
		return 1.15
	default:
		return 1.3
	}
}
