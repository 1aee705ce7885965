// Package loans provides common loan processing utilities.
package loans

import (
	"math"

	"github.com/iwvelando/deal-underwriter/pkg/constants"
	"github.com/iwvelando/deal-underwriter/pkg/mathutil"
)

// Payment holds the values for a given payment.
type Payment struct {
	Number             int     `json:"number"`
	Payment            float64 `json:"payment"`
	Principal          float64 `json:"principal"`
	Interest           float64 `json:"interest"`
	RemainingPrincipal float64 `json:"remainingPrincipal"`
}

// MonthlyPayment calculates the monthly payment for a loan. The annual rate is
// a decimal fraction (0.07 for 7%). A loan without principal, rate or term has
// no debt service and yields 0.
func MonthlyPayment(principal, annualRate float64, termYears int, interestOnly bool) float64 {
	if principal <= 0 || annualRate <= 0 || termYears <= 0 {
		return 0
	}

	if interestOnly {
		return InterestPayment(principal, annualRate)
	}

	monthlyRate := annualRate / constants.MonthsPerYear
	n := float64(termYears * constants.MonthsPerYear)
	power := math.Pow(1+monthlyRate, n)
	payment := principal * monthlyRate * power / (power - 1)
	if math.IsNaN(payment) || math.IsInf(payment, 0) {
		return 0
	}
	return payment
}

// InterestPayment calculates the interest portion of a monthly payment.
func InterestPayment(remainingPrincipal, annualRate float64) float64 {
	return remainingPrincipal * annualRate / constants.MonthsPerYear
}

// GenerateSchedule produces the first months payments of a loan. A months
// value of 0 or beyond the term produces the full term.
func GenerateSchedule(principal, annualRate float64, termYears int, interestOnly bool, months int) []Payment {
	payment := MonthlyPayment(principal, annualRate, termYears, interestOnly)
	if payment == 0 {
		return nil
	}

	term := termYears * constants.MonthsPerYear
	if months <= 0 || months > term {
		months = term
	}

	schedule := make([]Payment, 0, months)
	remaining := principal
	for month := 1; month <= months; month++ {
		current := Payment{Number: month, Payment: payment}
		current.Interest = InterestPayment(remaining, annualRate)
		current.Principal = payment - current.Interest

		if month == term && !interestOnly {
			// Absorb floating point drift into the final payment.
			current.Principal = remaining
			current.Payment = current.Principal + current.Interest
		}
		remaining -= current.Principal
		if mathutil.IsZero(remaining) {
			remaining = 0
		}
		current.RemainingPrincipal = remaining
		schedule = append(schedule, current)
	}

	return schedule
}

// RemainingBalance returns the principal outstanding after paymentsMade
// payments of a fully amortizing loan.
func RemainingBalance(principal, annualRate float64, termYears, paymentsMade int) float64 {
	if principal <= 0 || paymentsMade <= 0 {
		return math.Max(principal, 0)
	}
	term := termYears * constants.MonthsPerYear
	if paymentsMade >= term {
		return 0
	}
	if annualRate <= 0 {
		return principal
	}

	r := annualRate / constants.MonthsPerYear
	fullTerm := math.Pow(1+r, float64(term))
	elapsed := math.Pow(1+r, float64(paymentsMade))
	return principal * (fullTerm - elapsed) / (fullTerm - 1)
}

// PrincipalPaid sums the principal portion of the first months payments.
func PrincipalPaid(principal, annualRate float64, termYears int, interestOnly bool, months int) float64 {
	total := 0.0
	for _, p := range GenerateSchedule(principal, annualRate, termYears, interestOnly, months) {
		total += p.Principal
	}
	return total
}
