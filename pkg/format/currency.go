// Package format renders engine values for people: currency with thousands
// separators, percentages and ratios.
package format

import (
	"math"

	"github.com/iwvelando/deal-underwriter/pkg/constants"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	cents := roundedCents(amount)
	if cents.IsNegative() {
		return "-$" + grouped(cents.Abs())
	}
	return "$" + grouped(cents)
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	cents := roundedCents(amount)
	if cents.IsNegative() {
		return "-" + grouped(cents.Abs())
	}
	return grouped(cents)
}

// Percent renders a decimal fraction as a percentage with two decimals (0.0512 -> "5.12%").
func Percent(fraction float64) string {
	value := roundedPlaces(fraction*constants.PercentageMultiplier, 2)
	return printer.Sprintf("%.2f%%", value.InexactFloat64())
}

// Ratio renders a coverage style ratio with two decimals and an x suffix (1.254 -> "1.25x").
func Ratio(value float64) string {
	return printer.Sprintf("%.2fx", roundedPlaces(value, 2).InexactFloat64())
}

// Score renders a 0-100 score with one decimal.
func Score(value float64) string {
	return printer.Sprintf("%.1f", roundedPlaces(value, 1).InexactFloat64())
}

func roundedCents(amount float64) decimal.Decimal {
	return roundedPlaces(amount, 2)
}

func roundedPlaces(value float64, places int32) decimal.Decimal {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(value).Round(places)
}

func grouped(value decimal.Decimal) string {
	return printer.Sprintf("%.2f", value.InexactFloat64())
}
