// Package output provides utilities for formatting and displaying analysis results.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iwvelando/deal-underwriter/internal/analysis"
	"github.com/iwvelando/deal-underwriter/internal/underwriting"
	"github.com/iwvelando/deal-underwriter/pkg/format"
)

// csvHeader lists the headline columns, one row per property.
var csvHeader = []string{
	"property", "recommendation", "overall score",
	"gross potential rent", "effective gross income", "total expenses", "noi",
	"annual debt service", "annual cash flow", "cash on cash", "cap rate", "stabilized cap rate", "dscr",
	"break even occupancy", "worst case cash flow", "max vacancy before negative", "max rate before negative",
}

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(results []analysis.Analysis) {
	WritePretty(os.Stdout, results)
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(results []analysis.Analysis) error {
	return WriteCSV(os.Stdout, results)
}

// JSONFormat outputs the full results as indented JSON.
func JSONFormat(results []analysis.Analysis) error {
	return WriteJSON(os.Stdout, results)
}

// CsvString returns the CSV rendering of results.
func CsvString(results []analysis.Analysis) (string, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, results); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WritePretty renders one report section per property.
func WritePretty(w io.Writer, results []analysis.Analysis) {
	for i, result := range results {
		m := result.Metrics
		econ := m.Economics
		risk := m.Risk

		fmt.Fprintf(w, "--- Results for property %s ---\n", result.Name)
		fmt.Fprintf(w, "Recommendation: %s (score %s)\n\n", m.Recommendation, format.Score(m.OverallScore))

		fmt.Fprintf(w, "%-22s | %-12s | %-14s | %-10s | %s\n", "Metric", "Value", "Threshold", "Score", "Importance")
		fmt.Fprintf(w, "%-22s | %-12s | %-14s | %-10s | %s\n", "______", "_____", "_________", "_____", "__________")
		for _, metric := range m.Metrics {
			fmt.Fprintf(w, "%-22s | %-12s | %-14s | %-10s | %s\n",
				metric.Name, MetricValue(metric), metricThreshold(metric), metric.Score, metric.Importance)
		}

		fmt.Fprintf(w, "\nEconomics\n")
		rows := [][2]string{
			{"Gross potential rent", format.Currency(econ.GrossPotentialRent)},
			{"Vacancy loss", format.Currency(econ.VacancyLoss)},
			{"Effective gross income", format.Currency(econ.EffectiveGrossIncome)},
			{"Operating expenses", format.Currency(econ.Expenses.Total)},
			{"Net operating income", format.Currency(econ.NetOperatingIncome)},
			{"Annual debt service", format.Currency(econ.AnnualDebtService)},
			{"Cash flow (annual)", format.Currency(econ.CashFlowAnnual)},
			{"Cash flow (monthly)", format.Currency(econ.CashFlowMonthly)},
			{"Cash required", format.Currency(econ.TotalCashRequired)},
			{"Cash on cash", format.Percent(econ.CashOnCashReturn)},
			{"Cap rate (in place)", format.Percent(econ.InPlaceCapRate)},
			{"Cap rate (stabilized)", format.Percent(econ.StabilizedCapRate)},
			{"DSCR", format.Ratio(econ.DSCR)},
			{"Price per unit", format.Currency(econ.PricePerUnit)},
			{"Year one principal", format.Currency(econ.YearOnePrincipalPaydown)},
		}
		for _, row := range rows {
			fmt.Fprintf(w, "  %-24s %s\n", row[0], row[1])
		}

		fmt.Fprintf(w, "\nSensitivity\n")
		for _, scenario := range risk.Sensitivity.Scenarios() {
			fmt.Fprintf(w, "  %-16s NOI %-13s cash flow %-13s delta %s\n",
				scenario.Label, format.Currency(scenario.NOI), format.Currency(scenario.CashFlow),
				format.Currency(scenario.DeltaFromBase))
		}

		stress := risk.StressTest
		fmt.Fprintf(w, "\nRisk\n")
		fmt.Fprintf(w, "  %-24s %s\n", "Break-even occupancy", format.Percent(risk.BreakEvenOccupancy))
		fmt.Fprintf(w, "  %-24s %s\n", "Worst case cash flow", format.Currency(stress.WorstCaseCashFlow))
		fmt.Fprintf(w, "  %-24s %s\n", "Max vacancy", format.Percent(stress.MaxVacancyBeforeNegative))
		fmt.Fprintf(w, "  %-24s %s\n", "Max interest rate", format.Percent(stress.MaxRateBeforeNegative))
		fmt.Fprintf(w, "  %-24s %s\n", "Cushion to break-even", format.Percent(stress.CushionToBreakEven))

		if len(result.Warnings) > 0 {
			fmt.Fprintf(w, "\nWarnings\n")
			for _, warning := range result.Warnings {
				fmt.Fprintf(w, "  - %s\n", warning)
			}
		}

		if i < len(results)-1 {
			fmt.Fprintf(w, "\n")
		}
	}
}

// WriteCSV writes a header and one row per property.
func WriteCSV(w io.Writer, results []analysis.Analysis) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	for _, result := range results {
		m := result.Metrics
		econ := m.Economics
		stress := m.Risk.StressTest
		record := []string{
			result.Name,
			m.Recommendation.String(),
			format.Score(m.OverallScore),
			decimal2(econ.GrossPotentialRent),
			decimal2(econ.EffectiveGrossIncome),
			decimal2(econ.Expenses.Total),
			decimal2(econ.NetOperatingIncome),
			decimal2(econ.AnnualDebtService),
			decimal2(econ.CashFlowAnnual),
			decimal4(econ.CashOnCashReturn),
			decimal4(econ.InPlaceCapRate),
			decimal4(econ.StabilizedCapRate),
			decimal4(econ.DSCR),
			decimal4(m.Risk.BreakEvenOccupancy),
			decimal2(stress.WorstCaseCashFlow),
			decimal4(stress.MaxVacancyBeforeNegative),
			decimal4(stress.MaxRateBeforeNegative),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteJSON writes results as indented JSON.
func WriteJSON(w io.Writer, results []analysis.Analysis) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}

// MetricValue renders a scored metric's value in its natural unit.
func MetricValue(metric underwriting.ScoredMetric) string {
	if metric.Note == underwriting.NoteNoMarketData {
		return "n/a"
	}
	return formatByMetric(metric.Name, metric.Value)
}

func metricThreshold(metric underwriting.ScoredMetric) string {
	switch metric.Name {
	case underwriting.MetricNOI, underwriting.MetricWorstCaseCashFlow:
		return "> $0"
	}
	op := ">="
	if metric.Direction == underwriting.AtMost {
		op = "<="
	}
	return op + " " + formatByMetric(metric.Name, metric.Threshold)
}

func formatByMetric(name string, value float64) string {
	switch name {
	case underwriting.MetricNOI, underwriting.MetricWorstCaseCashFlow:
		return format.Currency(value)
	case underwriting.MetricDSCR:
		return format.Ratio(value)
	default:
		return format.Percent(value)
	}
}

func decimal2(value float64) string {
	return strings.ReplaceAll(format.NumericCurrency(value), ",", "")
}

func decimal4(value float64) string {
	return fmt.Sprintf("%.4f", value)
}
