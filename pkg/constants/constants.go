// Package constants provides shared constants for the deal-underwriter application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)

// Expense model constants
const (
	// BaseCapexReservePerUnit is the annual capital expenditure reserve per
	// unit before the property age multiplier is applied.
	BaseCapexReservePerUnit = 300.0

	// UtilitiesAnnual is the owner-paid utilities expense; tenants pay utilities.
	UtilitiesAnnual = 0.0
)

// Risk buffer constants
const (
	// SensitivityRentShock is the relative rent change of the rent scenarios.
	SensitivityRentShock = 0.10

	// SensitivityRateShock is the absolute interest rate change of the rate scenarios.
	SensitivityRateShock = 0.01

	// SensitivityExitCapShock is the absolute cap rate change of the exit cap scenarios.
	SensitivityExitCapShock = 0.005

	// MinimumExitCapRate floors the exit cap rate of the compressed cap scenario.
	MinimumExitCapRate = 0.01

	// StressRentFactor scales rent in the worst case scenario.
	StressRentFactor = 0.90

	// StressVacancyIncrease is added to the vacancy rate in the worst case scenario.
	StressVacancyIncrease = 0.05

	// StressVacancyCap bounds the worst case vacancy rate.
	StressVacancyCap = 0.25

	// StressRepairsFactor scales repairs in the worst case scenario.
	StressRepairsFactor = 1.10

	// VacancySearchStep is the vacancy increment of the break-even vacancy search.
	VacancySearchStep = 0.01

	// VacancySearchLimit is the upper bound of the break-even vacancy search.
	VacancySearchLimit = 1.0

	// VacancySearchMaxSteps bounds the number of vacancy search iterations.
	VacancySearchMaxSteps = 100

	// RateSearchStep is the interest rate increment of the break-even rate search.
	RateSearchStep = 0.0025

	// RateSearchLimit is the upper bound of the break-even rate search.
	RateSearchLimit = 0.20

	// RateSearchMaxSteps bounds the number of rate search iterations.
	RateSearchMaxSteps = 80

	// WorstCaseBorderlineFloor is the worst case annual cash flow above which a
	// negative result still scores borderline.
	WorstCaseBorderlineFloor = -5000.0
)

// Default scoring thresholds
const (
	DefaultTargetCapRate         = 0.06
	DefaultTargetCashOnCash      = 0.08
	DefaultTargetDSCR            = 1.25
	DefaultMaxBreakEvenOccupancy = 0.85
	DefaultMinRentGrowth         = 0.03
	DefaultMaxVacancy            = 0.08
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment variable overrides of the configuration
	EnvPrefix = "UNDERWRITE"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultMetricsPath is where Prometheus metrics are served
	DefaultMetricsPath = "/metrics"
)
