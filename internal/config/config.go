// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/deal-underwriter/pkg/constants"
	"github.com/iwvelando/deal-underwriter/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for deal-underwriter.
type Configuration struct {
	// AnalysisYear ages properties for the capex reserve; 0 means the current year.
	AnalysisYear int           `yaml:"analysisYear,omitempty"`
	Logging      LoggingConfig `yaml:"logging,omitempty"`
	Output       OutputConfig  `yaml:"output,omitempty"`
	Defaults     Defaults      `yaml:"defaults,omitempty"`
	Properties   []Property    `yaml:"properties"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// Defaults apply to every property that does not override them.
type Defaults struct {
	Thresholds Thresholds `yaml:"thresholds,omitempty"`
}

// Thresholds are optional scoring goalposts. Unset fields fall back to the
// next level of defaults.
type Thresholds struct {
	TargetCapRate         *float64 `yaml:"targetCapRate,omitempty"`
	TargetCashOnCash      *float64 `yaml:"targetCashOnCash,omitempty"`
	TargetDSCR            *float64 `yaml:"targetDSCR,omitempty"`
	MaxBreakEvenOccupancy *float64 `yaml:"maxBreakEvenOccupancy,omitempty"`
	MinRentGrowth         *float64 `yaml:"minRentGrowth,omitempty"`
	MaxVacancy            *float64 `yaml:"maxVacancy,omitempty"`
}

// Property is one candidate acquisition.
type Property struct {
	Name         string
	Active       bool
	Address      Address
	PropertyType string `yaml:"propertyType,omitempty"`
	Bedrooms     int
	Bathrooms    float64
	SquareFeet   float64 `yaml:"squareFeet"`
	UnitCount    int     `yaml:"unitCount"`
	YearBuilt    int     `yaml:"yearBuilt"`

	AskingPrice   float64 `yaml:"askingPrice"`
	AnnualTaxes   float64 `yaml:"annualTaxes"`
	AssessedValue float64 `yaml:"assessedValue,omitempty"`

	EstimatedRentPerUnit float64 `yaml:"estimatedRentPerUnit,omitempty"`
	EstimatedTotalRent   float64 `yaml:"estimatedTotalRent,omitempty"`

	VacancyRate          float64 `yaml:"vacancyRate"`
	ManagementFeePercent float64 `yaml:"managementFeePercent"`
	RepairsPerUnit       float64 `yaml:"repairsPerUnit"`
	InsuranceAnnual      float64 `yaml:"insuranceAnnual,omitempty"`
	OtherExpenses        float64 `yaml:"otherExpenses,omitempty"`

	Financing  Financing
	Thresholds Thresholds `yaml:"thresholds,omitempty"`
	Market     *Market    `yaml:"market,omitempty"`
}

// Address locates a property.
type Address struct {
	Street  string
	City    string
	State   string
	ZipCode string `yaml:"zipCode"`
}

// Financing holds the acquisition loan terms. Rates and LTV are decimal
// fractions.
type Financing struct {
	PurchasePrice float64 `yaml:"purchasePrice,omitempty"`
	LoanAmount    float64 `yaml:"loanAmount,omitempty"`
	InterestRate  float64 `yaml:"interestRate"`
	TermYears     int     `yaml:"termYears"`
	LTV           float64 `yaml:"ltv,omitempty"`
	ClosingCosts  float64 `yaml:"closingCosts,omitempty"`
	InterestOnly  bool    `yaml:"interestOnly,omitempty"`
}

// Market holds optional year-over-year market indicators.
type Market struct {
	RentGrowth        *float64 `yaml:"rentGrowth,omitempty"`
	PriceAppreciation *float64 `yaml:"priceAppreciation,omitempty"`
	VacancyRate       *float64 `yaml:"vacancyRate,omitempty"`
	DaysOnMarket      *float64 `yaml:"daysOnMarket,omitempty"`
	InventoryMonths   *float64 `yaml:"inventoryMonths,omitempty"`
	MedianRent        *float64 `yaml:"medianRent,omitempty"`
	PopulationGrowth  *float64 `yaml:"populationGrowth,omitempty"`
	IncomeGrowth      *float64 `yaml:"incomeGrowth,omitempty"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("analysisYear", 0)
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Environment variables prefixed with UNDERWRITE_
// override top level settings, e.g. UNDERWRITE_OUTPUT_FORMAT.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %w", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if err := validation.ValidateOutputFormat(configuration.Output.Format); err != nil {
		return nil, err
	}

	return &configuration, nil
}

// ActiveProperties returns the properties marked active, in configuration
// order.
func (c *Configuration) ActiveProperties() []Property {
	active := make([]Property, 0, len(c.Properties))
	for _, p := range c.Properties {
		if p.Active {
			active = append(active, p)
		}
	}
	return active
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	inputs := make([]validation.PropertyInput, 0, len(c.Properties))
	for _, p := range c.Properties {
		inputs = append(inputs, validation.PropertyInput{
			Name:                 p.Name,
			Active:               p.Active,
			UnitCount:            p.UnitCount,
			AskingPrice:          p.AskingPrice,
			PurchasePrice:        p.Financing.PurchasePrice,
			LoanAmount:           p.Financing.LoanAmount,
			LTV:                  p.Financing.LTV,
			InterestRate:         p.Financing.InterestRate,
			TermYears:            p.Financing.TermYears,
			EstimatedRentPerUnit: p.EstimatedRentPerUnit,
			EstimatedTotalRent:   p.EstimatedTotalRent,
			VacancyRate:          p.VacancyRate,
			ManagementFeePercent: p.ManagementFeePercent,
			RepairsPerUnit:       p.RepairsPerUnit,
			AnnualTaxes:          p.AnnualTaxes,
			InsuranceAnnual:      p.InsuranceAnnual,
			OtherExpenses:        p.OtherExpenses,
		})
	}

	warnings := validation.ValidateProperties(inputs)
	if len(c.ActiveProperties()) == 0 {
		warnings = append(warnings, "No active properties to analyze")
	}
	return warnings
}
