// Package analysis runs the underwriting engine over every property of a
// configuration.
package analysis

import (
	"errors"
	"fmt"

	"github.com/iwvelando/deal-underwriter/internal/config"
	"github.com/iwvelando/deal-underwriter/internal/underwriting"
	"go.uber.org/zap"
)

// ErrNoActiveProperties is returned when a configuration has nothing to analyze.
var ErrNoActiveProperties = errors.New("no active properties to analyze")

// Analysis holds the result for a single property.
type Analysis struct {
	Name     string                        `json:"name"`
	Snapshot underwriting.PropertySnapshot `json:"snapshot"`
	Metrics  underwriting.DealMetrics      `json:"metrics"`
	Warnings []string                      `json:"warnings,omitempty"`
}

// GetAnalyses analyzes all active properties in configuration order.
// Inactive properties are skipped.
func GetAnalyses(logger *zap.Logger, conf config.Configuration, opts ...underwriting.Option) ([]Analysis, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	options := make([]underwriting.Option, 0, len(opts)+1)
	if conf.AnalysisYear > 0 {
		options = append(options, underwriting.WithCurrentYear(conf.AnalysisYear))
	}
	options = append(options, opts...)
	calculator := underwriting.NewCalculator(logger, options...)

	defaults := conf.DefaultThresholds()

	var results []Analysis
	for _, property := range conf.Properties {
		if !property.Active {
			logger.Debug(fmt.Sprintf("skipping property %s because it is inactive", property.Name),
				zap.String("op", "analysis.GetAnalyses"),
			)
			continue
		}

		snapshot := property.ToSnapshot(defaults)
		metrics := calculator.Analyze(snapshot)

		logger.Debug("analyzed property",
			zap.String("op", "analysis.GetAnalyses"),
			zap.String("property", property.Name),
			zap.Float64("score", metrics.OverallScore),
			zap.Stringer("recommendation", metrics.Recommendation),
		)

		results = append(results, Analysis{
			Name:     property.Name,
			Snapshot: snapshot,
			Metrics:  metrics,
			Warnings: metrics.Adjustments,
		})
	}

	if len(results) == 0 {
		return nil, ErrNoActiveProperties
	}

	return results, nil
}
