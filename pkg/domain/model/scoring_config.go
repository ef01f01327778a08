package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/safemon-lab/pallas/pkg/domain/types"
)

// SeverityWeights are the per-severity penalty weights of the score model
type SeverityWeights struct {
	Critical float64 `yaml:"critical"`
	High     float64 `yaml:"high"`
	Medium   float64 `yaml:"medium"`
	Low      float64 `yaml:"low"`
}

// CategoryThresholds band a safety score into a risk category.
// A score below Critical is critical, below Warning is warning,
// everything else is good.
type CategoryThresholds struct {
	Critical int `yaml:"critical"`
	Warning  int `yaml:"warning"`
}

// ScoringConfig represents the safety score model configuration
type ScoringConfig struct {
	Weights    SeverityWeights    `yaml:"weights"`
	Thresholds CategoryThresholds `yaml:"thresholds"`
}

// DefaultScoringConfig returns the built-in weights and thresholds
func DefaultScoringConfig() *ScoringConfig {
	return &ScoringConfig{
		Weights: SeverityWeights{
			Critical: 40,
			High:     20,
			Medium:   10,
			Low:      5,
		},
		Thresholds: CategoryThresholds{
			Critical: 40,
			Warning:  70,
		},
	}
}

// Validate validates the scoring configuration
func (c *ScoringConfig) Validate() error {
	weights := map[string]float64{
		"critical": c.Weights.Critical,
		"high":     c.Weights.High,
		"medium":   c.Weights.Medium,
		"low":      c.Weights.Low,
	}
	for name, w := range weights {
		if w < 0 {
			return goerr.New("severity weight must not be negative",
				goerr.V("severity", name),
				goerr.V("weight", w))
		}
	}

	if c.Thresholds.Critical < 0 || c.Thresholds.Critical > 100 {
		return goerr.New("critical threshold must be between 0 and 100",
			goerr.V("threshold", c.Thresholds.Critical))
	}
	if c.Thresholds.Warning < 0 || c.Thresholds.Warning > 100 {
		return goerr.New("warning threshold must be between 0 and 100",
			goerr.V("threshold", c.Thresholds.Warning))
	}
	if c.Thresholds.Warning < c.Thresholds.Critical {
		return goerr.New("warning threshold must not be below critical threshold",
			goerr.V("critical", c.Thresholds.Critical),
			goerr.V("warning", c.Thresholds.Warning))
	}

	return nil
}

// Categorize maps a score to its risk category
func (c *ScoringConfig) Categorize(score int) types.RiskCategory {
	switch {
	case score < c.Thresholds.Critical:
		return types.RiskCategoryCritical
	case score < c.Thresholds.Warning:
		return types.RiskCategoryWarning
	default:
		return types.RiskCategoryGood
	}
}
