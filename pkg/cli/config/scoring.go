package config

import (
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safemon-lab/pallas/pkg/domain/model"
	"github.com/safemon-lab/pallas/pkg/domain/types"
	"github.com/safemon-lab/pallas/pkg/usecase"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Scoring holds safety score and risk pipeline configuration
type Scoring struct {
	ConfigPath string
	RollupMode string
	PeriodDays int
	Sparkline  bool
}

// Flags returns CLI flags for Scoring configuration
func (s *Scoring) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "scoring-config",
			Usage:       "Path to the YAML scoring configuration (weights and thresholds)",
			Category:    "Risk",
			Sources:     cli.EnvVars("PALLAS_SCORING_CONFIG"),
			Destination: &s.ConfigPath,
		},
		&cli.StringFlag{
			Name:        "rollup-mode",
			Usage:       "Rollup mode for trend and safety score (recompute, preserve-direct)",
			Category:    "Risk",
			Value:       types.RollupRecompute.String(),
			Sources:     cli.EnvVars("PALLAS_ROLLUP_MODE"),
			Destination: &s.RollupMode,
		},
		&cli.IntFlag{
			Name:        "period-days",
			Usage:       "Trend comparison window in days",
			Category:    "Risk",
			Value:       30,
			Sources:     cli.EnvVars("PALLAS_PERIOD_DAYS"),
			Destination: &s.PeriodDays,
		},
		&cli.BoolFlag{
			Name:        "sparkline",
			Usage:       "Compute the per-day incident sparkline",
			Category:    "Risk",
			Sources:     cli.EnvVars("PALLAS_SPARKLINE"),
			Destination: &s.Sparkline,
		},
	}
}

// Configure builds the Risk use case options from the configuration
func (s *Scoring) Configure() ([]usecase.RiskOption, error) {
	scoring, err := s.loadScoringConfig()
	if err != nil {
		return nil, err
	}

	mode := types.RollupMode(s.RollupMode)
	if !mode.IsValid() {
		return nil, goerr.New("invalid rollup mode",
			goerr.V("mode", s.RollupMode))
	}

	opts := []usecase.RiskOption{
		usecase.WithScoringConfig(scoring),
		usecase.WithRollupMode(mode),
		usecase.WithPeriodDays(s.PeriodDays),
	}
	if s.Sparkline {
		opts = append(opts, usecase.WithSparkline())
	}

	return opts, nil
}

// loadScoringConfig reads the YAML scoring file, or returns defaults when
// no path is configured
func (s *Scoring) loadScoringConfig() (*model.ScoringConfig, error) {
	if s.ConfigPath == "" {
		return model.DefaultScoringConfig(), nil
	}

	data, err := os.ReadFile(s.ConfigPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(err, "scoring configuration file not found",
				goerr.V("path", s.ConfigPath))
		}
		return nil, goerr.Wrap(err, "failed to read scoring configuration",
			goerr.V("path", s.ConfigPath))
	}

	config := model.DefaultScoringConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, goerr.Wrap(err, "failed to parse YAML scoring configuration",
			goerr.V("path", s.ConfigPath))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid scoring configuration",
			goerr.V("path", s.ConfigPath))
	}

	return config, nil
}

// LogValue returns structured log value
func (s Scoring) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("configPath", s.ConfigPath),
		slog.String("rollupMode", s.RollupMode),
		slog.Int("periodDays", s.PeriodDays),
		slog.Bool("sparkline", s.Sparkline),
	)
}
