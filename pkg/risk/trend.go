package risk

import (
	"math"

	"github.com/safemon-lab/pallas/pkg/domain/model"
	"github.com/safemon-lab/pallas/pkg/domain/types"
)

// trendThresholdPct is the band within which a period-over-period change
// counts as stable. The comparison is strict: exactly +10% is still stable.
const trendThresholdPct = 10

// ComputeTrend compares incident counts between the current period and the
// equal-length period immediately preceding it. The raw percentage is
// retained in every branch so consumers can show the magnitude regardless
// of direction.
func ComputeTrend(current, previous int) model.Trend {
	trend := model.Trend{
		Current:  current,
		Previous: previous,
	}

	switch {
	case previous == 0 && current == 0:
		trend.Direction = types.TrendStable
		trend.Percent = 0
	case previous == 0:
		// Any incidents after a quiet period count as a full swing
		trend.Direction = types.TrendWorsening
		trend.Percent = 100
	default:
		pct := int(math.Round(float64(current-previous) / float64(previous) * 100))
		trend.Percent = pct
		switch {
		case pct > trendThresholdPct:
			trend.Direction = types.TrendWorsening
		case pct < -trendThresholdPct:
			trend.Direction = types.TrendImproving
		default:
			trend.Direction = types.TrendStable
		}
	}

	return trend
}
