package risk

import (
	"time"

	"github.com/safemon-lab/pallas/pkg/domain/model"
)

// SparklineDays is the fixed sparkline window: one bucket per day
const SparklineDays = 30

// buildSparkline buckets incidents by age in days, most recent day last.
// Incidents older than the window (or with a future timestamp within the
// accepted clock skew) are dropped from the sparkline, not from the tally.
func buildSparkline(incidents []*model.Incident, now time.Time) []int {
	buckets := make([]int, SparklineDays)
	for _, incident := range incidents {
		age := wholeDays(now.Sub(incident.CreatedAt))
		if age < 0 || age >= SparklineDays {
			continue
		}
		buckets[SparklineDays-1-age]++
	}
	return buckets
}

// wholeDays converts a duration to a whole-day count, truncating toward zero
func wholeDays(d time.Duration) int {
	return int(d.Hours() / 24)
}
