package state

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"go.uber.org/zap"

	"reflekt/internal/catalog"
)

const (
	defaultWindowDays = 14
	streakWindowDays  = 7
)

// Analyzer turns raw history into streaks, time-of-day habits and mood
// correlation stats. Every run appends a fresh Pattern row.
type Analyzer struct {
	Store      *Store
	WindowDays int
	Log        *zap.Logger
	Now        func() time.Time
}

func (a *Analyzer) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// Analyze recomputes the pattern for one activity key from persisted history
// and appends the result. A degraded (empty) history still yields a valid
// low-confidence pattern.
func (a *Analyzer) Analyze(ctx context.Context, userID uint64, stateKey string) (Pattern, error) {
	window := a.WindowDays
	if window <= 0 {
		window = defaultWindowDays
	}

	now := a.now()
	history := a.Store.History(ctx, userID, stateKey, window)

	dist, mostActive := TimeDistribution(history)
	distJSON, _ := json.Marshal(dist)

	pairs, improved, rate := MoodCorrelation(history)

	p := Pattern{
		UserID:              userID,
		StateKey:            stateKey,
		ConsecutiveDays:     Streak(history, now),
		TimeDistribution:    distJSON,
		MostActiveTime:      mostActive,
		MoodPairs:           pairs,
		MoodImproved:        improved,
		MoodImprovementRate: rate,
		Confidence:          ConfidenceForSamples(len(history)),
		SampleSize:          len(history),
		ComputedAtMillis:    now.UnixMilli(),
	}

	if err := a.Store.SavePattern(ctx, &p); err != nil {
		return Pattern{}, err
	}

	a.Log.Debug("pattern recomputed",
		zap.Uint64("user_id", userID),
		zap.String("state_key", stateKey),
		zap.Int("sample_size", p.SampleSize),
		zap.Int("consecutive_days", p.ConsecutiveDays))

	return p, nil
}

// Streak counts consecutive calendar days with at least one entry, most
// recent first, anchored at today or yesterday. Only distinct dates within
// the last 7 days count; same-day duplicates collapse to a single day.
func Streak(entries []StateEntry, now time.Time) int {
	cutoff := now.AddDate(0, 0, -streakWindowDays).UnixMilli()

	seen := map[string]struct{}{}
	dates := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.TimestampMillis < cutoff {
			continue
		}
		if _, ok := seen[e.Date]; ok {
			continue
		}
		seen[e.Date] = struct{}{}
		dates = append(dates, e.Date)
	}
	if len(dates) == 0 {
		return 0
	}

	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	today := now.Format("2006-01-02")
	gap := dayDiff(today, dates[0])
	if gap != 0 && gap != 1 {
		return 0
	}

	streak := 1
	for i := 1; i < len(dates); i++ {
		if dayDiff(dates[i-1], dates[i]) != 1 {
			break
		}
		streak++
	}
	return streak
}

// dayDiff returns how many calendar days earlier b is than a.
func dayDiff(a, b string) int {
	ta, errA := time.Parse("2006-01-02", a)
	tb, errB := time.Parse("2006-01-02", b)
	if errA != nil || errB != nil {
		return -1
	}
	return int(ta.Sub(tb).Hours() / 24)
}

// TimeDistribution buckets entries into the catalog periods and returns the
// counts plus the busiest period. Ties break in period declaration order;
// an empty history yields an empty most-active period.
func TimeDistribution(entries []StateEntry) (map[string]int, string) {
	dist := map[string]int{}
	for _, p := range catalog.Periods {
		dist[p] = 0
	}
	for _, e := range entries {
		dist[catalog.PeriodForHour(e.TimeOfDayHour)]++
	}

	if len(entries) == 0 {
		return dist, ""
	}

	most := catalog.Periods[0]
	for _, p := range catalog.Periods[1:] {
		if dist[p] > dist[most] {
			most = p
		}
	}
	return dist, most
}

// MoodCorrelation computes, over entries with both moods set, the fraction
// whose after-score beats the before-score on the 9-point scale.
func MoodCorrelation(entries []StateEntry) (pairs, improved int, rate float64) {
	for _, e := range entries {
		delta, ok := e.MoodDelta()
		if !ok {
			continue
		}
		pairs++
		if delta > 0 {
			improved++
		}
	}
	if pairs == 0 {
		return 0, 0, 0
	}
	return pairs, improved, float64(improved) / float64(pairs)
}

// ConfidenceForSamples is a monotonic step function of history length.
func ConfidenceForSamples(n int) float64 {
	switch {
	case n < 3:
		return 0.1
	case n < 7:
		return 0.5
	case n < 14:
		return 0.7
	default:
		return 0.9
	}
}
