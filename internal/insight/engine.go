// Package insight aggregates local patterns, collective statistics and
// wall-clock context into a ranked list of actionable insights. Every source
// is independent and best-effort: a failing source is logged and skipped,
// the engine returns whatever the remaining sources produced.
package insight

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"reflekt/internal/anonymizer"
	"reflekt/internal/catalog"
	"reflekt/internal/collective"
	"reflekt/internal/state"
)

// PatternSource reads the newest derived pattern per activity key.
type PatternSource interface {
	LatestPatterns(ctx context.Context, userID uint64) []state.Pattern
}

// StateSource reads raw entry history.
type StateSource interface {
	History(ctx context.Context, userID uint64, stateKey string, windowDays int) []state.StateEntry
	EntriesForDate(ctx context.Context, userID uint64, date string) []state.StateEntry
}

type Engine struct {
	Patterns   PatternSource
	States     StateSource
	Collective collective.Client
	Log        *zap.Logger

	// Now is the clock for contextual rules and timestamps; nil means time.Now.
	Now func() time.Time
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

const (
	streakThreshold      = 2
	moodRateThreshold    = 0.7
	collectiveFloor      = 20
	suggestionMinHistory = 3
	suggestionMinBenefit = 0.5
)

// GenerateProactive fetches the three independent sources concurrently and
// returns the ranked aggregate. Source order carries no meaning; only Rank
// imposes order.
func (e *Engine) GenerateProactive(ctx context.Context, userID uint64) []Insight {
	var (
		mu       sync.Mutex
		insights []Insight
		wg       sync.WaitGroup
	)

	collect := func(name string, fn func() []Insight) {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				e.Log.Warn("insight source panicked", zap.String("source", name), zap.Any("panic", r))
			}
		}()
		got := fn()
		mu.Lock()
		insights = append(insights, got...)
		mu.Unlock()
	}

	wg.Add(3)
	go collect("personal", func() []Insight { return e.PersonalInsights(ctx, userID) })
	go collect("collective", func() []Insight { return e.CollectiveInsights(ctx, catalog.Keys()) })
	go collect("contextual", func() []Insight { return e.ContextualInsights(e.now()) })
	wg.Wait()

	return Rank(insights)
}

// PersonalInsights derives insights from the user's own patterns: streaks,
// mood improvement, time-of-day habits, plus suggestions for fundamental
// activities missing from today.
func (e *Engine) PersonalInsights(ctx context.Context, userID uint64) []Insight {
	now := e.now()
	ts := now.UnixMilli()

	insights := []Insight{}
	for _, p := range e.Patterns.LatestPatterns(ctx, userID) {
		if p.ConsecutiveDays > streakThreshold {
			insights = append(insights, Insight{
				ID:         uuid.NewString(),
				Type:       "streak",
				Message:    fmt.Sprintf("Du hast %q %d Tage in Folge praktiziert! Großartig!", p.StateKey, p.ConsecutiveDays),
				Confidence: p.Confidence,
				StateKey:   p.StateKey,
				Source:     "local",
				Priority:   priorityForConfidence(p.Confidence),
				Actions: []Action{
					{Type: "continue", Label: fmt.Sprintf("%s heute fortsetzen", p.StateKey)},
					{Type: "share", Label: "Erfolg teilen (anonym)"},
				},
				TimestampMillis: ts,
			})
		}

		if p.HasMoodCorrelation() && p.MoodImprovementRate > moodRateThreshold {
			insights = append(insights, Insight{
				ID:         uuid.NewString(),
				Type:       "mood_improvement",
				Message:    fmt.Sprintf("%q verbessert deine Stimmung in %d%% der Fälle.", p.StateKey, int(math.Round(p.MoodImprovementRate*100))),
				Confidence: p.Confidence,
				StateKey:   p.StateKey,
				Source:     "local",
				Priority:   priorityForConfidence(p.Confidence),
				Actions: []Action{
					{Type: "schedule", Label: fmt.Sprintf("%s für heute planen", p.StateKey)},
					{Type: "reminder", Label: "Erinnerung setzen"},
				},
				TimestampMillis: ts,
			})
		}

		if p.MostActiveTime != "" {
			conf := p.Confidence * 0.8
			insights = append(insights, Insight{
				ID:         uuid.NewString(),
				Type:       "time_pattern",
				Message:    fmt.Sprintf("Du praktizierst %q meist am %s.", p.StateKey, p.MostActiveTime),
				Confidence: conf,
				StateKey:   p.StateKey,
				Source:     "local",
				Priority:   priorityForConfidence(conf),
				Actions: []Action{
					{Type: "optimize", Label: "Optimale Zeit nutzen"},
					{Type: "calendar", Label: "Kalender-Eintrag erstellen"},
				},
				TimestampMillis: ts,
			})
		}
	}

	insights = append(insights, e.missingActivitySuggestions(ctx, userID, now)...)
	return insights
}

// missingActivitySuggestions proposes fundamental activities not yet logged
// today whose history shows a clear mood benefit.
func (e *Engine) missingActivitySuggestions(ctx context.Context, userID uint64, now time.Time) []Insight {
	today := now.Format("2006-01-02")

	logged := map[string]bool{}
	for _, entry := range e.States.EntriesForDate(ctx, userID, today) {
		logged[entry.StateKey] = true
	}

	insights := []Insight{}
	for _, key := range catalog.FundamentalKeys {
		if logged[key] {
			continue
		}

		history := e.States.History(ctx, userID, key, 30)
		if len(history) <= suggestionMinHistory {
			continue
		}

		var sum float64
		for _, entry := range history {
			if delta, ok := entry.MoodDelta(); ok {
				sum += float64(delta)
			}
		}
		avgBenefit := sum / float64(len(history))
		if avgBenefit <= suggestionMinBenefit {
			continue
		}

		insights = append(insights, Insight{
			ID:         uuid.NewString(),
			Type:       "suggestion",
			Message:    fmt.Sprintf("Du hast heute noch nicht %q praktiziert. Es hat dir bisher meist geholfen.", key),
			Confidence: math.Min(float64(len(history))/10, 0.8),
			StateKey:   key,
			Source:     "local_analysis",
			Priority:   PriorityMedium,
			Actions: []Action{
				{Type: "do_now", Label: fmt.Sprintf("%s jetzt machen", key)},
				{Type: "schedule_later", Label: "Für später planen"},
			},
			TimestampMillis: now.UnixMilli(),
		})
	}
	return insights
}

// CollectiveInsights queries the stats collaborator per key and emits an
// insight wherever the sample clears the statistical floor. A failing or
// empty collaborator yields fewer insights, never an error.
func (e *Engine) CollectiveInsights(ctx context.Context, stateKeys []string) []Insight {
	ts := e.now().UnixMilli()

	insights := []Insight{}
	for _, key := range stateKeys {
		if ctx.Err() != nil {
			return insights
		}

		stats, err := e.Collective.GetGlobalStats(ctx, key)
		if err != nil {
			e.Log.Warn("collective stats unavailable", zap.String("state_key", key), zap.Error(err))
			continue
		}
		if stats.TotalEntries <= collectiveFloor {
			continue
		}

		insights = append(insights, Insight{
			ID:   uuid.NewString(),
			Type: "collective",
			Message: fmt.Sprintf("%d%% von %d Nutzern berichten positive Ergebnisse mit %q.",
				int(math.Round(stats.PositiveRate*100)), stats.UniqueUsers, key),
			Confidence: math.Min(float64(stats.TotalEntries)/100, 0.9),
			StateKey:   key,
			Source:     "collective",
			Priority:   collectivePriority(stats),
			Actions: []Action{
				{Type: "try", Label: fmt.Sprintf("%s heute versuchen", key)},
				{Type: "learn_more", Label: "Mehr über diese Aktivität erfahren"},
			},
			TimestampMillis: ts,
		})
	}
	return insights
}

func collectivePriority(stats collective.GlobalStats) Priority {
	switch {
	case stats.PositiveRate > 0.8 && stats.UniqueUsers > 50:
		return PriorityHigh
	case stats.PositiveRate > 0.6 && stats.UniqueUsers > 20:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func priorityForConfidence(conf float64) Priority {
	switch {
	case conf > 0.8:
		return PriorityHigh
	case conf > 0.6:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// ContextualInsights is the fixed time-of-day and day-of-week rule table.
// Purely a function of the given clock, no persisted state.
func (e *Engine) ContextualInsights(now time.Time) []Insight {
	hour := now.Hour()
	ts := now.UnixMilli()

	insights := []Insight{}

	if hour >= 6 && hour < 9 {
		insights = append(insights, Insight{
			ID:           uuid.NewString(),
			Type:         "contextual",
			Message:      "Guten Morgen! Wie wäre es mit einer kurzen Meditation oder einem Spaziergang?",
			Confidence:   0.6,
			Source:       "contextual",
			Priority:     PriorityMedium,
			TimeRelevant: true,
			Actions: []Action{
				{Type: "quick_meditation", Label: "5-Min Meditation"},
				{Type: "morning_walk", Label: "Kurzer Spaziergang"},
			},
			TimestampMillis: ts,
		})
	}

	if hour >= 12 && hour < 14 {
		insights = append(insights, Insight{
			ID:           uuid.NewString(),
			Type:         "contextual",
			Message:      "Mittagszeit! Eine kurze Pause könnte deine Produktivität steigern.",
			Confidence:   0.7,
			Source:       "contextual",
			Priority:     PriorityMedium,
			TimeRelevant: true,
			Actions: []Action{
				{Type: "take_break", Label: "Pause machen"},
				{Type: "mindful_eating", Label: "Bewusst essen"},
			},
			TimestampMillis: ts,
		})
	}

	if hour >= 18 && hour < 21 {
		insights = append(insights, Insight{
			ID:           uuid.NewString(),
			Type:         "contextual",
			Message:      "Der Tag geht zu Ende. Zeit für Reflexion oder Entspannung?",
			Confidence:   0.8,
			Source:       "contextual",
			Priority:     PriorityHigh,
			TimeRelevant: true,
			Actions: []Action{
				{Type: "reflect", Label: "Tag reflektieren"},
				{Type: "unwind", Label: "Entspannen"},
			},
			TimestampMillis: ts,
		})
	}

	switch now.Weekday() {
	case time.Monday:
		insights = append(insights, Insight{
			ID:          uuid.NewString(),
			Type:        "contextual",
			Message:     "Neuer Wochenstart! Setze dir ein kleines, erreichbares Ziel.",
			Confidence:  0.6,
			Source:      "contextual",
			Priority:    PriorityMedium,
			DayRelevant: true,
			Actions: []Action{
				{Type: "set_goal", Label: "Wochenziel setzen"},
				{Type: "plan_week", Label: "Woche planen"},
			},
			TimestampMillis: ts,
		})
	case time.Friday:
		insights = append(insights, Insight{
			ID:          uuid.NewString(),
			Type:        "contextual",
			Message:     "Wochenende steht bevor! Was hat diese Woche gut funktioniert?",
			Confidence:  0.7,
			Source:      "contextual",
			Priority:    PriorityMedium,
			DayRelevant: true,
			Actions: []Action{
				{Type: "weekly_review", Label: "Woche reflektieren"},
				{Type: "celebrate", Label: "Erfolge feiern"},
			},
			TimestampMillis: ts,
		})
	}

	return insights
}

// ImmediateInsights reacts to a just-submitted session: positive sentiment
// credits each logged activity, and every unordered pair of session
// activities yields a low-priority combination insight. Session sizes are
// small, so the quadratic pairing is fine.
func (e *Engine) ImmediateInsights(entries []state.StateEntry, sentiment anonymizer.Sentiment) []Insight {
	ts := e.now().UnixMilli()

	insights := []Insight{}
	if sentiment.Label == "positive" {
		for _, entry := range entries {
			if entry.Value != 1 {
				continue
			}
			insights = append(insights, Insight{
				ID:              uuid.NewString(),
				Type:            "immediate",
				Message:         fmt.Sprintf("%q scheint heute einen positiven Einfluss zu haben!", entry.StateKey),
				Confidence:      0.7,
				StateKey:        entry.StateKey,
				Source:          "immediate_analysis",
				Priority:        PriorityMedium,
				TimestampMillis: ts,
			})
		}
	}

	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		keys = append(keys, entry.StateKey)
	}
	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			insights = append(insights, Insight{
				ID:              uuid.NewString(),
				Type:            "immediate",
				Message:         fmt.Sprintf("Die Kombination aus %s und %s funktioniert gut für dich!", keys[i], keys[j]),
				Confidence:      0.6,
				StateKeys:       []string{keys[i], keys[j]},
				Source:          "immediate_analysis",
				Priority:        PriorityLow,
				TimestampMillis: ts,
			})
		}
	}

	return insights
}

// Recommendations suggests up to three complementary activities for the
// session's activity keys.
func (e *Engine) Recommendations(sessionKeys []string) []Recommendation {
	current := map[string]bool{}
	for _, k := range sessionKeys {
		current[k] = true
	}

	out := []Recommendation{}
	for _, key := range sessionKeys {
		for _, comp := range catalog.Complementary[key] {
			if current[comp] {
				continue
			}
			out = append(out, Recommendation{
				Type:       "complementary",
				Message:    fmt.Sprintf("Da du heute %q gemacht hast, könnte %q eine gute Ergänzung sein.", key, comp),
				StateKey:   comp,
				Confidence: 0.6,
			})
			if len(out) == 3 {
				return out
			}
		}
	}
	return out
}
