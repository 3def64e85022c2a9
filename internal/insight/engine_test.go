package insight

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"reflekt/internal/anonymizer"
	"reflekt/internal/catalog"
	"reflekt/internal/collective"
	"reflekt/internal/state"
)

type fakePatterns struct {
	patterns []state.Pattern
}

func (f *fakePatterns) LatestPatterns(context.Context, uint64) []state.Pattern {
	return f.patterns
}

type fakeStates struct {
	byDate  map[string][]state.StateEntry
	history map[string][]state.StateEntry
}

func (f *fakeStates) History(_ context.Context, _ uint64, key string, _ int) []state.StateEntry {
	return f.history[key]
}

func (f *fakeStates) EntriesForDate(_ context.Context, _ uint64, date string) []state.StateEntry {
	return f.byDate[date]
}

type fakeCollective struct {
	stats map[string]collective.GlobalStats
	err   error
}

func (f fakeCollective) GetGlobalStats(_ context.Context, key string) (collective.GlobalStats, error) {
	if f.err != nil {
		return collective.GlobalStats{}, f.err
	}
	return f.stats[key], nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newEngine(p PatternSource, s StateSource, c collective.Client, now time.Time) *Engine {
	return &Engine{
		Patterns:   p,
		States:     s,
		Collective: c,
		Log:        zap.NewNop(),
		Now:        fixedClock(now),
	}
}

// Tuesday, no contextual window active.
var quietClock = time.Date(2024, 3, 12, 15, 30, 0, 0, time.UTC)

func TestRank(t *testing.T) {
	insights := []Insight{
		{ID: "c", Priority: PriorityLow, Confidence: 0.9},
		{ID: "a", Priority: PriorityHigh, Confidence: 0.1},
		{ID: "b", Priority: PriorityMedium, Confidence: 0.5},
	}

	ranked := Rank(insights)
	require.Len(t, ranked, 3)
	assert.Equal(t, "a", ranked[0].ID, "priority outranks confidence")
	assert.Equal(t, "b", ranked[1].ID)
	assert.Equal(t, "c", ranked[2].ID)
}

func TestRank_TieBreaks(t *testing.T) {
	insights := []Insight{
		{ID: "d", Priority: PriorityMedium, Confidence: 0.5, TimestampMillis: 100},
		{ID: "c", Priority: PriorityMedium, Confidence: 0.5, TimestampMillis: 200},
		{ID: "b", Priority: PriorityMedium, Confidence: 0.5, TimestampMillis: 200, TimeRelevant: true},
		{ID: "a", Priority: PriorityMedium, Confidence: 0.7},
	}

	ranked := Rank(insights)
	assert.Equal(t, []string{"a", "b", "c", "d"}, []string{ranked[0].ID, ranked[1].ID, ranked[2].ID, ranked[3].ID})
}

func TestRank_IDTieBreakAndCap(t *testing.T) {
	var insights []Insight
	for i := 9; i >= 0; i-- {
		insights = append(insights, Insight{ID: fmt.Sprintf("id-%d", i), Priority: PriorityLow, Confidence: 0.5})
	}

	ranked := Rank(insights)
	require.Len(t, ranked, 8)
	assert.Equal(t, "id-0", ranked[0].ID)
	assert.Equal(t, "id-7", ranked[7].ID)
}

func TestPersonalInsights(t *testing.T) {
	patterns := &fakePatterns{patterns: []state.Pattern{
		{
			StateKey:            "walked",
			ConsecutiveDays:     5,
			MostActiveTime:      "morning",
			MoodPairs:           8,
			MoodImproved:        7,
			MoodImprovementRate: 0.875,
			Confidence:          0.9,
		},
		{
			StateKey:        "meditated",
			ConsecutiveDays: 1,
			Confidence:      0.1,
		},
	}}
	states := &fakeStates{byDate: map[string][]state.StateEntry{}, history: map[string][]state.StateEntry{}}

	e := newEngine(patterns, states, fakeCollective{}, quietClock)
	insights := e.PersonalInsights(context.Background(), 1)

	types := map[string]int{}
	for _, in := range insights {
		types[in.Type]++
		assert.Equal(t, quietClock.UnixMilli(), in.TimestampMillis)
		assert.NotEmpty(t, in.ID)
	}

	// walked: streak + mood + time pattern; meditated: nothing (streak too
	// short, no mood pairs, empty most-active time)
	assert.Equal(t, map[string]int{"streak": 1, "mood_improvement": 1, "time_pattern": 1}, types)

	for _, in := range insights {
		if in.Type == "time_pattern" {
			assert.InDelta(t, 0.72, in.Confidence, 1e-9)
			assert.Equal(t, PriorityMedium, in.Priority)
		}
		if in.Type == "streak" {
			assert.Equal(t, PriorityHigh, in.Priority)
			assert.Contains(t, in.Message, "5 Tage")
		}
	}
}

func TestPersonalInsights_NoPatterns(t *testing.T) {
	e := newEngine(
		&fakePatterns{},
		&fakeStates{byDate: map[string][]state.StateEntry{}, history: map[string][]state.StateEntry{}},
		fakeCollective{},
		quietClock,
	)
	assert.Empty(t, e.PersonalInsights(context.Background(), 1))
}

func TestMissingActivitySuggestions(t *testing.T) {
	before, after := catalog.MoodStressed, catalog.MoodGreat
	beneficial := make([]state.StateEntry, 0, 5)
	for i := 0; i < 5; i++ {
		beneficial = append(beneficial, state.StateEntry{
			StateKey: "meditated", MoodBefore: &before, MoodAfter: &after,
		})
	}

	states := &fakeStates{
		byDate: map[string][]state.StateEntry{
			quietClock.Format("2006-01-02"): {{StateKey: "walked"}},
		},
		history: map[string][]state.StateEntry{
			"meditated":  beneficial,
			"focused":    {{StateKey: "focused"}},
			"took_break": beneficial[:4],
		},
	}
	e := newEngine(&fakePatterns{}, states, fakeCollective{}, quietClock)

	insights := e.PersonalInsights(context.Background(), 1)

	keys := map[string]bool{}
	for _, in := range insights {
		require.Equal(t, "suggestion", in.Type)
		assert.Equal(t, PriorityMedium, in.Priority)
		assert.Equal(t, "local_analysis", in.Source)
		keys[in.StateKey] = true
	}

	assert.True(t, keys["meditated"])
	assert.True(t, keys["took_break"])
	assert.False(t, keys["walked"], "already logged today")
	assert.False(t, keys["focused"], "history below minimum")
}

func TestCollectiveInsights(t *testing.T) {
	c := fakeCollective{stats: map[string]collective.GlobalStats{
		"walked":    {TotalEntries: 120, PositiveCount: 110, UniqueUsers: 60, PositiveRate: 110.0 / 120},
		"meditated": {TotalEntries: 40, PositiveCount: 28, UniqueUsers: 25, PositiveRate: 0.7},
		"focused":   {TotalEntries: 10, PositiveCount: 9, UniqueUsers: 5, PositiveRate: 0.9},
	}}

	e := newEngine(&fakePatterns{}, &fakeStates{}, c, quietClock)
	insights := e.CollectiveInsights(context.Background(), []string{"walked", "meditated", "focused", "unknown"})

	require.Len(t, insights, 2, "focused is under the floor, unknown has no data")

	assert.Equal(t, "walked", insights[0].StateKey)
	assert.Equal(t, PriorityHigh, insights[0].Priority)
	assert.Equal(t, 0.9, insights[0].Confidence, "capped at 0.9")

	assert.Equal(t, "meditated", insights[1].StateKey)
	assert.Equal(t, PriorityMedium, insights[1].Priority)
	assert.InDelta(t, 0.4, insights[1].Confidence, 1e-9)
}

func TestCollectiveInsights_FailingClient(t *testing.T) {
	e := newEngine(&fakePatterns{}, &fakeStates{}, fakeCollective{err: errors.New("connection refused")}, quietClock)
	assert.Empty(t, e.CollectiveInsights(context.Background(), catalog.Keys()))
}

func TestCollectiveInsights_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := fakeCollective{stats: map[string]collective.GlobalStats{
		"walked": {TotalEntries: 100, UniqueUsers: 60, PositiveRate: 0.9},
	}}
	e := newEngine(&fakePatterns{}, &fakeStates{}, c, quietClock)
	assert.Empty(t, e.CollectiveInsights(ctx, []string{"walked"}))
}

func TestContextualInsights(t *testing.T) {
	e := newEngine(&fakePatterns{}, &fakeStates{}, fakeCollective{}, quietClock)

	tests := []struct {
		name      string
		at        time.Time
		wantTypes int
		wantMsg   string
	}{
		{"monday morning", time.Date(2024, 3, 11, 7, 0, 0, 0, time.UTC), 2, "Guten Morgen"},
		{"tuesday lunch", time.Date(2024, 3, 12, 13, 0, 0, 0, time.UTC), 1, "Mittagszeit"},
		{"friday evening", time.Date(2024, 3, 15, 19, 0, 0, 0, time.UTC), 2, "Wochenende"},
		{"sunday night", time.Date(2024, 3, 17, 3, 0, 0, 0, time.UTC), 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.ContextualInsights(tt.at)
			require.Len(t, got, tt.wantTypes)
			if tt.wantMsg == "" {
				return
			}
			found := false
			for _, in := range got {
				assert.Equal(t, "contextual", in.Type)
				assert.Equal(t, tt.at.UnixMilli(), in.TimestampMillis)
				assert.True(t, in.TimeRelevant || in.DayRelevant)
				found = found || strings.Contains(in.Message, tt.wantMsg)
			}
			assert.True(t, found, "expected a message containing %q", tt.wantMsg)
		})
	}
}

func TestGenerateProactive(t *testing.T) {
	patterns := &fakePatterns{patterns: []state.Pattern{
		{StateKey: "walked", ConsecutiveDays: 4, Confidence: 0.9, MostActiveTime: "morning"},
	}}
	states := &fakeStates{byDate: map[string][]state.StateEntry{}, history: map[string][]state.StateEntry{}}

	// the collective source fails outright; the other sources still deliver
	e := newEngine(patterns, states, fakeCollective{err: errors.New("boom")},
		time.Date(2024, 3, 11, 7, 30, 0, 0, time.UTC))

	insights := e.GenerateProactive(context.Background(), 1)

	require.NotEmpty(t, insights)
	assert.LessOrEqual(t, len(insights), 8)

	// ranked: no later insight outranks an earlier one
	for i := 1; i < len(insights); i++ {
		prev, cur := insights[i-1], insights[i]
		if priorityRank(prev.Priority) == priorityRank(cur.Priority) {
			assert.GreaterOrEqual(t, prev.Confidence, cur.Confidence)
		} else {
			assert.Greater(t, priorityRank(prev.Priority), priorityRank(cur.Priority))
		}
	}

	sources := map[string]bool{}
	for _, in := range insights {
		sources[in.Source] = true
	}
	assert.True(t, sources["local"])
	assert.True(t, sources["contextual"])
}

func TestImmediateInsights(t *testing.T) {
	e := newEngine(&fakePatterns{}, &fakeStates{}, fakeCollective{}, quietClock)

	entries := []state.StateEntry{
		{StateKey: "walked", Value: 1},
		{StateKey: "meditated", Value: 1},
		{StateKey: "focused", Value: 0},
	}

	positive := e.ImmediateInsights(entries, anonymizer.Sentiment{Label: "positive", Score: 1})

	var credits, combos int
	for _, in := range positive {
		switch {
		case in.StateKey != "":
			credits++
			assert.Equal(t, PriorityMedium, in.Priority)
		case len(in.StateKeys) == 2:
			combos++
			assert.Equal(t, PriorityLow, in.Priority)
		}
	}
	assert.Equal(t, 2, credits, "only value==1 entries get credited")
	assert.Equal(t, 3, combos, "three unordered pairs of three activities")

	neutral := e.ImmediateInsights(entries, anonymizer.Sentiment{Label: "neutral"})
	assert.Len(t, neutral, 3, "pairs only without positive sentiment")
}

func TestImmediateInsights_SingleEntry(t *testing.T) {
	e := newEngine(&fakePatterns{}, &fakeStates{}, fakeCollective{}, quietClock)

	got := e.ImmediateInsights([]state.StateEntry{{StateKey: "walked", Value: 1}}, anonymizer.Sentiment{Label: "neutral"})
	assert.Empty(t, got)
}

func TestRecommendations(t *testing.T) {
	e := newEngine(&fakePatterns{}, &fakeStates{}, fakeCollective{}, quietClock)

	recs := e.Recommendations([]string{"walked"})
	require.Len(t, recs, 2)
	assert.Equal(t, "meditated", recs[0].StateKey)
	assert.Equal(t, "focused", recs[1].StateKey)

	// activities already in the session are skipped
	recs = e.Recommendations([]string{"walked", "meditated"})
	keys := map[string]bool{}
	for _, r := range recs {
		keys[r.StateKey] = true
	}
	assert.False(t, keys["meditated"])
	assert.False(t, keys["walked"])

	// capped at three
	recs = e.Recommendations([]string{"walked", "exercised", "focused"})
	assert.Len(t, recs, 3)

	assert.Empty(t, e.Recommendations([]string{"journaled"}))
}

func TestSummarize(t *testing.T) {
	insights := []Insight{
		{Type: "streak", Priority: PriorityHigh, Source: "local", Confidence: 0.9, Actions: []Action{{Type: "continue", Label: "x"}}},
		{Type: "contextual", Priority: PriorityMedium, Source: "contextual", Confidence: 0.6},
		{Type: "streak", Priority: PriorityLow, Source: "local", Confidence: 0.2},
	}

	s := Summarize(insights)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.ByType["streak"])
	assert.Equal(t, 1, s.ByPriority["high"])
	assert.Equal(t, 2, s.BySource["local"])
	assert.Equal(t, 1, s.Actionable)
	require.NotNil(t, s.MostConfident)
	assert.Equal(t, 0.9, s.MostConfident.Confidence)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.Total)
	assert.Nil(t, s.MostConfident)
}
