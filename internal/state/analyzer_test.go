package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"reflekt/internal/catalog"
)

func entryOn(t *testing.T, day string, hour int) StateEntry {
	t.Helper()
	ts, err := time.Parse("2006-01-02", day)
	if err != nil {
		t.Fatalf("bad day %q: %v", day, err)
	}
	ts = ts.Add(time.Duration(hour) * time.Hour)
	return StateEntry{
		StateKey:        "walked",
		Value:           1,
		TimestampMillis: ts.UnixMilli(),
		Date:            day,
		TimeOfDayHour:   hour,
	}
}

func TestStreak(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		days []string
		want int
	}{
		{"three consecutive ending today", []string{"2024-03-13", "2024-03-14", "2024-03-15"}, 3},
		{"anchored at yesterday", []string{"2024-03-12", "2024-03-13", "2024-03-14"}, 3},
		{"gap breaks the run", []string{"2024-03-11", "2024-03-13", "2024-03-14", "2024-03-15"}, 3},
		{"stale anchor", []string{"2024-03-10", "2024-03-11"}, 0},
		{"single entry today", []string{"2024-03-15"}, 1},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var entries []StateEntry
			for _, d := range tt.days {
				entries = append(entries, entryOn(t, d, 9))
			}
			assert.Equal(t, tt.want, Streak(entries, now))
		})
	}
}

func TestStreak_SameDayDuplicates(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	entries := []StateEntry{
		entryOn(t, "2024-03-15", 7),
		entryOn(t, "2024-03-15", 20),
		entryOn(t, "2024-03-14", 9),
	}
	assert.Equal(t, 2, Streak(entries, now))
}

func TestStreak_IgnoresOldEntries(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	// the run reaching outside the 7-day window is cut off at the cutoff
	entries := []StateEntry{
		entryOn(t, "2024-03-01", 9),
		entryOn(t, "2024-03-14", 9),
		entryOn(t, "2024-03-15", 9),
	}
	assert.Equal(t, 2, Streak(entries, now))
}

func TestTimeDistribution(t *testing.T) {
	dist, most := TimeDistribution([]StateEntry{
		entryOn(t, "2024-03-14", 7),
		entryOn(t, "2024-03-14", 8),
		entryOn(t, "2024-03-14", 19),
	})

	assert.Equal(t, "morning", most)
	assert.Equal(t, map[string]int{"morning": 2, "afternoon": 0, "evening": 1, "night": 0}, dist)
}

func TestTimeDistribution_TieBreak(t *testing.T) {
	// equal counts resolve to the earlier period
	_, most := TimeDistribution([]StateEntry{
		entryOn(t, "2024-03-14", 9),
		entryOn(t, "2024-03-14", 19),
	})
	assert.Equal(t, "morning", most)

	_, most = TimeDistribution([]StateEntry{
		entryOn(t, "2024-03-14", 13),
		entryOn(t, "2024-03-14", 23),
	})
	assert.Equal(t, "afternoon", most)
}

func TestTimeDistribution_Empty(t *testing.T) {
	dist, most := TimeDistribution(nil)
	assert.Empty(t, most)
	assert.Equal(t, map[string]int{"morning": 0, "afternoon": 0, "evening": 0, "night": 0}, dist)
}

func moodEntry(before, after catalog.Mood) StateEntry {
	return StateEntry{MoodBefore: &before, MoodAfter: &after}
}

func TestMoodCorrelation(t *testing.T) {
	entries := []StateEntry{
		moodEntry(catalog.MoodBad, catalog.MoodGood),
		moodEntry(catalog.MoodNeutral, catalog.MoodNeutral),
		moodEntry(catalog.MoodGood, catalog.MoodBad),
		moodEntry(catalog.MoodStressed, catalog.MoodCalm),
		{}, // no moods set, excluded
	}

	pairs, improved, rate := MoodCorrelation(entries)
	assert.Equal(t, 4, pairs)
	assert.Equal(t, 2, improved)
	assert.InDelta(t, 0.5, rate, 1e-9)
}

func TestMoodCorrelation_Empty(t *testing.T) {
	pairs, improved, rate := MoodCorrelation(nil)
	assert.Zero(t, pairs)
	assert.Zero(t, improved)
	assert.Zero(t, rate)
}

func TestConfidenceForSamples(t *testing.T) {
	tests := []struct {
		n    int
		want float64
	}{
		{0, 0.1}, {2, 0.1}, {3, 0.5}, {6, 0.5}, {7, 0.7}, {13, 0.7}, {14, 0.9}, {50, 0.9},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ConfidenceForSamples(tt.n), "n=%d", tt.n)
	}

	// monotonic
	prev := 0.0
	for n := 0; n <= 20; n++ {
		c := ConfidenceForSamples(n)
		assert.GreaterOrEqual(t, c, prev)
		prev = c
	}
}
