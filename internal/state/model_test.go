package state

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reflekt/internal/catalog"
)

func TestMoodDelta(t *testing.T) {
	before, after := catalog.MoodBad, catalog.MoodCalm

	e := StateEntry{MoodBefore: &before, MoodAfter: &after}
	delta, ok := e.MoodDelta()
	require.True(t, ok)
	assert.Equal(t, 5, delta)

	partial := StateEntry{MoodBefore: &before}
	_, ok = partial.MoodDelta()
	assert.False(t, ok)

	_, ok = (&StateEntry{}).MoodDelta()
	assert.False(t, ok)
}

func TestPatternDistribution(t *testing.T) {
	raw, err := json.Marshal(map[string]int{"morning": 3, "night": 1})
	require.NoError(t, err)

	p := Pattern{TimeDistribution: raw}
	assert.Equal(t, map[string]int{"morning": 3, "night": 1}, p.Distribution())

	assert.Empty(t, (&Pattern{}).Distribution())
}

func TestHasMoodCorrelation(t *testing.T) {
	assert.False(t, (&Pattern{}).HasMoodCorrelation())
	assert.True(t, (&Pattern{MoodPairs: 2}).HasMoodCorrelation())
}
