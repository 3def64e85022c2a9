package anonymizer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbed_Deterministic(t *testing.T) {
	a := New(GermanRules())

	first := a.Embed("heute morgen spazieren gegangen und meditiert")
	second := a.Embed("heute morgen spazieren gegangen und meditiert")

	require.Len(t, first, EmbeddingDim)
	assert.Equal(t, first, second)
}

func TestEmbed_Normalized(t *testing.T) {
	a := New(GermanRules())

	emb := a.Embed("ein langer Text über Arbeit und Entspannung am Abend")

	var sq float64
	for _, v := range emb {
		sq += v * v
	}
	assert.InDelta(t, 1.0, math.Sqrt(sq), 1e-9)
}

func TestEmbed_Empty(t *testing.T) {
	a := New(GermanRules())

	emb := a.Embed("")
	require.Len(t, emb, EmbeddingDim)
	for _, v := range emb {
		assert.Zero(t, v)
	}
}

func TestEmbed_DistinguishesTexts(t *testing.T) {
	a := New(GermanRules())

	assert.NotEqual(t, a.Embed("spazieren gehen"), a.Embed("arbeiten gehen"))
}

func TestTokenize(t *testing.T) {
	// short words and punctuation drop out, casing folds
	assert.Equal(t,
		[]string{"heute", "war", "ein", "tag"},
		tokenize("Heute war ein Tag, ja!"))
}

func TestContentHash(t *testing.T) {
	h := ContentHash("some anonymized text")
	assert.Equal(t, h, ContentHash("some anonymized text"))
	assert.NotEqual(t, h, ContentHash("some other text"))
	assert.GreaterOrEqual(t, h, int64(0))
}
