package anonymizer

import (
	"math"
	"strings"
)

// Sentiment is a coarse keyword-based sentiment estimate.
type Sentiment struct {
	Score      float64 `json:"score"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// ExtractSentiment averages the scores of every matched sentiment keyword.
// With zero matches it falls back to the plain positive/negative word lists.
// Confidence grows with the match count, capped at 1.0.
func (a *Anonymizer) ExtractSentiment(text string) Sentiment {
	lower := strings.ToLower(text)

	var score float64
	var count int

	for word, s := range a.rules.Sentiment {
		if strings.Contains(lower, word) {
			score += s
			count++
		}
	}

	if count == 0 {
		for _, w := range a.rules.PositiveFallback {
			if strings.Contains(lower, w) {
				score++
				count++
			}
		}
		for _, w := range a.rules.NegativeFallback {
			if strings.Contains(lower, w) {
				score--
				count++
			}
		}
	}

	var avg float64
	if count > 0 {
		avg = score / float64(count)
	}

	label := "neutral"
	if avg > 0.5 {
		label = "positive"
	} else if avg < -0.5 {
		label = "negative"
	}

	return Sentiment{
		Score:      avg,
		Label:      label,
		Confidence: math.Min(float64(count)*0.2, 1.0),
	}
}
