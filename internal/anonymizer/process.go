package anonymizer

import (
	"strings"
	"time"

	"reflekt/internal/catalog"
)

// LocalPayload keeps the full reflection for the user's private store.
// It never leaves local persistence.
type LocalPayload struct {
	OriginalText    string      `json:"original_text"`
	Title           string      `json:"title"`
	Content         string      `json:"content"`
	TimestampMillis int64       `json:"timestamp_millis"`
	PIIDetected     []Detection `json:"pii_detected"`
}

// Metrics summarizes an anonymization without exposing match contents.
type Metrics struct {
	OriginalLength   int      `json:"original_length"`
	AnonymizedLength int      `json:"anonymized_length"`
	PIICount         int      `json:"pii_count"`
	PIITypes         []string `json:"pii_types"`
}

// SharedPayload is the only data eligible for external sharing. It carries
// derived features and counts only: no original text, no PII match contents.
type SharedPayload struct {
	Embedding     []float64 `json:"embedding"`
	Tags          []string  `json:"tags"`
	Sentiment     Sentiment `json:"sentiment"`
	TimeOfDay     string    `json:"time_of_day"`
	TextLength    int       `json:"text_length"`
	HashedContent int64     `json:"hashed_content"`
	Language      string    `json:"language"`
	WordCount     int       `json:"word_count"`
	Metrics       Metrics   `json:"anonymization_metrics"`
}

// Processed splits one reflection into its private and shareable halves.
type Processed struct {
	Local  LocalPayload  `json:"local"`
	Shared SharedPayload `json:"shared"`
}

// ProcessReflection anonymizes title+content and derives the shareable
// feature payload. The embedding is computed over the anonymized text; tags
// and sentiment read the original text, which stays in the local half only.
func (a *Anonymizer) ProcessReflection(title, content string, now time.Time) Processed {
	full := strings.TrimSpace(strings.TrimSpace(title) + " " + content)

	res := a.Anonymize(full)

	types := []string{}
	seen := map[Category]bool{}
	for _, d := range res.DetectedPII {
		if !seen[d.Type] {
			seen[d.Type] = true
			types = append(types, string(d.Type))
		}
	}

	return Processed{
		Local: LocalPayload{
			OriginalText:    full,
			Title:           title,
			Content:         content,
			TimestampMillis: now.UnixMilli(),
			PIIDetected:     res.DetectedPII,
		},
		Shared: SharedPayload{
			Embedding:     a.Embed(res.AnonymizedText),
			Tags:          a.ExtractTags(full),
			Sentiment:     a.ExtractSentiment(full),
			TimeOfDay:     catalog.PeriodForHour(now.Hour()),
			TextLength:    res.OriginalLength,
			HashedContent: ContentHash(res.AnonymizedText),
			Language:      DetectLanguage(full),
			WordCount:     len(strings.Fields(full)),
			Metrics: Metrics{
				OriginalLength:   res.OriginalLength,
				AnonymizedLength: res.AnonymizedLength,
				PIICount:         len(res.DetectedPII),
				PIITypes:         types,
			},
		},
	}
}
