// Package anonymizer strips personally identifiable content from free text
// and derives privacy-safe features (tags, sentiment, embedding) for optional
// sharing. Detection is pattern-based and best-effort: it cannot guarantee
// zero false negatives, so sharing must stay gated on explicit user consent.
package anonymizer

import (
	"unicode/utf8"
)

// Detection is one redacted PII match.
type Detection struct {
	Type     Category `json:"type"`
	Original string   `json:"original"`
}

// Result is the output of Anonymize.
type Result struct {
	AnonymizedText   string      `json:"anonymized_text"`
	DetectedPII      []Detection `json:"detected_pii"`
	OriginalLength   int         `json:"original_length"`
	AnonymizedLength int         `json:"anonymized_length"`
}

// RiskLevel grades how much PII a text exposes.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Validation is the pre-share privacy check result.
type Validation struct {
	IsClean         bool        `json:"is_clean"`
	PIIFound        []Detection `json:"pii_found"`
	Recommendations []string    `json:"recommendations"`
	RiskLevel       RiskLevel   `json:"risk_level"`
}

type Anonymizer struct {
	rules Rules
}

// New builds an anonymizer over the given rule set. Pass GermanRules() for
// the default vocabulary.
func New(rules Rules) *Anonymizer {
	return &Anonymizer{rules: rules}
}

// Anonymize runs every PII rule over the text in rule order. Each rule
// replaces all non-overlapping matches with its placeholder before the next
// rule sees the text, so later digit matchers never re-consume already
// redacted spans. Empty input yields an empty result, never an error.
func (a *Anonymizer) Anonymize(text string) Result {
	if text == "" {
		return Result{DetectedPII: []Detection{}}
	}

	anonymized := text
	detected := []Detection{}

	for _, rule := range a.rules.PII {
		anonymized = rule.Pattern.ReplaceAllStringFunc(anonymized, func(match string) string {
			detected = append(detected, Detection{Type: rule.Category, Original: match})
			return rule.Placeholder
		})
	}

	return Result{
		AnonymizedText:   anonymized,
		DetectedPII:      detected,
		OriginalLength:   utf8.RuneCountInString(text),
		AnonymizedLength: utf8.RuneCountInString(anonymized),
	}
}

// Validate checks a text before sharing and grades the privacy risk:
// low at zero detections, medium at one or two, high at three or more.
func (a *Anonymizer) Validate(text string) Validation {
	res := a.Anonymize(text)

	return Validation{
		IsClean:         len(res.DetectedPII) == 0,
		PIIFound:        res.DetectedPII,
		Recommendations: a.recommendations(res.DetectedPII),
		RiskLevel:       riskLevel(len(res.DetectedPII)),
	}
}

func riskLevel(detections int) RiskLevel {
	switch {
	case detections == 0:
		return RiskLow
	case detections <= 2:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// recommendations emits one hint per detected category that has one
// configured, in the fixed category order of the rule list.
func (a *Anonymizer) recommendations(detected []Detection) []string {
	found := map[Category]bool{}
	for _, d := range detected {
		found[d.Type] = true
	}

	out := []string{}
	seen := map[Category]bool{}
	for _, rule := range a.rules.PII {
		if seen[rule.Category] {
			continue
		}
		seen[rule.Category] = true
		if !found[rule.Category] {
			continue
		}
		if rec, ok := a.rules.Recommendations[rule.Category]; ok {
			out = append(out, rec)
		}
	}
	return out
}
