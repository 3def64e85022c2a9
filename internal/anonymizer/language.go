package anonymizer

import "strings"

var germanStopwords = []string{
	"und", "der", "die", "das", "ich", "ist", "mit", "auf", "für", "von",
	"zu", "im", "am", "haben", "sein",
}

var englishStopwords = []string{
	"and", "the", "of", "to", "in", "is", "it", "you", "that", "he",
	"was", "for", "on", "are", "as",
}

// DetectLanguage guesses "de" or "en" from stopword frequency, "unknown" on
// a tie. Good enough for routing locale hints in shared payloads.
func DetectLanguage(text string) string {
	lower := strings.ToLower(text)

	count := func(words []string) int {
		n := 0
		for _, w := range words {
			if strings.Contains(lower, " "+w+" ") ||
				strings.HasPrefix(lower, w+" ") ||
				strings.HasSuffix(lower, " "+w) {
				n++
			}
		}
		return n
	}

	de := count(germanStopwords)
	en := count(englishStopwords)

	switch {
	case de > en:
		return "de"
	case en > de:
		return "en"
	default:
		return "unknown"
	}
}
