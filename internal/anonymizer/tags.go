package anonymizer

import (
	"regexp"
	"strings"
)

var hashtagRe = regexp.MustCompile(`#([a-zA-Z0-9_]{1,32})`)

const maxTags = 20

// ExtractTags returns explicit #hashtags plus tags synthesized from activity
// keyword mentions, lowercased and deduplicated in first-seen order.
func (a *Anonymizer) ExtractTags(text string) []string {
	if text == "" {
		return nil
	}

	seen := map[string]struct{}{}
	out := make([]string, 0, 8)

	add := func(t string) bool {
		t = "#" + strings.ToLower(t)
		if _, ok := seen[t]; ok {
			return true
		}
		seen[t] = struct{}{}
		out = append(out, t)
		return len(out) < maxTags
	}

	for _, m := range hashtagRe.FindAllStringSubmatch(text, -1) {
		if len(m) < 2 {
			continue
		}
		if !add(m[1]) {
			return out
		}
	}

	lower := strings.ToLower(text)
	for _, kw := range a.rules.ActivityKeywords {
		if strings.Contains(lower, kw) {
			if !add(kw) {
				return out
			}
		}
	}

	return out
}
