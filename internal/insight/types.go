package insight

import "sort"

// Priority orders insights for presentation.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func priorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	default:
		return 1
	}
}

// Action is one suggested follow-up attached to an insight.
type Action struct {
	Type  string `json:"type"`
	Label string `json:"label"`
}

// Insight is a ranked, user-facing observation or suggestion. Insights are
// generated fresh per request and never persisted; they are derivable from
// patterns and context at any time.
type Insight struct {
	ID              string   `json:"id"`
	Type            string   `json:"type"`
	Message         string   `json:"message"`
	Confidence      float64  `json:"confidence"`
	StateKey        string   `json:"state_key,omitempty"`
	StateKeys       []string `json:"state_keys,omitempty"`
	Source          string   `json:"source"`
	Priority        Priority `json:"priority"`
	TimeRelevant    bool     `json:"time_relevant,omitempty"`
	DayRelevant     bool     `json:"day_relevant,omitempty"`
	Actions         []Action `json:"actions"`
	TimestampMillis int64    `json:"timestamp_millis"`
}

const maxRanked = 8

// Rank sorts insights by priority, then confidence, then time relevance,
// then recency, with the id as final tie-break so the order is total, and
// caps the list at 8.
func Rank(insights []Insight) []Insight {
	out := make([]Insight, len(insights))
	copy(out, insights)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if pa, pb := priorityRank(a.Priority), priorityRank(b.Priority); pa != pb {
			return pa > pb
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.TimeRelevant != b.TimeRelevant {
			return a.TimeRelevant
		}
		if a.TimestampMillis != b.TimestampMillis {
			return a.TimestampMillis > b.TimestampMillis
		}
		return a.ID < b.ID
	})

	if len(out) > maxRanked {
		out = out[:maxRanked]
	}
	return out
}

// Summary aggregates one generated insight list.
type Summary struct {
	Total         int            `json:"total"`
	ByType        map[string]int `json:"by_type"`
	ByPriority    map[string]int `json:"by_priority"`
	BySource      map[string]int `json:"by_source"`
	MostConfident *Insight       `json:"most_confident"`
	Actionable    int            `json:"actionable"`
}

// Summarize builds the dashboard summary over a ranked insight list.
func Summarize(insights []Insight) Summary {
	s := Summary{
		Total:      len(insights),
		ByType:     map[string]int{},
		ByPriority: map[string]int{"high": 0, "medium": 0, "low": 0},
		BySource:   map[string]int{},
	}
	for i := range insights {
		in := insights[i]
		s.ByType[in.Type]++
		s.ByPriority[string(in.Priority)]++
		s.BySource[in.Source]++
		if len(in.Actions) > 0 {
			s.Actionable++
		}
	}
	if len(insights) > 0 {
		s.MostConfident = &insights[0]
	}
	return s
}

// Recommendation suggests a complementary activity for the current session.
type Recommendation struct {
	Type       string  `json:"type"`
	Message    string  `json:"message"`
	StateKey   string  `json:"state_key"`
	Confidence float64 `json:"confidence"`
}
