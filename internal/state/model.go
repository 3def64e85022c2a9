package state

import (
	"encoding/json"
	"time"

	"reflekt/internal/catalog"
)

// StateEntry is one reported occurrence of an activity. Entries are created
// exactly once, never mutated, and removed only by retention pruning.
// Date and TimeOfDayHour are derived from TimestampMillis at write time and
// never recomputed afterwards.
type StateEntry struct {
	ID       uint64 `gorm:"primaryKey" json:"id"`
	UserID   uint64 `gorm:"index;not null" json:"user_id"`
	StateKey string `gorm:"index;not null" json:"state_key"`

	Value           float64 `gorm:"not null" json:"value"`
	TimestampMillis int64   `gorm:"index;not null" json:"timestamp_millis"`
	Date            string  `gorm:"index;not null" json:"date"` // YYYY-MM-DD, local
	TimeOfDayHour   int     `gorm:"not null" json:"time_of_day_hour"`

	MoodBefore      *catalog.Mood `json:"mood_before"`
	MoodAfter       *catalog.Mood `json:"mood_after"`
	DurationMinutes *int          `json:"duration_minutes"`
	Notes           *string       `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

// MoodDelta returns the after-minus-before score on the 9-point scale and
// whether both moods were set.
func (e *StateEntry) MoodDelta() (int, bool) {
	if e.MoodBefore == nil || e.MoodAfter == nil {
		return 0, false
	}
	return catalog.MoodScore(*e.MoodAfter) - catalog.MoodScore(*e.MoodBefore), true
}

// Context carries the optional fields of a state entry at append time.
type Context struct {
	MoodBefore      *catalog.Mood
	MoodAfter       *catalog.Mood
	DurationMinutes *int
	Notes           *string
}

// Pattern is a derived aggregate over one activity key's recent history.
// Every recomputation appends a fresh row; consumers read the newest row per
// key, stale rows coexist until pruned.
type Pattern struct {
	ID       uint64 `gorm:"primaryKey" json:"id"`
	UserID   uint64 `gorm:"index;not null" json:"user_id"`
	StateKey string `gorm:"index;not null" json:"state_key"`

	ConsecutiveDays  int             `gorm:"not null" json:"consecutive_days"`
	TimeDistribution json.RawMessage `gorm:"type:jsonb;not null;default:'{}'::jsonb" json:"time_distribution"`
	MostActiveTime   string          `json:"most_active_time"`

	// Mood correlation; absent when MoodPairs is zero.
	MoodPairs           int     `gorm:"not null;default:0" json:"mood_pairs"`
	MoodImproved        int     `gorm:"not null;default:0" json:"mood_improved"`
	MoodImprovementRate float64 `gorm:"not null;default:0" json:"mood_improvement_rate"`

	Confidence       float64 `gorm:"not null" json:"confidence"`
	SampleSize       int     `gorm:"not null" json:"sample_size"`
	ComputedAtMillis int64   `gorm:"index;not null" json:"computed_at_millis"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

// HasMoodCorrelation reports whether any before/after mood pairs existed.
func (p *Pattern) HasMoodCorrelation() bool { return p.MoodPairs > 0 }

// Distribution decodes the per-period entry counts.
func (p *Pattern) Distribution() map[string]int {
	out := map[string]int{}
	if len(p.TimeDistribution) > 0 {
		_ = json.Unmarshal(p.TimeDistribution, &out)
	}
	return out
}
