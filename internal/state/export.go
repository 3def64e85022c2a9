package state

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ExportEntry is the anonymized projection of one state entry: behavioral
// shape only, no timestamps, dates or notes.
type ExportEntry struct {
	StateKey        string  `json:"state_key"`
	Value           float64 `json:"value"`
	TimeOfDayHour   int     `json:"time_of_day"`
	DayOfWeek       int     `json:"day_of_week"`
	DurationMinutes *int    `json:"duration_minutes"`
	MoodImprovement *int    `json:"mood_improvement"`
}

// AnonymizedExport projects the full log into shareable form.
// Storage errors degrade to an empty slice.
func (s *Store) AnonymizedExport(ctx context.Context, userID uint64) []ExportEntry {
	var entries []StateEntry
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&entries).Error
	if err != nil {
		s.Log.Warn("anonymized export read failed", zap.Error(err))
		return nil
	}

	out := make([]ExportEntry, 0, len(entries))
	for _, e := range entries {
		exp := ExportEntry{
			StateKey:        e.StateKey,
			Value:           e.Value,
			TimeOfDayHour:   e.TimeOfDayHour,
			DayOfWeek:       int(time.UnixMilli(e.TimestampMillis).Weekday()),
			DurationMinutes: e.DurationMinutes,
		}
		if delta, ok := e.MoodDelta(); ok {
			d := delta
			exp.MoodImprovement = &d
		}
		out = append(out, exp)
	}
	return out
}
