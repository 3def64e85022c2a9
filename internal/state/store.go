// Package state owns the durable event log of activity entries and the
// derived pattern records computed over it.
package state

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"reflekt/internal/catalog"
)

var ErrInvalidEntry = errors.New("invalid state entry")

// Store is the append-only event store. Appends fail loudly on storage
// errors; reads degrade to empty results so that insight generation stays
// best-effort. Streaks and patterns are always recomputed from persisted
// history, never from in-memory counters, so interleaved appends from other
// processes are tolerated.
type Store struct {
	DB  *gorm.DB
	Log *zap.Logger

	// Enqueue schedules a pattern recomputation for (userID, stateKey).
	// Best-effort: failures are logged and never fail the append.
	Enqueue func(userID uint64, stateKey string) error

	// Now is the wall clock; nil means time.Now. Entries are always stamped
	// here, not by callers, so backdating is impossible.
	Now func() time.Time
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Append validates and persists one state entry, stamping timestamp, date
// and hour from the wall clock, then triggers pattern recomputation.
func (s *Store) Append(ctx context.Context, userID uint64, stateKey string, value float64, c Context) (StateEntry, error) {
	stateKey = strings.TrimSpace(stateKey)
	if stateKey == "" {
		return StateEntry{}, fmt.Errorf("%w: empty state key", ErrInvalidEntry)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return StateEntry{}, fmt.Errorf("%w: value must be finite", ErrInvalidEntry)
	}
	if c.MoodBefore != nil && !catalog.KnownMood(*c.MoodBefore) {
		return StateEntry{}, fmt.Errorf("%w: unknown mood %q", ErrInvalidEntry, *c.MoodBefore)
	}
	if c.MoodAfter != nil && !catalog.KnownMood(*c.MoodAfter) {
		return StateEntry{}, fmt.Errorf("%w: unknown mood %q", ErrInvalidEntry, *c.MoodAfter)
	}

	now := s.now()
	entry := StateEntry{
		UserID:          userID,
		StateKey:        stateKey,
		Value:           value,
		TimestampMillis: now.UnixMilli(),
		Date:            now.Format("2006-01-02"),
		TimeOfDayHour:   now.Hour(),
		MoodBefore:      c.MoodBefore,
		MoodAfter:       c.MoodAfter,
		DurationMinutes: c.DurationMinutes,
		Notes:           c.Notes,
		CreatedAt:       now,
	}

	if err := s.DB.WithContext(ctx).Create(&entry).Error; err != nil {
		return StateEntry{}, fmt.Errorf("append state entry: %w", err)
	}

	// Recomputation is fire-and-forget: patterns stay derivable from the
	// log, so a lost trigger never corrupts anything.
	if s.Enqueue != nil {
		if err := s.Enqueue(userID, stateKey); err != nil {
			s.Log.Warn("pattern recompute enqueue failed",
				zap.Uint64("user_id", userID),
				zap.String("state_key", stateKey),
				zap.Error(err))
		}
	}

	return entry, nil
}

// History returns the entries for one key within the window, in insertion
// order. Storage errors degrade to an empty slice.
func (s *Store) History(ctx context.Context, userID uint64, stateKey string, windowDays int) []StateEntry {
	cutoff := s.now().AddDate(0, 0, -windowDays).UnixMilli()

	var out []StateEntry
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND state_key = ? AND timestamp_millis >= ?", userID, stateKey, cutoff).
		Order("id asc").
		Find(&out).Error
	if err != nil {
		s.Log.Warn("state history read failed", zap.String("state_key", stateKey), zap.Error(err))
		return nil
	}
	return out
}

// EntriesForDate returns all entries across keys for one calendar date.
// Storage errors degrade to an empty slice.
func (s *Store) EntriesForDate(ctx context.Context, userID uint64, date string) []StateEntry {
	var out []StateEntry
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Order("id asc").
		Find(&out).Error
	if err != nil {
		s.Log.Warn("entries-for-date read failed", zap.String("date", date), zap.Error(err))
		return nil
	}
	return out
}

// SavePattern appends one freshly computed pattern row.
func (s *Store) SavePattern(ctx context.Context, p *Pattern) error {
	if err := s.DB.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("save pattern: %w", err)
	}
	return nil
}

// LatestPatterns returns the newest pattern row per state key.
// Storage errors degrade to an empty slice.
func (s *Store) LatestPatterns(ctx context.Context, userID uint64) []Pattern {
	var out []Pattern
	err := s.DB.WithContext(ctx).Raw(`
select distinct on (state_key) *
from patterns
where user_id = ?
order by state_key, id desc
`, userID).Scan(&out).Error
	if err != nil {
		s.Log.Warn("latest patterns read failed", zap.Error(err))
		return nil
	}
	return out
}

// Prune deletes entries and pattern rows older than the retention horizon.
// Storage hygiene only: callers tolerate partial or no pruning.
func (s *Store) Prune(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := s.now().AddDate(0, 0, -retentionDays).UnixMilli()

	states := s.DB.WithContext(ctx).
		Where("timestamp_millis < ?", cutoff).
		Delete(&StateEntry{})
	if states.Error != nil {
		return 0, fmt.Errorf("prune states: %w", states.Error)
	}

	patterns := s.DB.WithContext(ctx).
		Where("computed_at_millis < ?", cutoff).
		Delete(&Pattern{})
	if patterns.Error != nil {
		return states.RowsAffected, fmt.Errorf("prune patterns: %w", patterns.Error)
	}

	return states.RowsAffected + patterns.RowsAffected, nil
}
