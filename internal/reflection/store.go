package reflection

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Store struct {
	DB  *gorm.DB
	Log *zap.Logger
}

// Save persists one reflection. Write failures surface to the caller.
func (s *Store) Save(ctx context.Context, r *Reflection) error {
	if err := s.DB.WithContext(ctx).Create(r).Error; err != nil {
		return fmt.Errorf("save reflection: %w", err)
	}
	return nil
}

// List returns the newest reflections, optionally filtered by tag and
// case-insensitive content substring. Read failures degrade to empty.
func (s *Store) List(ctx context.Context, userID uint64, tag, query string, limit int) []Reflection {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	q := s.DB.WithContext(ctx).Model(&Reflection{}).Where("user_id = ?", userID)
	if tag != "" {
		q = q.Where("? = any(tags)", tag)
	}
	if query != "" {
		q = q.Where("content ILIKE ?", "%"+query+"%")
	}

	var out []Reflection
	if err := q.Order("timestamp_millis desc").Limit(limit).Find(&out).Error; err != nil {
		s.Log.Warn("reflection list failed", zap.Error(err))
		return nil
	}
	return out
}

// MarkShared records the content identifier returned by the sharing gateway.
func (s *Store) MarkShared(ctx context.Context, id uint64, contentID string) error {
	err := s.DB.WithContext(ctx).Model(&Reflection{}).
		Where("id = ?", id).
		Update("shared_content_id", contentID).Error
	if err != nil {
		return fmt.Errorf("mark reflection shared: %w", err)
	}
	return nil
}
