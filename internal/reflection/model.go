package reflection

import (
	"time"

	"github.com/lib/pq"
)

// Reflection is the user's private copy of one journal entry. The original
// text stays here and is never part of any shared payload; only the derived
// features (tags, sentiment) and PII counts are stored alongside it.
type Reflection struct {
	ID     uint64 `gorm:"primaryKey" json:"id"`
	UserID uint64 `gorm:"index;not null" json:"user_id"`

	Title   string `gorm:"type:text;not null;default:''" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`

	Tags pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"tags"`

	SentimentScore float64 `gorm:"not null;default:0" json:"sentiment_score"`
	SentimentLabel string  `gorm:"not null;default:'neutral'" json:"sentiment_label"`

	PIICount int            `gorm:"not null;default:0" json:"pii_count"`
	PIITypes pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"pii_types"`
	Language string         `gorm:"not null;default:'unknown'" json:"language"`

	// Set when the anonymized payload was shared to decentralized storage.
	SharedContentID *string `json:"shared_content_id"`

	TimestampMillis int64     `gorm:"index;not null" json:"timestamp_millis"`
	CreatedAt       time.Time `gorm:"not null;default:now()" json:"created_at"`
}
