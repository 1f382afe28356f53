package models

import (
	"time"

	"github.com/google/uuid"
)

// Daily aggregate per user, maintained as attempts land.
type ProgressStat struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Date   time.Time `gorm:"type:date;not null;uniqueIndex:idx_progress_user_date" json:"date"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_date;index" json:"user_id"`
	User   User      `gorm:"constraint:OnDelete:CASCADE;" json:"-"`

	TotalAttempts   int64   `gorm:"default:0" json:"total_attempts"`
	CorrectAttempts int64   `gorm:"default:0" json:"correct_attempts"`
	ScoreSum        float64 `gorm:"type:numeric(10,2);default:0" json:"score_sum"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
