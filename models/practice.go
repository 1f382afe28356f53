package models

import (
	"time"

	"github.com/google/uuid"
)

// PracticeAttempt records one answered question and its AI evaluation.
type PracticeAttempt struct {
	ID         uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID    `gorm:"type:uuid;not null;index" json:"user_id"`
	User       User         `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	ItemID     uuid.UUID    `gorm:"type:uuid;not null" json:"item_id"`
	Item       QuestionItem `gorm:"foreignKey:ItemID;references:ID;constraint:OnDelete:CASCADE;" json:"item"`
	Answer     string       `gorm:"type:text" json:"answer"`
	Score      float64      `gorm:"type:numeric(4,2)" json:"score"` // 0..1
	Feedback   string       `gorm:"type:text" json:"feedback"`
	Correct    bool         `gorm:"default:false" json:"correct"`
	AnsweredAt time.Time    `gorm:"autoCreateTime" json:"answered_at"`
}

// Evaluation is the parsed result of an AI answer review.
type Evaluation struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
	Correct  bool    `json:"correct"`
}
