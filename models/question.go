package models

import (
	"time"

	"github.com/google/uuid"
)

// GenerationKind selects which upstream endpoint and which required form
// fields apply to a request.
type GenerationKind string

const (
	KindAssignment GenerationKind = "assignment"
	KindQuiz       GenerationKind = "quiz"
	KindExam       GenerationKind = "exam"
)

// QuestionType is display grouping only; it carries no behavioral weight.
type QuestionType string

const (
	TypeConceptual  QuestionType = "conceptual"
	TypeNumerical   QuestionType = "numerical"
	TypeTheoretical QuestionType = "theoretical"
	TypeScenario    QuestionType = "scenario"
	TypeShortAnswer QuestionType = "short-answer"
	TypeLongAnswer  QuestionType = "long-answer"
	TypeDefinition  QuestionType = "definition"
)

// GeneratedQuestion is the canonical item every backend response shape is
// normalized into.
type GeneratedQuestion struct {
	ID           int          `json:"id"`
	Question     string       `json:"question"`
	QuestionType QuestionType `json:"questionType"`
}

// QuestionSet is one persisted generation result for a document.
type QuestionSet struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DocumentID uuid.UUID      `gorm:"type:uuid;not null" json:"document_id"`
	Document   Document       `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	CreatedBy  uuid.UUID      `gorm:"type:uuid;not null" json:"created_by"`
	Creator    User           `gorm:"foreignKey:CreatedBy;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
	Kind       GenerationKind `gorm:"type:varchar(20);not null" json:"kind"`
	Department string         `gorm:"size:120" json:"department"`
	Subject    string         `gorm:"size:120" json:"subject"`
	Class      string         `gorm:"size:120" json:"class"`
	Difficulty string         `gorm:"size:20" json:"difficulty"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`

	Items []QuestionItem `gorm:"foreignKey:SetID;constraint:OnDelete:CASCADE;" json:"items"`
}

type QuestionItem struct {
	ID           uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SetID        uuid.UUID    `gorm:"type:uuid;not null" json:"set_id"`
	Set          QuestionSet  `gorm:"foreignKey:SetID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
	Question     string       `gorm:"type:text;not null" json:"question"`
	QuestionType QuestionType `gorm:"type:varchar(20);default:'conceptual'" json:"question_type"`
	SortOrder    int          `gorm:"default:0" json:"sort_order"`
	CreatedAt    time.Time    `gorm:"autoCreateTime" json:"created_at"`
}
