package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ExtractionState is the pipeline status of a document. Transitions are
// strictly forward; StateError is reachable from any non-idle state and
// leaves two ways out: a retried generation, or a reset back to StateIdle.
type ExtractionState string

const (
	StateIdle       ExtractionState = "idle"
	StateExtracting ExtractionState = "extracting"
	StateExtracted  ExtractionState = "extracted"
	StateGenerating ExtractionState = "generating"
	StateSuccess    ExtractionState = "success"
	StateError      ExtractionState = "error"
)

var stateNext = map[ExtractionState][]ExtractionState{
	StateIdle:       {StateExtracting},
	StateExtracting: {StateExtracted, StateError},
	StateExtracted:  {StateGenerating, StateError},
	StateGenerating: {StateSuccess, StateError},
	StateSuccess:    {StateGenerating},
	StateError:      {StateIdle, StateGenerating},
}

// CanTransition reports whether moving to next is a legal step.
func (s ExtractionState) CanTransition(next ExtractionState) bool {
	for _, allowed := range stateNext[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transition returns the next state or an error for an illegal step.
// This is the only sanctioned way to advance a document's status.
func (s ExtractionState) Transition(next ExtractionState) (ExtractionState, error) {
	if !s.CanTransition(next) {
		return s, fmt.Errorf("illegal status transition %s -> %s", s, next)
	}
	return next, nil
}

type Document struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null" json:"user_id"`
	User          User            `gorm:"constraint:OnDelete:CASCADE;" json:"user"`
	OriginalName  string          `gorm:"size:255;not null" json:"original_name"`
	FilePath      string          `gorm:"type:text;not null" json:"file_path"`
	FileType      string          `gorm:"size:50" json:"file_type"`
	FileSize      int64           `json:"file_size"` // bytes
	ExtractedText string          `gorm:"type:text" json:"extracted_text"`
	Status        ExtractionState `gorm:"size:30;default:'idle'" json:"status"`
	LastError     string          `gorm:"type:text" json:"last_error,omitempty"`
	ProcessedAt   *time.Time      `json:"processed_at"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	Sets []QuestionSet `gorm:"foreignKey:DocumentID" json:"sets"`
}

// Preview returns the first 200 characters of the extracted text, with an
// ellipsis suffix only when the full text is longer than that.
func (d *Document) Preview() string {
	runes := []rune(d.ExtractedText)
	if len(runes) <= 200 {
		return d.ExtractedText
	}
	return string(runes[:200]) + "..."
}
