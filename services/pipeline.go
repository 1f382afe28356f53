package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/eduguide/eduguide-backend/models"
	"github.com/eduguide/eduguide-backend/ws"
	"gorm.io/gorm"
)

// inflight guards against a second pipeline starting for a document that
// already has one running.
var inflight sync.Map

// BeginPipeline marks a document as having an active pipeline. The release
// func must be called when the pipeline ends, success or not.
func BeginPipeline(docID string) (release func(), err error) {
	if _, loaded := inflight.LoadOrStore(docID, struct{}{}); loaded {
		return nil, fmt.Errorf("a pipeline is already running for this document")
	}
	return func() { inflight.Delete(docID) }, nil
}

// AdvanceDocument moves a document to the next pipeline state, persists it,
// and broadcasts the change. It is the only mutation path for forward
// progress; ResetDocument is the one sanctioned exception.
func AdvanceDocument(db *gorm.DB, doc *models.Document, next models.ExtractionState, errMsg string) error {
	newState, err := doc.Status.Transition(next)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"status":     newState,
		"last_error": errMsg,
	}
	if newState == models.StateSuccess {
		now := time.Now()
		updates["processed_at"] = &now
		doc.ProcessedAt = &now
	}
	if err := db.Model(doc).Updates(updates).Error; err != nil {
		return err
	}
	doc.Status = newState
	doc.LastError = errMsg

	ws.SendStatusUpdate(doc.ID.String(), string(newState), progressFor(newState), errMsg)
	ws.BroadcastDocumentListChanged()
	return nil
}

// FailDocument routes any pipeline error into the error state. Failing from
// idle is a no-op because nothing was staged yet.
func FailDocument(db *gorm.DB, doc *models.Document, cause error) {
	if doc.Status == models.StateIdle {
		return
	}
	_ = AdvanceDocument(db, doc, models.StateError, cause.Error())
}

// ResetDocument returns a document to idle and clears staged pipeline data.
// Resetting an already idle document is a no-op, so reset is idempotent.
// Reset must work from any state, so it writes idle directly instead of
// going through Transition.
func ResetDocument(db *gorm.DB, doc *models.Document) error {
	if doc.Status == models.StateIdle {
		return nil
	}
	updates := map[string]interface{}{
		"status":         models.StateIdle,
		"last_error":     "",
		"extracted_text": "",
		"processed_at":   nil,
	}
	if err := db.Model(doc).Updates(updates).Error; err != nil {
		return err
	}
	doc.Status = models.StateIdle
	doc.LastError = ""
	doc.ExtractedText = ""
	doc.ProcessedAt = nil

	ws.SendStatusUpdate(doc.ID.String(), string(models.StateIdle), 0, "")
	ws.BroadcastDocumentListChanged()
	return nil
}

func progressFor(state models.ExtractionState) float64 {
	switch state {
	case models.StateExtracting:
		return 0.25
	case models.StateExtracted:
		return 0.5
	case models.StateGenerating:
		return 0.75
	case models.StateSuccess:
		return 1
	default:
		return 0
	}
}
