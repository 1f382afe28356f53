package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eduguide/eduguide-backend/models"
	"github.com/eduguide/eduguide-backend/services"
)

// GenerateQuestions runs the second half of the pipeline for a document:
// assemble the form, call the generation service, normalize, persist the
// resulting set. Kind comes from the URL (:kind = assignment|quiz|exam).
func GenerateQuestions(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")

	userUUID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	kind := models.GenerationKind(c.Param("kind"))
	switch kind {
	case models.KindAssignment, models.KindQuiz, models.KindExam:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown generation kind %q", c.Param("kind"))})
		return
	}

	var doc models.Document
	if err := db.First(&doc, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return
	}
	// error allows resubmission: a failed generation is retried from here
	if doc.Status != models.StateExtracted && doc.Status != models.StateSuccess && doc.Status != models.StateError {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("document is not ready for generation (status: %s)", doc.Status)})
		return
	}

	var form services.GenerationForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// a validation failure blocks submission without touching pipeline state
	if err := services.ValidateForm(kind, &form); err != nil {
		var missing *services.MissingFieldsError
		if errors.As(err, &missing) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":          missing.Error(),
				"missing_fields": missing.Fields,
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file in request"})
		return
	}

	release, err := services.BeginPipeline(doc.ID.String())
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	defer release()

	if err := services.AdvanceDocument(db, &doc, models.StateGenerating, ""); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items, err := services.NewGenerationClient().Generate(kind, &form, fileHeader)
	if err != nil {
		services.FailDocument(db, &doc, err)

		if errors.Is(err, services.ErrAllFiltered) || errors.Is(err, services.ErrEmptyResponse) || errors.Is(err, services.ErrNoShapeMatched) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "the generation service returned no usable questions, please try again"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	set := models.QuestionSet{
		DocumentID: doc.ID,
		CreatedBy:  userUUID,
		Kind:       kind,
		Department: form.Department,
		Subject:    form.Subject,
		Class:      form.Class,
		Difficulty: form.DifficultyLevel,
	}
	for i, item := range items {
		set.Items = append(set.Items, models.QuestionItem{
			Question:     item.Question,
			QuestionType: item.QuestionType,
			SortOrder:    i,
		})
	}
	if err := db.Create(&set).Error; err != nil {
		services.FailDocument(db, &doc, fmt.Errorf("could not save questions: %v", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save questions"})
		return
	}

	if err := services.AdvanceDocument(db, &doc, models.StateSuccess, ""); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "questions generated",
		"set_id":    set.ID,
		"questions": items,
	})
}

// GetQuestionSet returns a persisted set with its items in order.
func GetQuestionSet(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var set models.QuestionSet
	if err := db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	}).First(&set, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "question set not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"set": set})
}

var viewArtifacts = map[string]bool{
	"assignment_view":    true,
	"quiz_view":          true,
	"quiz_solution_view": true,
	"exam_view":          true,
}

var downloadArtifacts = map[string]bool{
	"assignment_download": true,
	"quiz_download":       true,
	"exam_download":       true,
}

// ArtifactView returns the URL of a generated PDF. The client opens it
// directly; nothing streams through here.
func ArtifactView(c *gin.Context) {
	artifact := c.Param("artifact")
	if !viewArtifacts[artifact] {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown artifact"})
		return
	}

	params := map[string]string{}
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	c.JSON(http.StatusOK, gin.H{"url": services.NewGenerationClient().ArtifactURL(artifact, params)})
}

// ArtifactDownload fetches the PDF blob and streams it for saving.
func ArtifactDownload(c *gin.Context) {
	artifact := c.Param("artifact")
	if !downloadArtifacts[artifact] {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown artifact"})
		return
	}

	params := map[string]string{}
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	data, contentType, err := services.NewGenerationClient().DownloadArtifact(artifact, params)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact+".pdf"))
	c.Data(http.StatusOK, contentType, data)
}
