package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eduguide/eduguide-backend/models"
	"github.com/eduguide/eduguide-backend/services"
	"github.com/eduguide/eduguide-backend/utils"
	"github.com/eduguide/eduguide-backend/ws"
)

// UploadDocument runs the first half of the pipeline: validate, store the
// file, extract text. Validation failures stage nothing; the document row is
// only created once the file passed the gate.
func UploadDocument(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")

	userUUID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file in request"})
		return
	}

	if err := services.ValidateUpload(fileHeader); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc := models.Document{
		UserID:       userUUID,
		OriginalName: fileHeader.Filename,
		FileType:     utils.GetInputTypeFromExt(fileHeader.Filename),
		FileSize:     fileHeader.Size,
		FilePath:     "",
		Status:       models.StateIdle,
	}
	if err := db.Create(&doc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create document"})
		return
	}

	release, err := services.BeginPipeline(doc.ID.String())
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	defer release()

	if err := services.AdvanceDocument(db, &doc, models.StateExtracting, ""); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	fileURL, err := utils.UploadFileToSupabase(fileHeader, doc.ID.String())
	if err != nil {
		services.FailDocument(db, &doc, fmt.Errorf("file storage failed: %v", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store file"})
		return
	}
	db.Model(&doc).Update("file_path", fileURL)
	doc.FilePath = fileURL

	// extraction never fails; it degrades to a stub
	text := services.ExtractText(fileHeader)

	// the hard gate is length, applied here at the caller
	if len([]rune(strings.TrimSpace(text))) < services.MinExtractedLength {
		services.FailDocument(db, &doc, fmt.Errorf("extracted text is too short to work with (minimum %d characters)", services.MinExtractedLength))
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":       fmt.Sprintf("could not read enough text from the file (minimum %d characters)", services.MinExtractedLength),
			"document_id": doc.ID,
		})
		return
	}

	db.Model(&doc).Update("extracted_text", text)
	doc.ExtractedText = text

	if err := services.AdvanceDocument(db, &doc, models.StateExtracted, ""); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "document uploaded and extracted",
		"document": doc,
		"preview":  doc.Preview(),
	})
}

// GetDocuments lists documents with status filter, search and pagination.
// Students only see their own; teachers and admins see everything.
func GetDocuments(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")
	role := c.GetString("role")

	query := db.Model(&models.Document{})
	if role != string(models.RoleAdmin) && role != string(models.RoleTeacher) {
		query = query.Where("user_id = ?", userID)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("original_name ILIKE ?", "%"+search+"%")
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	var total int64
	query.Count(&total)

	var docs []models.Document
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&docs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list documents"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"documents": docs,
		"total":     total,
		"page":      page,
		"limit":     limit,
	})
}

func GetDocument(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var doc models.Document
	if err := db.Preload("Sets.Items").First(&doc, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"document": doc,
		"preview":  doc.Preview(),
	})
}

// ResetDocument returns the pipeline to idle. Safe to call twice.
func ResetDocument(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")

	var doc models.Document
	if err := db.First(&doc, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return
	}

	if err := services.ResetDocument(db, &doc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	services.DropBundle(userID, doc.ID.String())

	c.JSON(http.StatusOK, gin.H{"message": "document reset", "document": doc})
}

func DeleteDocument(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")

	var doc models.Document
	if err := db.First(&doc, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return
	}

	if err := utils.DeleteFileFromSupabase(doc.FilePath); err != nil {
		// the row still goes; the orphaned object is logged for cleanup
		fmt.Printf("could not delete stored file for %s: %v\n", doc.ID, err)
	}

	if err := db.Delete(&doc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete document"})
		return
	}
	services.DropBundle(userID, doc.ID.String())
	ws.BroadcastDocumentListChanged()

	c.JSON(http.StatusOK, gin.H{"message": "document deleted"})
}
