package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/eduguide/eduguide-backend/models"
	"github.com/eduguide/eduguide-backend/services"
)

// GenerateBundle builds (or rebuilds) the summary/key-points/flashcards/
// questions bundle for a document. Regenerating replaces the whole bundle.
func GenerateBundle(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")

	var doc models.Document
	if err := db.First(&doc, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return
	}
	if doc.ExtractedText == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "document has no extracted text yet"})
		return
	}

	bundle, err := services.BuildBundle(c.Request.Context(), userID, &doc)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bundle": bundle})
}

// GetBundle returns the cached bundle for this user and document, if any.
func GetBundle(c *gin.Context) {
	userID := c.GetString("user_id")

	bundle, ok := services.GetBundle(userID, c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no generated content for this document, generate it first"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bundle": bundle})
}
