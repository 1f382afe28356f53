package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduguide/eduguide-backend/services"
)

// AnalyzeImage forwards an uploaded image to the detection service and
// returns the person/face count. Transport failures come back as a flagged
// demo count instead of an error.
func AnalyzeImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no image in request"})
		return
	}

	if err := services.ValidateUpload(fileHeader); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	analysis, err := services.AnalyzeImage(fileHeader)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":         analysis.Count,
		"annotated_url": analysis.AnnotatedURL,
		"demo":          analysis.Demo,
	})
}
