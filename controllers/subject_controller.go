package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/eduguide/eduguide-backend/models"
)

type SubjectInput struct {
	Name       string `json:"name" binding:"required"`
	Department string `json:"department"`
}

func CreateSubject(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input SubjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subject := models.Subject{
		Name:       input.Name,
		Department: input.Department,
		Slug:       slug.Make(input.Name),
		Status:     true,
	}
	if err := db.Create(&subject).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject already exists or could not be created"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"subject": subject})
}

func GetSubjects(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	query := db.Model(&models.Subject{}).Where("status = ?", true)
	if dept := c.Query("department"); dept != "" {
		query = query.Where("department = ?", dept)
	}

	var subjects []models.Subject
	if err := query.Order("name ASC").Find(&subjects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list subjects"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"subjects": subjects})
}

func DeleteSubject(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	// soft disable keeps old sets pointing at a valid name
	if err := db.Model(&models.Subject{}).Where("id = ?", c.Param("id")).Update("status", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not disable subject"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "subject disabled"})
}
