package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eduguide/eduguide-backend/models"
	"github.com/eduguide/eduguide-backend/services"
)

type SubmitAnswerInput struct {
	ItemID string `json:"item_id" binding:"required,uuid"`
	Answer string `json:"answer" binding:"required"`
}

// SubmitAnswer grades a free-text answer against its question, records the
// attempt, and rolls the result into the daily progress row.
func SubmitAnswer(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")

	userUUID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	var input SubmitAnswerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var item models.QuestionItem
	if err := db.First(&item, "id = ?", input.ItemID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
		return
	}

	eval, err := services.EvaluateAnswer(c.Request.Context(), item.Question, input.Answer)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not evaluate answer, please try again"})
		return
	}

	attempt := models.PracticeAttempt{
		UserID:   userUUID,
		ItemID:   item.ID,
		Answer:   input.Answer,
		Score:    eval.Score,
		Feedback: eval.Feedback,
		Correct:  eval.Correct,
	}
	if err := db.Create(&attempt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save attempt"})
		return
	}

	recordProgress(db, userUUID, eval)

	c.JSON(http.StatusOK, gin.H{
		"attempt_id": attempt.ID,
		"score":      eval.Score,
		"feedback":   eval.Feedback,
		"correct":    eval.Correct,
	})
}

// recordProgress upserts today's aggregate for the user. Failures here do
// not fail the attempt.
func recordProgress(db *gorm.DB, userID uuid.UUID, eval *models.Evaluation) {
	today := time.Now().Truncate(24 * time.Hour)

	var stat models.ProgressStat
	err := db.Where("user_id = ? AND date = ?", userID, today).First(&stat).Error
	if err != nil {
		stat = models.ProgressStat{UserID: userID, Date: today}
	}
	stat.TotalAttempts++
	if eval.Correct {
		stat.CorrectAttempts++
	}
	stat.ScoreSum += eval.Score
	db.Save(&stat)
}

// GetUserAttempts lists the caller's attempts, newest first.
func GetUserAttempts(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")

	var attempts []models.PracticeAttempt
	if err := db.Preload("Item").
		Where("user_id = ?", userID).
		Order("answered_at DESC").
		Limit(100).
		Find(&attempts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list attempts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"attempts": attempts})
}
