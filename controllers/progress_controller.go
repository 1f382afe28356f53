package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/eduguide/eduguide-backend/models"
)

// GetMyProgress returns the caller's daily aggregates for the last N days
// (default 30).
func GetMyProgress(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := c.GetString("user_id")

	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	if days < 1 || days > 365 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	var stats []models.ProgressStat
	if err := db.Where("user_id = ? AND date >= ?", userID, since).
		Order("date ASC").
		Find(&stats).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load progress"})
		return
	}

	var total, correct int64
	var scoreSum float64
	for _, s := range stats {
		total += s.TotalAttempts
		correct += s.CorrectAttempts
		scoreSum += s.ScoreSum
	}
	avg := 0.0
	if total > 0 {
		avg = scoreSum / float64(total)
	}

	c.JSON(http.StatusOK, gin.H{
		"days":             stats,
		"total_attempts":   total,
		"correct_attempts": correct,
		"average_score":    avg,
	})
}

// GetClassProgress is the teacher-dashboard view: per-student totals.
func GetClassProgress(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	type studentRow struct {
		UserID          string  `json:"user_id"`
		FullName        string  `json:"full_name"`
		TotalAttempts   int64   `json:"total_attempts"`
		CorrectAttempts int64   `json:"correct_attempts"`
		AverageScore    float64 `json:"average_score"`
	}

	var rows []studentRow
	err := db.Model(&models.ProgressStat{}).
		Select(`progress_stats.user_id,
			users.full_name,
			SUM(progress_stats.total_attempts) AS total_attempts,
			SUM(progress_stats.correct_attempts) AS correct_attempts,
			CASE WHEN SUM(progress_stats.total_attempts) > 0
				THEN SUM(progress_stats.score_sum) / SUM(progress_stats.total_attempts)
				ELSE 0 END AS average_score`).
		Joins("JOIN users ON users.id = progress_stats.user_id").
		Group("progress_stats.user_id, users.full_name").
		Order("total_attempts DESC").
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load class progress"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"students": rows})
}
