package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/eduguide/eduguide-backend/models"
	"github.com/eduguide/eduguide-backend/services"
	"github.com/eduguide/eduguide-backend/utils"
)

type SynthesizeInput struct {
	Text  string  `json:"text" binding:"required"`
	Voice string  `json:"voice"`
	Rate  float64 `json:"rate"`
	Title string  `json:"title"`
}

// Synthesize turns text into speech with the user's preferred engine.
// Google TTS output is stored and returned as a URL with its duration;
// ElevenLabs output streams straight back as MP3 bytes.
func Synthesize(c *gin.Context) {
	userID := c.GetString("user_id")

	var input SynthesizeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	engine, _ := utils.Prefs.Get(userID, "engine")
	if engine == "" {
		engine = "google"
	}
	voice := input.Voice
	if voice == "" {
		voice, _ = utils.Prefs.Get(userID, "voice")
	}

	if engine == "elevenlabs" {
		audio, err := services.ElevenLabsSynthesize(input.Text, voice)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "audio/mpeg", audio)
		return
	}

	audio, err := services.SynthesizeText(c.Request.Context(), input.Text, voice, input.Rate)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	title := input.Title
	if title == "" {
		title = "speech"
	}
	filename := fmt.Sprintf("%s-%d.mp3", slug.Make(title), time.Now().UnixNano())

	audioURL, err := utils.UploadBytesToSupabase(audio, "audio", filename, "audio/mpeg")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store audio"})
		return
	}

	duration, err := services.GetMP3DurationFromURL(audioURL)
	if err != nil {
		// duration is informational; the audio is already stored
		fmt.Printf("could not probe duration for %s: %v\n", audioURL, err)
		duration = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"audio_url": audioURL,
		"duration":  duration,
	})
}

// Transcribe converts an uploaded audio recording into text.
func Transcribe(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file in request"})
		return
	}
	if err := services.ValidateUpload(fileHeader); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transcript, err := services.ElevenLabsTranscribe(fileHeader, c.PostForm("language_code"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transcript": transcript})
}

// SynthesizeDocument reads a whole document aloud: the extracted text is
// cleaned first so tables of contents and page numbers are not spoken.
func SynthesizeDocument(c *gin.Context) {
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

	text, err := services.CleanTextPipeline(c.Request.Context(), doc.ExtractedText)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not prepare text for speech"})
		return
	}

	voice, _ := utils.Prefs.Get(userID, "voice")
	audio, err := services.SynthesizeText(c.Request.Context(), text, voice, 1.0)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("%s-%d.mp3", slug.Make(doc.OriginalName), time.Now().UnixNano())
	audioURL, err := utils.UploadBytesToSupabase(audio, "audio", filename, "audio/mpeg")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store audio"})
		return
	}

	duration, err := services.GetMP3DurationFromURL(audioURL)
	if err != nil {
		fmt.Printf("could not probe duration for %s: %v\n", audioURL, err)
		duration = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"audio_url": audioURL,
		"duration":  duration,
	})
}
