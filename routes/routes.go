package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/eduguide/eduguide-backend/controllers"
	"github.com/eduguide/eduguide-backend/middleware"
	"github.com/eduguide/eduguide-backend/models"
	"github.com/eduguide/eduguide-backend/ws"
)

func SetupRouter(r *gin.Engine, db *gorm.DB) *gin.Engine {
	r.GET("/ping", controllers.Ping)
	r.GET("/health", controllers.Health)

	api := r.Group("/api")

	// public
	auth := api.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/logingoogle", controllers.GoogleLogin)
	}

	// any authenticated user
	me := api.Group("/me", middleware.AuthMiddleware(), middleware.DBMiddleware(db))
	{
		me.GET("", controllers.Me)
		me.POST("/role", controllers.SwitchRole)
		me.PUT("/preferences", controllers.UpdatePreferences)
		me.POST("/logout", controllers.Logout)
		me.GET("/progress", controllers.GetMyProgress)
		me.GET("/attempts", controllers.GetUserAttempts)
	}

	// documents and the generation pipeline, any authenticated user
	docs := api.Group("/documents", middleware.AuthMiddleware(), middleware.DBMiddleware(db))
	{
		docs.POST("", controllers.UploadDocument)
		docs.GET("", controllers.GetDocuments)
		docs.GET("/:id", controllers.GetDocument)
		docs.POST("/:id/reset", controllers.ResetDocument)
		docs.DELETE("/:id", controllers.DeleteDocument)
		docs.POST("/:id/generate/:kind", controllers.GenerateQuestions)
		docs.POST("/:id/bundle", controllers.GenerateBundle)
		docs.GET("/:id/bundle", controllers.GetBundle)
		docs.POST("/:id/speech", controllers.SynthesizeDocument)
	}

	sets := api.Group("/sets", middleware.AuthMiddleware(), middleware.DBMiddleware(db))
	{
		sets.GET("/:id", controllers.GetQuestionSet)
	}

	// generated PDF artifacts: view hands back a URL, download streams the blob
	artifacts := api.Group("/artifacts", middleware.AuthMiddleware())
	{
		artifacts.GET("/:artifact/view", controllers.ArtifactView)
		artifacts.GET("/:artifact/download", controllers.ArtifactDownload)
	}

	practice := api.Group("/practice", middleware.AuthMiddleware(), middleware.DBMiddleware(db))
	{
		practice.POST("/answer", controllers.SubmitAnswer)
	}

	speech := api.Group("/speech", middleware.AuthMiddleware())
	{
		speech.POST("/synthesize", controllers.Synthesize)
		speech.POST("/transcribe", controllers.Transcribe)
	}

	images := api.Group("/images", middleware.AuthMiddleware())
	{
		images.POST("/analyze", controllers.AnalyzeImage)
	}

	// the catalog is readable without an account (signup forms use it)
	subjects := api.Group("/subjects", middleware.OptionalAuthMiddleware(), middleware.DBMiddleware(db))
	{
		subjects.GET("", controllers.GetSubjects)
	}

	// teacher dashboard
	teacher := api.Group("/teacher",
		middleware.AuthMiddleware(),
		middleware.RequireRoles(string(models.RoleAdmin), string(models.RoleTeacher)),
		middleware.DBMiddleware(db))
	{
		teacher.GET("/progress", controllers.GetClassProgress)
		teacher.POST("/subjects", controllers.CreateSubject)
		teacher.DELETE("/subjects/:id", controllers.DeleteSubject)
	}

	// websockets authenticate via query token
	r.GET("/ws/documents/:id", ws.HandleDocumentWebSocket)
	r.GET("/ws/global", ws.HandleGlobalWebSocket)

	return r
}
