package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/eduguide/eduguide-backend/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB() {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=require",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		log.Fatal("cannot connect to database: ", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("cannot get sql.DB: ", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Document{},
		&models.QuestionSet{},
		&models.QuestionItem{},
		&models.PracticeAttempt{},
		&models.Subject{},
		&models.ProgressStat{},
	); err != nil {
		log.Fatal("migration failed: ", err)
	}

	DB = db
	log.Println("database connected")
}
