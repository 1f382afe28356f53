package models

import (
	"time"

	"github.com/google/uuid"
)

type Subject struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name       string    `gorm:"size:255;not null;unique" json:"name"`
	Department string    `gorm:"size:120" json:"department"`
	Status     bool      `gorm:"default:true;not null" json:"status"`
	Slug       string    `gorm:"size:255;uniqueIndex" json:"slug"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
