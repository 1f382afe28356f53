package models

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleTeacher UserRole = "teacher"
	RoleStudent UserRole = "student"
)

// DashboardPath is where a user of this role lands after login or after
// being bounced off a route their role cannot access.
func (r UserRole) DashboardPath() string {
	if r == RoleTeacher {
		return "/teacher-dashboard"
	}
	return "/dashboard"
}

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FullName  string    `gorm:"size:150;not null" json:"full_name"`
	Email     string    `gorm:"size:150;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	Role      UserRole  `gorm:"type:varchar(20);not null;default:'student'" json:"role"`
	Voice     string    `gorm:"size:80" json:"voice"`  // preferred TTS voice
	Engine    string    `gorm:"size:40" json:"engine"` // preferred TTS engine (google|elevenlabs)
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Documents []Document        `json:"documents"`
	Sets      []QuestionSet     `gorm:"foreignKey:CreatedBy" json:"sets"`
	Attempts  []PracticeAttempt `json:"attempts"`
}
