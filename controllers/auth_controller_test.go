package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eduguide/eduguide-backend/models"
	"github.com/eduguide/eduguide-backend/utils"
)

func TestRoleSwitchUpdatesCacheAndRedirects(t *testing.T) {
	userID := "switch-user-1"
	utils.Prefs.Clear(userID)

	resp := applyRoleSwitch(userID, models.RoleTeacher)

	assert.Equal(t, "/teacher-dashboard", resp["redirect"])
	assert.Equal(t, models.RoleTeacher, resp["role"])

	cached, ok := utils.Prefs.Get(userID, "role")
	assert.True(t, ok)
	assert.Equal(t, "teacher", cached)
}

func TestRoleSwitchBackToStudent(t *testing.T) {
	userID := "switch-user-2"
	utils.Prefs.Set(userID, "role", "teacher")

	resp := applyRoleSwitch(userID, models.RoleStudent)

	assert.Equal(t, "/dashboard", resp["redirect"])
	cached, _ := utils.Prefs.Get(userID, "role")
	assert.Equal(t, "student", cached)
}
