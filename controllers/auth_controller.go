package controllers

import (
	"net/http"
	"os"

	"cloud.google.com/go/auth/credentials/idtoken"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/eduguide/eduguide-backend/config"
	"github.com/eduguide/eduguide-backend/models"
	"github.com/eduguide/eduguide-backend/utils"
)

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.User
	if err := config.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is already in use"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}

	// every new account starts as a student; roles are switched explicitly
	newUser := models.User{
		FullName: input.FullName,
		Email:    input.Email,
		Password: string(hashed),
		Role:     models.RoleStudent,
	}

	if err := config.DB.Create(&newUser).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user"})
		return
	}

	newUser.Password = ""
	c.JSON(http.StatusCreated, gin.H{
		"message": "registration successful",
		"user":    newUser,
	})
}

func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "wrong email or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "wrong email or password"})
		return
	}

	token, err := utils.GenerateToken(user.ID.String(), string(user.Role))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create token"})
		return
	}

	// refresh the preference mirror for this session
	utils.Prefs.Clear(user.ID.String())
	utils.Prefs.Set(user.ID.String(), "role", string(user.Role))
	utils.Prefs.Set(user.ID.String(), "voice", user.Voice)
	utils.Prefs.Set(user.ID.String(), "engine", user.Engine)

	c.JSON(http.StatusOK, gin.H{
		"message":  "login successful",
		"token":    token,
		"redirect": user.Role.DashboardPath(),
		"user": gin.H{
			"id":        user.ID,
			"email":     user.Email,
			"full_name": user.FullName,
			"role":      user.Role,
		},
	})
}

type GoogleLoginInput struct {
	IDToken string `json:"id_token" binding:"required"`
}

func GoogleLogin(c *gin.Context) {
	var input GoogleLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payload, err := idtoken.Validate(c, input.IDToken, os.Getenv("GOOGLE_CLIENT_ID"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid Google token"})
		return
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Google token carried no email"})
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", email).First(&user).Error; err != nil {
		// first Google sign-in creates the account, defaulting to student
		user = models.User{
			FullName: name,
			Email:    email,
			Password: "-",
			Role:     models.RoleStudent,
		}
		if err := config.DB.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user"})
			return
		}
	}

	token, err := utils.GenerateToken(user.ID.String(), string(user.Role))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create token"})
		return
	}

	utils.Prefs.Clear(user.ID.String())
	utils.Prefs.Set(user.ID.String(), "role", string(user.Role))

	c.JSON(http.StatusOK, gin.H{
		"message":  "login successful",
		"token":    token,
		"redirect": user.Role.DashboardPath(),
		"user": gin.H{
			"id":        user.ID,
			"email":     user.Email,
			"full_name": user.FullName,
			"role":      user.Role,
		},
	})
}

// Me returns the authenticated user.
func Me(c *gin.Context) {
	userID := c.GetString("user_id")

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	user.Password = ""
	c.JSON(http.StatusOK, gin.H{"user": user})
}

type SwitchRoleInput struct {
	Role string `json:"role" binding:"required,oneof=student teacher"`
}

// SwitchRole updates the user's role, refreshes the cached mirror, and tells
// the client which dashboard to navigate to.
func SwitchRole(c *gin.Context) {
	userID := c.GetString("user_id")

	var input SwitchRoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := models.UserRole(input.Role)
	if err := config.DB.Model(&models.User{}).Where("id = ?", userID).Update("role", role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update role"})
		return
	}

	c.JSON(http.StatusOK, applyRoleSwitch(userID, role))
}

// applyRoleSwitch refreshes the cached role and builds the response telling
// the client which dashboard to navigate to.
func applyRoleSwitch(userID string, role models.UserRole) gin.H {
	utils.Prefs.Set(userID, "role", string(role))
	return gin.H{
		"message":  "role updated",
		"role":     role,
		"redirect": role.DashboardPath(),
	}
}

type PreferencesInput struct {
	Voice  string `json:"voice"`
	Engine string `json:"engine" binding:"omitempty,oneof=google elevenlabs"`
}

// UpdatePreferences persists voice/engine choices and mirrors them in cache.
func UpdatePreferences(c *gin.Context) {
	userID := c.GetString("user_id")

	var input PreferencesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if input.Voice != "" {
		updates["voice"] = input.Voice
	}
	if input.Engine != "" {
		updates["engine"] = input.Engine
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}

	if err := config.DB.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save preferences"})
		return
	}

	if input.Voice != "" {
		utils.Prefs.Set(userID, "voice", input.Voice)
	}
	if input.Engine != "" {
		utils.Prefs.Set(userID, "engine", input.Engine)
	}

	c.JSON(http.StatusOK, gin.H{"message": "preferences saved"})
}

// Logout clears the server-side preference mirror. The token itself simply
// expires.
func Logout(c *gin.Context) {
	userID := c.GetString("user_id")
	utils.Prefs.Clear(userID)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
