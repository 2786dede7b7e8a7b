package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/haha7000/Promise-Cafe-Kiosk/config"
	"github.com/haha7000/Promise-Cafe-Kiosk/middleware"
	"github.com/haha7000/Promise-Cafe-Kiosk/models"
	"github.com/haha7000/Promise-Cafe-Kiosk/services"
)

// LoginRequest represents the administrator login request
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/v1/auth/login - verifies credentials and issues an
// access token
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Username and password are required",
			},
		})
		return
	}

	db := config.GetDB()
	var user models.User
	err := db.Where("username = ?", req.Username).First(&user).Error
	if err != nil || !services.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CREDENTIALS",
				"message": "Username or password is incorrect",
			},
		})
		return
	}

	now := time.Now()
	user.LastLogin = &now
	if err := db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update login time",
			},
		})
		return
	}

	token, err := services.GenerateToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TOKEN_ERROR",
				"message": "Failed to issue access token",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"access_token": token,
			"token_type":   "bearer",
			"user":         buildUserResponse(&user),
		},
	})
}

// VerifyToken handles GET /api/v1/auth/verify - returns the authenticated
// administrator
func VerifyToken(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    buildUserResponse(user),
	})
}

func buildUserResponse(user *models.User) gin.H {
	return gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"name":       user.Name,
		"role":       user.Role,
		"last_login": user.LastLogin,
	}
}
