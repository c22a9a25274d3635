package controllers

import (
	"net/http"
	"taskflow/constants"
	"taskflow/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserController struct {
	DB *gorm.DB
}

func (uc *UserController) GetUsers(c *gin.Context) {
	var users []models.User
	uc.DB.Omit("password").Find(&users)
	c.JSON(http.StatusOK, users)
}

func (uc *UserController) UpdateUser(c *gin.Context) {
	id := c.Param("id")
	var user models.User

	if err := uc.DB.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var input struct {
		Role   string  `json:"role"`
		Avatar *string `json:"avatar"`
	}

	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Role != "" {
		switch input.Role {
		case constants.RoleUser, constants.RoleAgent, constants.RoleManager, constants.RoleAdmin:
			user.Role = input.Role
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
			return
		}
	}
	if input.Avatar != nil {
		user.Avatar = input.Avatar
	}

	uc.DB.Save(&user)

	user.Password = ""
	c.JSON(http.StatusOK, user)
}
