package controllers

import (
	"net/http"
	"taskflow/constants"
	"taskflow/middleware"
	"taskflow/models"
	"taskflow/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TeamController struct {
	DB *gorm.DB
}

func (tc *TeamController) CreateTeam(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var team models.Team
	if err := c.BindJSON(&team); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if team.Name == "" || team.OrganizationID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and organization_id are required"})
		return
	}

	if identity.Role != constants.RoleAdmin && !utils.IsOrgMember(tc.DB, team.OrganizationID, identity.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
		return
	}

	if err := tc.DB.Create(&team).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, team)
}

func (tc *TeamController) GetTeams(c *gin.Context) {
	q := tc.DB.Model(&models.Team{})
	if orgID := c.Query("organization_id"); orgID != "" {
		q = q.Where("organization_id = ?", orgID)
	}

	var teams []models.Team
	if err := q.Find(&teams).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, teams)
}

func (tc *TeamController) GetTeam(c *gin.Context) {
	var team models.Team
	if err := tc.DB.First(&team, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		return
	}
	c.JSON(http.StatusOK, team)
}

func (tc *TeamController) UpdateTeam(c *gin.Context) {
	var team models.Team
	if err := tc.DB.First(&team, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		return
	}

	var input struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Name != nil {
		team.Name = *input.Name
	}
	if input.Description != nil {
		team.Description = *input.Description
	}

	if err := tc.DB.Save(&team).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, team)
}

func (tc *TeamController) DeleteTeam(c *gin.Context) {
	tc.DB.Where("team_id = ?", c.Param("id")).Delete(&models.TeamMember{})
	tc.DB.Delete(&models.Team{}, c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

func (tc *TeamController) GetMembers(c *gin.Context) {
	var members []models.TeamMember
	if err := tc.DB.Where("team_id = ?", c.Param("id")).Find(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, members)
}

func (tc *TeamController) AddMember(c *gin.Context) {
	var team models.Team
	if err := tc.DB.First(&team, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		return
	}

	var input struct {
		UserID uint   `json:"user_id"`
		Role   string `json:"role"`
	}
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Role == "" {
		input.Role = constants.MemberRoleMember
	}

	// Team members must already belong to the team's organization.
	if !utils.IsOrgMember(tc.DB, team.OrganizationID, input.UserID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User is not a member of the organization"})
		return
	}

	member := models.TeamMember{TeamID: team.ID, UserID: input.UserID, Role: input.Role}
	if err := tc.DB.Create(&member).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User is already a member"})
		return
	}

	c.JSON(http.StatusOK, member)
}

func (tc *TeamController) RemoveMember(c *gin.Context) {
	tc.DB.Where("team_id = ? AND user_id = ?", c.Param("id"), c.Param("user_id")).
		Delete(&models.TeamMember{})
	c.JSON(http.StatusOK, gin.H{"message": "Removed"})
}
