package controllers

import (
	"net/http"
	"taskflow/constants"
	"taskflow/logging"
	"taskflow/middleware"
	"taskflow/models"
	"taskflow/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrganizationController struct {
	DB *gorm.DB
}

func (oc *OrganizationController) CreateOrganization(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var org models.Organization
	if err := c.BindJSON(&org); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if org.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	if err := oc.DB.Create(&org).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	// The creator starts out as an organization admin.
	oc.DB.Create(&models.OrganizationMember{
		OrganizationID: org.ID,
		UserID:         identity.UserID,
		Role:           constants.MemberRoleAdmin,
	})

	logging.Logger.WithField("organization_id", org.ID).Info("organization created")

	c.JSON(http.StatusOK, org)
}

func (oc *OrganizationController) GetOrganizations(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	q := oc.DB.Model(&models.Organization{})
	if identity.Role != constants.RoleAdmin {
		q = q.Joins("JOIN organization_members ON organization_members.organization_id = organizations.id").
			Where("organization_members.user_id = ?", identity.UserID)
	}

	var orgs []models.Organization
	if err := q.Find(&orgs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, orgs)
}

func (oc *OrganizationController) GetOrganization(c *gin.Context) {
	var org models.Organization
	if err := oc.DB.First(&org, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		return
	}
	c.JSON(http.StatusOK, org)
}

func (oc *OrganizationController) UpdateOrganization(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var org models.Organization
	if err := oc.DB.First(&org, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		return
	}

	if identity.Role != constants.RoleAdmin && !utils.IsOrgAdmin(oc.DB, org.ID, identity.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
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
		org.Name = *input.Name
	}
	if input.Description != nil {
		org.Description = *input.Description
	}

	if err := oc.DB.Save(&org).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, org)
}

func (oc *OrganizationController) DeleteOrganization(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var org models.Organization
	if err := oc.DB.First(&org, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		return
	}

	if identity.Role != constants.RoleAdmin && !utils.IsOrgAdmin(oc.DB, org.ID, identity.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
		return
	}

	oc.DB.Where("organization_id = ?", org.ID).Delete(&models.OrganizationMember{})
	oc.DB.Delete(&models.Organization{}, org.ID)

	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

func (oc *OrganizationController) GetMembers(c *gin.Context) {
	var members []models.OrganizationMember
	if err := oc.DB.Where("organization_id = ?", c.Param("id")).Find(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, members)
}

func (oc *OrganizationController) AddMember(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var org models.Organization
	if err := oc.DB.First(&org, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		return
	}

	if identity.Role != constants.RoleAdmin && !utils.IsOrgAdmin(oc.DB, org.ID, identity.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
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

	member := models.OrganizationMember{
		OrganizationID: org.ID,
		UserID:         input.UserID,
		Role:           input.Role,
	}
	if err := oc.DB.Create(&member).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User is already a member"})
		return
	}

	oc.DB.Create(&models.Notification{
		UserID:  input.UserID,
		Type:    "ORG_MEMBER_ADDED",
		Message: "You were added to organization " + org.Name,
	})

	c.JSON(http.StatusOK, member)
}

func (oc *OrganizationController) RemoveMember(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var org models.Organization
	if err := oc.DB.First(&org, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		return
	}

	if identity.Role != constants.RoleAdmin && !utils.IsOrgAdmin(oc.DB, org.ID, identity.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
		return
	}

	oc.DB.Where("organization_id = ? AND user_id = ?", org.ID, c.Param("user_id")).
		Delete(&models.OrganizationMember{})

	c.JSON(http.StatusOK, gin.H{"message": "Removed"})
}

func (oc *OrganizationController) CreateInvitation(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var org models.Organization
	if err := oc.DB.First(&org, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		return
	}

	if identity.Role != constants.RoleAdmin && !utils.IsOrgAdmin(oc.DB, org.ID, identity.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
		return
	}

	var input struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := c.BindJSON(&input); err != nil || input.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}
	if input.Role == "" {
		input.Role = constants.MemberRoleMember
	}

	invitation := models.Invitation{
		OrganizationID: org.ID,
		Email:          input.Email,
		Role:           input.Role,
		Token:          uuid.New().String(),
		Status:         constants.InvitationPending,
		InviterID:      identity.UserID,
	}
	if err := oc.DB.Create(&invitation).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, invitation)
}

func (oc *OrganizationController) GetInvitations(c *gin.Context) {
	var invitations []models.Invitation
	if err := oc.DB.Where("organization_id = ?", c.Param("id")).Find(&invitations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, invitations)
}

// AcceptInvitation redeems a pending invitation token for the caller
// and adds them to the organization with the invited role.
func (oc *OrganizationController) AcceptInvitation(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var invitation models.Invitation
	if err := oc.DB.
		Where("token = ? AND status = ?", c.Param("token"), constants.InvitationPending).
		First(&invitation).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invitation not found"})
		return
	}

	member := models.OrganizationMember{
		OrganizationID: invitation.OrganizationID,
		UserID:         identity.UserID,
		Role:           invitation.Role,
	}
	if err := oc.DB.Create(&member).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User is already a member"})
		return
	}

	invitation.Status = constants.InvitationAccepted
	oc.DB.Save(&invitation)

	c.JSON(http.StatusOK, member)
}
