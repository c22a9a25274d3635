package utils

import (
	"os"
	"taskflow/constants"
	"taskflow/models"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var jwtSecret = []byte(func() string {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		return secret
	}
	return "supersecretkey"
}())

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword(
		[]byte(password),
		bcrypt.DefaultCost,
	)
	return string(bytes), err
}

func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword(
		[]byte(hash),
		[]byte(password),
	)
	return err == nil
}

func GenerateJWT(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(time.Hour * 24).Unix(),
	}

	token := jwt.NewWithClaims(
		jwt.SigningMethodHS256,
		claims,
	)

	return token.SignedString(jwtSecret)
}

func JwtSecret() []byte {
	return jwtSecret
}

// OrgRole returns the caller's membership role in an organization,
// or "" when they are not a member.
func OrgRole(db *gorm.DB, orgID, userID uint) string {
	var member models.OrganizationMember
	if err := db.
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		First(&member).Error; err != nil {
		return ""
	}
	return member.Role
}

func IsOrgMember(db *gorm.DB, orgID, userID uint) bool {
	return OrgRole(db, orgID, userID) != ""
}

func IsOrgAdmin(db *gorm.DB, orgID, userID uint) bool {
	return OrgRole(db, orgID, userID) == constants.MemberRoleAdmin
}

// IsTaskAssignee reports whether the user appears in the task's
// assignment join table.
func IsTaskAssignee(db *gorm.DB, taskID, userID uint) bool {
	var count int64
	db.Table("task_assignments").
		Where("task_id = ? AND user_id = ?", taskID, userID).
		Count(&count)
	return count > 0
}

func CanAccessTask(
	task models.Task,
	userID uint,
	role string,
	db *gorm.DB,
) bool {

	if role == constants.RoleAdmin {
		return true
	}

	if task.CreatorID == userID || IsTaskAssignee(db, task.ID, userID) {
		return true
	}

	// Managers can reach any task of an organization they belong to.
	if role == constants.RoleManager && task.ProjectID != nil {
		var project models.Project
		if err := db.First(&project, *task.ProjectID).Error; err != nil {
			return false
		}
		if project.OrganizationID != nil {
			return IsOrgMember(db, *project.OrganizationID, userID)
		}
	}

	return false
}
