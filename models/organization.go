package models

import "time"

type Organization struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type OrganizationMember struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganizationID uint      `gorm:"uniqueIndex:idx_org_user" json:"organization_id"`
	UserID         uint      `gorm:"uniqueIndex:idx_org_user" json:"user_id"`
	Role           string    `gorm:"default:'MEMBER'" json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}

type Invitation struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganizationID uint      `json:"organization_id"`
	Email          string    `json:"email"`
	Role           string    `gorm:"default:'MEMBER'" json:"role"`
	Token          string    `gorm:"uniqueIndex" json:"token"`
	Status         string    `gorm:"default:'PENDING'" json:"status"`
	InviterID      uint      `json:"inviter_id"`
	CreatedAt      time.Time `json:"created_at"`
}
