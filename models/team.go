package models

import "time"

type Team struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	OrganizationID uint      `json:"organization_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type TeamMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TeamID    uint      `gorm:"uniqueIndex:idx_team_user" json:"team_id"`
	UserID    uint      `gorm:"uniqueIndex:idx_team_user" json:"user_id"`
	Role      string    `gorm:"default:'MEMBER'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
