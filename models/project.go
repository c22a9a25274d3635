package models

import "time"

type Project struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `json:"name"`
	Key            string    `gorm:"uniqueIndex;size:16" json:"key"`
	Description    string    `json:"description"`
	OrganizationID *uint     `json:"organization_id"`
	Status         string    `gorm:"default:'ACTIVE'" json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
