package models

import "time"

type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `gorm:"default:'OPEN'" json:"status"`
	Priority    string     `gorm:"default:'MEDIUM'" json:"priority"`
	Type        string     `gorm:"default:'TASK'" json:"type"`
	DueDate     *time.Time `json:"due_date"`
	ProjectID   *uint      `json:"project_id"`
	CreatorID   uint       `json:"creator_id"`
	ParentID    *uint      `json:"parent_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Assignees   []User       `gorm:"many2many:task_assignments;" json:"assignees,omitempty"`
	Tags        []Tag        `gorm:"many2many:task_tags;" json:"tags,omitempty"`
	Comments    []Comment    `json:"comments,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
	Subtasks    []Task       `gorm:"foreignKey:ParentID" json:"subtasks,omitempty"`
}

type Tag struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"uniqueIndex" json:"name"`
	Color string `json:"color"`
}

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TaskID    uint      `json:"task_id"`
	AuthorID  uint      `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type Attachment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TaskID     uint      `json:"task_id"`
	UploaderID uint      `json:"uploader_id"`
	FileName   string    `json:"file_name"`
	URL        string    `json:"url"`
	Size       int64     `json:"size"`
	CreatedAt  time.Time `json:"created_at"`
}
