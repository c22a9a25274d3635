package controllers

import (
	"fmt"
	"net/http"
	"taskflow/constants"
	"taskflow/logging"
	"taskflow/middleware"
	"taskflow/models"
	"taskflow/utils"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TaskController struct {
	DB *gorm.DB
}

func (tc *TaskController) CreateTask(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var task models.Task
	if err := c.BindJSON(&task); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if task.Status == "" {
		task.Status = constants.TaskStatusOpen
	}
	if task.Priority == "" {
		task.Priority = constants.TaskPriorityMedium
	}
	if task.Type == "" {
		task.Type = constants.TaskTypeTask
	}
	if !constants.IsValidTaskStatus(task.Status) ||
		!constants.IsValidTaskPriority(task.Priority) ||
		!constants.IsValidTaskType(task.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status, priority or type"})
		return
	}

	task.CreatorID = identity.UserID

	if err := tc.DB.Create(&task).Error; err != nil {
		logging.Logger.WithField("error", err).Error("create task failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	for _, assignee := range task.Assignees {
		if assignee.ID != identity.UserID {
			tc.DB.Create(&models.Notification{
				UserID:  assignee.ID,
				Type:    "TASK_ASSIGNED",
				Message: fmt.Sprintf("You were assigned task %q", task.Title),
			})
		}
	}

	c.JSON(http.StatusOK, task)
}

func (tc *TaskController) GetTasks(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	q := tc.DB.
		Distinct("tasks.*").
		Joins("LEFT JOIN task_assignments ON task_assignments.task_id = tasks.id")

	if identity.Role != constants.RoleAdmin {
		q = q.Where("tasks.creator_id = ? OR task_assignments.user_id = ?", identity.UserID, identity.UserID)
	}
	if projectID := c.Query("project_id"); projectID != "" {
		q = q.Where("tasks.project_id = ?", projectID)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("tasks.status = ?", status)
	}

	var tasks []models.Task
	if err := q.Preload("Assignees").Preload("Tags").Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, tasks)
}

func (tc *TaskController) GetTask(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	id := c.Param("id")

	var task models.Task
	if err := tc.DB.
		Preload("Assignees").
		Preload("Tags").
		Preload("Comments").
		Preload("Attachments").
		Preload("Subtasks").
		First(&task, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	if !utils.CanAccessTask(task, identity.UserID, identity.Role, tc.DB) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
		return
	}

	c.JSON(http.StatusOK, task)
}

func (tc *TaskController) UpdateTask(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	id := c.Param("id")

	var task models.Task
	if err := tc.DB.First(&task, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	if !utils.CanAccessTask(task, identity.UserID, identity.Role, tc.DB) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
		return
	}

	var input struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Status      *string `json:"status"`
		Priority    *string `json:"priority"`
		Type        *string `json:"type"`
		DueDate     *time.Time `json:"due_date"`
		ProjectID   *uint      `json:"project_id"`
	}
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wasDone := task.Status == constants.TaskStatusDone

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !constants.IsValidTaskStatus(*input.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		task.Status = *input.Status
	}
	if input.Priority != nil {
		if !constants.IsValidTaskPriority(*input.Priority) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority"})
			return
		}
		task.Priority = *input.Priority
	}
	if input.Type != nil {
		if !constants.IsValidTaskType(*input.Type) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid type"})
			return
		}
		task.Type = *input.Type
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.ProjectID != nil {
		task.ProjectID = input.ProjectID
	}

	if err := tc.DB.Save(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !wasDone && task.Status == constants.TaskStatusDone && task.CreatorID != identity.UserID {
		tc.DB.Create(&models.Notification{
			UserID:  task.CreatorID,
			Type:    "TASK_COMPLETED",
			Message: fmt.Sprintf("Task %q was completed", task.Title),
		})
	}

	c.JSON(http.StatusOK, task)
}

func (tc *TaskController) DeleteTask(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	id := c.Param("id")

	var task models.Task
	if err := tc.DB.First(&task, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	if !utils.CanAccessTask(task, identity.UserID, identity.Role, tc.DB) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
		return
	}

	tc.DB.Delete(&models.Task{}, id)

	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

func (tc *TaskController) AssignUser(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	id := c.Param("id")

	var task models.Task
	if err := tc.DB.First(&task, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	if !utils.CanAccessTask(task, identity.UserID, identity.Role, tc.DB) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
		return
	}

	var input struct {
		UserID uint `json:"user_id"`
	}
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := tc.DB.First(&user, input.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := tc.DB.Model(&task).Association("Assignees").Append(&user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if user.ID != identity.UserID {
		tc.DB.Create(&models.Notification{
			UserID:  user.ID,
			Type:    "TASK_ASSIGNED",
			Message: fmt.Sprintf("You were assigned task %q", task.Title),
		})
	}

	c.JSON(http.StatusOK, gin.H{"message": "Assigned"})
}

func (tc *TaskController) UnassignUser(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	id := c.Param("id")

	var task models.Task
	if err := tc.DB.First(&task, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	if !utils.CanAccessTask(task, identity.UserID, identity.Role, tc.DB) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
		return
	}

	var user models.User
	if err := tc.DB.First(&user, c.Param("user_id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := tc.DB.Model(&task).Association("Assignees").Delete(&user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Unassigned"})
}

func (tc *TaskController) CreateComment(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	id := c.Param("id")

	var task models.Task
	if err := tc.DB.First(&task, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	if !utils.CanAccessTask(task, identity.UserID, identity.Role, tc.DB) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
		return
	}

	var comment models.Comment
	if err := c.BindJSON(&comment); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	comment.TaskID = task.ID
	comment.AuthorID = identity.UserID

	if err := tc.DB.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, comment)
}

func (tc *TaskController) GetComments(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var task models.Task
	if err := tc.DB.First(&task, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	if !utils.CanAccessTask(task, identity.UserID, identity.Role, tc.DB) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
		return
	}

	var comments []models.Comment
	if err := tc.DB.Where("task_id = ?", task.ID).Order("created_at ASC").Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (tc *TaskController) CreateAttachment(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	id := c.Param("id")

	var task models.Task
	if err := tc.DB.First(&task, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	if !utils.CanAccessTask(task, identity.UserID, identity.Role, tc.DB) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
		return
	}

	var attachment models.Attachment
	if err := c.BindJSON(&attachment); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	attachment.TaskID = task.ID
	attachment.UploaderID = identity.UserID

	if err := tc.DB.Create(&attachment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, attachment)
}

func (tc *TaskController) GetAttachments(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var task models.Task
	if err := tc.DB.First(&task, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	if !utils.CanAccessTask(task, identity.UserID, identity.Role, tc.DB) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
		return
	}

	var attachments []models.Attachment
	if err := tc.DB.Where("task_id = ?", task.ID).Order("created_at ASC").Find(&attachments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, attachments)
}

func (tc *TaskController) AttachTag(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	id := c.Param("id")

	var task models.Task
	if err := tc.DB.First(&task, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	if !utils.CanAccessTask(task, identity.UserID, identity.Role, tc.DB) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
		return
	}

	var input struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := c.BindJSON(&input); err != nil || input.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tag name required"})
		return
	}

	var tag models.Tag
	if err := tc.DB.Where("name = ?", input.Name).First(&tag).Error; err != nil {
		tag = models.Tag{Name: input.Name, Color: input.Color}
		if err := tc.DB.Create(&tag).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}

	if err := tc.DB.Model(&task).Association("Tags").Append(&tag); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, tag)
}

func (tc *TaskController) DetachTag(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var task models.Task
	if err := tc.DB.First(&task, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	if !utils.CanAccessTask(task, identity.UserID, identity.Role, tc.DB) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
		return
	}

	var tag models.Tag
	if err := tc.DB.First(&tag, c.Param("tag_id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tag not found"})
		return
	}

	if err := tc.DB.Model(&task).Association("Tags").Delete(&tag); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Removed"})
}
