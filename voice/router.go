package voice

import (
	"fmt"
	"strings"

	"taskflow/analytics"
	"taskflow/constants"
	"taskflow/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const fallbackText = "Sorry, I didn't understand that. Say \"help\" to see what I can do."

const helpText = "I can create, list, complete, delete and assign tasks, " +
	"create and list projects and organizations, read your notifications, " +
	"and show your analytics and productivity. " +
	"Try: \"create task named write release notes\"."

// Response is what the agent returns for every query. The agent never
// fails an HTTP request; bad input comes back as guidance text.
type Response struct {
	Text string      `json:"text"`
	Data interface{} `json:"data,omitempty"`
}

// Router dispatches parsed commands to the same GORM-backed operations
// the REST controllers use.
type Router struct {
	DB        *gorm.DB
	Analytics *analytics.Service
}

// Dispatch executes one command for the given caller. The switch is
// exhaustive over the Intent enum.
func (r *Router) Dispatch(userID uint, role string, cmd Command) Response {
	switch cmd.Intent {
	case IntentCreateTask:
		return r.createTask(userID, cmd)
	case IntentListTasks:
		return r.listTasks(userID)
	case IntentCompleteTask:
		return r.completeTask(userID, role, cmd)
	case IntentDeleteTask:
		return r.deleteTask(userID, role, cmd)
	case IntentAssignTask:
		return r.assignTask(userID, role, cmd)
	case IntentCreateProject:
		return r.createProject(cmd)
	case IntentListProjects:
		return r.listProjects(userID)
	case IntentCreateOrganization:
		return r.createOrganization(userID, cmd)
	case IntentListOrganizations:
		return r.listOrganizations(userID)
	case IntentGetNotifications:
		return r.getNotifications(userID, cmd)
	case IntentGetAnalytics:
		return r.getAnalytics(userID, role)
	case IntentGetProductivity:
		return r.getProductivity(userID)
	case IntentHelp:
		return Response{Text: helpText}
	case IntentUnknown:
		return Response{Text: fallbackText}
	default:
		return Response{Text: fallbackText}
	}
}

func (r *Router) createTask(userID uint, cmd Command) Response {
	if cmd.Title == "" {
		return Response{Text: "What should the task be called? Try: create task named <title>."}
	}

	task := models.Task{
		Title:     cmd.Title,
		Status:    constants.TaskStatusOpen,
		Priority:  constants.TaskPriorityMedium,
		Type:      constants.TaskTypeTask,
		CreatorID: userID,
	}
	if err := r.DB.Create(&task).Error; err != nil {
		return Response{Text: "Something went wrong creating that task."}
	}
	return Response{Text: fmt.Sprintf("Created task %q.", task.Title), Data: task}
}

// findTaskByTitle resolves a title to a task the caller can touch:
// one they created or are assigned to.
func (r *Router) findTaskByTitle(userID uint, title string) (*models.Task, bool) {
	var task models.Task
	err := r.DB.
		Distinct("tasks.*").
		Joins("LEFT JOIN task_assignments ON task_assignments.task_id = tasks.id").
		Where("(tasks.creator_id = ? OR task_assignments.user_id = ?) AND LOWER(tasks.title) = ?",
			userID, userID, strings.ToLower(title)).
		First(&task).Error
	if err != nil {
		return nil, false
	}
	return &task, true
}

func (r *Router) completeTask(userID uint, role string, cmd Command) Response {
	if cmd.Title == "" {
		return Response{Text: "Which task should I complete? Try: complete task named <title>."}
	}

	task, ok := r.findTaskByTitle(userID, cmd.Title)
	if !ok {
		return Response{Text: fmt.Sprintf("I couldn't find a task named %q.", cmd.Title)}
	}

	task.Status = constants.TaskStatusDone
	if err := r.DB.Save(task).Error; err != nil {
		return Response{Text: "Something went wrong completing that task."}
	}

	if task.CreatorID != userID {
		r.DB.Create(&models.Notification{
			UserID:  task.CreatorID,
			Type:    "TASK_COMPLETED",
			Message: fmt.Sprintf("Task %q was completed", task.Title),
		})
	}
	return Response{Text: fmt.Sprintf("Marked %q as done.", task.Title), Data: task}
}

func (r *Router) deleteTask(userID uint, role string, cmd Command) Response {
	if cmd.Title == "" {
		return Response{Text: "Which task should I delete? Try: delete task named <title>."}
	}

	task, ok := r.findTaskByTitle(userID, cmd.Title)
	if !ok {
		return Response{Text: fmt.Sprintf("I couldn't find a task named %q.", cmd.Title)}
	}

	if err := r.DB.Delete(&models.Task{}, task.ID).Error; err != nil {
		return Response{Text: "Something went wrong deleting that task."}
	}
	return Response{Text: fmt.Sprintf("Deleted task %q.", task.Title)}
}

func (r *Router) assignTask(userID uint, role string, cmd Command) Response {
	if cmd.Title == "" || cmd.Assignee == "" {
		return Response{Text: "Tell me both the task and the person. Try: assign task named <title> to <name>."}
	}

	task, ok := r.findTaskByTitle(userID, cmd.Title)
	if !ok {
		return Response{Text: fmt.Sprintf("I couldn't find a task named %q.", cmd.Title)}
	}

	var assignee models.User
	if err := r.DB.Where("LOWER(name) LIKE ?", strings.ToLower(cmd.Assignee)+"%").
		First(&assignee).Error; err != nil {
		return Response{Text: fmt.Sprintf("I couldn't find anyone named %q.", cmd.Assignee)}
	}

	if err := r.DB.Model(task).Association("Assignees").Append(&assignee); err != nil {
		return Response{Text: "Something went wrong assigning that task."}
	}

	r.DB.Create(&models.Notification{
		UserID:  assignee.ID,
		Type:    "TASK_ASSIGNED",
		Message: fmt.Sprintf("You were assigned task %q", task.Title),
	})
	return Response{Text: fmt.Sprintf("Assigned %q to %s.", task.Title, assignee.Name), Data: task}
}

func (r *Router) listTasks(userID uint) Response {
	var tasks []models.Task
	err := r.DB.
		Distinct("tasks.*").
		Joins("LEFT JOIN task_assignments ON task_assignments.task_id = tasks.id").
		Where("tasks.creator_id = ? OR task_assignments.user_id = ?", userID, userID).
		Order("tasks.updated_at DESC").
		Limit(10).
		Find(&tasks).Error
	if err != nil {
		return Response{Text: "Something went wrong fetching your tasks."}
	}
	if len(tasks) == 0 {
		return Response{Text: "You have no tasks yet."}
	}
	return Response{Text: fmt.Sprintf("Here are your %d most recent tasks.", len(tasks)), Data: tasks}
}

// deriveKey builds a short project key from the initial of each word.
// Initials are taken per rune, so multibyte names stay valid UTF-8.
func deriveKey(name string) string {
	key := ""
	for _, w := range strings.Fields(name) {
		r := []rune(w)
		key += strings.ToUpper(string(r[0]))
	}
	if len([]rune(key)) < 2 {
		r := []rune(strings.ToUpper(name))
		if len(r) > 3 {
			r = r[:3]
		}
		key = string(r)
	}
	return key
}

// projectKey makes the derived key unique, falling back to a random
// suffix if numbered candidates keep colliding.
func (r *Router) projectKey(name string) string {
	key := deriveKey(name)

	candidate := key
	for i := 2; i < 50; i++ {
		var count int64
		r.DB.Model(&models.Project{}).Where("`key` = ?", candidate).Count(&count)
		if count == 0 {
			return candidate
		}
		candidate = fmt.Sprintf("%s%d", key, i)
	}
	return fmt.Sprintf("%s-%s", key, uuid.New().String()[:8])
}

func (r *Router) createProject(cmd Command) Response {
	if cmd.Name == "" {
		return Response{Text: "What should the project be called? Try: create project named <name>."}
	}

	project := models.Project{
		Name:   cmd.Name,
		Key:    r.projectKey(cmd.Name),
		Status: constants.ProjectStatusActive,
	}
	if err := r.DB.Create(&project).Error; err != nil {
		return Response{Text: "Something went wrong creating that project."}
	}
	return Response{Text: fmt.Sprintf("Created project %q (%s).", project.Name, project.Key), Data: project}
}

func (r *Router) listProjects(userID uint) Response {
	var projects []models.Project
	if err := r.DB.Order("updated_at DESC").Limit(10).Find(&projects).Error; err != nil {
		return Response{Text: "Something went wrong fetching projects."}
	}
	if len(projects) == 0 {
		return Response{Text: "There are no projects yet."}
	}
	return Response{Text: fmt.Sprintf("Found %d projects.", len(projects)), Data: projects}
}

func (r *Router) createOrganization(userID uint, cmd Command) Response {
	if cmd.Name == "" {
		return Response{Text: "What should the organization be called? Try: create organization named <name>."}
	}

	org := models.Organization{Name: cmd.Name}
	if err := r.DB.Create(&org).Error; err != nil {
		return Response{Text: "Something went wrong creating that organization."}
	}
	r.DB.Create(&models.OrganizationMember{
		OrganizationID: org.ID,
		UserID:         userID,
		Role:           constants.MemberRoleAdmin,
	})
	return Response{Text: fmt.Sprintf("Created organization %q.", org.Name), Data: org}
}

func (r *Router) listOrganizations(userID uint) Response {
	var orgs []models.Organization
	err := r.DB.
		Joins("JOIN organization_members ON organization_members.organization_id = organizations.id").
		Where("organization_members.user_id = ?", userID).
		Find(&orgs).Error
	if err != nil {
		return Response{Text: "Something went wrong fetching organizations."}
	}
	if len(orgs) == 0 {
		return Response{Text: "You don't belong to any organizations yet."}
	}
	return Response{Text: fmt.Sprintf("You belong to %d organizations.", len(orgs)), Data: orgs}
}

func (r *Router) getNotifications(userID uint, cmd Command) Response {
	q := r.DB.Where("user_id = ?", userID)
	if cmd.Unread {
		q = q.Where("`read` = ?", false)
	}

	var notifications []models.Notification
	if err := q.Order("created_at DESC").Limit(20).Find(&notifications).Error; err != nil {
		return Response{Text: "Something went wrong fetching notifications."}
	}
	if len(notifications) == 0 {
		if cmd.Unread {
			return Response{Text: "No unread notifications."}
		}
		return Response{Text: "No notifications."}
	}
	return Response{Text: fmt.Sprintf("You have %d notifications.", len(notifications)), Data: notifications}
}

// getAnalytics reuses the aggregator; callers without MANAGER or ADMIN
// simply get no team section instead of an error.
func (r *Router) getAnalytics(userID uint, role string) Response {
	taskStats, err := r.Analytics.ComputeTaskAnalytics(analytics.Scope{UserID: userID}, analytics.DefaultMonths)
	if err != nil {
		return Response{Text: "Something went wrong computing your analytics."}
	}

	data := map[string]interface{}{"tasks": taskStats}
	if role == constants.RoleManager || role == constants.RoleAdmin {
		if teamStats, err := r.Analytics.ComputeTeamAnalytics(nil); err == nil {
			data["team"] = teamStats
		}
	}
	return Response{Text: "Here are your analytics.", Data: data}
}

func (r *Router) getProductivity(userID uint) Response {
	stats, err := r.Analytics.ComputeProductivityAnalytics(analytics.Scope{UserID: userID}, analytics.DefaultWeeks)
	if err != nil {
		return Response{Text: "Something went wrong computing your productivity."}
	}
	return Response{
		Text: fmt.Sprintf("You completed %d tasks and your current streak is %d days.",
			stats.TotalCompleted, stats.CurrentStreak),
		Data: stats,
	}
}
