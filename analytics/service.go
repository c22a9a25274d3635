package analytics

import (
	"time"

	"taskflow/constants"
	"taskflow/models"

	"gorm.io/gorm"
)

const (
	DefaultMonths = 6
	DefaultWeeks  = 4
	MaxWindow     = 24
)

// Service computes derived task statistics. It reads through the same
// GORM handle the controllers use and never mutates state.
type Service struct {
	DB *gorm.DB
}

// ClampWindow applies the default for non-positive window sizes and the
// ceiling for oversized ones.
func ClampWindow(n, fallback int) int {
	if n < 1 {
		return fallback
	}
	if n > MaxWindow {
		return MaxWindow
	}
	return n
}

// scopedTasks fetches every task where the scope user is creator or
// assignee, optionally restricted to one organization's projects.
func (s *Service) scopedTasks(scope Scope) ([]models.Task, error) {
	q := s.DB.Model(&models.Task{}).
		Distinct("tasks.*").
		Joins("LEFT JOIN task_assignments ON task_assignments.task_id = tasks.id").
		Where("tasks.creator_id = ? OR task_assignments.user_id = ?", scope.UserID, scope.UserID)

	if scope.OrganizationID != nil {
		q = q.Joins("JOIN projects ON projects.id = tasks.project_id").
			Where("projects.organization_id = ?", *scope.OrganizationID)
	}
	if scope.ProjectID != nil {
		q = q.Where("tasks.project_id = ?", *scope.ProjectID)
	}

	var tasks []models.Task
	if err := q.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Service) projectNames(tasks []models.Task) (map[uint]string, error) {
	ids := make([]uint, 0)
	seen := map[uint]bool{}
	for _, t := range tasks {
		if t.ProjectID != nil && !seen[*t.ProjectID] {
			seen[*t.ProjectID] = true
			ids = append(ids, *t.ProjectID)
		}
	}

	names := map[uint]string{}
	if len(ids) == 0 {
		return names, nil
	}

	var projects []models.Project
	if err := s.DB.Where("id IN ?", ids).Find(&projects).Error; err != nil {
		return nil, err
	}
	for _, p := range projects {
		names[p.ID] = p.Name
	}
	return names, nil
}

func (s *Service) ComputeTaskAnalytics(scope Scope, months int) (*TaskAnalytics, error) {
	months = ClampWindow(months, DefaultMonths)

	tasks, err := s.scopedTasks(scope)
	if err != nil {
		return nil, err
	}
	names, err := s.projectNames(tasks)
	if err != nil {
		return nil, err
	}

	return &TaskAnalytics{
		TasksByStatus:   histogramByStatus(tasks),
		TasksByPriority: histogramByPriority(tasks),
		TasksByProject:  histogramByProject(tasks, names),
		TasksByMonth:    monthlyCompleted(tasks, months, time.Now()),
		TasksByType:     histogramByType(tasks),
	}, nil
}

func (s *Service) ComputeProductivityAnalytics(scope Scope, weeks int) (*ProductivityAnalytics, error) {
	weeks = ClampWindow(weeks, DefaultWeeks)

	tasks, err := s.scopedTasks(scope)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &ProductivityAnalytics{
		WeeklyProductivity: weeklyCompleted(tasks, weeks, now),
		AvgCompletionTime:  averageCompletionDays(tasks),
		CurrentStreak:      currentStreak(tasks, now),
		TotalCompleted:     totalCompleted(tasks),
	}, nil
}

// ComputeTeamAnalytics aggregates per-member workloads across an
// optional organization scope. Authorization is the caller's concern.
func (s *Service) ComputeTeamAnalytics(organizationID *uint) (*TeamAnalytics, error) {
	var members []models.User
	memberQuery := s.DB.Where("role IN ?", []string{constants.RoleUser, constants.RoleAgent})
	if organizationID != nil {
		memberQuery = memberQuery.
			Joins("JOIN organization_members ON organization_members.user_id = users.id").
			Where("organization_members.organization_id = ?", *organizationID)
	}
	if err := memberQuery.Find(&members).Error; err != nil {
		return nil, err
	}

	assignedByUser := map[uint][]models.Task{}
	for _, u := range members {
		q := s.DB.Model(&models.Task{}).
			Joins("JOIN task_assignments ON task_assignments.task_id = tasks.id").
			Where("task_assignments.user_id = ?", u.ID)
		if organizationID != nil {
			q = q.Joins("JOIN projects ON projects.id = tasks.project_id").
				Where("projects.organization_id = ?", *organizationID)
		}

		var tasks []models.Task
		if err := q.Find(&tasks).Error; err != nil {
			return nil, err
		}
		assignedByUser[u.ID] = tasks
	}

	projectQuery := s.DB.Model(&models.Project{})
	if organizationID != nil {
		projectQuery = projectQuery.Where("organization_id = ?", *organizationID)
	}
	var projects []models.Project
	if err := projectQuery.Find(&projects).Error; err != nil {
		return nil, err
	}
	projectStatus := map[string]int{}
	for _, p := range projects {
		projectStatus[p.Status]++
	}

	return &TeamAnalytics{
		TeamProductivity: memberProductivity(members, assignedByUser),
		ProjectStatus:    projectStatus,
		TasksByAssignee:  openAssigneeCounts(members, assignedByUser),
	}, nil
}
