package analytics

import (
	"math"
	"sort"
	"strconv"
	"time"

	"taskflow/constants"
	"taskflow/models"
)

// Scope constrains an aggregation to tasks where the user is creator or
// assignee, optionally narrowed to one organization or project.
// A nil OrganizationID means no organization restriction.
type Scope struct {
	UserID         uint
	OrganizationID *uint
	ProjectID      *uint
}

type MonthBucket struct {
	Month          string `json:"month"`
	CompletedTasks int    `json:"completedTasks"`
}

type DayBucket struct {
	Day       string `json:"day"`
	Completed int    `json:"completed"`
}

type WeekBucket struct {
	Week      string      `json:"week"`
	StartDate string      `json:"startDate"`
	EndDate   string      `json:"endDate"`
	Completed int         `json:"completed"`
	Days      []DayBucket `json:"days,omitempty"`
}

type TaskAnalytics struct {
	TasksByStatus   map[string]int `json:"tasksByStatus"`
	TasksByPriority map[string]int `json:"tasksByPriority"`
	TasksByProject  map[string]int `json:"tasksByProject"`
	TasksByMonth    []MonthBucket  `json:"tasksByMonth"`
	TasksByType     map[string]int `json:"tasksByType"`
}

type ProductivityAnalytics struct {
	WeeklyProductivity []WeekBucket `json:"weeklyProductivity"`
	AvgCompletionTime  float64      `json:"avgCompletionTime"`
	CurrentStreak      int          `json:"currentStreak"`
	TotalCompleted     int          `json:"totalCompleted"`
}

type MemberProductivity struct {
	UserID         uint   `json:"userId"`
	Name           string `json:"name"`
	AssignedTasks  int    `json:"assignedTasks"`
	CompletedTasks int    `json:"completedTasks"`
	CompletionRate int    `json:"completionRate"`
}

type AssigneeCount struct {
	UserID    uint   `json:"userId"`
	Name      string `json:"name"`
	OpenTasks int    `json:"openTasks"`
}

type TeamAnalytics struct {
	TeamProductivity []MemberProductivity `json:"teamProductivity"`
	ProjectStatus    map[string]int       `json:"projectStatus"`
	TasksByAssignee  []AssigneeCount      `json:"tasksByAssignee"`
}

func histogramByStatus(tasks []models.Task) map[string]int {
	out := map[string]int{}
	for _, t := range tasks {
		out[t.Status]++
	}
	return out
}

func histogramByPriority(tasks []models.Task) map[string]int {
	out := map[string]int{}
	for _, t := range tasks {
		out[t.Priority]++
	}
	return out
}

func histogramByType(tasks []models.Task) map[string]int {
	out := map[string]int{}
	for _, t := range tasks {
		out[t.Type]++
	}
	return out
}

// histogramByProject labels counts with project names; tasks without a
// project fall under "No project".
func histogramByProject(tasks []models.Task, projectNames map[uint]string) map[string]int {
	out := map[string]int{}
	for _, t := range tasks {
		label := "No project"
		if t.ProjectID != nil {
			if name, ok := projectNames[*t.ProjectID]; ok {
				label = name
			}
		}
		out[label]++
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek normalizes to the Monday of t's week.
func startOfWeek(t time.Time) time.Time {
	d := startOfDay(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func isSameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func isCompleted(t models.Task) bool {
	return t.Status == constants.TaskStatusDone
}

// monthlyCompleted produces exactly `months` trailing calendar-month
// buckets of DONE counts, oldest first. A task's UpdatedAt is its
// completion timestamp when DONE.
func monthlyCompleted(tasks []models.Task, months int, now time.Time) []MonthBucket {
	buckets := make([]MonthBucket, 0, months)
	for i := months - 1; i >= 0; i-- {
		start := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, now.Location())
		end := start.AddDate(0, 1, 0)

		count := 0
		for _, t := range tasks {
			if isCompleted(t) && !t.UpdatedAt.Before(start) && t.UpdatedAt.Before(end) {
				count++
			}
		}

		buckets = append(buckets, MonthBucket{
			Month:          start.Format("January 2006"),
			CompletedTasks: count,
		})
	}
	return buckets
}

// weeklyCompleted produces `weeks` trailing Monday-start week buckets,
// oldest first. Only the most recent bucket carries the day-by-day
// breakdown.
func weeklyCompleted(tasks []models.Task, weeks int, now time.Time) []WeekBucket {
	thisWeek := startOfWeek(now)

	buckets := make([]WeekBucket, 0, weeks)
	for i := weeks - 1; i >= 0; i-- {
		start := thisWeek.AddDate(0, 0, -7*i)
		end := start.AddDate(0, 0, 7)

		count := 0
		for _, t := range tasks {
			if isCompleted(t) && !t.UpdatedAt.Before(start) && t.UpdatedAt.Before(end) {
				count++
			}
		}

		bucket := WeekBucket{
			Week:      "Week " + strconv.Itoa(weeks-i),
			StartDate: start.Format("Jan 02"),
			EndDate:   end.AddDate(0, 0, -1).Format("Jan 02"),
			Completed: count,
		}

		if i == 0 {
			for d := 0; d < 7; d++ {
				day := start.AddDate(0, 0, d)
				completed := 0
				for _, t := range tasks {
					if isCompleted(t) && isSameDay(t.UpdatedAt, day) {
						completed++
					}
				}
				bucket.Days = append(bucket.Days, DayBucket{
					Day:       day.Format("Mon"),
					Completed: completed,
				})
			}
		}

		buckets = append(buckets, bucket)
	}
	return buckets
}

// averageCompletionDays is the mean of (UpdatedAt - CreatedAt) in days
// over DONE tasks, rounded to one decimal; 0 when none exist.
func averageCompletionDays(tasks []models.Task) float64 {
	var sum float64
	var n int
	for _, t := range tasks {
		if isCompleted(t) {
			sum += t.UpdatedAt.Sub(t.CreatedAt).Hours() / 24
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Round(sum/float64(n)*10) / 10
}

// currentStreak counts consecutive days ending today with at least one
// completion. Completion days are deduplicated to calendar days before
// the backward walk, so several tasks finished the same day count once.
// The walk steps by calendar date, not elapsed hours, so short and long
// DST-transition days still count as one day each.
func currentStreak(tasks []models.Task, now time.Time) int {
	type calendarDay struct {
		year  int
		month time.Month
		day   int
	}
	dayOf := func(t time.Time) calendarDay {
		return calendarDay{t.Year(), t.Month(), t.Day()}
	}

	days := map[calendarDay]bool{}
	for _, t := range tasks {
		if isCompleted(t) {
			days[dayOf(t.UpdatedAt.In(now.Location()))] = true
		}
	}

	streak := 0
	for day := startOfDay(now); days[dayOf(day)]; day = day.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}

func totalCompleted(tasks []models.Task) int {
	n := 0
	for _, t := range tasks {
		if isCompleted(t) {
			n++
		}
	}
	return n
}

// memberProductivity derives per-member assigned/completed counts and
// completion rates, sorted by rate descending.
func memberProductivity(members []models.User, assignedByUser map[uint][]models.Task) []MemberProductivity {
	out := make([]MemberProductivity, 0, len(members))
	for _, u := range members {
		assigned := assignedByUser[u.ID]
		completed := 0
		for _, t := range assigned {
			if isCompleted(t) {
				completed++
			}
		}

		rate := 0
		if len(assigned) > 0 {
			rate = int(math.Round(float64(completed) / float64(len(assigned)) * 100))
		}

		out = append(out, MemberProductivity{
			UserID:         u.ID,
			Name:           u.Name,
			AssignedTasks:  len(assigned),
			CompletedTasks: completed,
			CompletionRate: rate,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletionRate > out[j].CompletionRate
	})
	return out
}

func openAssigneeCounts(members []models.User, assignedByUser map[uint][]models.Task) []AssigneeCount {
	out := make([]AssigneeCount, 0, len(members))
	for _, u := range members {
		open := 0
		for _, t := range assignedByUser[u.ID] {
			switch t.Status {
			case constants.TaskStatusOpen, constants.TaskStatusInProgress, constants.TaskStatusReview:
				open++
			}
		}
		out = append(out, AssigneeCount{UserID: u.ID, Name: u.Name, OpenTasks: open})
	}
	return out
}
