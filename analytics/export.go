package analytics

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"taskflow/constants"
)

const (
	TabTasks        = "tasks"
	TabProductivity = "productivity"
	TabTeam         = "team"
)

// ExportFilename is the download name offered for a tab's CSV.
func ExportFilename(tab string, now time.Time) string {
	return fmt.Sprintf("%s-analytics-%s.csv", tab, now.Format("2006-01-02"))
}

// csvField wraps a value in double quotes when it contains a comma or a
// quote. Embedded quotes are left as-is, not doubled.
func csvField(v string) string {
	if strings.ContainsAny(v, ",\"") {
		return "\"" + v + "\""
	}
	return v
}

type csvBuilder struct {
	b        strings.Builder
	sections int
}

func (c *csvBuilder) section(name, header string) {
	if c.sections > 0 {
		c.b.WriteString("\n")
	}
	c.sections++
	c.b.WriteString(name + "\n")
	c.b.WriteString(header + "\n")
}

func (c *csvBuilder) row(fields ...string) {
	c.b.WriteString(strings.Join(fields, ",") + "\n")
}

// orderedKeys returns hist's keys in canonical order first, then any
// remaining keys sorted, so exports are deterministic.
func orderedKeys(hist map[string]int, canonical []string) []string {
	keys := make([]string, 0, len(hist))
	seen := map[string]bool{}
	for _, k := range canonical {
		if _, ok := hist[k]; ok {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	rest := make([]string, 0)
	for k := range hist {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// ExportTasksCSV renders the tasks tab as sectioned CSV, sections in
// the fixed order Status, Priority, Project, Type, Month.
func ExportTasksCSV(a *TaskAnalytics) string {
	var c csvBuilder

	c.section("Status", "Status,Count")
	for _, k := range orderedKeys(a.TasksByStatus, constants.TaskStatuses) {
		c.row(csvField(k), strconv.Itoa(a.TasksByStatus[k]))
	}

	c.section("Priority", "Priority,Count")
	for _, k := range orderedKeys(a.TasksByPriority, constants.TaskPriorities) {
		c.row(csvField(k), strconv.Itoa(a.TasksByPriority[k]))
	}

	c.section("Project", "Project,Count")
	for _, k := range orderedKeys(a.TasksByProject, nil) {
		c.row(csvField(k), strconv.Itoa(a.TasksByProject[k]))
	}

	c.section("Type", "Type,Count")
	for _, k := range orderedKeys(a.TasksByType, constants.TaskTypes) {
		c.row(csvField(k), strconv.Itoa(a.TasksByType[k]))
	}

	c.section("Month", "Month,Completed Tasks")
	for _, m := range a.TasksByMonth {
		c.row(csvField(m.Month), strconv.Itoa(m.CompletedTasks))
	}

	return c.b.String()
}

func ExportProductivityCSV(a *ProductivityAnalytics) string {
	var c csvBuilder

	c.section("Weekly Productivity", "Week,Start,End,Completed")
	for _, w := range a.WeeklyProductivity {
		c.row(csvField(w.Week), csvField(w.StartDate), csvField(w.EndDate), strconv.Itoa(w.Completed))
	}

	c.section("Summary", "Metric,Value")
	c.row("Average Completion Time (days)", strconv.FormatFloat(a.AvgCompletionTime, 'f', 1, 64))
	c.row("Current Streak (days)", strconv.Itoa(a.CurrentStreak))
	c.row("Total Completed", strconv.Itoa(a.TotalCompleted))

	return c.b.String()
}

func ExportTeamCSV(a *TeamAnalytics) string {
	var c csvBuilder

	c.section("Team Productivity", "Member,Assigned,Completed,Completion Rate")
	for _, m := range a.TeamProductivity {
		c.row(csvField(m.Name), strconv.Itoa(m.AssignedTasks), strconv.Itoa(m.CompletedTasks), strconv.Itoa(m.CompletionRate))
	}

	c.section("Project Status", "Status,Count")
	for _, k := range orderedKeys(a.ProjectStatus, constants.ProjectStatuses) {
		c.row(csvField(k), strconv.Itoa(a.ProjectStatus[k]))
	}

	c.section("Tasks By Assignee", "Member,Open Tasks")
	for _, m := range a.TasksByAssignee {
		c.row(csvField(m.Name), strconv.Itoa(m.OpenTasks))
	}

	return c.b.String()
}
