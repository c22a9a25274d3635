package voice

import (
	"regexp"
	"strings"
)

// Intent is the closed set of operations the voice agent can perform.
type Intent int

const (
	IntentUnknown Intent = iota
	IntentCreateTask
	IntentListTasks
	IntentCompleteTask
	IntentDeleteTask
	IntentAssignTask
	IntentCreateProject
	IntentListProjects
	IntentCreateOrganization
	IntentListOrganizations
	IntentGetNotifications
	IntentGetAnalytics
	IntentGetProductivity
	IntentHelp
)

func (i Intent) String() string {
	switch i {
	case IntentCreateTask:
		return "CreateTask"
	case IntentListTasks:
		return "ListTasks"
	case IntentCompleteTask:
		return "CompleteTask"
	case IntentDeleteTask:
		return "DeleteTask"
	case IntentAssignTask:
		return "AssignTask"
	case IntentCreateProject:
		return "CreateProject"
	case IntentListProjects:
		return "ListProjects"
	case IntentCreateOrganization:
		return "CreateOrganization"
	case IntentListOrganizations:
		return "ListOrganizations"
	case IntentGetNotifications:
		return "GetNotifications"
	case IntentGetAnalytics:
		return "GetAnalytics"
	case IntentGetProductivity:
		return "GetProductivity"
	case IntentHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// Command is one parsed query: the matched intent plus any loosely
// typed parameters the keyword-anchored patterns pulled out.
type Command struct {
	Intent   Intent
	Title    string
	Name     string
	Assignee string
	Unread   bool
}

var (
	titlePattern    = regexp.MustCompile(`(?:named|called|titled)\s+"?([^"]+?)"?\s*$`)
	assigneePattern = regexp.MustCompile(`\bto\s+(\w+)`)
)

func containsAny(q string, phrases ...string) bool {
	for _, p := range phrases {
		if strings.Contains(q, p) {
			return true
		}
	}
	return false
}

func extractTitle(q string) string {
	// Strip a trailing "to NAME" clause first so assignment queries
	// like "assign task called foo to bob" keep a clean title.
	if loc := assigneePattern.FindStringIndex(q); loc != nil {
		q = strings.TrimSpace(q[:loc[0]])
	}
	if m := titlePattern.FindStringSubmatch(q); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func extractAssignee(q string) string {
	if m := assigneePattern.FindStringSubmatch(q); m != nil {
		return m[1]
	}
	return ""
}

// ParseQuery maps free text to a Command. First matching phrase wins,
// in a fixed priority order; anything unmatched is IntentUnknown.
func ParseQuery(query string) Command {
	q := strings.ToLower(strings.TrimSpace(query))

	switch {
	case containsAny(q, "create task", "add task", "new task", "add a task", "create a task"):
		return Command{Intent: IntentCreateTask, Title: extractTitle(q)}

	case containsAny(q, "complete task", "finish task", "mark task", "task done", "task as done"):
		return Command{Intent: IntentCompleteTask, Title: extractTitle(q)}

	case containsAny(q, "delete task", "remove task"):
		return Command{Intent: IntentDeleteTask, Title: extractTitle(q)}

	case strings.Contains(q, "assign") && strings.Contains(q, "task"):
		return Command{Intent: IntentAssignTask, Title: extractTitle(q), Assignee: extractAssignee(q)}

	case containsAny(q, "create project", "add project", "new project"):
		return Command{Intent: IntentCreateProject, Name: extractTitle(q)}

	case containsAny(q, "list projects", "show projects", "my projects", "show my projects"):
		return Command{Intent: IntentListProjects}

	case containsAny(q, "create organization", "new organization", "create org", "new org"):
		return Command{Intent: IntentCreateOrganization, Name: extractTitle(q)}

	case containsAny(q, "list organizations", "show organizations", "my organizations", "list orgs"):
		return Command{Intent: IntentListOrganizations}

	case strings.Contains(q, "notification"):
		return Command{Intent: IntentGetNotifications, Unread: strings.Contains(q, "unread")}

	case containsAny(q, "productivity", "streak", "how productive"):
		return Command{Intent: IntentGetProductivity}

	case containsAny(q, "analytics", "statistics", "stats", "report"):
		return Command{Intent: IntentGetAnalytics}

	case containsAny(q, "list tasks", "show tasks", "my tasks", "show my tasks", "list my tasks"):
		return Command{Intent: IntentListTasks}

	case strings.Contains(q, "help"):
		return Command{Intent: IntentHelp}

	default:
		return Command{Intent: IntentUnknown}
	}
}
