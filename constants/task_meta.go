package constants

const (
	TaskPriorityLow    = "LOW"
	TaskPriorityMedium = "MEDIUM"
	TaskPriorityHigh   = "HIGH"
	TaskPriorityUrgent = "URGENT"
)

var TaskPriorities = []string{
	TaskPriorityLow,
	TaskPriorityMedium,
	TaskPriorityHigh,
	TaskPriorityUrgent,
}

const (
	TaskTypeTask    = "TASK"
	TaskTypeBug     = "BUG"
	TaskTypeStory   = "STORY"
	TaskTypeEpic    = "EPIC"
	TaskTypeSubtask = "SUBTASK"
)

var TaskTypes = []string{
	TaskTypeTask,
	TaskTypeBug,
	TaskTypeStory,
	TaskTypeEpic,
	TaskTypeSubtask,
}

func IsValidTaskPriority(s string) bool {
	for _, v := range TaskPriorities {
		if s == v {
			return true
		}
	}
	return false
}

func IsValidTaskType(s string) bool {
	for _, v := range TaskTypes {
		if s == v {
			return true
		}
	}
	return false
}
