package constants

const (
	TaskStatusOpen       = "OPEN"
	TaskStatusInProgress = "IN_PROGRESS"
	TaskStatusReview     = "REVIEW"
	TaskStatusDone       = "DONE"
	TaskStatusClosed     = "CLOSED"
	TaskStatusCancelled  = "CANCELLED"
)

var TaskStatuses = []string{
	TaskStatusOpen,
	TaskStatusInProgress,
	TaskStatusReview,
	TaskStatusDone,
	TaskStatusClosed,
	TaskStatusCancelled,
}

func IsValidTaskStatus(s string) bool {
	for _, v := range TaskStatuses {
		if s == v {
			return true
		}
	}
	return false
}
