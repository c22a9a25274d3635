package constants

const (
	ProjectStatusActive    = "ACTIVE"
	ProjectStatusArchived  = "ARCHIVED"
	ProjectStatusCompleted = "COMPLETED"
)

var ProjectStatuses = []string{
	ProjectStatusActive,
	ProjectStatusArchived,
	ProjectStatusCompleted,
}

func IsValidProjectStatus(s string) bool {
	for _, v := range ProjectStatuses {
		if s == v {
			return true
		}
	}
	return false
}
