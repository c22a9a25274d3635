package constants

const (
	RoleUser    = "USER"
	RoleAgent   = "AGENT"
	RoleManager = "MANAGER"
	RoleAdmin   = "ADMIN"
)

// Roles inside an organization or team membership.
const (
	MemberRoleMember = "MEMBER"
	MemberRoleAdmin  = "ADMIN"
)
