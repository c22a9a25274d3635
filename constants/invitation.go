package constants

const (
	InvitationPending  = "PENDING"
	InvitationAccepted = "ACCEPTED"
	InvitationDeclined = "DECLINED"
)

// Sentinel accepted by analytics endpoints to mean "no organization filter".
const OrgScopeAll = "ALL"
