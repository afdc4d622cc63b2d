package domain

// Account roles.
const (
	RoleParticipant  = "PARTICIPANT"
	RoleOrganization = "ORGANIZATION"
)

// Registration statuses. Every admitted registration is created confirmed;
// pending and cancelled exist in the schema but no operation produces them.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)
