package entities

import "time"

type User struct {
	ID             string
	Name           string
	Email          string
	PasswordHash   string
	Role           string
	OrganizationID string
	Interests      []string
	CreatedAt      time.Time
}

type Organization struct {
	ID          string
	Name        string
	Website     string
	Description string
	CreatedAt   time.Time
}

// Principal is the authenticated caller of an operation.
type Principal struct {
	UserID         string
	Name           string
	Role           string
	OrganizationID string
}
