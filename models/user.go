package models

import "time"

// UserRole is one of the three fixed roles
type UserRole string

const (
	RoleUser       UserRole = "USER"
	RoleTechnician UserRole = "TECHNICIAN"
	RoleManager    UserRole = "MANAGER"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleUser, RoleTechnician, RoleManager:
		return true
	}
	return false
}

// User represents a user in the system
type User struct {
	ID        string    `json:"id" dynamodbav:"id"`
	Name      string    `json:"name" dynamodbav:"name"`
	Email     string    `json:"email" dynamodbav:"email"`
	Role      UserRole  `json:"role" dynamodbav:"role"`
	TeamIDs   []string  `json:"teamIds" dynamodbav:"teamIds"`
	Active    bool      `json:"active" dynamodbav:"active"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" dynamodbav:"updatedAt"`
}

// Actor projects the stored user onto the identity used by the core
func (u *User) Actor() Actor {
	teams := make([]string, len(u.TeamIDs))
	copy(teams, u.TeamIDs)
	return Actor{ID: u.ID, Role: u.Role, TeamIDs: teams}
}

// InTeam reports whether the user is a member of the team
func (u *User) InTeam(teamID string) bool {
	for _, id := range u.TeamIDs {
		if id == teamID {
			return true
		}
	}
	return false
}

// CreateUserRequest is used by seeding and administration tooling
type CreateUserRequest struct {
	Name    string   `json:"name" validate:"required,min=2,max=100"`
	Email   string   `json:"email" validate:"required,email"`
	Role    UserRole `json:"role" validate:"required,oneof=USER TECHNICIAN MANAGER"`
	TeamIDs []string `json:"teamIds"`
}
