package models

import "time"

// MaintenanceTeam groups technicians (and managers) who handle requests
type MaintenanceTeam struct {
	ID          string    `json:"id" dynamodbav:"id"`
	Name        string    `json:"name" dynamodbav:"name" validate:"required,min=2,max=100"`
	Description string    `json:"description" dynamodbav:"description" validate:"omitempty,max=500"`
	MemberIDs   []string  `json:"memberIds" dynamodbav:"memberIds"`
	CreatedBy   string    `json:"createdBy" dynamodbav:"createdBy"`
	CreatedAt   time.Time `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" dynamodbav:"updatedAt"`
}

// HasMember reports whether the user belongs to the team
func (t *MaintenanceTeam) HasMember(userID string) bool {
	for _, id := range t.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

type CreateTeamRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=100"`
	Description string   `json:"description" validate:"omitempty,max=500"`
	MemberIDs   []string `json:"memberIds"`
}

type TeamMemberRequest struct {
	UserID string `json:"userId" validate:"required"`
}
