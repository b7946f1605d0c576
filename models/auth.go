package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims represents the JWT claims. Role and team memberships in the token
// are informational; the middleware re-reads them from the user store.
type JWTClaims struct {
	UserID  string   `json:"user_id"`
	Email   string   `json:"email"`
	Name    string   `json:"name"`
	Role    UserRole `json:"role"`
	TeamIDs []string `json:"team_ids,omitempty"`

	jwt.RegisteredClaims
}

// Actor is the authenticated identity every core operation runs on behalf of
type Actor struct {
	ID      string   `json:"id"`
	Role    UserRole `json:"role"`
	TeamIDs []string `json:"teamIds"`
}

// InTeam reports whether the actor belongs to the given team
func (a Actor) InTeam(teamID string) bool {
	for _, id := range a.TeamIDs {
		if id == teamID {
			return true
		}
	}
	return false
}

func (a Actor) IsManager() bool    { return a.Role == RoleManager }
func (a Actor) IsTechnician() bool { return a.Role == RoleTechnician }
