// Package authz holds the single role-scoping predicate every request read
// and write goes through.
package authz

import (
	"maintrack-backend/apperror"
	"maintrack-backend/models"
)

// CanAccess reports whether the actor may view or modify the request.
// MANAGER sees everything, TECHNICIAN sees requests of their teams and USER
// sees only what they created.
func CanAccess(actor models.Actor, req *models.MaintenanceRequest) bool {
	switch actor.Role {
	case models.RoleManager:
		return true
	case models.RoleTechnician:
		return actor.InTeam(req.TeamID)
	case models.RoleUser:
		return req.CreatedBy == actor.ID
	}
	return false
}

// Authorize is CanAccess returning a Forbidden error naming the actor role
func Authorize(actor models.Actor, req *models.MaintenanceRequest) error {
	if CanAccess(actor, req) {
		return nil
	}
	switch actor.Role {
	case models.RoleTechnician:
		return apperror.Forbidden(string(actor.Role), "request %s belongs to a team you are not a member of", req.ID)
	case models.RoleUser:
		return apperror.Forbidden(string(actor.Role), "request %s was created by another user", req.ID)
	}
	return apperror.Forbidden(string(actor.Role), "role %q may not access requests", actor.Role)
}

// Scope returns the repository filter that restricts a listing to what the
// actor may see. ok is false when the actor can see nothing at all, e.g. a
// technician without teams or an unknown role.
func Scope(actor models.Actor) (filter models.RequestFilter, ok bool) {
	switch actor.Role {
	case models.RoleManager:
		return models.RequestFilter{}, true
	case models.RoleTechnician:
		if len(actor.TeamIDs) == 0 {
			return models.RequestFilter{}, false
		}
		teams := make([]string, len(actor.TeamIDs))
		copy(teams, actor.TeamIDs)
		return models.RequestFilter{TeamIDs: teams}, true
	case models.RoleUser:
		return models.RequestFilter{CreatedBy: actor.ID}, true
	}
	return models.RequestFilter{}, false
}

// FilterVisible drops every request the actor may not see, keeping order
func FilterVisible(actor models.Actor, requests []*models.MaintenanceRequest) []*models.MaintenanceRequest {
	visible := make([]*models.MaintenanceRequest, 0, len(requests))
	for _, req := range requests {
		if CanAccess(actor, req) {
			visible = append(visible, req)
		}
	}
	return visible
}

// RequireManager guards manager-only operations
func RequireManager(actor models.Actor, action string) error {
	if actor.IsManager() {
		return nil
	}
	return apperror.Forbidden(string(actor.Role), "only managers may %s", action)
}

// RequireRole passes when the actor holds any of the roles
func RequireRole(actor models.Actor, action string, roles ...models.UserRole) error {
	for _, r := range roles {
		if actor.Role == r {
			return nil
		}
	}
	return apperror.Forbidden(string(actor.Role), "role %s may not %s", actor.Role, action)
}
