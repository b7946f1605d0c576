package controller

import (
	"maintrack-backend/models"
	"maintrack-backend/services"
	"maintrack-backend/utils/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// IdentityCache is the part of the auth layer that caches resolved actors
type IdentityCache interface {
	ForgetIdentity(userID string)
}

type TeamController struct {
	teamService services.TeamServiceInterface
	identities  IdentityCache
	logger      logger.Logger
	validator   *validator.Validate
}

func NewTeamController(teamService services.TeamServiceInterface, identities IdentityCache, logger logger.Logger) *TeamController {
	return &TeamController{
		teamService: teamService,
		identities:  identities,
		logger:      logger,
		validator:   validator.New(),
	}
}

// membershipChanged makes the next request of the user see its new teams
func (h *TeamController) membershipChanged(userIDs ...string) {
	if h.identities == nil {
		return
	}
	for _, id := range userIDs {
		h.identities.ForgetIdentity(id)
	}
}

// CreateTeam handles POST /api/v1/teams
// @Summary Create a maintenance team
// @Tags Teams
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateTeamRequest true "Team"
// @Success 201 {object} models.APIResponse "Team created"
// @Failure 403 {object} models.APIResponse "Managers only"
// @Failure 422 {object} models.APIResponse "Member is not a technician or manager"
// @Router /teams [post]
func (h *TeamController) CreateTeam(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req models.CreateTeamRequest
	if !bind(c, h.validator, h.logger, &req) {
		return
	}

	team, err := h.teamService.CreateTeam(c.Request.Context(), a, &req)
	if err != nil {
		respondError(c, h.logger, "Failed to create team", err)
		return
	}
	h.membershipChanged(team.MemberIDs...)
	respond(c, http.StatusCreated, "Team created", team)
}

// GetTeams handles GET /api/v1/teams
// @Summary List teams
// @Tags Teams
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Teams ordered by name"
// @Router /teams [get]
func (h *TeamController) GetTeams(c *gin.Context) {
	teams, err := h.teamService.GetTeams(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Failed to list teams", err)
		return
	}
	respondList(c, "Teams retrieved", teams, len(teams))
}

// GetTeam handles GET /api/v1/teams/:id
// @Summary Get a team
// @Tags Teams
// @Security BearerAuth
// @Produce json
// @Param id path string true "Team ID"
// @Success 200 {object} models.APIResponse "Team found"
// @Failure 404 {object} models.APIResponse "Team not found"
// @Router /teams/{id} [get]
func (h *TeamController) GetTeam(c *gin.Context) {
	team, err := h.teamService.GetTeam(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Failed to get team", err)
		return
	}
	respond(c, http.StatusOK, "Team retrieved", team)
}

// AddMember handles POST /api/v1/teams/:id/members
// @Summary Add a team member
// @Tags Teams
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Team ID"
// @Param request body models.TeamMemberRequest true "Member"
// @Success 200 {object} models.APIResponse "Member added"
// @Failure 403 {object} models.APIResponse "Managers only"
// @Failure 404 {object} models.APIResponse "Team or user not found"
// @Router /teams/{id}/members [post]
func (h *TeamController) AddMember(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req models.TeamMemberRequest
	if !bind(c, h.validator, h.logger, &req) {
		return
	}

	team, err := h.teamService.AddMember(c.Request.Context(), a, c.Param("id"), req.UserID)
	if err != nil {
		respondError(c, h.logger, "Failed to add team member", err)
		return
	}
	h.membershipChanged(req.UserID)
	respond(c, http.StatusOK, "Member added", team)
}

// RemoveMember handles DELETE /api/v1/teams/:id/members/:userId
// @Summary Remove a team member
// @Description A technician cannot be removed from their last team.
// @Tags Teams
// @Security BearerAuth
// @Produce json
// @Param id path string true "Team ID"
// @Param userId path string true "User ID"
// @Success 200 {object} models.APIResponse "Member removed"
// @Failure 404 {object} models.APIResponse "Not a member"
// @Failure 422 {object} models.APIResponse "Technician would lose their last team"
// @Router /teams/{id}/members/{userId} [delete]
func (h *TeamController) RemoveMember(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	userID := c.Param("userId")
	team, err := h.teamService.RemoveMember(c.Request.Context(), a, c.Param("id"), userID)
	if err != nil {
		respondError(c, h.logger, "Failed to remove team member", err)
		return
	}
	h.membershipChanged(userID)
	respond(c, http.StatusOK, "Member removed", team)
}
