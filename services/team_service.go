package services

import (
	"context"
	"maintrack-backend/apperror"
	"maintrack-backend/authz"
	"maintrack-backend/models"
	"maintrack-backend/repository"
	"maintrack-backend/utils/logger"
	"strings"
)

// TeamService keeps team member lists and the users' team ids in step
type TeamService struct {
	teamRepo repository.TeamRepositoryInterface
	userRepo repository.UserRepositoryInterface
	logger   logger.Logger
}

func NewTeamService(repos repository.RepositoryContainerInterface, log logger.Logger) *TeamService {
	return &TeamService{
		teamRepo: repos.GetTeamRepository(),
		userRepo: repos.GetUserRepository(),
		logger:   log,
	}
}

func (s *TeamService) CreateTeam(ctx context.Context, actor models.Actor, req *models.CreateTeamRequest) (*models.MaintenanceTeam, error) {
	if err := authz.RequireManager(actor, "create teams"); err != nil {
		return nil, err
	}
	if req == nil || strings.TrimSpace(req.Name) == "" {
		return nil, apperror.Validation("team name is required")
	}

	members := make([]*models.User, 0, len(req.MemberIDs))
	for _, id := range uniqueIDs(req.MemberIDs) {
		user, err := s.memberCandidate(ctx, id)
		if err != nil {
			return nil, err
		}
		members = append(members, user)
	}

	team, err := s.teamRepo.CreateTeam(ctx, &models.MaintenanceTeam{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		MemberIDs:   uniqueIDs(req.MemberIDs),
		CreatedBy:   actor.ID,
	})
	if err != nil {
		return nil, err
	}

	for _, user := range members {
		if err := s.joinUser(ctx, user, team.ID); err != nil {
			return nil, err
		}
	}
	s.logger.Infof("Team %s created with %d members", team.ID, len(team.MemberIDs))
	return team, nil
}

func (s *TeamService) GetTeams(ctx context.Context) ([]*models.MaintenanceTeam, error) {
	return s.teamRepo.GetTeams(ctx)
}

func (s *TeamService) GetTeam(ctx context.Context, id string) (*models.MaintenanceTeam, error) {
	return s.teamRepo.GetTeam(ctx, id)
}

// AddMember puts a technician or manager on the team
func (s *TeamService) AddMember(ctx context.Context, actor models.Actor, teamID, userID string) (*models.MaintenanceTeam, error) {
	if err := authz.RequireManager(actor, "change team membership"); err != nil {
		return nil, err
	}

	team, err := s.teamRepo.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	user, err := s.memberCandidate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !team.HasMember(user.ID) {
		team.MemberIDs = append(team.MemberIDs, user.ID)
		if team, err = s.teamRepo.UpdateTeam(ctx, team); err != nil {
			return nil, err
		}
	}
	if err := s.joinUser(ctx, user, team.ID); err != nil {
		return nil, err
	}

	s.logger.Infof("User %s added to team %s", user.ID, team.ID)
	return team, nil
}

// RemoveMember takes a user off the team. A technician must keep at least
// one team.
func (s *TeamService) RemoveMember(ctx context.Context, actor models.Actor, teamID, userID string) (*models.MaintenanceTeam, error) {
	if err := authz.RequireManager(actor, "change team membership"); err != nil {
		return nil, err
	}

	team, err := s.teamRepo.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !team.HasMember(userID) {
		return nil, apperror.NotFound("team member", userID)
	}

	user, err := s.userRepo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	remaining := removeID(user.TeamIDs, team.ID)
	if user.Role == models.RoleTechnician && len(remaining) == 0 {
		return nil, apperror.Validation("technician %s must belong to at least one team", user.ID)
	}

	team.MemberIDs = removeID(team.MemberIDs, user.ID)
	if team, err = s.teamRepo.UpdateTeam(ctx, team); err != nil {
		return nil, err
	}
	user.TeamIDs = remaining
	if _, err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Infof("User %s removed from team %s", user.ID, team.ID)
	return team, nil
}

func (s *TeamService) memberCandidate(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleTechnician && user.Role != models.RoleManager {
		return nil, apperror.Validation("only technicians and managers can join teams, %s is a %s", user.ID, user.Role)
	}
	return user, nil
}

func (s *TeamService) joinUser(ctx context.Context, user *models.User, teamID string) error {
	if user.InTeam(teamID) {
		return nil
	}
	user.TeamIDs = append(user.TeamIDs, teamID)
	_, err := s.userRepo.UpdateUser(ctx, user)
	return err
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
