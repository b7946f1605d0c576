package services

import (
	"context"
	"maintrack-backend/apperror"
	"maintrack-backend/models"
	"maintrack-backend/repository"
	"maintrack-backend/utils/logger"
	"sort"
	"strings"
)

type UserService struct {
	repo     repository.UserRepositoryInterface
	teamRepo repository.TeamRepositoryInterface
	logger   logger.Logger
}

func NewUserService(repo repository.UserRepositoryInterface, teamRepo repository.TeamRepositoryInterface, log logger.Logger) *UserService {
	return &UserService{
		repo:     repo,
		teamRepo: teamRepo,
		logger:   log,
	}
}

// CreateUser registers a user record. Technicians must start in a team.
// Every team must exist and gets the new user in its member list.
func (s *UserService) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	if req == nil {
		return nil, apperror.Validation("user is required")
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, apperror.Validation("email is required")
	}
	if !req.Role.Valid() {
		return nil, apperror.Validation("role must be USER, TECHNICIAN or MANAGER")
	}
	teamIDs := uniqueIDs(req.TeamIDs)
	if req.Role == models.RoleTechnician && len(teamIDs) == 0 {
		return nil, apperror.Validation("technicians must belong to at least one team")
	}
	if req.Role == models.RoleUser && len(teamIDs) > 0 {
		return nil, apperror.Validation("only technicians and managers can join teams")
	}

	teams := make([]*models.MaintenanceTeam, 0, len(teamIDs))
	for _, id := range teamIDs {
		team, err := s.teamRepo.GetTeam(ctx, id)
		if err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}

	user, err := s.repo.CreateUser(ctx, &models.User{
		Name:    strings.TrimSpace(req.Name),
		Email:   req.Email,
		Role:    req.Role,
		TeamIDs: teamIDs,
		Active:  true,
	})
	if err != nil {
		return nil, err
	}

	for _, team := range teams {
		if team.HasMember(user.ID) {
			continue
		}
		team.MemberIDs = append(team.MemberIDs, user.ID)
		if _, err := s.teamRepo.UpdateTeam(ctx, team); err != nil {
			s.logger.Errorf("Failed to add user %s to team %s: %v", user.ID, team.ID, err)
			return nil, err
		}
	}

	s.logger.Infof("User %s created with %d teams", user.ID, len(teams))
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetUser(ctx, id)
}

// ResolveActor loads the stored identity behind a token. Inactive users
// are rejected.
func (s *UserService) ResolveActor(ctx context.Context, userID string) (models.Actor, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return models.Actor{}, err
	}
	if !user.Active {
		return models.Actor{}, apperror.Forbidden(string(user.Role), "user %s is deactivated", user.ID)
	}
	return user.Actor(), nil
}

// ListTechnicians returns active technicians, optionally only those of one team
func (s *UserService) ListTechnicians(ctx context.Context, teamID string) ([]*models.User, error) {
	users, err := s.repo.GetUsersByRole(ctx, models.RoleTechnician)
	if err != nil {
		s.logger.Errorf("Failed to list technicians: %v", err)
		return nil, err
	}

	technicians := make([]*models.User, 0, len(users))
	for _, u := range users {
		if !u.Active || (teamID != "" && !u.InTeam(teamID)) {
			continue
		}
		technicians = append(technicians, u)
	}
	sort.SliceStable(technicians, func(i, j int) bool {
		return technicians[i].Name < technicians[j].Name
	})
	return technicians, nil
}

// FindByEmail looks a user up by login email
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// EnsureManager creates the bootstrap manager unless a user with that email
// already exists. It returns the stored user either way.
func (s *UserService) EnsureManager(ctx context.Context, email, name string) (*models.User, error) {
	existing, err := s.FindByEmail(ctx, email)
	if err == nil {
		if existing.Role != models.RoleManager {
			s.logger.Warnf("Bootstrap user %s exists with role %s", existing.ID, existing.Role)
		}
		return existing, nil
	}
	if !apperror.Is(err, apperror.KindNotFound) {
		return nil, err
	}

	if strings.TrimSpace(name) == "" {
		name = "Administrator"
	}
	user, err := s.CreateUser(ctx, &models.CreateUserRequest{Name: name, Email: email, Role: models.RoleManager})
	if err != nil {
		return nil, err
	}
	s.logger.Infof("Bootstrap manager %s created", user.ID)
	return user, nil
}
