package repository

import (
	"context"
	"errors"
	"fmt"
	"maintrack-backend/apperror"
	"maintrack-backend/dal"
	"maintrack-backend/models"
	"maintrack-backend/utils"
	"maintrack-backend/utils/logger"
	"sort"
	"time"
)

type TeamRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewTeamRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *TeamRepository {
	return &TeamRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *TeamRepository) tableName() string {
	return r.config.TableName("teams")
}

func (r *TeamRepository) CreateTeam(ctx context.Context, team *models.MaintenanceTeam) (*models.MaintenanceTeam, error) {
	r.logger.Infof("Creating team: %s", team.Name)

	now := time.Now().UTC()
	if team.ID == "" {
		team.ID = utils.GenerateID("team")
	}
	team.CreatedAt = now
	team.UpdatedAt = now
	team.MemberIDs = uniqueStrings(team.MemberIDs)

	if err := r.db.PutItem(ctx, r.tableName(), team); err != nil {
		r.logger.Errorf("Failed to create team: %v", err)
		return nil, err
	}

	r.logger.Infof("Team created successfully: %s", team.ID)
	return team, nil
}

func (r *TeamRepository) GetTeam(ctx context.Context, id string) (*models.MaintenanceTeam, error) {
	if id == "" {
		return nil, errors.New("team ID is required")
	}

	team := models.MaintenanceTeam{}
	err := r.db.GetItem(ctx, models.QueryConfig{
		TableName: r.tableName(),
		KeyName:   "id",
		KeyValue:  id,
		KeyType:   models.StringType,
	}, &team)
	if err != nil {
		r.logger.Errorf("Failed to get team %s: %v", id, err)
		return nil, fmt.Errorf("failed to get team %s: %w", id, err)
	}

	if team.ID == "" {
		return nil, apperror.NotFound("team", id)
	}
	return &team, nil
}

// GetTeams returns every team ordered by name
func (r *TeamRepository) GetTeams(ctx context.Context) ([]*models.MaintenanceTeam, error) {
	var teams []*models.MaintenanceTeam
	if err := r.db.ScanTable(ctx, r.tableName(), &teams); err != nil {
		r.logger.Errorf("Failed to list teams: %v", err)
		return nil, err
	}

	sort.SliceStable(teams, func(i, j int) bool {
		return teams[i].Name < teams[j].Name
	})
	return teams, nil
}

func (r *TeamRepository) UpdateTeam(ctx context.Context, team *models.MaintenanceTeam) (*models.MaintenanceTeam, error) {
	r.logger.Infof("Updating team: %s", team.ID)

	existing, err := r.GetTeam(ctx, team.ID)
	if err != nil {
		return nil, err
	}

	team.CreatedAt = existing.CreatedAt
	team.CreatedBy = existing.CreatedBy
	team.UpdatedAt = time.Now().UTC()
	team.MemberIDs = uniqueStrings(team.MemberIDs)

	// Creation fields are left untouched
	err = r.db.UpdateItem(ctx, r.tableName(), "id", team.ID, map[string]interface{}{
		"name":        team.Name,
		"description": team.Description,
		"memberIds":   team.MemberIDs,
		"updatedAt":   team.UpdatedAt,
	})
	if err != nil {
		r.logger.Errorf("Failed to update team: %v", err)
		return nil, err
	}

	r.logger.Infof("Team updated successfully: %s", team.ID)
	return team, nil
}
