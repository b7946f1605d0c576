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
	"time"
)

type RequestRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewRequestRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *RequestRepository {
	return &RequestRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *RequestRepository) tableName() string {
	return r.config.TableName("requests")
}

// CreateRequest stores a new request at version 1
func (r *RequestRepository) CreateRequest(ctx context.Context, req *models.MaintenanceRequest) (*models.MaintenanceRequest, error) {
	r.logger.Infof("Creating maintenance request: %s", req.Subject)

	if req.ID == "" {
		req.ID = utils.GenerateID("req")
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	if req.UpdatedAt.IsZero() {
		req.UpdatedAt = req.CreatedAt
	}
	req.Version = 1

	err := r.db.TransactWrite(ctx, []models.WriteOp{{
		TableName: r.tableName(),
		KeyName:   "id",
		KeyValue:  req.ID,
		Item:      req,
	}})
	if err != nil {
		r.logger.Errorf("Failed to create maintenance request: %v", err)
		if dal.IsConditionFailed(err) {
			return nil, apperror.Conflict("request", req.ID, err)
		}
		return nil, err
	}

	r.logger.Infof("Maintenance request created successfully: %s", req.ID)
	return req, nil
}

func (r *RequestRepository) GetRequest(ctx context.Context, id string) (*models.MaintenanceRequest, error) {
	if id == "" {
		return nil, errors.New("request ID is required")
	}

	r.logger.Debugf("Getting maintenance request: %s", id)

	req := models.MaintenanceRequest{}
	err := r.db.GetItem(ctx, models.QueryConfig{
		TableName: r.tableName(),
		KeyName:   "id",
		KeyValue:  id,
		KeyType:   models.StringType,
	}, &req)
	if err != nil {
		r.logger.Errorf("Failed to get maintenance request %s: %v", id, err)
		return nil, fmt.Errorf("failed to get request %s: %w", id, err)
	}

	if req.ID == "" {
		return nil, apperror.NotFound("request", id)
	}
	return &req, nil
}

// GetRequestsByFilter uses the narrowest index the filter allows and applies
// the remaining criteria in memory.
func (r *RequestRepository) GetRequestsByFilter(ctx context.Context, filter *models.RequestFilter) ([]*models.MaintenanceRequest, error) {
	if filter == nil {
		filter = &models.RequestFilter{}
	}
	r.logger.Debugf("Getting maintenance requests with filter %+v", *filter)

	var requests []*models.MaintenanceRequest
	var err error

	switch {
	case filter.EquipmentID != "":
		err = r.db.QueryByIndex(ctx, r.tableName(), "equipmentId-index", "equipmentId", filter.EquipmentID, &requests)
	case filter.CreatedBy != "":
		err = r.db.QueryByIndex(ctx, r.tableName(), "createdBy-index", "createdBy", filter.CreatedBy, &requests)
	case len(filter.TeamIDs) > 0:
		for _, teamID := range uniqueStrings(filter.TeamIDs) {
			var teamRequests []*models.MaintenanceRequest
			if err = r.db.QueryByIndex(ctx, r.tableName(), "teamId-index", "teamId", teamID, &teamRequests); err != nil {
				break
			}
			requests = append(requests, teamRequests...)
		}
	default:
		err = r.db.ScanTable(ctx, r.tableName(), &requests)
	}

	if err != nil {
		r.logger.Errorf("Failed to get maintenance requests: %v", err)
		return nil, err
	}

	filtered := r.applyAdditionalFilters(requests, filter)
	r.logger.Debugf("Found %d maintenance requests", len(filtered))
	return filtered, nil
}

// PrepareUpdate bumps the version and returns the conditional write for it
func (r *RequestRepository) PrepareUpdate(req *models.MaintenanceRequest) models.WriteOp {
	expected := req.Version
	req.Version++
	return models.WriteOp{
		TableName:       r.tableName(),
		KeyName:         "id",
		KeyValue:        req.ID,
		Item:            req,
		ExpectedVersion: expected,
	}
}

// UpdateRequest writes req if nobody else changed it since it was read
func (r *RequestRepository) UpdateRequest(ctx context.Context, req *models.MaintenanceRequest) error {
	r.logger.Infof("Updating maintenance request: %s (stage=%s)", req.ID, req.Stage)

	op := r.PrepareUpdate(req)
	if err := r.db.TransactWrite(ctx, []models.WriteOp{op}); err != nil {
		req.Version = op.ExpectedVersion
		if dal.IsConditionFailed(err) {
			return apperror.Conflict("request", req.ID, err)
		}
		r.logger.Errorf("Failed to update maintenance request %s: %v", req.ID, err)
		return err
	}
	return nil
}

func (r *RequestRepository) applyAdditionalFilters(requests []*models.MaintenanceRequest, filter *models.RequestFilter) []*models.MaintenanceRequest {
	filtered := make([]*models.MaintenanceRequest, 0, len(requests))
	for _, req := range requests {
		if len(filter.TeamIDs) > 0 && !containsString(filter.TeamIDs, req.TeamID) {
			continue
		}
		if filter.CreatedBy != "" && req.CreatedBy != filter.CreatedBy {
			continue
		}
		if filter.EquipmentID != "" && req.EquipmentID != filter.EquipmentID {
			continue
		}
		if filter.Type != "" && req.Type != filter.Type {
			continue
		}
		if len(filter.Stages) > 0 && !containsStage(filter.Stages, req.Stage) {
			continue
		}
		filtered = append(filtered, req)
	}
	return filtered
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

func containsStage(stages []models.Stage, s models.Stage) bool {
	for _, stage := range stages {
		if stage == s {
			return true
		}
	}
	return false
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
