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

type EquipmentRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewEquipmentRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *EquipmentRepository {
	return &EquipmentRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *EquipmentRepository) tableName() string {
	return r.config.TableName("equipment")
}

func (r *EquipmentRepository) CreateEquipment(ctx context.Context, equipment *models.Equipment) (*models.Equipment, error) {
	r.logger.Infof("Creating equipment: %s", equipment.Name)

	if equipment.ID == "" {
		equipment.ID = utils.GenerateID("eq")
	}
	if equipment.CreatedAt.IsZero() {
		equipment.CreatedAt = time.Now().UTC()
	}
	if equipment.UpdatedAt.IsZero() {
		equipment.UpdatedAt = equipment.CreatedAt
	}
	if equipment.Notes == nil {
		equipment.Notes = []models.EquipmentNote{}
	}
	equipment.Version = 1

	err := r.db.TransactWrite(ctx, []models.WriteOp{{
		TableName: r.tableName(),
		KeyName:   "id",
		KeyValue:  equipment.ID,
		Item:      equipment,
	}})
	if err != nil {
		r.logger.Errorf("Failed to create equipment: %v", err)
		if dal.IsConditionFailed(err) {
			return nil, apperror.Conflict("equipment", equipment.ID, err)
		}
		return nil, err
	}

	r.logger.Infof("Equipment created successfully: %s", equipment.ID)
	return equipment, nil
}

func (r *EquipmentRepository) GetEquipment(ctx context.Context, id string) (*models.Equipment, error) {
	if id == "" {
		return nil, errors.New("equipment ID is required")
	}

	equipment := models.Equipment{}
	err := r.db.GetItem(ctx, models.QueryConfig{
		TableName: r.tableName(),
		KeyName:   "id",
		KeyValue:  id,
		KeyType:   models.StringType,
	}, &equipment)
	if err != nil {
		r.logger.Errorf("Failed to get equipment %s: %v", id, err)
		return nil, fmt.Errorf("failed to get equipment %s: %w", id, err)
	}

	if equipment.ID == "" {
		return nil, apperror.NotFound("equipment", id)
	}
	return &equipment, nil
}

func (r *EquipmentRepository) GetEquipmentByFilter(ctx context.Context, filter *models.EquipmentFilter) ([]*models.Equipment, error) {
	if filter == nil {
		filter = &models.EquipmentFilter{}
	}
	r.logger.Debugf("Getting equipment with filter %+v", *filter)

	var items []*models.Equipment
	var err error

	if filter.TeamID != "" {
		err = r.db.QueryByIndex(ctx, r.tableName(), "teamId-index", "teamId", filter.TeamID, &items)
	} else if filter.CategoryID != "" {
		err = r.db.QueryByIndex(ctx, r.tableName(), "categoryId-index", "categoryId", filter.CategoryID, &items)
	} else {
		err = r.db.ScanTable(ctx, r.tableName(), &items)
	}

	if err != nil {
		r.logger.Errorf("Failed to get equipment: %v", err)
		return nil, err
	}

	filtered := make([]*models.Equipment, 0, len(items))
	for _, e := range items {
		if filter.TeamID != "" && e.TeamID != filter.TeamID {
			continue
		}
		if filter.CategoryID != "" && e.CategoryID != filter.CategoryID {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered, nil
}

// PrepareUpdate bumps the version and returns the conditional write for it
func (r *EquipmentRepository) PrepareUpdate(equipment *models.Equipment) models.WriteOp {
	expected := equipment.Version
	equipment.Version++
	return models.WriteOp{
		TableName:       r.tableName(),
		KeyName:         "id",
		KeyValue:        equipment.ID,
		Item:            equipment,
		ExpectedVersion: expected,
	}
}

func (r *EquipmentRepository) UpdateEquipment(ctx context.Context, equipment *models.Equipment) error {
	r.logger.Infof("Updating equipment: %s (stored status=%s)", equipment.ID, equipment.Status)

	op := r.PrepareUpdate(equipment)
	if err := r.db.TransactWrite(ctx, []models.WriteOp{op}); err != nil {
		equipment.Version = op.ExpectedVersion
		if dal.IsConditionFailed(err) {
			return apperror.Conflict("equipment", equipment.ID, err)
		}
		r.logger.Errorf("Failed to update equipment %s: %v", equipment.ID, err)
		return err
	}
	return nil
}
