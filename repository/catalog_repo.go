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

// CatalogRepository stores the reference data requests point at:
// equipment categories and work centers.
type CatalogRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewCatalogRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *CatalogRepository {
	return &CatalogRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *CatalogRepository) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	r.logger.Infof("Creating category: %s", category.Name)

	if category.ID == "" {
		category.ID = utils.GenerateID("cat")
	}
	category.CreatedAt = time.Now().UTC()

	if err := r.db.PutItem(ctx, r.config.TableName("categories"), category); err != nil {
		r.logger.Errorf("Failed to create category: %v", err)
		return nil, err
	}
	return category, nil
}

func (r *CatalogRepository) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	if id == "" {
		return nil, errors.New("category ID is required")
	}

	category := models.Category{}
	err := r.db.GetItem(ctx, models.QueryConfig{
		TableName: r.config.TableName("categories"),
		KeyName:   "id",
		KeyValue:  id,
		KeyType:   models.StringType,
	}, &category)
	if err != nil {
		return nil, fmt.Errorf("failed to get category %s: %w", id, err)
	}
	if category.ID == "" {
		return nil, apperror.NotFound("category", id)
	}
	return &category, nil
}

func (r *CatalogRepository) GetCategories(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	if err := r.db.ScanTable(ctx, r.config.TableName("categories"), &categories); err != nil {
		r.logger.Errorf("Failed to list categories: %v", err)
		return nil, err
	}
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

func (r *CatalogRepository) CreateWorkCenter(ctx context.Context, workCenter *models.WorkCenter) (*models.WorkCenter, error) {
	r.logger.Infof("Creating work center: %s", workCenter.Name)

	if workCenter.ID == "" {
		workCenter.ID = utils.GenerateID("wc")
	}
	workCenter.CreatedAt = time.Now().UTC()

	if err := r.db.PutItem(ctx, r.config.TableName("workcenters"), workCenter); err != nil {
		r.logger.Errorf("Failed to create work center: %v", err)
		return nil, err
	}
	return workCenter, nil
}

func (r *CatalogRepository) GetWorkCenter(ctx context.Context, id string) (*models.WorkCenter, error) {
	if id == "" {
		return nil, errors.New("work center ID is required")
	}

	workCenter := models.WorkCenter{}
	err := r.db.GetItem(ctx, models.QueryConfig{
		TableName: r.config.TableName("workcenters"),
		KeyName:   "id",
		KeyValue:  id,
		KeyType:   models.StringType,
	}, &workCenter)
	if err != nil {
		return nil, fmt.Errorf("failed to get work center %s: %w", id, err)
	}
	if workCenter.ID == "" {
		return nil, apperror.NotFound("work center", id)
	}
	return &workCenter, nil
}

func (r *CatalogRepository) GetWorkCenters(ctx context.Context) ([]*models.WorkCenter, error) {
	var workCenters []*models.WorkCenter
	if err := r.db.ScanTable(ctx, r.config.TableName("workcenters"), &workCenters); err != nil {
		r.logger.Errorf("Failed to list work centers: %v", err)
		return nil, err
	}
	sort.SliceStable(workCenters, func(i, j int) bool {
		return workCenters[i].Name < workCenters[j].Name
	})
	return workCenters, nil
}
