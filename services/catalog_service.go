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

type CatalogService struct {
	repo   repository.CatalogRepositoryInterface
	logger logger.Logger
}

func NewCatalogService(repo repository.CatalogRepositoryInterface, log logger.Logger) *CatalogService {
	return &CatalogService{repo: repo, logger: log}
}

func (s *CatalogService) CreateCategory(ctx context.Context, actor models.Actor, req *models.CreateCategoryRequest) (*models.Category, error) {
	if err := authz.RequireManager(actor, "create categories"); err != nil {
		return nil, err
	}
	if req == nil || strings.TrimSpace(req.Name) == "" {
		return nil, apperror.Validation("category name is required")
	}
	return s.repo.CreateCategory(ctx, &models.Category{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	})
}

func (s *CatalogService) GetCategories(ctx context.Context) ([]*models.Category, error) {
	return s.repo.GetCategories(ctx)
}

func (s *CatalogService) CreateWorkCenter(ctx context.Context, actor models.Actor, req *models.CreateWorkCenterRequest) (*models.WorkCenter, error) {
	if err := authz.RequireManager(actor, "create work centers"); err != nil {
		return nil, err
	}
	if req == nil || strings.TrimSpace(req.Name) == "" {
		return nil, apperror.Validation("work center name is required")
	}
	return s.repo.CreateWorkCenter(ctx, &models.WorkCenter{
		Name:    strings.TrimSpace(req.Name),
		Code:    strings.ToUpper(strings.TrimSpace(req.Code)),
		Company: req.Company,
	})
}

func (s *CatalogService) GetWorkCenters(ctx context.Context) ([]*models.WorkCenter, error) {
	return s.repo.GetWorkCenters(ctx)
}
