package services

import (
	"maintrack-backend/models"
	"maintrack-backend/repository"
	"maintrack-backend/utils/logger"
)

// Service implements ServiceContainerInterface
type Service struct {
	requestService        RequestServiceInterface
	boardService          BoardServiceInterface
	dashboardService      DashboardServiceInterface
	equipmentService      EquipmentServiceInterface
	teamService           TeamServiceInterface
	catalogService        CatalogServiceInterface
	userService           UserServiceInterface
	infrastructureService InfrastructureServiceInterface
}

// NewService creates a new service container with all dependencies injected
func NewService(
	repoContainer repository.RepositoryContainerInterface,
	worker WorkerStatusSource,
	logger logger.Logger,
	config *models.Config,
) ServiceContainerInterface {
	deriver := NewStatusDeriver(repoContainer.GetRequestRepository(), logger)
	return &Service{
		requestService:        NewRequestService(repoContainer, deriver, logger),
		boardService:          NewBoardService(repoContainer, logger),
		dashboardService:      NewDashboardService(repoContainer, config, logger),
		equipmentService:      NewEquipmentService(repoContainer, deriver, logger),
		teamService:           NewTeamService(repoContainer, logger),
		catalogService:        NewCatalogService(repoContainer.GetCatalogRepository(), logger),
		userService:           NewUserService(repoContainer.GetUserRepository(), repoContainer.GetTeamRepository(), logger),
		infrastructureService: NewInfrastructureService(worker, logger, config),
	}
}

func (s *Service) GetRequestService() RequestServiceInterface {
	return s.requestService
}

func (s *Service) GetBoardService() BoardServiceInterface {
	return s.boardService
}

func (s *Service) GetDashboardService() DashboardServiceInterface {
	return s.dashboardService
}

func (s *Service) GetEquipmentService() EquipmentServiceInterface {
	return s.equipmentService
}

func (s *Service) GetTeamService() TeamServiceInterface {
	return s.teamService
}

func (s *Service) GetCatalogService() CatalogServiceInterface {
	return s.catalogService
}

// GetUserService returns the user service interface
func (s *Service) GetUserService() UserServiceInterface {
	return s.userService
}

// GetInfrastructureService returns the infrastructure service interface
func (s *Service) GetInfrastructureService() InfrastructureServiceInterface {
	return s.infrastructureService
}
