package services

import (
	"context"
	"maintrack-backend/models"
)

// RequestServiceInterface is the request lifecycle engine
type RequestServiceInterface interface {
	Create(ctx context.Context, actor models.Actor, cmd *models.CreateRequestCommand) (*models.MaintenanceRequest, error)
	Get(ctx context.Context, actor models.Actor, id string) (*models.MaintenanceRequest, error)
	ChangeStage(ctx context.Context, actor models.Actor, id string, cmd *models.ChangeStageCommand) (*models.MaintenanceRequest, error)
	Assign(ctx context.Context, actor models.Actor, id string, technicianID string) (*models.MaintenanceRequest, error)
	Complete(ctx context.Context, actor models.Actor, id string, durationHours *float64) (*models.MaintenanceRequest, error)
	Scrap(ctx context.Context, actor models.Actor, id string) (*models.MaintenanceRequest, error)
	UpdateRequestStatus(ctx context.Context, actor models.Actor, id string, stage models.Stage) (*models.MaintenanceRequest, error)
	UpdateTeamAndTechnician(ctx context.Context, actor models.Actor, id string, cmd *models.UpdateTeamCommand) (*models.MaintenanceRequest, error)
}

// BoardServiceInterface defines the read-side board projections
type BoardServiceInterface interface {
	Kanban(ctx context.Context, actor models.Actor) ([]*models.KanbanColumn, error)
	Calendar(ctx context.Context, actor models.Actor) ([]*models.CalendarEvent, error)
	ByEquipment(ctx context.Context, actor models.Actor, equipmentID string) ([]*models.RequestCard, error)
}

// DashboardServiceInterface defines the aggregate statistics
type DashboardServiceInterface interface {
	Stats(ctx context.Context, actor models.Actor) (*models.DashboardStats, error)
	RequestsPerTeam(ctx context.Context, actor models.Actor) ([]*models.TeamRequestCount, error)
}

// EquipmentServiceInterface defines the contract for equipment service
type EquipmentServiceInterface interface {
	CreateEquipment(ctx context.Context, actor models.Actor, req *models.CreateEquipmentRequest) (*models.EquipmentView, error)
	GetEquipment(ctx context.Context, id string) (*models.EquipmentView, error)
	ListEquipment(ctx context.Context, filter *models.EquipmentFilter) ([]*models.EquipmentView, error)
	ActiveEquipment(ctx context.Context) ([]*models.EquipmentView, error)
	UpdateStatus(ctx context.Context, actor models.Actor, id string, req *models.UpdateEquipmentStatusRequest) (*models.EquipmentView, error)
	AddNote(ctx context.Context, actor models.Actor, id string, text string) (*models.EquipmentView, error)
	CountByCategory(ctx context.Context) ([]*models.CategoryCount, error)
}

// TeamServiceInterface defines the contract for team service
type TeamServiceInterface interface {
	CreateTeam(ctx context.Context, actor models.Actor, req *models.CreateTeamRequest) (*models.MaintenanceTeam, error)
	GetTeams(ctx context.Context) ([]*models.MaintenanceTeam, error)
	GetTeam(ctx context.Context, id string) (*models.MaintenanceTeam, error)
	AddMember(ctx context.Context, actor models.Actor, teamID, userID string) (*models.MaintenanceTeam, error)
	RemoveMember(ctx context.Context, actor models.Actor, teamID, userID string) (*models.MaintenanceTeam, error)
}

// CatalogServiceInterface defines the contract for categories and work centers
type CatalogServiceInterface interface {
	CreateCategory(ctx context.Context, actor models.Actor, req *models.CreateCategoryRequest) (*models.Category, error)
	GetCategories(ctx context.Context) ([]*models.Category, error)
	CreateWorkCenter(ctx context.Context, actor models.Actor, req *models.CreateWorkCenterRequest) (*models.WorkCenter, error)
	GetWorkCenters(ctx context.Context) ([]*models.WorkCenter, error)
}

// UserServiceInterface defines the contract for user service
type UserServiceInterface interface {
	CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	ResolveActor(ctx context.Context, userID string) (models.Actor, error)
	ListTechnicians(ctx context.Context, teamID string) ([]*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	EnsureManager(ctx context.Context, email, name string) (*models.User, error)
}

// InfrastructureServiceInterface defines the contract for infrastructure service
type InfrastructureServiceInterface interface {
	GetWorkerStatus(ctx context.Context) (*models.ExecutionResult, error)
	RunHealthCheck(ctx context.Context) (*models.ExecutionResult, error)
	IsWorkerHealthy() (bool, string, error)
}

// ServiceContainerInterface defines the main service container contract
type ServiceContainerInterface interface {
	GetRequestService() RequestServiceInterface
	GetBoardService() BoardServiceInterface
	GetDashboardService() DashboardServiceInterface
	GetEquipmentService() EquipmentServiceInterface
	GetTeamService() TeamServiceInterface
	GetCatalogService() CatalogServiceInterface
	GetUserService() UserServiceInterface
	GetInfrastructureService() InfrastructureServiceInterface
}
