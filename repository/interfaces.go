package repository

import (
	"context"
	"maintrack-backend/models"
)

// RequestRepositoryInterface defines the contract for maintenance request storage
type RequestRepositoryInterface interface {
	CreateRequest(ctx context.Context, req *models.MaintenanceRequest) (*models.MaintenanceRequest, error)
	GetRequest(ctx context.Context, id string) (*models.MaintenanceRequest, error)
	GetRequestsByFilter(ctx context.Context, filter *models.RequestFilter) ([]*models.MaintenanceRequest, error)
	UpdateRequest(ctx context.Context, req *models.MaintenanceRequest) error
	PrepareUpdate(req *models.MaintenanceRequest) models.WriteOp
}

// EquipmentRepositoryInterface defines the contract for equipment storage
type EquipmentRepositoryInterface interface {
	CreateEquipment(ctx context.Context, equipment *models.Equipment) (*models.Equipment, error)
	GetEquipment(ctx context.Context, id string) (*models.Equipment, error)
	GetEquipmentByFilter(ctx context.Context, filter *models.EquipmentFilter) ([]*models.Equipment, error)
	UpdateEquipment(ctx context.Context, equipment *models.Equipment) error
	PrepareUpdate(equipment *models.Equipment) models.WriteOp
}

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUsersByRole(ctx context.Context, role models.UserRole) ([]*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) (*models.User, error)
}

// TeamRepositoryInterface defines the contract for maintenance team storage
type TeamRepositoryInterface interface {
	CreateTeam(ctx context.Context, team *models.MaintenanceTeam) (*models.MaintenanceTeam, error)
	GetTeam(ctx context.Context, id string) (*models.MaintenanceTeam, error)
	GetTeams(ctx context.Context) ([]*models.MaintenanceTeam, error)
	UpdateTeam(ctx context.Context, team *models.MaintenanceTeam) (*models.MaintenanceTeam, error)
}

// CatalogRepositoryInterface covers categories and work centers
type CatalogRepositoryInterface interface {
	CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error)
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	GetCategories(ctx context.Context) ([]*models.Category, error)
	CreateWorkCenter(ctx context.Context, workCenter *models.WorkCenter) (*models.WorkCenter, error)
	GetWorkCenter(ctx context.Context, id string) (*models.WorkCenter, error)
	GetWorkCenters(ctx context.Context) ([]*models.WorkCenter, error)
}

// TransactionManagerInterface commits prepared writes atomically
type TransactionManagerInterface interface {
	Commit(ctx context.Context, ops ...models.WriteOp) error
}

// RepositoryContainerInterface defines the contract for the repository container
type RepositoryContainerInterface interface {
	GetRequestRepository() RequestRepositoryInterface
	GetEquipmentRepository() EquipmentRepositoryInterface
	GetUserRepository() UserRepositoryInterface
	GetTeamRepository() TeamRepositoryInterface
	GetCatalogRepository() CatalogRepositoryInterface
	GetTransactionManager() TransactionManagerInterface
}
