package repository

import (
	"maintrack-backend/dal"
	"maintrack-backend/models"
	"maintrack-backend/utils/logger"
)

type Repository struct {
	Request     *RequestRepository
	Equipment   *EquipmentRepository
	User        *UserRepository
	Team        *TeamRepository
	Catalog     *CatalogRepository
	Transaction *TransactionManager
}

func NewRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *Repository {
	return &Repository{
		Request:     NewRequestRepository(db, cfg, log),
		Equipment:   NewEquipmentRepository(db, cfg, log),
		User:        NewUserRepository(db, cfg, log),
		Team:        NewTeamRepository(db, cfg, log),
		Catalog:     NewCatalogRepository(db, cfg, log),
		Transaction: NewTransactionManager(db, log),
	}
}

func (r *Repository) GetRequestRepository() RequestRepositoryInterface {
	return r.Request
}

func (r *Repository) GetEquipmentRepository() EquipmentRepositoryInterface {
	return r.Equipment
}

func (r *Repository) GetUserRepository() UserRepositoryInterface {
	return r.User
}

func (r *Repository) GetTeamRepository() TeamRepositoryInterface {
	return r.Team
}

func (r *Repository) GetCatalogRepository() CatalogRepositoryInterface {
	return r.Catalog
}

func (r *Repository) GetTransactionManager() TransactionManagerInterface {
	return r.Transaction
}
