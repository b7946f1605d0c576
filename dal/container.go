package dal

import (
	"fmt"
	"maintrack-backend/models"
	"maintrack-backend/utils/logger"
)

// DALContainer holds the database client selected by configuration
type DALContainer struct {
	client DatabaseClientInterface
}

// NewDALContainer builds the client for cfg.StorageDriver
func NewDALContainer(cfg *models.Config, log logger.Logger) (*DALContainer, error) {
	switch cfg.StorageDriver {
	case models.StorageDriverMemory:
		log.Warn("Using in-memory storage; data is lost on restart")
		return &DALContainer{client: NewMemoryClient(log)}, nil
	case models.StorageDriverDynamoDB, "":
		client, err := NewDynamoDBClient(cfg, log)
		if err != nil {
			return nil, err
		}
		return &DALContainer{client: client}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// GetDatabaseClient returns the database client
func (c *DALContainer) GetDatabaseClient() DatabaseClientInterface {
	return c.client
}
