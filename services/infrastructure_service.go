package services

import (
	"context"
	"errors"
	"fmt"
	"maintrack-backend/models"
	"maintrack-backend/utils/logger"
	"time"
)

// WorkerStatusSource is the part of the storage worker the API reads
type WorkerStatusSource interface {
	Status() models.ExecutionResult
	CheckNow(ctx context.Context) error
}

var ErrWorkerNotRunning = errors.New("infrastructure worker is not running")

type InfrastructureService struct {
	worker WorkerStatusSource
	logger logger.Logger
	config *models.Config
}

func NewInfrastructureService(worker WorkerStatusSource, logger logger.Logger, config *models.Config) *InfrastructureService {
	return &InfrastructureService{
		worker: worker,
		logger: logger,
		config: config,
	}
}

// GetWorkerStatus returns the worker's latest snapshot
func (s *InfrastructureService) GetWorkerStatus(ctx context.Context) (*models.ExecutionResult, error) {
	s.logger.Debug("Getting worker status")
	if s.worker == nil {
		return nil, ErrWorkerNotRunning
	}
	result := s.worker.Status()
	return &result, nil
}

// RunHealthCheck describes every table now instead of waiting for the schedule
func (s *InfrastructureService) RunHealthCheck(ctx context.Context) (*models.ExecutionResult, error) {
	if s.worker == nil {
		return nil, ErrWorkerNotRunning
	}
	s.logger.Info("Running on-demand storage health check")
	if err := s.worker.CheckNow(ctx); err != nil {
		s.logger.Warnf("On-demand health check failed: %v", err)
		result := s.worker.Status()
		return &result, err
	}
	result := s.worker.Status()
	return &result, nil
}

// IsWorkerHealthy interprets the worker status for probes
func (s *InfrastructureService) IsWorkerHealthy() (bool, string, error) {
	if s.worker == nil {
		return false, "Worker not started", ErrWorkerNotRunning
	}
	status := s.worker.Status()

	switch status.Status {
	case models.StatusMonitoring:
		if !status.Healthy {
			return false, "Tables are not all active", nil
		}
		if status.LastCheck != nil && time.Since(*status.LastCheck) > 24*time.Hour {
			return false, "Health check has not run in over a day", nil
		}
		return true, "Worker is monitoring healthy tables", nil
	case models.StatusCreatingTables, models.StatusIdle:
		return false, "Worker is provisioning tables", nil
	case models.StatusDegraded:
		return false, fmt.Sprintf("Worker degraded: %s", status.ErrorMessage), nil
	case models.StatusFailed:
		return false, fmt.Sprintf("Worker failed: %s", status.ErrorMessage), nil
	case models.StatusStopped:
		return false, "Worker stopped", nil
	default:
		return false, "Worker status unknown", nil
	}
}
