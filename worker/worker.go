package worker

import (
	"context"
	"errors"
	"fmt"
	"maintrack-backend/dal"
	"maintrack-backend/infrastructure"
	"maintrack-backend/models"
	"maintrack-backend/utils/logger"
	"sync"
	"time"

	"github.com/robfig/cron"
)

const defaultHealthCheckSchedule = "@every 5m"

var (
	ErrProvisioning   = errors.New("storage provisioning is still running")
	ErrAlreadyRunning = errors.New("worker is already running")
)

// Worker provisions the storage tables once and then checks their health
// on a cron schedule
type Worker struct {
	workerConfig *models.WorkerConfig
	provisioner  *Provisioner
	status       *StatusTracker
	cronJob      *cron.Cron
	logger       logger.Logger

	mu      sync.Mutex
	running bool
}

// DefaultWorkerConfig derives the worker settings from the service config
func DefaultWorkerConfig(cfg *models.Config) *models.WorkerConfig {
	schedule := cfg.HealthCheckSchedule
	if schedule == "" {
		schedule = defaultHealthCheckSchedule
	}
	tables := cfg.Tables
	if len(tables) == 0 {
		tables = infrastructure.SchemaNames()
	}
	return &models.WorkerConfig{
		HealthCheckSchedule: schedule,
		MaxRetries:          5,
		RetryDelay:          2 * time.Second,
		Environment:         cfg.AppEnv,
		Tables:              tables,
	}
}

func NewWorker(db dal.DatabaseClientInterface, cfg *models.Config, wc *models.WorkerConfig, log logger.Logger) (*Worker, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if log == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if db == nil {
		return nil, fmt.Errorf("database client cannot be nil")
	}
	if wc == nil {
		wc = DefaultWorkerConfig(cfg)
	}
	if err := validateWorkerConfig(wc); err != nil {
		return nil, fmt.Errorf("invalid worker configuration: %w", err)
	}

	return &Worker{
		workerConfig: wc,
		provisioner:  NewProvisioner(db, cfg, wc, log),
		status:       NewStatusTracker(wc.Environment),
		cronJob:      cron.New(),
		logger:       log,
	}, nil
}

// validateWorkerConfig validates the worker configuration
func validateWorkerConfig(config *models.WorkerConfig) error {
	if config.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if config.RetryDelay <= 0 {
		return fmt.Errorf("retry delay must be positive")
	}
	if len(config.Tables) == 0 {
		return fmt.Errorf("at least one table must be specified")
	}
	for _, table := range config.Tables {
		if !hasSchema(table) {
			return fmt.Errorf("no schema for table %q", table)
		}
	}
	if _, err := cron.Parse(config.HealthCheckSchedule); err != nil {
		return fmt.Errorf("invalid health check schedule '%s': %w", config.HealthCheckSchedule, err)
	}
	return nil
}

func hasSchema(table string) bool {
	for _, name := range infrastructure.SchemaNames() {
		if name == table {
			return true
		}
	}
	return false
}

// Provision creates missing tables, retrying with backoff, and runs a
// first health check. It blocks until done or ctx ends.
func (w *Worker) Provision(ctx context.Context) error {
	w.status.SetStatus(models.StatusCreatingTables)

	err := w.provisioner.EnsureTables(ctx, w.status.AddTableCreated)
	if err != nil {
		w.logger.Errorf("Storage provisioning failed: %v", err)
		w.status.MarkFailed(err.Error())
		return err
	}

	w.logger.Info("Storage provisioning completed")
	return w.check(ctx)
}

// Start schedules the periodic health check
func (w *Worker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return ErrAlreadyRunning
	}
	if err := w.cronJob.AddFunc(w.workerConfig.HealthCheckSchedule, w.healthCheckJob); err != nil {
		return fmt.Errorf("failed to add health check job: %w", err)
	}
	w.cronJob.Start()
	w.running = true

	w.logger.Infof("Storage health check scheduled: %s", w.workerConfig.HealthCheckSchedule)
	return nil
}

// Stop halts the schedule. A running check is not waited for.
func (w *Worker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	w.cronJob.Stop()
	w.running = false
	w.status.SetStatus(models.StatusStopped)
	w.logger.Info("Infrastructure worker stopped")
}

// IsRunning returns whether the schedule is active
func (w *Worker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Status returns the current worker status
func (w *Worker) Status() models.ExecutionResult {
	return w.status.Snapshot()
}

// CheckNow runs the health check immediately
func (w *Worker) CheckNow(ctx context.Context) error {
	if w.status.Snapshot().Status == models.StatusCreatingTables {
		return ErrProvisioning
	}
	return w.check(ctx)
}

func (w *Worker) healthCheckJob() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	current := w.status.Snapshot().Status
	if current == models.StatusCreatingTables || current == models.StatusStopped {
		return
	}
	if err := w.check(ctx); err != nil {
		w.logger.Errorf("Storage health check failed: %v", err)
	}
}

func (w *Worker) check(ctx context.Context) error {
	w.logger.Debug("Performing storage health check")

	tables, healthy, err := w.provisioner.Validate(ctx)
	w.status.RecordCheck(tables, healthy, err)
	if err != nil {
		return err
	}
	if !healthy {
		w.logger.Warn("Storage health check found inactive tables or indexes")
	}
	return nil
}
