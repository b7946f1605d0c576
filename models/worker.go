package models

import "time"

// WorkerStatus represents the current state of the storage worker
type WorkerStatus string

const (
	StatusIdle           WorkerStatus = "idle"
	StatusCreatingTables WorkerStatus = "creating_tables"
	StatusMonitoring     WorkerStatus = "monitoring"
	StatusDegraded       WorkerStatus = "degraded"
	StatusFailed         WorkerStatus = "failed"
	StatusStopped        WorkerStatus = "stopped"
)

// WorkerConfig holds configuration for the storage worker
type WorkerConfig struct {
	HealthCheckSchedule string        `json:"health_check_schedule"`
	MaxRetries          int           `json:"max_retries"`
	RetryDelay          time.Duration `json:"retry_delay"`
	Environment         string        `json:"environment"`
	Tables              []string      `json:"tables"`
}

// TableInfo describes a table the worker provisions
type TableInfo struct {
	Name        string            `json:"name"`
	BaseName    string            `json:"base_name"`
	Status      string            `json:"status"`
	IndexCount  int               `json:"index_count"`
	BillingMode string            `json:"billing_mode"`
	Tags        map[string]string `json:"tags"`
	CheckedAt   time.Time         `json:"checked_at"`
}

// ExecutionResult is a snapshot of what the worker has done so far
type ExecutionResult struct {
	Status        WorkerStatus `json:"status"`
	Healthy       bool         `json:"healthy"`
	StartTime     time.Time    `json:"start_time"`
	LastCheck     *time.Time   `json:"last_check,omitempty"`
	TablesCreated []string     `json:"tables_created"`
	Tables        []TableInfo  `json:"tables"`
	ErrorMessage  string       `json:"error_message,omitempty"`
	Environment   string       `json:"environment"`
	Checks        int          `json:"checks"`
}
