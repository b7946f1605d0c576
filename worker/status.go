package worker

import (
	"maintrack-backend/models"
	"sync"
	"time"
)

// StatusTracker keeps the worker's execution result in memory. Every
// reader gets a copy.
type StatusTracker struct {
	mu     sync.RWMutex
	result models.ExecutionResult
}

// NewStatusTracker starts in the idle state
func NewStatusTracker(environment string) *StatusTracker {
	return &StatusTracker{
		result: models.ExecutionResult{
			Status:        models.StatusIdle,
			StartTime:     time.Now(),
			Environment:   environment,
			TablesCreated: make([]string, 0),
			Tables:        make([]models.TableInfo, 0),
		},
	}
}

// Snapshot returns a copy of the current result
func (st *StatusTracker) Snapshot() models.ExecutionResult {
	st.mu.RLock()
	defer st.mu.RUnlock()

	out := st.result
	out.TablesCreated = append([]string(nil), st.result.TablesCreated...)
	out.Tables = append([]models.TableInfo(nil), st.result.Tables...)
	if st.result.LastCheck != nil {
		last := *st.result.LastCheck
		out.LastCheck = &last
	}
	return out
}

func (st *StatusTracker) SetStatus(status models.WorkerStatus) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.result.Status = status
	if status != models.StatusFailed && status != models.StatusDegraded {
		st.result.ErrorMessage = ""
	}
}

// AddTableCreated records a table this worker created
func (st *StatusTracker) AddTableCreated(tableName string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, name := range st.result.TablesCreated {
		if name == tableName {
			return
		}
	}
	st.result.TablesCreated = append(st.result.TablesCreated, tableName)
}

// MarkFailed marks provisioning as failed
func (st *StatusTracker) MarkFailed(errorMsg string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.result.Status = models.StatusFailed
	st.result.Healthy = false
	st.result.ErrorMessage = errorMsg
}

// RecordCheck stores the outcome of one health check. A failed check
// degrades the worker, a passing one puts it back into monitoring.
func (st *StatusTracker) RecordCheck(tables []models.TableInfo, healthy bool, checkErr error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := time.Now()
	st.result.LastCheck = &now
	st.result.Checks++
	st.result.Tables = tables
	st.result.Healthy = healthy && checkErr == nil

	if checkErr != nil {
		st.result.Status = models.StatusDegraded
		st.result.ErrorMessage = checkErr.Error()
		return
	}
	st.result.Status = models.StatusMonitoring
	st.result.ErrorMessage = ""
}
