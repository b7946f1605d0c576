package controller

import (
	"maintrack-backend/models"
	"maintrack-backend/services"
	"maintrack-backend/utils/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

type InfrastructureController struct {
	service services.InfrastructureServiceInterface
	config  *models.Config
	logger  logger.Logger
}

func NewInfrastructureController(service services.InfrastructureServiceInterface, cfg *models.Config, logger logger.Logger) *InfrastructureController {
	return &InfrastructureController{
		service: service,
		config:  cfg,
		logger:  logger,
	}
}

// Health handles GET /api/v1/health
// @Summary Liveness and storage health
// @Tags Infrastructure
// @Produce json
// @Success 200 {object} models.APIResponse "Service is up"
// @Router /health [get]
func (h *InfrastructureController) Health(c *gin.Context) {
	healthy, reason, err := h.service.IsWorkerHealthy()
	storage := "healthy"
	if err != nil || !healthy {
		storage = "degraded"
	}

	respond(c, http.StatusOK, "Service is running", map[string]interface{}{
		"status":  "healthy",
		"version": h.config.AppVersion,
		"service": h.config.AppName,
		"storage": storage,
		"reason":  reason,
	})
}

// GetWorkerStatus handles GET /api/v1/infrastructure/worker/status
// @Summary Storage worker status
// @Description Provisioning state, table health and the time of the last check.
// @Tags Infrastructure
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Worker is monitoring"
// @Success 202 {object} models.APIResponse "Tables are still being provisioned"
// @Failure 403 {object} models.APIResponse "Managers only"
// @Failure 503 {object} models.APIResponse "Worker failed or is not running"
// @Router /infrastructure/worker/status [get]
func (h *InfrastructureController) GetWorkerStatus(c *gin.Context) {
	workerStatus, err := h.service.GetWorkerStatus(c.Request.Context())
	if err != nil {
		h.workerUnavailable(c, err)
		return
	}

	httpStatus, apiStatus := mapWorkerStatusToHTTP(workerStatus)
	c.JSON(httpStatus, models.APIResponse{
		Status:  apiStatus,
		Code:    httpStatus,
		Message: statusMessage(workerStatus),
		Data:    workerStatus,
	})
}

// RunHealthCheck handles POST /api/v1/infrastructure/worker/check
// @Summary Run the table health check now
// @Tags Infrastructure
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Check completed"
// @Failure 403 {object} models.APIResponse "Managers only"
// @Failure 503 {object} models.APIResponse "Check failed or worker not running"
// @Router /infrastructure/worker/check [post]
func (h *InfrastructureController) RunHealthCheck(c *gin.Context) {
	result, err := h.service.RunHealthCheck(c.Request.Context())
	if err != nil {
		h.workerUnavailable(c, err)
		return
	}
	respond(c, http.StatusOK, statusMessage(result), result)
}

func (h *InfrastructureController) workerUnavailable(c *gin.Context, err error) {
	h.logger.Errorf("Infrastructure worker unavailable: %v", err)
	c.JSON(http.StatusServiceUnavailable, models.APIResponse{
		Status:  "error",
		Code:    http.StatusServiceUnavailable,
		Message: "Infrastructure worker unavailable",
		Error: &models.APIError{
			Type:    "WorkerError",
			Details: err.Error(),
		},
	})
}

// mapWorkerStatusToHTTP maps worker execution status to an HTTP status
func mapWorkerStatusToHTTP(ws *models.ExecutionResult) (int, string) {
	switch ws.Status {
	case models.StatusMonitoring:
		if ws.Healthy {
			return http.StatusOK, "success"
		}
		return http.StatusOK, "warning"
	case models.StatusIdle, models.StatusCreatingTables:
		return http.StatusAccepted, "in_progress"
	case models.StatusDegraded:
		return http.StatusOK, "warning"
	case models.StatusFailed, models.StatusStopped:
		return http.StatusServiceUnavailable, "error"
	default:
		return http.StatusOK, "info"
	}
}

func statusMessage(ws *models.ExecutionResult) string {
	switch ws.Status {
	case models.StatusMonitoring:
		if ws.Healthy {
			return "Storage is ready and healthy"
		}
		return "Some tables are not active"
	case models.StatusIdle:
		return "Worker has not started provisioning"
	case models.StatusCreatingTables:
		return "Creating storage tables"
	case models.StatusDegraded:
		return "Last health check failed"
	case models.StatusFailed:
		return "Storage provisioning failed, manual intervention may be required"
	case models.StatusStopped:
		return "Worker stopped"
	default:
		return "Worker status retrieved successfully"
	}
}
