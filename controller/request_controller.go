package controller

import (
	"maintrack-backend/models"
	"maintrack-backend/services"
	"maintrack-backend/utils/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type RequestController struct {
	requestService services.RequestServiceInterface
	logger         logger.Logger
	validator      *validator.Validate
}

func NewRequestController(requestService services.RequestServiceInterface, logger logger.Logger) *RequestController {
	return &RequestController{
		requestService: requestService,
		logger:         logger,
		validator:      validator.New(),
	}
}

// CreateRequest handles POST /api/v1/requests
// @Summary Open a maintenance request
// @Description Open a CORRECTIVE or PREVENTIVE request against equipment or a work center. PREVENTIVE requests need a scheduledDate.
// @Tags Requests
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateRequestCommand true "Request details"
// @Success 201 {object} models.APIResponse "Request created"
// @Failure 400 {object} models.APIResponse "Malformed body"
// @Failure 403 {object} models.APIResponse "Technician assignment not allowed"
// @Failure 404 {object} models.APIResponse "Equipment, work center or team not found"
// @Failure 422 {object} models.APIResponse "Request violates a creation rule"
// @Router /requests [post]
func (h *RequestController) CreateRequest(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var cmd models.CreateRequestCommand
	if !bind(c, h.validator, h.logger, &cmd) {
		return
	}

	req, err := h.requestService.Create(c.Request.Context(), a, &cmd)
	if err != nil {
		respondError(c, h.logger, "Failed to create maintenance request", err)
		return
	}
	respond(c, http.StatusCreated, "Maintenance request created", req)
}

// GetRequest handles GET /api/v1/requests/:id
// @Summary Get a maintenance request
// @Tags Requests
// @Security BearerAuth
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} models.APIResponse "Request found"
// @Failure 403 {object} models.APIResponse "Request not visible to caller"
// @Failure 404 {object} models.APIResponse "Request not found"
// @Router /requests/{id} [get]
func (h *RequestController) GetRequest(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	req, err := h.requestService.Get(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Failed to get maintenance request", err)
		return
	}
	respond(c, http.StatusOK, "Maintenance request retrieved", req)
}

// ChangeStage handles PATCH /api/v1/requests/:id/stage
// @Summary Move a request to another stage
// @Description Allowed moves: NEW to IN_PROGRESS, IN_PROGRESS to REPAIRED or SCRAP. Moving to SCRAP also scraps the equipment.
// @Tags Requests
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param request body models.ChangeStageCommand true "Target stage"
// @Success 200 {object} models.APIResponse "Stage changed"
// @Failure 403 {object} models.APIResponse "Caller may not work this request"
// @Failure 404 {object} models.APIResponse "Request not found"
// @Failure 409 {object} models.APIResponse "Transition not allowed or concurrent update"
// @Failure 500 {object} models.APIResponse "Scrap cascade failed"
// @Router /requests/{id}/stage [patch]
func (h *RequestController) ChangeStage(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var cmd models.ChangeStageCommand
	if !bind(c, h.validator, h.logger, &cmd) {
		return
	}

	req, err := h.requestService.ChangeStage(c.Request.Context(), a, c.Param("id"), &cmd)
	if err != nil {
		respondError(c, h.logger, "Failed to change request stage", err)
		return
	}
	respond(c, http.StatusOK, "Request stage changed", req)
}

// AssignTechnician handles POST /api/v1/requests/:id/assign
// @Summary Assign a technician
// @Description Managers assign any technician of the request's team, technicians may only assign themselves.
// @Tags Requests
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param request body models.AssignCommand true "Technician"
// @Success 200 {object} models.APIResponse "Technician assigned"
// @Failure 403 {object} models.APIResponse "Assignment not allowed"
// @Failure 404 {object} models.APIResponse "Request or technician not found"
// @Failure 422 {object} models.APIResponse "Technician not in team or request closed"
// @Router /requests/{id}/assign [post]
func (h *RequestController) AssignTechnician(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var cmd models.AssignCommand
	if !bind(c, h.validator, h.logger, &cmd) {
		return
	}

	req, err := h.requestService.Assign(c.Request.Context(), a, c.Param("id"), cmd.TechnicianID)
	if err != nil {
		respondError(c, h.logger, "Failed to assign technician", err)
		return
	}
	respond(c, http.StatusOK, "Technician assigned", req)
}

// CompleteRequest handles POST /api/v1/requests/:id/complete
// @Summary Mark a request repaired
// @Description Without durationHours the time since work started is recorded, at least 0.1 hours.
// @Tags Requests
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param request body models.CompleteCommand false "Optional duration"
// @Success 200 {object} models.APIResponse "Request repaired"
// @Failure 409 {object} models.APIResponse "Request is not in progress"
// @Failure 422 {object} models.APIResponse "Negative duration"
// @Router /requests/{id}/complete [post]
func (h *RequestController) CompleteRequest(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var cmd models.CompleteCommand
	if c.Request.ContentLength != 0 && !bind(c, h.validator, h.logger, &cmd) {
		return
	}

	req, err := h.requestService.Complete(c.Request.Context(), a, c.Param("id"), cmd.DurationHours)
	if err != nil {
		respondError(c, h.logger, "Failed to complete request", err)
		return
	}
	respond(c, http.StatusOK, "Request repaired", req)
}

// ScrapRequest handles POST /api/v1/requests/:id/scrap
// @Summary Scrap a request and its equipment
// @Description The request and its equipment are both set to SCRAP in one write, and a note is appended to the equipment.
// @Tags Requests
// @Security BearerAuth
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} models.APIResponse "Request and equipment scrapped"
// @Failure 409 {object} models.APIResponse "Request is not in progress or concurrent update"
// @Failure 500 {object} models.APIResponse "Scrap cascade failed"
// @Router /requests/{id}/scrap [post]
func (h *RequestController) ScrapRequest(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	req, err := h.requestService.Scrap(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Failed to scrap request", err)
		return
	}
	respond(c, http.StatusOK, "Request scrapped", req)
}

// UpdateRequestStatus handles PATCH /api/v1/requests/:id/status
// @Summary Set a request stage and mirror it onto the equipment
// @Description Restricted to the assigned technician or a manager.
// @Tags Requests
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param request body models.UpdateStatusCommand true "Target stage"
// @Success 200 {object} models.APIResponse "Status updated"
// @Failure 403 {object} models.APIResponse "Caller is not the assigned technician"
// @Failure 409 {object} models.APIResponse "Transition not allowed"
// @Router /requests/{id}/status [patch]
func (h *RequestController) UpdateRequestStatus(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var cmd models.UpdateStatusCommand
	if !bind(c, h.validator, h.logger, &cmd) {
		return
	}

	req, err := h.requestService.UpdateRequestStatus(c.Request.Context(), a, c.Param("id"), cmd.Stage)
	if err != nil {
		respondError(c, h.logger, "Failed to update request status", err)
		return
	}
	respond(c, http.StatusOK, "Request status updated", req)
}

// UpdateTeamAndTechnician handles PATCH /api/v1/requests/:id/team
// @Summary Reassign team and technician
// @Tags Requests
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param request body models.UpdateTeamCommand true "New team and technician"
// @Success 200 {object} models.APIResponse "Request reassigned"
// @Failure 403 {object} models.APIResponse "Only managers may move requests between teams"
// @Failure 404 {object} models.APIResponse "Request, team or technician not found"
// @Failure 422 {object} models.APIResponse "Technician not in team"
// @Router /requests/{id}/team [patch]
func (h *RequestController) UpdateTeamAndTechnician(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var cmd models.UpdateTeamCommand
	if !bind(c, h.validator, h.logger, &cmd) {
		return
	}

	req, err := h.requestService.UpdateTeamAndTechnician(c.Request.Context(), a, c.Param("id"), &cmd)
	if err != nil {
		respondError(c, h.logger, "Failed to reassign request", err)
		return
	}
	respond(c, http.StatusOK, "Request reassigned", req)
}
