package controller

import (
	"maintrack-backend/models"
	"maintrack-backend/services"
	"maintrack-backend/utils/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type EquipmentController struct {
	equipmentService services.EquipmentServiceInterface
	logger           logger.Logger
	validator        *validator.Validate
}

func NewEquipmentController(equipmentService services.EquipmentServiceInterface, logger logger.Logger) *EquipmentController {
	return &EquipmentController{
		equipmentService: equipmentService,
		logger:           logger,
		validator:        validator.New(),
	}
}

// CreateEquipment handles POST /api/v1/equipment
// @Summary Register equipment
// @Tags Equipment
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateEquipmentRequest true "Equipment details"
// @Success 201 {object} models.APIResponse "Equipment created"
// @Failure 403 {object} models.APIResponse "Managers only"
// @Failure 404 {object} models.APIResponse "Team or category not found"
// @Router /equipment [post]
func (h *EquipmentController) CreateEquipment(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req models.CreateEquipmentRequest
	if !bind(c, h.validator, h.logger, &req) {
		return
	}

	equipment, err := h.equipmentService.CreateEquipment(c.Request.Context(), a, &req)
	if err != nil {
		respondError(c, h.logger, "Failed to create equipment", err)
		return
	}
	respond(c, http.StatusCreated, "Equipment created", equipment)
}

// ListEquipment handles GET /api/v1/equipment
// @Summary List equipment
// @Description Every record carries the status derived from open requests and the stored status.
// @Tags Equipment
// @Security BearerAuth
// @Produce json
// @Param teamId query string false "Only equipment of this team"
// @Param categoryId query string false "Only equipment of this category"
// @Success 200 {object} models.APIResponse "Equipment list"
// @Router /equipment [get]
func (h *EquipmentController) ListEquipment(c *gin.Context) {
	filter := &models.EquipmentFilter{
		TeamID:     c.Query("teamId"),
		CategoryID: c.Query("categoryId"),
	}
	equipment, err := h.equipmentService.ListEquipment(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, "Failed to list equipment", err)
		return
	}
	respondList(c, "Equipment retrieved", equipment, len(equipment))
}

// ActiveEquipment handles GET /api/v1/equipment/active
// @Summary List equipment that is not scrapped
// @Tags Equipment
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Active equipment"
// @Router /equipment/active [get]
func (h *EquipmentController) ActiveEquipment(c *gin.Context) {
	equipment, err := h.equipmentService.ActiveEquipment(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Failed to list active equipment", err)
		return
	}
	respondList(c, "Active equipment retrieved", equipment, len(equipment))
}

// GetEquipment handles GET /api/v1/equipment/:id
// @Summary Get equipment
// @Tags Equipment
// @Security BearerAuth
// @Produce json
// @Param id path string true "Equipment ID"
// @Success 200 {object} models.APIResponse "Equipment found"
// @Failure 404 {object} models.APIResponse "Equipment not found"
// @Router /equipment/{id} [get]
func (h *EquipmentController) GetEquipment(c *gin.Context) {
	equipment, err := h.equipmentService.GetEquipment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Failed to get equipment", err)
		return
	}
	respond(c, http.StatusOK, "Equipment retrieved", equipment)
}

// UpdateStatus handles PATCH /api/v1/equipment/:id/status
// @Summary Edit the stored equipment status
// @Description Only the stored status changes. The reported status keeps following open requests.
// @Tags Equipment
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Equipment ID"
// @Param request body models.UpdateEquipmentStatusRequest true "New status"
// @Success 200 {object} models.APIResponse "Status stored"
// @Failure 403 {object} models.APIResponse "Managers only"
// @Failure 409 {object} models.APIResponse "Concurrent update"
// @Router /equipment/{id}/status [patch]
func (h *EquipmentController) UpdateStatus(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req models.UpdateEquipmentStatusRequest
	if !bind(c, h.validator, h.logger, &req) {
		return
	}

	equipment, err := h.equipmentService.UpdateStatus(c.Request.Context(), a, c.Param("id"), &req)
	if err != nil {
		respondError(c, h.logger, "Failed to update equipment status", err)
		return
	}
	respond(c, http.StatusOK, "Equipment status updated", equipment)
}

// AddNote handles POST /api/v1/equipment/:id/notes
// @Summary Append a note
// @Tags Equipment
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Equipment ID"
// @Param request body models.AddEquipmentNoteRequest true "Note"
// @Success 201 {object} models.APIResponse "Note added"
// @Failure 403 {object} models.APIResponse "Caller may not annotate this equipment"
// @Router /equipment/{id}/notes [post]
func (h *EquipmentController) AddNote(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req models.AddEquipmentNoteRequest
	if !bind(c, h.validator, h.logger, &req) {
		return
	}

	equipment, err := h.equipmentService.AddNote(c.Request.Context(), a, c.Param("id"), req.Text)
	if err != nil {
		respondError(c, h.logger, "Failed to add equipment note", err)
		return
	}
	respond(c, http.StatusCreated, "Note added", equipment)
}

// CountByCategory handles GET /api/v1/equipment/count-by-category
// @Summary Equipment count per category
// @Tags Equipment
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Counts per category"
// @Router /equipment/count-by-category [get]
func (h *EquipmentController) CountByCategory(c *gin.Context) {
	counts, err := h.equipmentService.CountByCategory(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Failed to count equipment", err)
		return
	}
	respondList(c, "Equipment counts retrieved", counts, len(counts))
}
