package controller

import (
	"maintrack-backend/models"
	"maintrack-backend/services"
	"maintrack-backend/utils/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type CatalogController struct {
	catalogService services.CatalogServiceInterface
	logger         logger.Logger
	validator      *validator.Validate
}

func NewCatalogController(catalogService services.CatalogServiceInterface, logger logger.Logger) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
		logger:         logger,
		validator:      validator.New(),
	}
}

// CreateCategory handles POST /api/v1/categories
// @Summary Create an equipment category
// @Tags Catalog
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateCategoryRequest true "Category"
// @Success 201 {object} models.APIResponse "Category created"
// @Failure 403 {object} models.APIResponse "Managers only"
// @Router /categories [post]
func (h *CatalogController) CreateCategory(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req models.CreateCategoryRequest
	if !bind(c, h.validator, h.logger, &req) {
		return
	}

	category, err := h.catalogService.CreateCategory(c.Request.Context(), a, &req)
	if err != nil {
		respondError(c, h.logger, "Failed to create category", err)
		return
	}
	respond(c, http.StatusCreated, "Category created", category)
}

// GetCategories handles GET /api/v1/categories
// @Summary List equipment categories
// @Tags Catalog
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Categories"
// @Router /categories [get]
func (h *CatalogController) GetCategories(c *gin.Context) {
	categories, err := h.catalogService.GetCategories(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Failed to list categories", err)
		return
	}
	respondList(c, "Categories retrieved", categories, len(categories))
}

// CreateWorkCenter handles POST /api/v1/work-centers
// @Summary Create a work center
// @Tags Catalog
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateWorkCenterRequest true "Work center"
// @Success 201 {object} models.APIResponse "Work center created"
// @Failure 403 {object} models.APIResponse "Managers only"
// @Router /work-centers [post]
func (h *CatalogController) CreateWorkCenter(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req models.CreateWorkCenterRequest
	if !bind(c, h.validator, h.logger, &req) {
		return
	}

	workCenter, err := h.catalogService.CreateWorkCenter(c.Request.Context(), a, &req)
	if err != nil {
		respondError(c, h.logger, "Failed to create work center", err)
		return
	}
	respond(c, http.StatusCreated, "Work center created", workCenter)
}

// GetWorkCenters handles GET /api/v1/work-centers
// @Summary List work centers
// @Tags Catalog
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Work centers"
// @Router /work-centers [get]
func (h *CatalogController) GetWorkCenters(c *gin.Context) {
	workCenters, err := h.catalogService.GetWorkCenters(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Failed to list work centers", err)
		return
	}
	respondList(c, "Work centers retrieved", workCenters, len(workCenters))
}
