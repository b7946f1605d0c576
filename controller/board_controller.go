package controller

import (
	"maintrack-backend/services"
	"maintrack-backend/utils/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

// BoardController serves the read-side projections: kanban, calendar,
// per-equipment history and the manager dashboard
type BoardController struct {
	boardService     services.BoardServiceInterface
	dashboardService services.DashboardServiceInterface
	logger           logger.Logger
}

func NewBoardController(board services.BoardServiceInterface, dashboard services.DashboardServiceInterface, logger logger.Logger) *BoardController {
	return &BoardController{
		boardService:     board,
		dashboardService: dashboard,
		logger:           logger,
	}
}

// Kanban handles GET /api/v1/board/kanban
// @Summary Kanban board
// @Description Visible requests grouped into NEW, IN_PROGRESS, REPAIRED and SCRAP columns, newest first.
// @Tags Board
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Kanban columns"
// @Router /board/kanban [get]
func (h *BoardController) Kanban(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	columns, err := h.boardService.Kanban(c.Request.Context(), a)
	if err != nil {
		respondError(c, h.logger, "Failed to build kanban board", err)
		return
	}
	respond(c, http.StatusOK, "Kanban board retrieved", columns)
}

// Calendar handles GET /api/v1/board/calendar
// @Summary Preventive maintenance calendar
// @Tags Board
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Calendar events ordered by date"
// @Router /board/calendar [get]
func (h *BoardController) Calendar(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	events, err := h.boardService.Calendar(c.Request.Context(), a)
	if err != nil {
		respondError(c, h.logger, "Failed to build calendar", err)
		return
	}
	respondList(c, "Calendar retrieved", events, len(events))
}

// ByEquipment handles GET /api/v1/equipment/:id/requests
// @Summary Requests of one equipment
// @Tags Board
// @Security BearerAuth
// @Produce json
// @Param id path string true "Equipment ID"
// @Success 200 {object} models.APIResponse "Visible requests, newest first"
// @Failure 404 {object} models.APIResponse "Equipment not found"
// @Router /equipment/{id}/requests [get]
func (h *BoardController) ByEquipment(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	cards, err := h.boardService.ByEquipment(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Failed to list equipment requests", err)
		return
	}
	respondList(c, "Equipment requests retrieved", cards, len(cards))
}

// DashboardStats handles GET /api/v1/dashboard/stats
// @Summary Manager dashboard
// @Description Critical equipment, technician load, open and overdue counts and the latest open requests.
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Dashboard statistics"
// @Failure 403 {object} models.APIResponse "Managers only"
// @Router /dashboard/stats [get]
func (h *BoardController) DashboardStats(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	stats, err := h.dashboardService.Stats(c.Request.Context(), a)
	if err != nil {
		respondError(c, h.logger, "Failed to compute dashboard", err)
		return
	}
	respond(c, http.StatusOK, "Dashboard retrieved", stats)
}

// RequestsPerTeam handles GET /api/v1/dashboard/requests-per-team
// @Summary Visible requests per team
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Counts, largest first"
// @Router /dashboard/requests-per-team [get]
func (h *BoardController) RequestsPerTeam(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	counts, err := h.dashboardService.RequestsPerTeam(c.Request.Context(), a)
	if err != nil {
		respondError(c, h.logger, "Failed to count requests per team", err)
		return
	}
	respondList(c, "Requests per team retrieved", counts, len(counts))
}
