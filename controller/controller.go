package controller

import (
	"maintrack-backend/middelware"
	"maintrack-backend/models"
	"maintrack-backend/services"
	"maintrack-backend/utils/logger"
	"maintrack-backend/utils/swagger"

	"github.com/gin-gonic/gin"
)

const productionEnv = "production"

type Controller struct {
	Request        *RequestController
	Board          *BoardController
	Equipment      *EquipmentController
	Team           *TeamController
	Catalog        *CatalogController
	User           *UserController
	Infrastructure *InfrastructureController

	jwtManager *middelware.JWTManager
	cors       *middelware.CORSMiddleware
	logging    *middelware.LoggingMiddleware
	limiter    *middelware.IPRateLimiter
	config     *models.Config
}

func NewController(svc services.ServiceContainerInterface, jwtManager *middelware.JWTManager, cfg *models.Config, log logger.Logger) *Controller {
	return &Controller{
		Request:        NewRequestController(svc.GetRequestService(), log),
		Board:          NewBoardController(svc.GetBoardService(), svc.GetDashboardService(), log),
		Equipment:      NewEquipmentController(svc.GetEquipmentService(), log),
		Team:           NewTeamController(svc.GetTeamService(), jwtManager, log),
		Catalog:        NewCatalogController(svc.GetCatalogService(), log),
		User:           NewUserController(svc.GetUserService(), jwtManager, cfg, log),
		Infrastructure: NewInfrastructureController(svc.GetInfrastructureService(), cfg, log),

		jwtManager: jwtManager,
		cors:       middelware.NewCORSMiddleware(cfg),
		logging:    middelware.NewLoggingMiddleware(log, cfg.BasePath+"/health"),
		limiter:    middelware.NewIPRateLimiter(cfg.RateLimitRequestsPerMinute),
		config:     cfg,
	}
}

// RegisterRoutes mounts every endpoint on r. It does not start a server.
func (c *Controller) RegisterRoutes(r *gin.Engine) {
	r.Use(
		c.logging.RequestID(),
		c.logging.StructuredLogger(),
		c.logging.Recovery(),
		c.cors.CORS(),
		c.limiter.RateLimit(),
	)
	r.NoRoute(middelware.NoRoute)

	v1 := r.Group(c.config.BasePath)

	// Public endpoints
	v1.GET("/health", c.Infrastructure.Health)

	swaggerConfig := swagger.SwaggerConfig{
		Title:         c.config.AppName + " API",
		SwaggerDocURL: "/swagger/doc.json",
	}
	if c.config.AppEnv != productionEnv {
		v1.POST("/auth/token", c.User.IssueToken)
		swaggerConfig.TokenURL = c.config.BasePath + "/auth/token"
	}
	r.GET("/swagger", swagger.ServeSwaggerUI(swaggerConfig))
	r.GET("/swagger/index.html", swagger.ServeSwaggerUI(swaggerConfig))
	r.GET("/swagger/doc.json", swagger.ServeDoc("swagger"))

	api := v1.Group("", c.jwtManager.AuthMiddleware())
	manager := middelware.RequireRole(models.RoleManager)

	// Request lifecycle
	requests := api.Group("/requests")
	requests.POST("", c.Request.CreateRequest)
	requests.GET("/:id", c.Request.GetRequest)
	requests.PATCH("/:id/stage", c.Request.ChangeStage)
	requests.POST("/:id/assign", c.Request.AssignTechnician)
	requests.POST("/:id/complete", c.Request.CompleteRequest)
	requests.POST("/:id/scrap", c.Request.ScrapRequest)
	requests.PATCH("/:id/status", c.Request.UpdateRequestStatus)
	requests.PATCH("/:id/team", c.Request.UpdateTeamAndTechnician)

	// Views
	board := api.Group("/board")
	board.GET("/kanban", c.Board.Kanban)
	board.GET("/calendar", c.Board.Calendar)

	dashboard := api.Group("/dashboard")
	dashboard.GET("/stats", c.Board.DashboardStats)
	dashboard.GET("/requests-per-team", c.Board.RequestsPerTeam)

	// Equipment
	equipment := api.Group("/equipment")
	equipment.POST("", c.Equipment.CreateEquipment)
	equipment.GET("", c.Equipment.ListEquipment)
	equipment.GET("/active", c.Equipment.ActiveEquipment)
	equipment.GET("/count-by-category", c.Equipment.CountByCategory)
	equipment.GET("/:id", c.Equipment.GetEquipment)
	equipment.GET("/:id/requests", c.Board.ByEquipment)
	equipment.PATCH("/:id/status", c.Equipment.UpdateStatus)
	equipment.POST("/:id/notes", c.Equipment.AddNote)

	// Teams
	teams := api.Group("/teams")
	teams.POST("", c.Team.CreateTeam)
	teams.GET("", c.Team.GetTeams)
	teams.GET("/:id", c.Team.GetTeam)
	teams.POST("/:id/members", c.Team.AddMember)
	teams.DELETE("/:id/members/:userId", c.Team.RemoveMember)

	// Catalog
	api.POST("/categories", c.Catalog.CreateCategory)
	api.GET("/categories", c.Catalog.GetCategories)
	api.POST("/work-centers", c.Catalog.CreateWorkCenter)
	api.GET("/work-centers", c.Catalog.GetWorkCenters)

	// Users
	users := api.Group("/users")
	users.POST("", manager, c.User.CreateUser)
	users.GET("/me", c.User.GetMe)
	users.GET("/technicians", c.User.ListTechnicians)

	// Infrastructure
	infra := api.Group("/infrastructure", manager)
	infra.GET("/worker/status", c.Infrastructure.GetWorkerStatus)
	infra.POST("/worker/check", c.Infrastructure.RunHealthCheck)
}
