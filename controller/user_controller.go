package controller

import (
	"maintrack-backend/models"
	"maintrack-backend/services"
	"maintrack-backend/utils/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// TokenIssuer signs access tokens for stored users
type TokenIssuer interface {
	GenerateToken(user *models.User) (string, error)
}

type UserController struct {
	userService services.UserServiceInterface
	tokens      TokenIssuer
	config      *models.Config
	logger      logger.Logger
	validator   *validator.Validate
}

func NewUserController(userService services.UserServiceInterface, tokens TokenIssuer, cfg *models.Config, logger logger.Logger) *UserController {
	return &UserController{
		userService: userService,
		tokens:      tokens,
		config:      cfg,
		logger:      logger,
		validator:   validator.New(),
	}
}

// TokenRequest asks for a token on behalf of an existing user
type TokenRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// IssueToken handles POST /api/v1/auth/token
// @Summary Issue a development token
// @Description Signs a token for an existing active user. Not registered when app_env is production.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body TokenRequest true "User email"
// @Success 200 {object} models.APIResponse "Token issued"
// @Failure 403 {object} models.APIResponse "User is deactivated"
// @Failure 404 {object} models.APIResponse "No user with this email"
// @Router /auth/token [post]
func (h *UserController) IssueToken(c *gin.Context) {
	var req TokenRequest
	if !bind(c, h.validator, h.logger, &req) {
		return
	}

	user, err := h.userService.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, h.logger, "Failed to find user", err)
		return
	}
	if _, err := h.userService.ResolveActor(c.Request.Context(), user.ID); err != nil {
		respondError(c, h.logger, "User may not sign in", err)
		return
	}

	token, err := h.tokens.GenerateToken(user)
	if err != nil {
		respondError(c, h.logger, "Token generation failed", err)
		return
	}

	h.logger.Infof("Development token issued for %s", user.ID)
	respond(c, http.StatusOK, "Token generated successfully", map[string]interface{}{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   int(h.config.JWTExpiresIn.Seconds()),
		"user":         user,
	})
}

// CreateUser handles POST /api/v1/users
// @Summary Create a user
// @Description Technicians must be created with at least one team.
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateUserRequest true "User"
// @Success 201 {object} models.APIResponse "User created"
// @Failure 403 {object} models.APIResponse "Managers only"
// @Failure 422 {object} models.APIResponse "Duplicate email or missing team"
// @Router /users [post]
func (h *UserController) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if !bind(c, h.validator, h.logger, &req) {
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, "Failed to create user", err)
		return
	}
	respond(c, http.StatusCreated, "User created", user)
}

// GetMe handles GET /api/v1/users/me
// @Summary Current user
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Stored user record"
// @Router /users/me [get]
func (h *UserController) GetMe(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	user, err := h.userService.GetUser(c.Request.Context(), a.ID)
	if err != nil {
		respondError(c, h.logger, "Failed to get user", err)
		return
	}
	respond(c, http.StatusOK, "User retrieved", user)
}

// ListTechnicians handles GET /api/v1/users/technicians
// @Summary Technicians available for assignment
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param teamId query string false "Only technicians of this team"
// @Success 200 {object} models.APIResponse "Active technicians ordered by name"
// @Router /users/technicians [get]
func (h *UserController) ListTechnicians(c *gin.Context) {
	technicians, err := h.userService.ListTechnicians(c.Request.Context(), c.Query("teamId"))
	if err != nil {
		respondError(c, h.logger, "Failed to list technicians", err)
		return
	}
	respondList(c, "Technicians retrieved", technicians, len(technicians))
}
