package controller

import (
	"errors"
	"maintrack-backend/apperror"
	"maintrack-backend/middelware"
	"maintrack-backend/models"
	"maintrack-backend/utils/logger"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// statusFor maps an error kind onto its HTTP status
func statusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindValidation:
		return http.StatusUnprocessableEntity
	case apperror.KindInvalidTransition, apperror.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, models.APIResponse{
		Status:  "success",
		Code:    status,
		Message: message,
		Data:    data,
	})
}

func respondList(c *gin.Context, message string, items interface{}, total int) {
	respond(c, http.StatusOK, message, models.ListResponse{Items: items, Total: total})
}

func respondError(c *gin.Context, log logger.Logger, message string, err error) {
	kind := apperror.KindOf(err)
	status := statusFor(kind)

	apiErr := &models.APIError{Type: string(kind), Details: err.Error()}
	var cascade *apperror.CascadeError
	if errors.As(err, &cascade) {
		apiErr.Field = cascade.EquipmentID
	}

	if status >= http.StatusInternalServerError {
		log.Errorf("%s: %v", message, err)
	} else {
		log.Warnf("%s: %v", message, err)
	}

	c.JSON(status, models.APIResponse{
		Status:  "error",
		Code:    status,
		Message: message,
		Error:   apiErr,
	})
}

func respondBadRequest(c *gin.Context, message, details string) {
	c.JSON(http.StatusBadRequest, models.APIResponse{
		Status:  "error",
		Code:    http.StatusBadRequest,
		Message: message,
		Error: &models.APIError{
			Type:    "ValidationError",
			Details: details,
		},
	})
}

// bind decodes the JSON body into req and runs its validate tags
func bind(c *gin.Context, v *validator.Validate, log logger.Logger, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		log.Warnf("Failed to bind JSON: %v", err)
		respondBadRequest(c, "Invalid request", err.Error())
		return false
	}
	if err := v.Struct(req); err != nil {
		log.Warnf("Validation failed: %v", err)
		respondBadRequest(c, "Validation failed", formatValidationErrors(err))
		return false
	}
	return true
}

func formatValidationErrors(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		switch fieldError.Tag() {
		case "required":
			messages = append(messages, fieldError.Field()+" is required")
		case "min":
			messages = append(messages, fieldError.Field()+" must be at least "+fieldError.Param()+" characters")
		case "max":
			messages = append(messages, fieldError.Field()+" must be at most "+fieldError.Param()+" characters")
		case "oneof":
			messages = append(messages, fieldError.Field()+" must be one of: "+fieldError.Param())
		case "email":
			messages = append(messages, fieldError.Field()+" must be a valid email")
		case "gte":
			messages = append(messages, fieldError.Field()+" must be at least "+fieldError.Param())
		default:
			messages = append(messages, fieldError.Field()+" is invalid")
		}
	}
	return strings.Join(messages, "; ")
}

// actor reads the authenticated actor or answers 401
func actor(c *gin.Context) (models.Actor, bool) {
	a, ok := middelware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.APIResponse{
			Status:  "error",
			Code:    http.StatusUnauthorized,
			Message: "Authentication required",
			Error: &models.APIError{
				Type:    "AuthenticationError",
				Details: "User not authenticated",
			},
		})
	}
	return a, ok
}
