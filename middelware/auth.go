package middelware

import (
	"context"
	"fmt"
	"maintrack-backend/apperror"
	"maintrack-backend/models"
	"maintrack-backend/utils/logger"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const (
	ContextUserID = "user_id"
	ContextClaims = "jwt_claims"
	ContextActor  = "actor"
)

// ActorResolver loads the current identity of a token subject
type ActorResolver interface {
	ResolveActor(ctx context.Context, userID string) (models.Actor, error)
}

// JWTManager handles JWT token operations and turns a valid token into an
// actor. Role and teams always come from the user store, never the token.
type JWTManager struct {
	Config     *models.Config
	Logger     logger.Logger
	Users      ActorResolver
	identities *cache.Cache
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(cfg *models.Config, log logger.Logger, users ActorResolver) *JWTManager {
	j := &JWTManager{
		Config: cfg,
		Logger: log,
		Users:  users,
	}
	if ttl := time.Duration(cfg.IdentityCacheTTLSeconds) * time.Second; ttl > 0 {
		j.identities = cache.New(ttl, 2*ttl)
	}
	return j
}

// GenerateToken generates a JWT token for a user
func (j *JWTManager) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := models.JWTClaims{
		UserID:  user.ID,
		Email:   user.Email,
		Name:    user.Name,
		Role:    user.Role,
		TeamIDs: user.TeamIDs,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID,
			Issuer:    j.Config.AppName,
			Audience:  jwt.ClaimStrings{j.Config.AppName},
			ExpiresAt: jwt.NewNumericDate(now.Add(j.Config.JWTExpiresIn)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.Config.JWTSecret))
	if err != nil {
		j.Logger.Errorf("Failed to sign JWT token: %v", err)
		return "", err
	}

	j.Logger.Debugf("Generated JWT token for user: %s", user.ID)
	return tokenString, nil
}

// ValidateToken checks signature, algorithm and time claims
func (j *JWTManager) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if method, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		} else if method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("invalid signing algorithm: %v", method.Alg())
		}
		return []byte(j.Config.JWTSecret), nil
	}, jwt.WithIssuer(j.Config.AppName), jwt.WithExpirationRequired())
	if err != nil {
		j.Logger.Errorf("Failed to parse JWT token: %v", err)
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || claims.UserID == "" {
		return nil, fmt.Errorf("invalid claims")
	}
	return claims, nil
}

// Actor resolves a user id through the identity cache, if one is enabled
func (j *JWTManager) Actor(ctx context.Context, userID string) (models.Actor, error) {
	if j.identities != nil {
		if cached, found := j.identities.Get(userID); found {
			return cached.(models.Actor), nil
		}
	}
	if j.Users == nil {
		return models.Actor{}, fmt.Errorf("no identity store configured")
	}
	actor, err := j.Users.ResolveActor(ctx, userID)
	if err != nil {
		return models.Actor{}, err
	}
	if j.identities != nil {
		j.identities.SetDefault(userID, actor)
	}
	return actor, nil
}

// ForgetIdentity drops a cached actor so the next request re-reads it
func (j *JWTManager) ForgetIdentity(userID string) {
	if j.identities != nil {
		j.identities.Delete(userID)
	}
}

// AuthMiddleware validates the Bearer token and stores the resolved actor
func (j *JWTManager) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "Missing Authorization header", "AuthenticationError", "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			abort(c, http.StatusUnauthorized, "Invalid Authorization header format", "AuthenticationError",
				"Authorization header must be in format: Bearer <token>")
			return
		}

		claims, err := j.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			abort(c, http.StatusUnauthorized, "Invalid or expired token", "AuthenticationError", err.Error())
			return
		}

		actor, err := j.Actor(c.Request.Context(), claims.UserID)
		if err != nil {
			j.Logger.Warnf("Token subject %s could not be resolved: %v", claims.UserID, err)
			switch apperror.KindOf(err) {
			case apperror.KindNotFound:
				abort(c, http.StatusUnauthorized, "Unknown user", "AuthenticationError", err.Error())
			case apperror.KindForbidden:
				abort(c, http.StatusForbidden, "User is deactivated", "AuthorizationError", err.Error())
			default:
				abort(c, http.StatusInternalServerError, "Identity lookup failed", "InternalError", err.Error())
			}
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextClaims, claims)
		c.Set(ContextActor, actor)

		j.Logger.Debugf("User authenticated: %s (%s)", actor.ID, actor.Role)
		c.Next()
	}
}

// ActorFromContext returns the actor stored by AuthMiddleware
func ActorFromContext(c *gin.Context) (models.Actor, bool) {
	value, exists := c.Get(ContextActor)
	if !exists {
		return models.Actor{}, false
	}
	actor, ok := value.(models.Actor)
	return actor, ok
}

// RequireRole lets the request through only for the listed roles
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "Authentication required", "AuthenticationError", "User not authenticated")
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, "Insufficient permissions", "AuthorizationError",
			fmt.Sprintf("Role %s may not access this resource", actor.Role))
	}
}

func abort(c *gin.Context, status int, message, errType, details string) {
	c.AbortWithStatusJSON(status, models.APIResponse{
		Status:  "error",
		Code:    status,
		Message: message,
		Error: &models.APIError{
			Type:    errType,
			Details: details,
		},
	})
}
