package middelware

import (
	"context"
	"encoding/json"
	"maintrack-backend/apperror"
	"maintrack-backend/models"
	"maintrack-backend/utils/logger"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// MockLogger implements the logger interface for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(args ...interface{})                 { m.Called(args...) }
func (m *MockLogger) Debugf(format string, args ...interface{}) { m.Called(format, args) }
func (m *MockLogger) Info(args ...interface{})                  { m.Called(args...) }
func (m *MockLogger) Infof(format string, args ...interface{})  { m.Called(format, args) }
func (m *MockLogger) Warn(args ...interface{})                  { m.Called(args...) }
func (m *MockLogger) Warnf(format string, args ...interface{})  { m.Called(format, args) }
func (m *MockLogger) Error(args ...interface{})                 { m.Called(args...) }
func (m *MockLogger) Errorf(format string, args ...interface{}) { m.Called(format, args) }
func (m *MockLogger) Fatal(args ...interface{})                 { m.Called(args...) }
func (m *MockLogger) Fatalf(format string, args ...interface{}) { m.Called(format, args) }

func (m *MockLogger) WithFields(fields map[string]interface{}) logger.Logger {
	m.Called(fields)
	return m
}

func newMockLogger() *MockLogger {
	l := &MockLogger{}
	for _, method := range []string{"Debug", "Info", "Warn", "Error"} {
		l.On(method, mock.Anything).Return().Maybe()
		l.On(method+"f", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	}
	l.On("WithFields", mock.Anything).Return().Maybe()
	return l
}

// MockActorResolver is a mock implementation of ActorResolver
type MockActorResolver struct {
	mock.Mock
}

func (m *MockActorResolver) ResolveActor(ctx context.Context, userID string) (models.Actor, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.Actor), args.Error(1)
}

// AuthMiddlewareTestSuite defines a test suite for auth middleware functions
type AuthMiddlewareTestSuite struct {
	suite.Suite
	config     *models.Config
	resolver   *MockActorResolver
	jwtManager *JWTManager
	router     *gin.Engine
}

func (suite *AuthMiddlewareTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.config = &models.Config{
		AppName:                 "TestApp",
		JWTSecret:               "test-secret-key-for-testing",
		JWTExpiresIn:            time.Hour,
		IdentityCacheTTLSeconds: 30,
	}
	suite.resolver = new(MockActorResolver)
	suite.jwtManager = NewJWTManager(suite.config, newMockLogger(), suite.resolver)

	suite.router = gin.New()
	suite.router.GET("/me", suite.jwtManager.AuthMiddleware(), func(c *gin.Context) {
		actor, _ := ActorFromContext(c)
		c.JSON(http.StatusOK, actor)
	})
	suite.router.GET("/managers",
		suite.jwtManager.AuthMiddleware(),
		RequireRole(models.RoleManager),
		func(c *gin.Context) { c.Status(http.StatusOK) })
}

func (suite *AuthMiddlewareTestSuite) token(user *models.User) string {
	token, err := suite.jwtManager.GenerateToken(user)
	require.NoError(suite.T(), err)
	return token
}

func (suite *AuthMiddlewareTestSuite) get(path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.APIResponse {
	var resp models.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (suite *AuthMiddlewareTestSuite) TestGenerateToken() {
	user := &models.User{ID: "usr_1", Email: "t@example.com", Name: "Tom", Role: models.RoleTechnician, TeamIDs: []string{"team_a"}}

	token := suite.token(user)

	claims, err := suite.jwtManager.ValidateToken(token)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "usr_1", claims.UserID)
	assert.Equal(suite.T(), "usr_1", claims.Subject)
	assert.Equal(suite.T(), models.RoleTechnician, claims.Role)
	assert.Equal(suite.T(), []string{"team_a"}, claims.TeamIDs)
	assert.NotEmpty(suite.T(), claims.ID)
}

func (suite *AuthMiddlewareTestSuite) TestValidateTokenRejections() {
	user := &models.User{ID: "usr_1"}

	other := *suite.config
	other.JWTSecret = "another-secret"
	foreign, err := NewJWTManager(&other, newMockLogger(), nil).GenerateToken(user)
	require.NoError(suite.T(), err)
	_, err = suite.jwtManager.ValidateToken(foreign)
	assert.Error(suite.T(), err)

	expired := *suite.config
	expired.JWTExpiresIn = -time.Minute
	stale, err := NewJWTManager(&expired, newMockLogger(), nil).GenerateToken(user)
	require.NoError(suite.T(), err)
	_, err = suite.jwtManager.ValidateToken(stale)
	assert.ErrorIs(suite.T(), err, jwt.ErrTokenExpired)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, models.JWTClaims{UserID: "usr_1"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(suite.T(), err)
	_, err = suite.jwtManager.ValidateToken(unsigned)
	assert.Error(suite.T(), err)
}

func (suite *AuthMiddlewareTestSuite) TestAuthMiddlewareResolvesActor() {
	actor := models.Actor{ID: "usr_1", Role: models.RoleTechnician, TeamIDs: []string{"team_b"}}
	suite.resolver.On("ResolveActor", mock.Anything, "usr_1").Return(actor, nil).Once()

	token := suite.token(&models.User{ID: "usr_1", Role: models.RoleManager, TeamIDs: []string{"team_a"}})
	for i := 0; i < 2; i++ {
		w := suite.get("/me", "Bearer "+token)
		require.Equal(suite.T(), http.StatusOK, w.Code)

		var got models.Actor
		require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(suite.T(), actor, got)
	}
	suite.resolver.AssertExpectations(suite.T())
}

func (suite *AuthMiddlewareTestSuite) TestForgetIdentityReloads() {
	suite.resolver.On("ResolveActor", mock.Anything, "usr_1").
		Return(models.Actor{ID: "usr_1", Role: models.RoleUser}, nil).Twice()
	token := suite.token(&models.User{ID: "usr_1"})

	assert.Equal(suite.T(), http.StatusOK, suite.get("/me", "Bearer "+token).Code)
	suite.jwtManager.ForgetIdentity("usr_1")
	assert.Equal(suite.T(), http.StatusOK, suite.get("/me", "Bearer "+token).Code)
	suite.resolver.AssertExpectations(suite.T())
}

func (suite *AuthMiddlewareTestSuite) TestAuthMiddlewareHeaderErrors() {
	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"wrong scheme", "Basic abc"},
		{"empty token", "Bearer   "},
		{"garbage token", "Bearer not-a-jwt"},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.get("/me", tt.header)
			assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
			resp := decodeError(suite.T(), w)
			assert.Equal(suite.T(), "error", resp.Status)
			assert.Equal(suite.T(), "AuthenticationError", resp.Error.Type)
		})
	}
	suite.resolver.AssertNotCalled(suite.T(), "ResolveActor", mock.Anything, mock.Anything)
}

func (suite *AuthMiddlewareTestSuite) TestAuthMiddlewareUnknownOrInactiveUser() {
	suite.resolver.On("ResolveActor", mock.Anything, "usr_gone").
		Return(models.Actor{}, apperror.NotFound("user", "usr_gone"))
	suite.resolver.On("ResolveActor", mock.Anything, "usr_off").
		Return(models.Actor{}, apperror.Forbidden("USER", "user usr_off is deactivated"))

	w := suite.get("/me", "Bearer "+suite.token(&models.User{ID: "usr_gone"}))
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	w = suite.get("/me", "Bearer "+suite.token(&models.User{ID: "usr_off"}))
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *AuthMiddlewareTestSuite) TestRequireRole() {
	suite.resolver.On("ResolveActor", mock.Anything, "usr_m").Return(models.Actor{ID: "usr_m", Role: models.RoleManager}, nil)
	suite.resolver.On("ResolveActor", mock.Anything, "usr_u").Return(models.Actor{ID: "usr_u", Role: models.RoleUser}, nil)

	assert.Equal(suite.T(), http.StatusOK, suite.get("/managers", "Bearer "+suite.token(&models.User{ID: "usr_m"})).Code)

	w := suite.get("/managers", "Bearer "+suite.token(&models.User{ID: "usr_u"}))
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
	assert.Equal(suite.T(), "AuthorizationError", decodeError(suite.T(), w).Error.Type)
}

func TestRequireRoleWithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/", RequireRole(models.RoleManager), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareTestSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareTestSuite))
}

func TestIdentityCacheDisabled(t *testing.T) {
	resolver := new(MockActorResolver)
	resolver.On("ResolveActor", mock.Anything, "usr_1").Return(models.Actor{ID: "usr_1", Role: models.RoleUser}, nil).Twice()
	manager := NewJWTManager(&models.Config{AppName: "TestApp", JWTSecret: "s"}, newMockLogger(), resolver)

	for i := 0; i < 2; i++ {
		_, err := manager.Actor(context.Background(), "usr_1")
		require.NoError(t, err)
	}
	resolver.AssertExpectations(t)
}
