package controller

import (
	"context"
	"encoding/json"
	"errors"
	"maintrack-backend/models"
	"maintrack-backend/utils/logger"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// MockControllerLogger implements the logger interface for controller tests
type MockControllerLogger struct {
	mock.Mock
}

func (m *MockControllerLogger) Debug(args ...interface{})                 { m.Called(args...) }
func (m *MockControllerLogger) Debugf(format string, args ...interface{}) { m.Called(format, args) }
func (m *MockControllerLogger) Info(args ...interface{})                  { m.Called(args...) }
func (m *MockControllerLogger) Infof(format string, args ...interface{})  { m.Called(format, args) }
func (m *MockControllerLogger) Warn(args ...interface{})                  { m.Called(args...) }
func (m *MockControllerLogger) Warnf(format string, args ...interface{})  { m.Called(format, args) }
func (m *MockControllerLogger) Error(args ...interface{})                 { m.Called(args...) }
func (m *MockControllerLogger) Errorf(format string, args ...interface{}) { m.Called(format, args) }
func (m *MockControllerLogger) Fatal(args ...interface{})                 { m.Called(args...) }
func (m *MockControllerLogger) Fatalf(format string, args ...interface{}) { m.Called(format, args) }

func (m *MockControllerLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return m
}

func newMockControllerLogger() *MockControllerLogger {
	l := &MockControllerLogger{}
	for _, method := range []string{"Debug", "Info", "Warn", "Error"} {
		l.On(method, mock.Anything).Maybe()
		l.On(method+"f", mock.Anything, mock.Anything).Maybe()
	}
	return l
}

// MockInfrastructureService implements InfrastructureServiceInterface for testing
type MockInfrastructureService struct {
	mock.Mock
}

func (m *MockInfrastructureService) GetWorkerStatus(ctx context.Context) (*models.ExecutionResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExecutionResult), args.Error(1)
}

func (m *MockInfrastructureService) RunHealthCheck(ctx context.Context) (*models.ExecutionResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExecutionResult), args.Error(1)
}

func (m *MockInfrastructureService) IsWorkerHealthy() (bool, string, error) {
	args := m.Called()
	return args.Bool(0), args.String(1), args.Error(2)
}

// InfrastructureControllerTestSuite contains the test suite for InfrastructureController
type InfrastructureControllerTestSuite struct {
	suite.Suite
	infraController *InfrastructureController
	mockService     *MockInfrastructureService
	router          *gin.Engine
}

func (suite *InfrastructureControllerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.mockService = &MockInfrastructureService{}
	cfg := &models.Config{AppName: "MainTrack Backend", AppVersion: "1.2.3"}
	suite.infraController = NewInfrastructureController(suite.mockService, cfg, newMockControllerLogger())

	suite.router = gin.New()
	suite.router.GET("/health", suite.infraController.Health)
	suite.router.GET("/infrastructure/worker/status", suite.infraController.GetWorkerStatus)
	suite.router.POST("/infrastructure/worker/check", suite.infraController.RunHealthCheck)
}

func TestInfrastructureControllerTestSuite(t *testing.T) {
	suite.Run(t, new(InfrastructureControllerTestSuite))
}

func (suite *InfrastructureControllerTestSuite) serve(method, path string) (*httptest.ResponseRecorder, models.APIResponse) {
	req, err := http.NewRequest(method, path, nil)
	require.NoError(suite.T(), err)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var response models.APIResponse
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &response))
	return w, response
}

func (suite *InfrastructureControllerTestSuite) TestHealth() {
	suite.mockService.On("IsWorkerHealthy").Return(true, "Worker is monitoring healthy tables", nil).Once()

	w, response := suite.serve(http.MethodGet, "/health")

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	data := response.Data.(map[string]interface{})
	assert.Equal(suite.T(), "healthy", data["status"])
	assert.Equal(suite.T(), "healthy", data["storage"])
	assert.Equal(suite.T(), "1.2.3", data["version"])
	assert.Equal(suite.T(), "MainTrack Backend", data["service"])
}

func (suite *InfrastructureControllerTestSuite) TestHealthReportsDegradedStorage() {
	suite.mockService.On("IsWorkerHealthy").Return(false, "Worker is provisioning tables", nil).Once()

	w, response := suite.serve(http.MethodGet, "/health")

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	data := response.Data.(map[string]interface{})
	assert.Equal(suite.T(), "degraded", data["storage"])
	assert.Equal(suite.T(), "Worker is provisioning tables", data["reason"])
}

func (suite *InfrastructureControllerTestSuite) TestGetWorkerStatus() {
	now := time.Now()
	tests := []struct {
		name           string
		result         *models.ExecutionResult
		expectedCode   int
		expectedStatus string
	}{
		{"healthy", &models.ExecutionResult{Status: models.StatusMonitoring, Healthy: true, LastCheck: &now}, http.StatusOK, "success"},
		{"inactive tables", &models.ExecutionResult{Status: models.StatusMonitoring}, http.StatusOK, "warning"},
		{"provisioning", &models.ExecutionResult{Status: models.StatusCreatingTables}, http.StatusAccepted, "in_progress"},
		{"degraded", &models.ExecutionResult{Status: models.StatusDegraded, ErrorMessage: "timeout"}, http.StatusOK, "warning"},
		{"failed", &models.ExecutionResult{Status: models.StatusFailed, ErrorMessage: "access denied"}, http.StatusServiceUnavailable, "error"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.mockService.On("GetWorkerStatus", mock.Anything).Return(tt.result, nil).Once()

			w, response := suite.serve(http.MethodGet, "/infrastructure/worker/status")

			assert.Equal(suite.T(), tt.expectedCode, w.Code)
			assert.Equal(suite.T(), tt.expectedStatus, response.Status)
			assert.Equal(suite.T(), statusMessage(tt.result), response.Message)
		})
	}
}

func (suite *InfrastructureControllerTestSuite) TestGetWorkerStatusWorkerMissing() {
	suite.mockService.On("GetWorkerStatus", mock.Anything).Return(nil, errors.New("infrastructure worker is not running")).Once()

	w, response := suite.serve(http.MethodGet, "/infrastructure/worker/status")

	assert.Equal(suite.T(), http.StatusServiceUnavailable, w.Code)
	assert.Equal(suite.T(), "WorkerError", response.Error.Type)
}

func (suite *InfrastructureControllerTestSuite) TestRunHealthCheck() {
	now := time.Now()
	result := &models.ExecutionResult{Status: models.StatusMonitoring, Healthy: true, LastCheck: &now}
	suite.mockService.On("RunHealthCheck", mock.Anything).Return(result, nil).Once()

	w, response := suite.serve(http.MethodPost, "/infrastructure/worker/check")

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), "Storage is ready and healthy", response.Message)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *InfrastructureControllerTestSuite) TestRunHealthCheckFailure() {
	result := &models.ExecutionResult{Status: models.StatusDegraded}
	suite.mockService.On("RunHealthCheck", mock.Anything).Return(result, errors.New("describe table failed")).Once()

	w, response := suite.serve(http.MethodPost, "/infrastructure/worker/check")

	assert.Equal(suite.T(), http.StatusServiceUnavailable, w.Code)
	assert.Contains(suite.T(), response.Error.Details, "describe table failed")
}
