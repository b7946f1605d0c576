package swagger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/swaggo/swag"
)

// SwaggerTestSuite defines a test suite for swagger functions
type SwaggerTestSuite struct {
	suite.Suite
	router *gin.Engine
}

func (suite *SwaggerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
}

func (suite *SwaggerTestSuite) get(path string) *httptest.ResponseRecorder {
	req, err := http.NewRequest(http.MethodGet, path, nil)
	require.NoError(suite.T(), err)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *SwaggerTestSuite) TestServeSwaggerUI() {
	suite.router.GET("/swagger", ServeSwaggerUI(SwaggerConfig{
		Title:         "Test API",
		SwaggerDocURL: "/swagger/doc.json",
		TokenURL:      "/api/v1/auth/token",
	}))

	w := suite.get("/swagger")

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(suite.T(), body, "<title>Test API</title>")
	assert.Contains(suite.T(), body, "/swagger/doc.json")
	assert.Contains(suite.T(), body, "/api/v1/auth/token")
	assert.Contains(suite.T(), body, "swagger-ui-bundle.js")
	assert.Contains(suite.T(), body, "token-email")
}

func (suite *SwaggerTestSuite) TestServeSwaggerUIWithoutTokenURL() {
	suite.router.GET("/swagger", ServeSwaggerUI(SwaggerConfig{}))

	w := suite.get("/swagger")

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(suite.T(), body, "API Documentation")
	assert.Contains(suite.T(), body, "/swagger/doc.json")
	assert.NotContains(suite.T(), body, "token-email")
	assert.NotContains(suite.T(), body, "signIn")
}

type staticDoc string

func (d staticDoc) ReadDoc() string { return string(d) }

func (suite *SwaggerTestSuite) TestServeDoc() {
	swag.Register("swagger-test", staticDoc(`{"swagger":"2.0"}`))
	suite.router.GET("/doc.json", ServeDoc("swagger-test"))
	suite.router.GET("/missing.json", ServeDoc("not-registered"))

	w := suite.get("/doc.json")
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.JSONEq(suite.T(), `{"swagger":"2.0"}`, w.Body.String())

	w = suite.get("/missing.json")
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func TestSwaggerTestSuite(t *testing.T) {
	suite.Run(t, new(SwaggerTestSuite))
}
