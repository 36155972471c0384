// internal/tests/auth_test.go
package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bankhub/credit-backend/internal/config"
	"github.com/bankhub/credit-backend/internal/handlers"
	"github.com/bankhub/credit-backend/internal/middleware"
	"github.com/bankhub/credit-backend/internal/models"
	"github.com/bankhub/credit-backend/internal/services"
	"github.com/bankhub/credit-backend/internal/utils"
)

type AuthTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

func (suite *AuthTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), db.AutoMigrate(
		&models.User{},
		&models.CreditProduct{},
		&models.CreditApplication{},
		&models.CreditScore{},
		&models.BlacklistEntry{},
	))
	suite.db = db

	cfg := &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
	}
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	authHandler := handlers.NewAuthHandler(
		services.NewAuthService(db, cfg, nil, clock.New()))

	suite.router = gin.New()
	auth := suite.router.Group("/v1/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
	}

	manager := suite.router.Group("/v1/manager")
	manager.Use(middleware.AuthRequired(), middleware.StaffRequired())
	{
		manager.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		})
	}
}

func (suite *AuthTestSuite) postJSON(path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	require.NoError(suite.T(), err)

	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	recorder := httptest.NewRecorder()
	suite.router.ServeHTTP(recorder, req)
	return recorder
}

func (suite *AuthTestSuite) get(path, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	suite.router.ServeHTTP(recorder, req)
	return recorder
}

func (suite *AuthTestSuite) register(email string) map[string]interface{} {
	recorder := suite.postJSON("/v1/auth/register", map[string]interface{}{
		"email":      email,
		"password":   "TestPass123!",
		"full_name":  "Lesya Ukrainka",
		"phone":      "+380671234567",
		"tax_number": "1234567890",
	}, nil)
	require.Equal(suite.T(), http.StatusCreated, recorder.Code, recorder.Body.String())

	var response map[string]interface{}
	require.NoError(suite.T(), json.Unmarshal(recorder.Body.Bytes(), &response))
	return response
}

func (suite *AuthTestSuite) TestRegistration() {
	response := suite.register("lesya@example.com")

	assert.True(suite.T(), response["success"].(bool))
	data := response["data"].(map[string]interface{})
	assert.NotEmpty(suite.T(), data["token"])
	assert.NotEmpty(suite.T(), data["refresh_token"])
	assert.Equal(suite.T(), "Bearer", data["token_type"])

	user := data["user"].(map[string]interface{})
	assert.Equal(suite.T(), "lesya@example.com", user["email"])
	assert.Equal(suite.T(), string(models.UserRoleCustomer), user["role"])
	assert.NotContains(suite.T(), user, "password_hash")
}

func (suite *AuthTestSuite) TestRegistrationRejectsDuplicateEmail() {
	suite.register("lesya@example.com")

	recorder := suite.postJSON("/v1/auth/register", map[string]interface{}{
		"email":     "lesya@example.com",
		"password":  "TestPass123!",
		"full_name": "Impostor",
	}, nil)
	assert.Equal(suite.T(), http.StatusBadRequest, recorder.Code)
}

func (suite *AuthTestSuite) TestRegistrationRejectsWeakPassword() {
	recorder := suite.postJSON("/v1/auth/register", map[string]interface{}{
		"email":     "weak@example.com",
		"password":  "short",
		"full_name": "Lesya Ukrainka",
	}, nil)
	assert.Equal(suite.T(), http.StatusBadRequest, recorder.Code)

	var response map[string]interface{}
	require.NoError(suite.T(), json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.False(suite.T(), response["success"].(bool))
}

func (suite *AuthTestSuite) TestLogin() {
	suite.register("lesya@example.com")

	recorder := suite.postJSON("/v1/auth/login", map[string]interface{}{
		"email":    "lesya@example.com",
		"password": "TestPass123!",
	}, nil)
	require.Equal(suite.T(), http.StatusOK, recorder.Code, recorder.Body.String())

	var response map[string]interface{}
	require.NoError(suite.T(), json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.True(suite.T(), response["success"].(bool))
	data := response["data"].(map[string]interface{})
	assert.NotEmpty(suite.T(), data["token"])
}

func (suite *AuthTestSuite) TestLoginRejectsWrongPassword() {
	suite.register("lesya@example.com")

	recorder := suite.postJSON("/v1/auth/login", map[string]interface{}{
		"email":    "lesya@example.com",
		"password": "WrongPass123!",
	}, nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, recorder.Code)
}

func (suite *AuthTestSuite) TestProfileRequiresToken() {
	recorder := suite.get("/v1/auth/me", "")
	assert.Equal(suite.T(), http.StatusUnauthorized, recorder.Code)

	recorder = suite.get("/v1/auth/me", "not-a-jwt")
	assert.Equal(suite.T(), http.StatusUnauthorized, recorder.Code)
}

func (suite *AuthTestSuite) TestProfileWithValidToken() {
	response := suite.register("lesya@example.com")
	token := response["data"].(map[string]interface{})["token"].(string)

	recorder := suite.get("/v1/auth/me", token)
	require.Equal(suite.T(), http.StatusOK, recorder.Code, recorder.Body.String())

	var profile map[string]interface{}
	require.NoError(suite.T(), json.Unmarshal(recorder.Body.Bytes(), &profile))
	user := profile["data"].(map[string]interface{})["user"].(map[string]interface{})
	assert.Equal(suite.T(), "lesya@example.com", user["email"])
}

func (suite *AuthTestSuite) TestStaffRouteRejectsCustomer() {
	response := suite.register("lesya@example.com")
	token := response["data"].(map[string]interface{})["token"].(string)

	recorder := suite.get("/v1/manager/ping", token)
	assert.Equal(suite.T(), http.StatusForbidden, recorder.Code)
}

func (suite *AuthTestSuite) TestStaffRouteAcceptsManager() {
	suite.register("manager@bankhub.ua")
	require.NoError(suite.T(), suite.db.Model(&models.User{}).
		Where("email = ?", "manager@bankhub.ua").
		Update("role", models.UserRoleManager).Error)

	// Re-login so the token carries the manager role.
	recorder := suite.postJSON("/v1/auth/login", map[string]interface{}{
		"email":    "manager@bankhub.ua",
		"password": "TestPass123!",
	}, nil)
	require.Equal(suite.T(), http.StatusOK, recorder.Code)

	var response map[string]interface{}
	require.NoError(suite.T(), json.Unmarshal(recorder.Body.Bytes(), &response))
	token := response["data"].(map[string]interface{})["token"].(string)

	recorder = suite.get("/v1/manager/ping", token)
	assert.Equal(suite.T(), http.StatusOK, recorder.Code)
}

func TestAuthSuite(t *testing.T) {
	suite.Run(t, new(AuthTestSuite))
}
