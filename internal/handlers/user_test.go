package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pge-app/incidents-api/internal/database"
	"github.com/pge-app/incidents-api/internal/dto"
	"github.com/pge-app/incidents-api/internal/geom"
	"github.com/pge-app/incidents-api/internal/models"
	"github.com/pge-app/incidents-api/internal/repository"
	"github.com/pge-app/incidents-api/internal/services"
)

// UserHandlerTestSuite defines the test suite for UserHandler
type UserHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

// SetupTest runs before each test
func (suite *UserHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.Role{},
		&models.IncidentState{},
		&models.Category{},
		&models.User{},
		&models.Incident{},
	)
	suite.Require().NoError(err)
	suite.Require().NoError(database.Seed(suite.db))

	database.SetDB(suite.db)

	userRepo := repository.NewUserRepository(suite.db)
	refRepo := repository.NewReferenceRepository(suite.db)
	userService := services.NewUserService(userRepo, refRepo)
	handler := NewUserHandler(userService)

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	users := suite.router.Group("/users")
	{
		users.GET("", handler.List)
		users.POST("", handler.Create)
		users.GET("/:id", handler.Get)
		users.PUT("/:id", handler.Update)
		users.DELETE("/:id", handler.Delete)
		users.PATCH("/:id/role", handler.ChangeRole)
	}
}

// TearDownTest runs after each test
func (suite *UserHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *UserHandlerTestSuite) request(method, url string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *UserHandlerTestSuite) createTestUser(email, username string) *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte("contraseña1"), bcrypt.DefaultCost)
	suite.Require().NoError(err)

	user := &models.User{
		FirstName:    "Carlos",
		LastName:     "Pérez",
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		RoleID:       1,
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *UserHandlerTestSuite) TestCreateUser() {
	w := suite.request("POST", "/users", gin.H{
		"nombre":   "Lucía",
		"apellido": "Moreno",
		"email":    "lucia@example.com",
		"username": "lmoreno",
		"password": "contraseña1",
		"rolId":    2,
	})
	suite.Require().Equal(http.StatusCreated, w.Code)

	var created struct {
		ID uint `json:"id"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))

	var user models.User
	suite.Require().NoError(suite.db.Preload("Role").First(&user, created.ID).Error)
	assert.Equal(suite.T(), "administrador", user.Role.Name)
	assert.NotEqual(suite.T(), "contraseña1", user.PasswordHash)
	assert.NoError(suite.T(), bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("contraseña1")))
}

func (suite *UserHandlerTestSuite) TestCreateUserRejectsUnknownRole() {
	w := suite.request("POST", "/users", gin.H{
		"nombre":   "Lucía",
		"email":    "lucia@example.com",
		"username": "lmoreno",
		"password": "contraseña1",
		"rolId":    99,
	})
	suite.Require().Equal(http.StatusBadRequest, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "rolId inválido")

	var count int64
	suite.db.Model(&models.User{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

func (suite *UserHandlerTestSuite) TestGetUserProfile() {
	user := suite.createTestUser("carlos@example.com", "cperez")

	w := suite.request("GET", fmt.Sprintf("/users/%d", user.ID), nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var profile dto.UserProfile
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(suite.T(), "Carlos", profile.FirstName)
	assert.Equal(suite.T(), "vecino", profile.Role)
	assert.NotContains(suite.T(), w.Body.String(), "password")
}

func (suite *UserHandlerTestSuite) TestGetMissingUser() {
	w := suite.request("GET", "/users/999", nil)
	suite.Require().Equal(http.StatusNotFound, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "Usuario con ID 999 no encontrado")
}

func (suite *UserHandlerTestSuite) TestPartialProfileUpdate() {
	user := suite.createTestUser("carlos@example.com", "cperez")

	w := suite.request("PUT", fmt.Sprintf("/users/%d", user.ID), gin.H{
		"apellido": "Pérez Roldán",
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	var reloaded models.User
	suite.Require().NoError(suite.db.First(&reloaded, user.ID).Error)
	assert.Equal(suite.T(), "Pérez Roldán", reloaded.LastName)
	assert.Equal(suite.T(), "Carlos", reloaded.FirstName)
	assert.Equal(suite.T(), "carlos@example.com", reloaded.Email)
}

func (suite *UserHandlerTestSuite) TestUpdateRejectsDuplicateEmail() {
	suite.createTestUser("carlos@example.com", "cperez")
	other := suite.createTestUser("otra@example.com", "otra")

	w := suite.request("PUT", fmt.Sprintf("/users/%d", other.ID), gin.H{
		"email": "carlos@example.com",
	})
	suite.Require().Equal(http.StatusBadRequest, w.Code)

	var reloaded models.User
	suite.Require().NoError(suite.db.First(&reloaded, other.ID).Error)
	assert.Equal(suite.T(), "otra@example.com", reloaded.Email)
}

func (suite *UserHandlerTestSuite) TestChangeRoleIsCaseInsensitive() {
	user := suite.createTestUser("carlos@example.com", "cperez")

	w := suite.request("PATCH", fmt.Sprintf("/users/%d/role", user.ID), gin.H{
		"rol": "Administrador",
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	var reloaded models.User
	suite.Require().NoError(suite.db.Preload("Role").First(&reloaded, user.ID).Error)
	assert.Equal(suite.T(), "administrador", reloaded.Role.Name)
}

func (suite *UserHandlerTestSuite) TestChangeRoleRejectsUnknownRole() {
	user := suite.createTestUser("carlos@example.com", "cperez")

	w := suite.request("PATCH", fmt.Sprintf("/users/%d/role", user.ID), gin.H{
		"rol": "alcalde",
	})
	suite.Require().Equal(http.StatusBadRequest, w.Code)

	var reloaded models.User
	suite.Require().NoError(suite.db.First(&reloaded, user.ID).Error)
	assert.Equal(suite.T(), uint(1), reloaded.RoleID)
}

func (suite *UserHandlerTestSuite) TestDeleteUserCascadesIncidents() {
	user := suite.createTestUser("carlos@example.com", "cperez")
	for i := 0; i < 3; i++ {
		incident := models.Incident{
			UserID:     user.ID,
			CategoryID: 1,
			Location:   geom.NewPoint(-64.19, -31.42),
			StateID:    1,
			CreatedAt:  time.Now().UTC(),
		}
		suite.Require().NoError(suite.db.Create(&incident).Error)
	}

	w := suite.request("DELETE", fmt.Sprintf("/users/%d", user.ID), nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var userCount, incidentCount int64
	suite.db.Model(&models.User{}).Count(&userCount)
	suite.db.Model(&models.Incident{}).Where("user_id = ?", user.ID).Count(&incidentCount)
	assert.Equal(suite.T(), int64(0), userCount)
	assert.Equal(suite.T(), int64(0), incidentCount)
}

func (suite *UserHandlerTestSuite) TestListUsers() {
	suite.createTestUser("carlos@example.com", "cperez")
	suite.createTestUser("otra@example.com", "otra")

	w := suite.request("GET", "/users", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var views []dto.UserView
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &views))
	assert.Len(suite.T(), views, 2)
}

func TestUserHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(UserHandlerTestSuite))
}
