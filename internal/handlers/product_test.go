// internal/handlers/product_test.go
package handlers

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/restitch/restitch-backend/internal/config"
	"github.com/restitch/restitch-backend/internal/middleware"
	"github.com/restitch/restitch-backend/internal/models"
	"github.com/restitch/restitch-backend/internal/services"
	"github.com/restitch/restitch-backend/internal/utils"
)

type ProductHandlerTestSuite struct {
	suite.Suite
	db       *gorm.DB
	router   *gin.Engine
	owner    *models.User
	stranger *models.User
	product  *models.Product
}

func (suite *ProductHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", suite.T().Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	suite.Require().NoError(err)

	sqlDB, err := db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	suite.Require().NoError(db.AutoMigrate(
		&models.User{},
		&models.Product{},
	))
	suite.db = db

	cfg := &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:      "test-secret",
			AccessTokenTTL: 24,
		},
	}
	cfg.Server.Port = "8080"
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	productService := services.NewProductService(db)
	storageService := services.NewStorageService(cfg)
	handler := NewProductHandler(productService, storageService)

	router := gin.New()
	router.POST("/products/:id/image", middleware.AuthRequired(), handler.UploadProductImage)
	suite.router = router

	suite.owner = suite.createUser("owner@x.com")
	suite.stranger = suite.createUser("stranger@x.com")

	suite.product = &models.Product{
		CreatorID: suite.owner.ID,
		Title:     "Worn out armchair",
		Price:     120.50,
		Status:    models.ProductStatusAIGenerated,
	}
	suite.Require().NoError(db.Create(suite.product).Error)
}

func (suite *ProductHandlerTestSuite) createUser(email string) *models.User {
	now := time.Now()
	user := &models.User{
		FullName:         "Test User",
		Email:            email,
		Role:             models.UserRoleClient,
		EmailConfirmedAt: &now,
	}
	suite.Require().NoError(user.SetPassword("password123"))
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *ProductHandlerTestSuite) tokenFor(user *models.User) string {
	token, err := utils.GenerateJWT(user.ID, user.Role, 1)
	suite.Require().NoError(err)
	return token
}

func (suite *ProductHandlerTestSuite) uploadImage(productID uuid.UUID, token string, withFile bool) *httptest.ResponseRecorder {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if withFile {
		part, err := writer.CreateFormFile("image", "chair.png")
		suite.Require().NoError(err)
		_, err = part.Write([]byte("not a real png"))
		suite.Require().NoError(err)
	}
	suite.Require().NoError(writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/products/"+productID.String()+"/image", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *ProductHandlerTestSuite) TestUploadImageByOwner() {
	w := suite.uploadImage(suite.product.ID, suite.tokenFor(suite.owner), true)
	suite.Equal(http.StatusOK, w.Code)

	var product models.Product
	suite.Require().NoError(suite.db.First(&product, suite.product.ID).Error)
	suite.NotEmpty(product.ImageURL)
}

func (suite *ProductHandlerTestSuite) TestUploadImageByNonOwnerRejectedBeforeUpload() {
	w := suite.uploadImage(suite.product.ID, suite.tokenFor(suite.stranger), true)
	suite.Equal(http.StatusUnauthorized, w.Code)

	// The request fails at the ownership check; the stored image is untouched.
	var product models.Product
	suite.Require().NoError(suite.db.First(&product, suite.product.ID).Error)
	suite.Empty(product.ImageURL)
}

func (suite *ProductHandlerTestSuite) TestUploadImageUnknownProduct() {
	w := suite.uploadImage(uuid.New(), suite.tokenFor(suite.owner), true)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *ProductHandlerTestSuite) TestUploadImageMissingFile() {
	w := suite.uploadImage(suite.product.ID, suite.tokenFor(suite.owner), false)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func TestProductHandlerSuite(t *testing.T) {
	suite.Run(t, new(ProductHandlerTestSuite))
}
