// internal/services/product_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/restitch/restitch-backend/internal/apperrors"
	"github.com/restitch/restitch-backend/internal/models"
	"github.com/restitch/restitch-backend/internal/utils"
)

type ProductServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	service  *ProductService
	owner    *models.User
	stranger *models.User
}

func (suite *ProductServiceTestSuite) SetupTest() {
	suite.db = setupTestDB(suite.T())
	suite.service = NewProductService(suite.db)
	suite.owner = createTestUser(suite.T(), suite.db, "owner@x.com", models.UserRoleClient)
	suite.stranger = createTestUser(suite.T(), suite.db, "stranger@x.com", models.UserRoleClient)
}

func (suite *ProductServiceTestSuite) TestCreateProduct() {
	product, err := suite.service.CreateProduct(principalOf(suite.owner), &CreateProductRequest{
		Title:       "Vintage sofa",
		Description: "Three-seater, torn leather",
		Price:       240,
	})
	suite.NoError(err)
	suite.Equal(suite.owner.ID, product.CreatorID)
	suite.Equal(models.ProductStatusAIGenerated, product.Status)
	suite.Nil(product.ManufacturerID)
}

func (suite *ProductServiceTestSuite) TestCreateProductValidation() {
	_, err := suite.service.CreateProduct(principalOf(suite.owner), &CreateProductRequest{
		Title: "ab", // too short
		Price: 10,
	})
	suite.Error(err)
	suite.Equal(apperrors.KindInvalidRequest, apperrors.KindOf(err))

	_, err = suite.service.CreateProduct(nil, &CreateProductRequest{Title: "Valid title", Price: 10})
	suite.Error(err)
	suite.Equal(apperrors.KindUnauthorized, apperrors.KindOf(err))
}

func (suite *ProductServiceTestSuite) TestGetProductNotFound() {
	_, err := suite.service.GetProduct(uuid.New())
	suite.Error(err)
	suite.Equal(apperrors.KindNotFound, apperrors.KindOf(err))
}

func (suite *ProductServiceTestSuite) TestUpdateProductOwnerOnly() {
	product := createTestProduct(suite.T(), suite.db, suite.owner.ID, models.ProductStatusAIGenerated)

	newTitle := "Reupholstered sofa"
	_, err := suite.service.UpdateProduct(principalOf(suite.stranger), product.ID, &UpdateProductRequest{
		Title: &newTitle,
	})
	suite.Error(err)
	suite.Equal(apperrors.KindUnauthorized, apperrors.KindOf(err))

	updated, err := suite.service.UpdateProduct(principalOf(suite.owner), product.ID, &UpdateProductRequest{
		Title: &newTitle,
	})
	suite.NoError(err)
	suite.Equal(newTitle, updated.Title)
}

func (suite *ProductServiceTestSuite) TestUpdateProductEmptyRequest() {
	product := createTestProduct(suite.T(), suite.db, suite.owner.ID, models.ProductStatusAIGenerated)

	_, err := suite.service.UpdateProduct(principalOf(suite.owner), product.ID, &UpdateProductRequest{})
	suite.Error(err)
	suite.Equal(apperrors.KindInvalidRequest, apperrors.KindOf(err))
}

func (suite *ProductServiceTestSuite) TestUpdateProductInvalidStatus() {
	product := createTestProduct(suite.T(), suite.db, suite.owner.ID, models.ProductStatusAIGenerated)

	bogus := models.ProductStatus("archived")
	_, err := suite.service.UpdateProduct(principalOf(suite.owner), product.ID, &UpdateProductRequest{
		Status: &bogus,
	})
	suite.Error(err)
	suite.Equal(apperrors.KindInvalidRequest, apperrors.KindOf(err))
}

func (suite *ProductServiceTestSuite) TestUpdateProductPartialFields() {
	product := createTestProduct(suite.T(), suite.db, suite.owner.ID, models.ProductStatusAIGenerated)

	newPrice := 99.99
	updated, err := suite.service.UpdateProduct(principalOf(suite.owner), product.ID, &UpdateProductRequest{
		Price: &newPrice,
	})
	suite.NoError(err)
	suite.Equal(newPrice, updated.Price)
	suite.Equal(product.Title, updated.Title)
}

func (suite *ProductServiceTestSuite) TestSearchProductsFilters() {
	createTestProduct(suite.T(), suite.db, suite.owner.ID, models.ProductStatusAIGenerated)
	createTestProduct(suite.T(), suite.db, suite.owner.ID, models.ProductStatusCompleted)
	createTestProduct(suite.T(), suite.db, suite.stranger.ID, models.ProductStatusAIGenerated)

	status := models.ProductStatusAIGenerated
	products, total, err := suite.service.SearchProducts(ProductSearchParams{
		PaginationParams: utils.PaginationParams{Page: 1, Limit: 20},
		Status:           &status,
	})
	suite.NoError(err)
	suite.Equal(int64(2), total)
	suite.Len(products, 2)

	products, total, err = suite.service.SearchProducts(ProductSearchParams{
		PaginationParams: utils.PaginationParams{Page: 1, Limit: 20},
		CreatorID:        &suite.stranger.ID,
	})
	suite.NoError(err)
	suite.Equal(int64(1), total)
	suite.Equal(suite.stranger.ID, products[0].CreatorID)
}

func (suite *ProductServiceTestSuite) TestSearchProductsText() {
	suite.db.Create(&models.Product{
		CreatorID:   suite.owner.ID,
		Title:       "Chesterfield couch",
		Description: "Deep button tufting",
		Price:       500,
		Status:      models.ProductStatusAIGenerated,
	})
	createTestProduct(suite.T(), suite.db, suite.owner.ID, models.ProductStatusAIGenerated)

	products, total, err := suite.service.SearchProducts(ProductSearchParams{
		PaginationParams: utils.PaginationParams{Page: 1, Limit: 20, Search: "chesterfield"},
	})
	suite.NoError(err)
	suite.Equal(int64(1), total)
	suite.Equal("Chesterfield couch", products[0].Title)
}

func (suite *ProductServiceTestSuite) TestDeleteProductOwnerOnly() {
	product := createTestProduct(suite.T(), suite.db, suite.owner.ID, models.ProductStatusAIGenerated)

	err := suite.service.DeleteProduct(principalOf(suite.stranger), product.ID)
	suite.Error(err)
	suite.Equal(apperrors.KindUnauthorized, apperrors.KindOf(err))

	suite.NoError(suite.service.DeleteProduct(principalOf(suite.owner), product.ID))

	_, err = suite.service.GetProduct(product.ID)
	suite.Error(err)
	suite.Equal(apperrors.KindNotFound, apperrors.KindOf(err))
}

func (suite *ProductServiceTestSuite) TestGetOwnedProduct() {
	product := createTestProduct(suite.T(), suite.db, suite.owner.ID, models.ProductStatusAIGenerated)

	got, err := suite.service.GetOwnedProduct(principalOf(suite.owner), product.ID)
	suite.NoError(err)
	suite.Equal(product.ID, got.ID)

	_, err = suite.service.GetOwnedProduct(principalOf(suite.stranger), product.ID)
	suite.True(apperrors.IsKind(err, apperrors.KindUnauthorized))

	_, err = suite.service.GetOwnedProduct(principalOf(suite.owner), uuid.New())
	suite.True(apperrors.IsKind(err, apperrors.KindNotFound))

	_, err = suite.service.GetOwnedProduct(nil, product.ID)
	suite.True(apperrors.IsKind(err, apperrors.KindUnauthorized))
}

func (suite *ProductServiceTestSuite) TestSetProductImage() {
	product := createTestProduct(suite.T(), suite.db, suite.owner.ID, models.ProductStatusAIGenerated)

	updated, err := suite.service.SetProductImage(principalOf(suite.owner), product.ID, "https://cdn.test/img.jpg")
	suite.NoError(err)
	suite.Equal("https://cdn.test/img.jpg", updated.ImageURL)

	_, err = suite.service.SetProductImage(principalOf(suite.stranger), product.ID, "https://cdn.test/other.jpg")
	suite.Error(err)
	suite.Equal(apperrors.KindUnauthorized, apperrors.KindOf(err))
}

func TestProductServiceSuite(t *testing.T) {
	suite.Run(t, new(ProductServiceTestSuite))
}
