// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/restitch/restitch-backend/internal/apperrors"
	"github.com/restitch/restitch-backend/internal/models"
	"github.com/restitch/restitch-backend/internal/utils"
)

type ProductService struct {
	db *gorm.DB
}

type CreateProductRequest struct {
	Title       string  `json:"title" validate:"required,min=3,max=255"`
	Description string  `json:"description" validate:"omitempty"`
	Price       float64 `json:"price" validate:"required,min=0.01"`
	ImageURL    string  `json:"image_url" validate:"omitempty,max=512"`
}

// UpdateProductRequest uses pointer fields so an absent field and an
// explicit zero value stay distinguishable.
type UpdateProductRequest struct {
	Title       *string               `json:"title" validate:"omitempty,min=3,max=255"`
	Description *string               `json:"description"`
	Price       *float64              `json:"price" validate:"omitempty,min=0.01"`
	ImageURL    *string               `json:"image_url" validate:"omitempty,max=512"`
	Status      *models.ProductStatus `json:"status"`
}

type ProductSearchParams struct {
	utils.PaginationParams
	CreatorID *uuid.UUID            `json:"creator_id,omitempty"`
	Status    *models.ProductStatus `json:"status,omitempty"`
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{
		db: db,
	}
}

func (s *ProductService) CreateProduct(principal *models.Principal, req *CreateProductRequest) (*models.Product, error) {
	if principal == nil {
		return nil, apperrors.Unauthorized("authentication required")
	}

	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.InvalidRequest(fmt.Sprintf("validation failed: %v", err))
	}

	product := &models.Product{
		CreatorID:   principal.UserID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Status:      models.ProductStatusAIGenerated,
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to create product: %w", err))
	}

	return product, nil
}

func (s *ProductService) GetProduct(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Creator").Preload("Manufacturer").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product")
		}
		return nil, apperrors.Internal(err)
	}

	return &product, nil
}

func (s *ProductService) SearchProducts(params ProductSearchParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{}).Preload("Creator")

	if params.CreatorID != nil {
		query = query.Where("creator_id = ?", *params.CreatorID)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal(fmt.Errorf("failed to count products: %w", err))
	}

	allowedSortFields := []string{"created_at", "updated_at", "title", "price", "status"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, apperrors.Internal(fmt.Errorf("failed to fetch products: %w", err))
	}

	return products, total, nil
}

func (s *ProductService) UpdateProduct(principal *models.Principal, id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if principal == nil {
		return nil, apperrors.Unauthorized("authentication required")
	}

	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.InvalidRequest(fmt.Sprintf("validation failed: %v", err))
	}

	product, err := s.GetOwnedProduct(principal, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, apperrors.InvalidRequest("invalid product status")
		}
		updates["status"] = *req.Status
	}

	if len(updates) == 0 {
		return nil, apperrors.InvalidRequest("no fields to update")
	}

	if err := s.db.Model(product).Updates(updates).Error; err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to update product: %w", err))
	}

	return product, nil
}

// GetOwnedProduct loads a product and verifies the principal created it.
// Callers run it before any side effect that only the owner may trigger.
func (s *ProductService) GetOwnedProduct(principal *models.Principal, id uuid.UUID) (*models.Product, error) {
	if principal == nil {
		return nil, apperrors.Unauthorized("authentication required")
	}

	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product")
		}
		return nil, apperrors.Internal(err)
	}

	if product.CreatorID != principal.UserID {
		return nil, apperrors.Unauthorized("only the product creator may modify it")
	}

	return &product, nil
}

func (s *ProductService) SetProductImage(principal *models.Principal, id uuid.UUID, imageURL string) (*models.Product, error) {
	product, err := s.GetOwnedProduct(principal, id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(product).Update("image_url", imageURL).Error; err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to update product image: %w", err))
	}

	return product, nil
}

func (s *ProductService) DeleteProduct(principal *models.Principal, id uuid.UUID) error {
	product, err := s.GetOwnedProduct(principal, id)
	if err != nil {
		return err
	}

	if err := s.db.Delete(product).Error; err != nil {
		return apperrors.Internal(fmt.Errorf("failed to delete product: %w", err))
	}

	return nil
}
