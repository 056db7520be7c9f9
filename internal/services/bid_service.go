// internal/services/bid_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/restitch/restitch-backend/internal/apperrors"
	"github.com/restitch/restitch-backend/internal/models"
	"github.com/restitch/restitch-backend/internal/utils"
)

type BidService struct {
	db *gorm.DB
}

type CreateBidRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Amount    float64   `json:"amount" validate:"required,min=0.01"`
	Notes     string    `json:"notes"`
}

// UpdateBidRequest is field-scoped: the bid's upholsterer may change amount
// and notes, the product's creator may change status. Pointer fields keep an
// absent field distinguishable from a zero value.
type UpdateBidRequest struct {
	Amount *float64          `json:"amount" validate:"omitempty,min=0.01"`
	Notes  *string           `json:"notes"`
	Status *models.BidStatus `json:"status"`
}

type BidSearchParams struct {
	utils.PaginationParams
	ProductID     *uuid.UUID        `json:"product_id,omitempty"`
	UpholstererID *uuid.UUID        `json:"upholsterer_id,omitempty"`
	Status        *models.BidStatus `json:"status,omitempty"`
}

func NewBidService(db *gorm.DB) *BidService {
	return &BidService{
		db: db,
	}
}

func (s *BidService) CreateBid(principal *models.Principal, req *CreateBidRequest) (*models.Bid, error) {
	if principal == nil || principal.Role != models.UserRoleUpholsterer {
		return nil, apperrors.Unauthorized("only upholsterers may place bids")
	}

	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.InvalidRequest(fmt.Sprintf("validation failed: %v", err))
	}

	var product models.Product
	if err := s.db.First(&product, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product")
		}
		return nil, apperrors.Internal(err)
	}

	if product.Status != models.ProductStatusAIGenerated {
		return nil, apperrors.InvalidState("product is not open for bidding")
	}

	// One bid per upholsterer per product.
	var existing int64
	if err := s.db.Model(&models.Bid{}).
		Where("product_id = ? AND upholsterer_id = ?", req.ProductID, principal.UserID).
		Count(&existing).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	if existing > 0 {
		return nil, apperrors.Conflict("you have already placed a bid on this product")
	}

	bid := &models.Bid{
		ProductID:     req.ProductID,
		UpholstererID: principal.UserID,
		Amount:        req.Amount,
		Notes:         req.Notes,
		Status:        models.BidStatusPending,
	}

	if err := s.db.Create(bid).Error; err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to create bid: %w", err))
	}

	return bid, nil
}

func (s *BidService) GetBid(id uuid.UUID) (*models.Bid, error) {
	var bid models.Bid
	if err := s.db.Preload("Product").Preload("Upholsterer").First(&bid, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("bid")
		}
		return nil, apperrors.Internal(err)
	}
	return &bid, nil
}

func (s *BidService) SearchBids(params BidSearchParams) ([]models.Bid, int64, error) {
	query := s.db.Model(&models.Bid{}).Preload("Upholsterer")

	if params.ProductID != nil {
		query = query.Where("product_id = ?", *params.ProductID)
	}
	if params.UpholstererID != nil {
		query = query.Where("upholsterer_id = ?", *params.UpholstererID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal(fmt.Errorf("failed to count bids: %w", err))
	}

	allowedSortFields := []string{"created_at", "updated_at", "amount", "status"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var bids []models.Bid
	if err := query.Find(&bids).Error; err != nil {
		return nil, 0, apperrors.Internal(fmt.Errorf("failed to fetch bids: %w", err))
	}

	return bids, total, nil
}

// UpdateBid applies a field-scoped partial update. When the product creator
// accepts a bid, the acceptance and the rejection of all sibling bids commit
// as one transaction, so a product never holds two accepted bids; the store's
// transaction isolation is the sole serialization point.
func (s *BidService) UpdateBid(principal *models.Principal, id uuid.UUID, req *UpdateBidRequest) (*models.Bid, error) {
	if principal == nil {
		return nil, apperrors.Unauthorized("authentication required")
	}

	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.InvalidRequest(fmt.Sprintf("validation failed: %v", err))
	}

	var bid models.Bid
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&bid, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("bid")
			}
			return apperrors.Internal(err)
		}

		var product models.Product
		if err := tx.First(&product, bid.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("product")
			}
			return apperrors.Internal(err)
		}

		isBidder := principal.UserID == bid.UpholstererID
		isCreator := principal.UserID == product.CreatorID
		if !isBidder && !isCreator {
			return apperrors.Unauthorized("not a party to this bid")
		}

		updates := make(map[string]interface{})

		if req.Amount != nil {
			if !isBidder {
				return apperrors.Unauthorized("only the bidding upholsterer may change the amount")
			}
			updates["amount"] = *req.Amount
		}
		if req.Notes != nil {
			if !isBidder {
				return apperrors.Unauthorized("only the bidding upholsterer may change the notes")
			}
			updates["notes"] = *req.Notes
		}

		accepting := false
		if req.Status != nil {
			if !isCreator {
				return apperrors.Unauthorized("only the product creator may change the bid status")
			}
			switch *req.Status {
			case models.BidStatusAccepted:
				accepting = true
			case models.BidStatusRejected:
				updates["status"] = models.BidStatusRejected
			default:
				// No way back to pending once decided.
				return apperrors.InvalidRequest("bid status must be accepted or rejected")
			}
		}

		if len(updates) == 0 && !accepting {
			return apperrors.InvalidRequest("no fields to update")
		}

		if len(updates) > 0 {
			if err := tx.Model(&bid).Updates(updates).Error; err != nil {
				return apperrors.Internal(fmt.Errorf("failed to update bid: %w", err))
			}
		}

		if accepting {
			// One statement decides the whole ledger for the product: the
			// target becomes accepted, every sibling becomes rejected
			// regardless of prior state.
			if err := tx.Model(&models.Bid{}).
				Where("product_id = ?", bid.ProductID).
				Update("status", gorm.Expr(
					"CASE WHEN id = ? THEN ? ELSE ? END",
					bid.ID, models.BidStatusAccepted, models.BidStatusRejected,
				)).Error; err != nil {
				return apperrors.Internal(fmt.Errorf("failed to apply accept transition: %w", err))
			}
			bid.Status = models.BidStatusAccepted

			// Acceptance assigns the manufacturer and moves the product out
			// of the biddable state.
			if err := tx.Model(&product).Updates(map[string]interface{}{
				"manufacturer_id": bid.UpholstererID,
				"status":          models.ProductStatusPending,
			}).Error; err != nil {
				return apperrors.Internal(fmt.Errorf("failed to assign manufacturer: %w", err))
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.First(&bid, id).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	return &bid, nil
}

// DeleteBid is permitted for the bid's upholsterer or the parent product's
// creator. Deletion is unconditional: removing an accepted bid also clears
// the product's manufacturer assignment and reopens it for bidding.
func (s *BidService) DeleteBid(principal *models.Principal, id uuid.UUID) error {
	if principal == nil {
		return apperrors.Unauthorized("authentication required")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var bid models.Bid
		if err := tx.First(&bid, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("bid")
			}
			return apperrors.Internal(err)
		}

		var product models.Product
		if err := tx.First(&product, bid.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("product")
			}
			return apperrors.Internal(err)
		}

		if principal.UserID != bid.UpholstererID && principal.UserID != product.CreatorID {
			return apperrors.Unauthorized("not a party to this bid")
		}

		if err := tx.Delete(&bid).Error; err != nil {
			return apperrors.Internal(fmt.Errorf("failed to delete bid: %w", err))
		}

		if bid.Status == models.BidStatusAccepted {
			if err := tx.Model(&product).Updates(map[string]interface{}{
				"manufacturer_id": nil,
				"status":          models.ProductStatusAIGenerated,
			}).Error; err != nil {
				return apperrors.Internal(fmt.Errorf("failed to clear manufacturer: %w", err))
			}
		}

		return nil
	})
}
