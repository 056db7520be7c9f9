// internal/handlers/bid.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/restitch/restitch-backend/internal/models"
	"github.com/restitch/restitch-backend/internal/services"
	"github.com/restitch/restitch-backend/internal/utils"
)

type BidHandler struct {
	bidService *services.BidService
}

func NewBidHandler(bidService *services.BidService) *BidHandler {
	return &BidHandler{
		bidService: bidService,
	}
}

// GET /bids
func (h *BidHandler) GetBids(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	searchParams := services.BidSearchParams{
		PaginationParams: params,
	}

	if productIDStr := c.Query("product_id"); productIDStr != "" {
		if productID, err := uuid.Parse(productIDStr); err == nil {
			searchParams.ProductID = &productID
		}
	}

	if upholstererIDStr := c.Query("upholsterer_id"); upholstererIDStr != "" {
		if upholstererID, err := uuid.Parse(upholstererIDStr); err == nil {
			searchParams.UpholstererID = &upholstererID
		}
	}

	if status := c.Query("status"); status != "" {
		bidStatus := models.BidStatus(status)
		searchParams.Status = &bidStatus
	}

	bids, total, err := h.bidService.SearchBids(searchParams)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	result := utils.CreatePaginationResult(bids, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /bids
func (h *BidHandler) CreateBid(c *gin.Context) {
	principal, exists := utils.GetPrincipalFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	bid, err := h.bidService.CreateBid(principal, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"bid": bid,
	})
}

// GET /bids/:id
func (h *BidHandler) GetBid(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid bid ID", nil)
		return
	}

	bid, err := h.bidService.GetBid(id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"bid": bid,
	})
}

// PUT /bids/:id
func (h *BidHandler) UpdateBid(c *gin.Context) {
	principal, exists := utils.GetPrincipalFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid bid ID", nil)
		return
	}

	var req services.UpdateBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	bid, err := h.bidService.UpdateBid(principal, id, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"bid": bid,
	})
}

// DELETE /bids/:id
func (h *BidHandler) DeleteBid(c *gin.Context) {
	principal, exists := utils.GetPrincipalFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid bid ID", nil)
		return
	}

	if err := h.bidService.DeleteBid(principal, id); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Bid deleted successfully",
	})
}
