// internal/handlers/conversation.go
package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/restitch/restitch-backend/internal/services"
	"github.com/restitch/restitch-backend/internal/utils"
)

type ConversationHandler struct {
	chatService *services.ChatService
}

func NewConversationHandler(chatService *services.ChatService) *ConversationHandler {
	return &ConversationHandler{
		chatService: chatService,
	}
}

// GET /conversations
func (h *ConversationHandler) GetConversations(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	conversations, total, err := h.chatService.ListConversations(params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	result := utils.CreatePaginationResult(conversations, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /conversations
func (h *ConversationHandler) CreateConversation(c *gin.Context) {
	// Anonymous visitors are allowed; the principal is attached when present.
	principal, _ := utils.GetPrincipalFromContext(c)

	var req services.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	conversation, err := h.chatService.CreateConversation(principal, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"conversation": conversation,
	})
}

// GET /conversations/:id
func (h *ConversationHandler) GetConversation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid conversation ID", nil)
		return
	}

	conversation, err := h.chatService.GetConversation(id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"conversation": conversation,
	})
}

// DELETE /conversations/:id
func (h *ConversationHandler) DeleteConversation(c *gin.Context) {
	principal, exists := utils.GetPrincipalFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid conversation ID", nil)
		return
	}

	if err := h.chatService.DeleteConversation(principal, id); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Conversation deleted successfully",
	})
}

// GET /conversations/:id/messages
func (h *ConversationHandler) GetMessages(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid conversation ID", nil)
		return
	}

	params := services.ListMessagesParams{}
	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			params.Limit = limit
		}
	}
	if beforeStr := c.Query("before"); beforeStr != "" {
		if before, err := time.Parse(time.RFC3339, beforeStr); err == nil {
			params.Before = &before
		} else {
			utils.BadRequestResponse(c, "Invalid before timestamp, expected RFC3339", nil)
			return
		}
	}

	messages, err := h.chatService.ListMessages(id, params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"messages": messages,
	})
}

// POST /conversations/:id/messages
func (h *ConversationHandler) AppendMessage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid conversation ID", nil)
		return
	}

	var req services.AppendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	message, err := h.chatService.AppendMessage(id, &req)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": message,
	})
}
