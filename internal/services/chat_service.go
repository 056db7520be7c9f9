// internal/services/chat_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/restitch/restitch-backend/internal/apperrors"
	"github.com/restitch/restitch-backend/internal/models"
	"github.com/restitch/restitch-backend/internal/utils"
)

// Message listing bounds. A caller-supplied limit is clamped, never rejected.
const (
	defaultMessageLimit = 50
	maxMessageLimit     = 100
)

type ChatService struct {
	db *gorm.DB
}

type CreateConversationRequest struct {
	UserName       string `json:"user_name" validate:"omitempty,max=255"`
	UserPhone      string `json:"user_phone" validate:"omitempty,max=50"`
	InitialMessage string `json:"initial_message" validate:"required"`
}

type AppendMessageRequest struct {
	Content string `json:"content" validate:"required"`
	IsUser  *bool  `json:"is_user"`
}

type ListMessagesParams struct {
	Limit  int
	Before *time.Time
}

func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{
		db: db,
	}
}

// CreateConversation starts a conversation with its seed message in one
// transaction. The principal is optional: anonymous visitors identify
// themselves through the denormalized contact fields.
func (s *ChatService) CreateConversation(principal *models.Principal, req *CreateConversationRequest) (*models.Conversation, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.InvalidRequest(fmt.Sprintf("validation failed: %v", err))
	}

	if strings.TrimSpace(req.InitialMessage) == "" {
		return nil, apperrors.InvalidRequest("initial message is required")
	}

	conversation := &models.Conversation{
		UserName:  req.UserName,
		UserPhone: req.UserPhone,
	}
	if principal != nil {
		uid := principal.UserID
		conversation.UserID = &uid
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(conversation).Error; err != nil {
			return apperrors.Internal(fmt.Errorf("failed to create conversation: %w", err))
		}

		// The seed message is always participant-authored.
		message := &models.Message{
			ConversationID: conversation.ID,
			Content:        req.InitialMessage,
			IsUser:         true,
		}
		if err := tx.Create(message).Error; err != nil {
			return apperrors.Internal(fmt.Errorf("failed to create initial message: %w", err))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return conversation, nil
}

func (s *ChatService) GetConversation(id uuid.UUID) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := s.db.Preload("User").First(&conversation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("conversation")
		}
		return nil, apperrors.Internal(err)
	}
	return &conversation, nil
}

func (s *ChatService) ListConversations(params utils.PaginationParams) ([]models.Conversation, int64, error) {
	query := s.db.Model(&models.Conversation{}).Preload("User")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal(fmt.Errorf("failed to count conversations: %w", err))
	}

	allowedSortFields := []string{"created_at", "updated_at"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var conversations []models.Conversation
	if err := query.Find(&conversations).Error; err != nil {
		return nil, 0, apperrors.Internal(fmt.Errorf("failed to fetch conversations: %w", err))
	}

	return conversations, total, nil
}

// AppendMessage inserts the message and bumps the conversation's updated_at
// in one transaction, so the inbox ordering never lags the log.
func (s *ChatService) AppendMessage(conversationID uuid.UUID, req *AppendMessageRequest) (*models.Message, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.InvalidRequest(fmt.Sprintf("validation failed: %v", err))
	}

	if strings.TrimSpace(req.Content) == "" {
		return nil, apperrors.InvalidRequest("message content is required")
	}

	isUser := true
	if req.IsUser != nil {
		isUser = *req.IsUser
	}

	message := &models.Message{
		ConversationID: conversationID,
		Content:        req.Content,
		IsUser:         isUser,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var conversation models.Conversation
		if err := tx.First(&conversation, conversationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("conversation")
			}
			return apperrors.Internal(err)
		}

		if err := tx.Create(message).Error; err != nil {
			return apperrors.Internal(fmt.Errorf("failed to create message: %w", err))
		}

		if err := tx.Model(&conversation).Update("updated_at", time.Now()).Error; err != nil {
			return apperrors.Internal(fmt.Errorf("failed to bump conversation: %w", err))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return message, nil
}

// ListMessages returns messages newest-first, optionally strictly older than
// the before cursor.
func (s *ChatService) ListMessages(conversationID uuid.UUID, params ListMessagesParams) ([]models.Message, error) {
	var conversation models.Conversation
	if err := s.db.First(&conversation, conversationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("conversation")
		}
		return nil, apperrors.Internal(err)
	}

	limit := params.Limit
	if limit < 1 {
		limit = defaultMessageLimit
	}
	if limit > maxMessageLimit {
		limit = maxMessageLimit
	}

	query := s.db.Where("conversation_id = ?", conversationID)
	if params.Before != nil {
		query = query.Where("created_at < ?", *params.Before)
	}

	var messages []models.Message
	if err := query.Order("created_at DESC").Limit(limit).Find(&messages).Error; err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to fetch messages: %w", err))
	}

	return messages, nil
}

// DeleteConversation removes the conversation and all of its messages in one
// transaction. Owned conversations may be deleted by their user (or an
// admin); anonymous conversations by any authenticated principal.
func (s *ChatService) DeleteConversation(principal *models.Principal, id uuid.UUID) error {
	if principal == nil {
		return apperrors.Unauthorized("authentication required")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var conversation models.Conversation
		if err := tx.First(&conversation, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("conversation")
			}
			return apperrors.Internal(err)
		}

		if conversation.UserID != nil &&
			*conversation.UserID != principal.UserID &&
			principal.Role != models.UserRoleAdmin {
			return apperrors.Unauthorized("not the owner of this conversation")
		}

		if err := tx.Where("conversation_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return apperrors.Internal(fmt.Errorf("failed to delete messages: %w", err))
		}

		if err := tx.Delete(&conversation).Error; err != nil {
			return apperrors.Internal(fmt.Errorf("failed to delete conversation: %w", err))
		}

		return nil
	})
}
