// internal/models/conversation.go
package models

import (
	"github.com/google/uuid"
)

// Conversation may be anonymous: UserID is nil and the denormalized contact
// fields identify the participant instead.
type Conversation struct {
	BaseModel
	UserID    *uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	UserName  string     `json:"user_name" gorm:"size:255"`
	UserPhone string     `json:"user_phone" gorm:"size:50"`

	// Relationships
	User     *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Messages []Message `json:"messages,omitempty" gorm:"foreignKey:ConversationID"`
}

// Message is append-only. IsUser distinguishes participant-authored messages
// from counterpart (support) replies.
type Message struct {
	BaseModel
	ConversationID uuid.UUID `json:"conversation_id" gorm:"type:uuid;not null;index"`
	Content        string    `json:"content" gorm:"type:text;not null"`
	IsUser         bool      `json:"is_user" gorm:"not null;default:true"`
}
