// internal/models/session.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is an audit record of a successful login. Tokens are stateless and
// are not revoked against this table.
type Session struct {
	BaseModel
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	IPAddress string    `json:"ip_address" gorm:"size:45"`
	UserAgent string    `json:"user_agent" gorm:"size:512"`
	ExpiresAt time.Time `json:"expires_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
