// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type UserRole string

const (
	UserRoleClient      UserRole = "client"
	UserRoleUpholsterer UserRole = "upholsterer"
	UserRoleAdmin       UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleClient, UserRoleUpholsterer, UserRoleAdmin:
		return true
	}
	return false
}

type ProductStatus string

const (
	ProductStatusAIGenerated ProductStatus = "ai-generated"
	ProductStatusPending     ProductStatus = "pending"
	ProductStatusInProgress  ProductStatus = "in-progress"
	ProductStatusCompleted   ProductStatus = "completed"
)

func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusAIGenerated, ProductStatusPending, ProductStatusInProgress, ProductStatusCompleted:
		return true
	}
	return false
}

type BidStatus string

const (
	BidStatusPending  BidStatus = "pending"
	BidStatusAccepted BidStatus = "accepted"
	BidStatusRejected BidStatus = "rejected"
)

// Principal is the authenticated (user id, role) pair carried through a
// request after token verification.
type Principal struct {
	UserID uuid.UUID `json:"user_id"`
	Role   UserRole  `json:"role"`
}
