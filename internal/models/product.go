// internal/models/product.go
package models

import (
	"github.com/google/uuid"
)

type Product struct {
	BaseModel
	CreatorID      uuid.UUID     `json:"creator_id" gorm:"type:uuid;not null;index"`
	ManufacturerID *uuid.UUID    `json:"manufacturer_id" gorm:"type:uuid;index"`
	Title          string        `json:"title" gorm:"size:255;not null"`
	Description    string        `json:"description" gorm:"type:text"`
	Price          float64       `json:"price" gorm:"type:decimal(10,2);not null"`
	ImageURL       string        `json:"image_url" gorm:"size:512"`
	Status         ProductStatus `json:"status" gorm:"type:varchar(20);default:'ai-generated';index"`

	// Relationships
	Creator      *User `json:"creator,omitempty" gorm:"foreignKey:CreatorID"`
	Manufacturer *User `json:"manufacturer,omitempty" gorm:"foreignKey:ManufacturerID"`
	Bids         []Bid `json:"bids,omitempty" gorm:"foreignKey:ProductID"`
}
