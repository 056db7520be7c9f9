// internal/models/bid.go
package models

import (
	"github.com/google/uuid"
)

// Bid references its product; products do not own bids, so a bid is
// independently deletable.
type Bid struct {
	BaseModel
	ProductID     uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index:idx_bids_product_upholsterer"`
	UpholstererID uuid.UUID `json:"upholsterer_id" gorm:"type:uuid;not null;index:idx_bids_product_upholsterer"`
	Amount        float64   `json:"amount" gorm:"type:decimal(10,2);not null"`
	Notes         string    `json:"notes" gorm:"type:text"`
	Status        BidStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`

	// Relationships
	Product     *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Upholsterer *User    `json:"upholsterer,omitempty" gorm:"foreignKey:UpholstererID"`
}
