package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductStatus enum constants
const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)

// Product is purely reactive: it never drives vendor state transitions.
type Product struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	VendorID uuid.UUID `gorm:"type:uuid;not null;index" json:"vendor_id"`
	Vendor   *Vendor   `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"-"`

	Name   string `gorm:"type:varchar(255);not null" json:"name"`
	Status string `gorm:"type:varchar(20);not null;default:'active'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsActive requires both the product and its owning vendor to be in good
// standing; vendor must be preloaded.
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive &&
		p.Vendor != nil && p.Vendor.Status == VendorStatusVerified
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
