package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Contract is a dated commercial agreement with a vendor. ContractID is the
// vendor-facing identifier and is unique per vendor.
type Contract struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	VendorID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uniq_contract_id_per_vendor" json:"vendor_id"`
	Vendor   *Vendor   `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"-"`

	ContractID string          `gorm:"type:varchar(100);not null;uniqueIndex:uniq_contract_id_per_vendor" json:"contract_id"`
	TotalValue decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_value"`

	StartDate time.Time `gorm:"type:date;not null;index:idx_contract_window" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null;index:idx_contract_window;check:contract_end_on_or_after_start,end_date >= start_date" json:"end_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsActive reports whether asOf falls inside the contract window, inclusive.
func (c *Contract) IsActive(asOf time.Time) bool {
	d := DateOf(asOf)
	return !c.StartDate.After(d) && !c.EndDate.Before(d)
}

func (c *Contract) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
