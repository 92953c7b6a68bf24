package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VendorHistory is the append-only audit trail of vendor status
// transitions. Rows are never updated or deleted after creation.
// A nil ChangedByID means the transition was system-initiated.
type VendorHistory struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	VendorID uuid.UUID `gorm:"type:uuid;not null;index" json:"vendor_id"`
	Vendor   *Vendor   `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"-"`

	Status string `gorm:"type:varchar(20);not null" json:"status"`

	ChangedByID *uuid.UUID `gorm:"type:uuid" json:"changed_by"`
	ChangedBy   *User      `gorm:"foreignKey:ChangedByID" json:"changed_by_user,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (h *VendorHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
