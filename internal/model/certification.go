package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CertType enum constants
const (
	CertTypeISO = "ISO"
	CertTypeFDA = "FDA"
	CertTypeCE  = "CE"
)

// ApprovalStatus enum constants
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// Certification is a time-bounded compliance document belonging to exactly
// one vendor. Approval is reviewer-controlled and independent of expiry.
type Certification struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	VendorID uuid.UUID `gorm:"type:uuid;not null;index" json:"vendor_id"`
	Vendor   *Vendor   `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"-"`

	CertType string `gorm:"type:varchar(50);not null" json:"cert_type"` // ISO, FDA, CE

	// Opaque reference into the document store; contents are never inspected
	FileRef string `gorm:"type:varchar(255)" json:"file_ref"`

	IssueDate  time.Time `gorm:"type:date;not null" json:"issue_date"`
	ExpiryDate time.Time `gorm:"type:date;not null;index" json:"expiry_date"`
	IsCurrent  bool      `gorm:"default:true" json:"is_current"`

	ApprovalStatus string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"approval_status"`
	ReviewedByID   *uuid.UUID `gorm:"type:uuid" json:"reviewed_by"`
	ReviewedBy     *User      `gorm:"foreignKey:ReviewedByID" json:"-"`
	ReviewedAt     *time.Time `json:"reviewed_at"`

	// One-shot expiry notice flags, set by the daily sweep
	Notified30Days bool `gorm:"column:notified_30_days;default:false" json:"notified_30_days"`
	Notified15Days bool `gorm:"column:notified_15_days;default:false" json:"notified_15_days"`
	Notified1Day   bool `gorm:"column:notified_1_day;default:false" json:"notified_1_day"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsValid reports whether the certification backs verification as of the
// given date: unexpired, marked current, and approved by a reviewer.
func (c *Certification) IsValid(asOf time.Time) bool {
	return !c.ExpiryDate.Before(DateOf(asOf)) &&
		c.IsCurrent &&
		c.ApprovalStatus == ApprovalApproved
}

func (c *Certification) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// DateOf truncates a timestamp to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
