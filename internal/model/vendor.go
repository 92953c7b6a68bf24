package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VendorStatus enum constants
const (
	VendorStatusPending     = "pending"
	VendorStatusUnderReview = "under_review"
	VendorStatusVerified    = "verified"
	VendorStatusInactive    = "inactive"
)

// RiskTier enum constants
const (
	RiskTierLow    = "Low"
	RiskTierMedium = "Medium"
	RiskTierHigh   = "High"
)

// VendorType enum constants
const (
	VendorTypeWholesaler   = "wholesaler"
	VendorTypeManufacturer = "manufacturer"
	VendorTypeDistributor  = "distributor"
)

// Vendor is the aggregate root for certifications, products, contracts and
// history rows. Status is derived from the certification set: a vendor is
// verified only while at least one approved, current, unexpired
// certification exists.
type Vendor struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"type:varchar(255);not null" json:"name"`

	// Owning vendor-side account, nullable for vendors without portal access
	UserID *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	User   *User      `gorm:"foreignKey:UserID" json:"-"`

	Status   string `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	RiskTier string `gorm:"type:varchar(20);not null;default:'Medium'" json:"risk_tier"`

	VendorType         string `gorm:"type:varchar(50);not null;default:'wholesaler'" json:"vendor_type"`
	Country            string `gorm:"type:varchar(100);default:'United States'" json:"country"`
	RegistrationNumber string `gorm:"type:varchar(100)" json:"registration_number"`
	StockSymbol        string `gorm:"type:varchar(50)" json:"stock_symbol"`
	Website            string `gorm:"type:varchar(255)" json:"website"`

	// Assigned account manager on the internal side
	InternalRepID *uuid.UUID `gorm:"type:uuid;index" json:"internal_rep_id"`
	InternalRep   *User      `gorm:"foreignKey:InternalRepID" json:"internal_rep,omitempty"`

	RelationshipStartDate time.Time `gorm:"type:date" json:"relationship_start_date"`

	ContactName  string `gorm:"type:varchar(255)" json:"contact_name"`
	ContactEmail string `gorm:"type:varchar(255)" json:"contact_email"`
	ContactPhone string `gorm:"type:varchar(50)" json:"contact_phone"`

	TotalSpend decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"total_spend"`

	Certifications []Certification `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"certifications,omitempty"`
	Products       []Product       `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"products,omitempty"`
	Contracts      []Contract      `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"contracts,omitempty"`
	History        []VendorHistory `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (v *Vendor) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.RelationshipStartDate.IsZero() {
		v.RelationshipStartDate = time.Now()
	}
	return nil
}
