// Package scope restricts queries to records the requesting principal may
// see. Every repository read path goes through one of these builders;
// nothing else in the codebase does row-level checks.
package scope

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Principal is the identity attached to a request. Elevated principals
// (staff, admins) see everything.
type Principal struct {
	UserID   uuid.UUID
	Elevated bool
}

// System is the principal used by batch jobs and internal reconciliation.
func System() Principal {
	return Principal{Elevated: true}
}

// Vendors limits vendor rows to those owned by the principal or assigned
// to it as internal representative.
func Vendors(p Principal) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if p.Elevated {
			return db
		}
		return db.Where("vendors.user_id = ? OR vendors.internal_rep_id = ?", p.UserID, p.UserID)
	}
}

// OwnedThroughVendor limits child rows (certifications, products,
// contracts) to those whose owning vendor belongs to the principal.
func OwnedThroughVendor(p Principal, table string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if p.Elevated {
			return db
		}
		return db.
			Joins("JOIN vendors ON vendors.id = "+table+".vendor_id").
			Where("vendors.user_id = ?", p.UserID)
	}
}
