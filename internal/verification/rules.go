// Package verification holds the pure rules deciding vendor lifecycle
// transitions from the state of its certification set. Everything here is
// side-effect free and takes an explicit asOf date so callers stay in
// control of "today".
package verification

import (
	"time"

	"github.com/devravindu/upsupply-vms/internal/model"
)

// Outcome is the result of a status derivation. Changed is false when the
// certification set supports the vendor's current status as-is.
type Outcome struct {
	Status   string
	RiskTier string
	Changed  bool
}

// HasApprovedValidCertification reports whether any certification is
// current, approved, and unexpired as of the given date.
func HasApprovedValidCertification(certs []model.Certification, asOf time.Time) bool {
	for i := range certs {
		if certs[i].IsValid(asOf) {
			return true
		}
	}
	return false
}

// HasPendingReview reports whether any certification awaits reviewer action.
func HasPendingReview(certs []model.Certification) bool {
	for i := range certs {
		if certs[i].ApprovalStatus == model.ApprovalPending {
			return true
		}
	}
	return false
}

// DeriveNextStatus applies the lifecycle rules to the current vendor state
// and its certification set. It is deterministic and idempotent:
// re-applying it to its own output yields Changed == false.
//
// Rules, in priority order:
//  1. an approved valid certification promotes any non-verified vendor
//  2. a verified vendor losing its last approved valid certification is
//     deactivated and its risk tier escalated to High
//  3. a pending review moves pending vendors under review (never pulls a
//     vendor out of inactive)
func DeriveNextStatus(status, riskTier string, certs []model.Certification, asOf time.Time) Outcome {
	hasValid := HasApprovedValidCertification(certs, asOf)

	switch {
	case hasValid && status != model.VendorStatusVerified:
		return Outcome{Status: model.VendorStatusVerified, RiskTier: riskTier, Changed: true}

	case !hasValid && status == model.VendorStatusVerified:
		return Outcome{Status: model.VendorStatusInactive, RiskTier: model.RiskTierHigh, Changed: true}

	case !hasValid && HasPendingReview(certs) &&
		status != model.VendorStatusUnderReview && status != model.VendorStatusInactive:
		return Outcome{Status: model.VendorStatusUnderReview, RiskTier: riskTier, Changed: true}
	}

	return Outcome{Status: status, RiskTier: riskTier, Changed: false}
}

// DaysUntil counts whole calendar days from asOf to the given date.
// Negative when the date is already past.
func DaysUntil(date, asOf time.Time) int {
	return int(model.DateOf(date).Sub(model.DateOf(asOf)).Hours() / 24)
}
