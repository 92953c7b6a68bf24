package verification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/devravindu/upsupply-vms/internal/model"
)

var today = time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

func cert(approval string, current bool, expiry time.Time) model.Certification {
	return model.Certification{
		CertType:       model.CertTypeISO,
		IssueDate:      expiry.AddDate(-1, 0, 0),
		ExpiryDate:     expiry,
		IsCurrent:      current,
		ApprovalStatus: approval,
	}
}

func TestHasApprovedValidCertification(t *testing.T) {
	future := today.AddDate(0, 0, 30)
	past := today.AddDate(0, 0, -1)

	tests := []struct {
		name  string
		certs []model.Certification
		want  bool
	}{
		{"no certifications", nil, false},
		{"approved and unexpired", []model.Certification{cert(model.ApprovalApproved, true, future)}, true},
		{"approved but expired", []model.Certification{cert(model.ApprovalApproved, true, past)}, false},
		{"approved but not current", []model.Certification{cert(model.ApprovalApproved, false, future)}, false},
		{"pending only", []model.Certification{cert(model.ApprovalPending, true, future)}, false},
		{"rejected only", []model.Certification{cert(model.ApprovalRejected, true, future)}, false},
		{"one valid among invalid", []model.Certification{
			cert(model.ApprovalRejected, true, future),
			cert(model.ApprovalApproved, true, past),
			cert(model.ApprovalApproved, true, future),
		}, true},
		// expiry on the asOf date still counts: the certification lapses at
		// end of day, not start
		{"expires today", []model.Certification{cert(model.ApprovalApproved, true, model.DateOf(today))}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasApprovedValidCertification(tt.certs, today))
		})
	}
}

func TestDeriveNextStatus(t *testing.T) {
	future := today.AddDate(0, 0, 90)
	past := today.AddDate(0, 0, -5)

	valid := cert(model.ApprovalApproved, true, future)
	expired := cert(model.ApprovalApproved, true, past)
	pending := cert(model.ApprovalPending, true, future)

	tests := []struct {
		name         string
		status       string
		riskTier     string
		certs        []model.Certification
		wantStatus   string
		wantRiskTier string
		wantChanged  bool
	}{
		{
			name:   "valid cert promotes pending vendor",
			status: model.VendorStatusPending, riskTier: model.RiskTierMedium,
			certs:      []model.Certification{valid},
			wantStatus: model.VendorStatusVerified, wantRiskTier: model.RiskTierMedium, wantChanged: true,
		},
		{
			name:   "valid cert promotes inactive vendor",
			status: model.VendorStatusInactive, riskTier: model.RiskTierHigh,
			certs:      []model.Certification{valid},
			wantStatus: model.VendorStatusVerified, wantRiskTier: model.RiskTierHigh, wantChanged: true,
		},
		{
			name:   "verified vendor with valid cert is stable",
			status: model.VendorStatusVerified, riskTier: model.RiskTierLow,
			certs:      []model.Certification{valid},
			wantStatus: model.VendorStatusVerified, wantRiskTier: model.RiskTierLow, wantChanged: false,
		},
		{
			name:   "verified vendor losing all certs is deactivated and escalated",
			status: model.VendorStatusVerified, riskTier: model.RiskTierLow,
			certs:      nil,
			wantStatus: model.VendorStatusInactive, wantRiskTier: model.RiskTierHigh, wantChanged: true,
		},
		{
			name:   "verified vendor with only expired certs is deactivated",
			status: model.VendorStatusVerified, riskTier: model.RiskTierMedium,
			certs:      []model.Certification{expired},
			wantStatus: model.VendorStatusInactive, wantRiskTier: model.RiskTierHigh, wantChanged: true,
		},
		{
			name:   "pending review moves pending vendor under review",
			status: model.VendorStatusPending, riskTier: model.RiskTierMedium,
			certs:      []model.Certification{pending},
			wantStatus: model.VendorStatusUnderReview, wantRiskTier: model.RiskTierMedium, wantChanged: true,
		},
		{
			name:   "vendor already under review is stable",
			status: model.VendorStatusUnderReview, riskTier: model.RiskTierMedium,
			certs:      []model.Certification{pending},
			wantStatus: model.VendorStatusUnderReview, wantRiskTier: model.RiskTierMedium, wantChanged: false,
		},
		{
			name:   "pending review never pulls a vendor out of inactive",
			status: model.VendorStatusInactive, riskTier: model.RiskTierHigh,
			certs:      []model.Certification{pending},
			wantStatus: model.VendorStatusInactive, wantRiskTier: model.RiskTierHigh, wantChanged: false,
		},
		{
			name:   "pending vendor with no certs is stable",
			status: model.VendorStatusPending, riskTier: model.RiskTierMedium,
			certs:      nil,
			wantStatus: model.VendorStatusPending, wantRiskTier: model.RiskTierMedium, wantChanged: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := DeriveNextStatus(tt.status, tt.riskTier, tt.certs, today)
			assert.Equal(t, tt.wantStatus, out.Status)
			assert.Equal(t, tt.wantRiskTier, out.RiskTier)
			assert.Equal(t, tt.wantChanged, out.Changed)

			// re-applying to its own output must be a no-op
			again := DeriveNextStatus(out.Status, out.RiskTier, tt.certs, today)
			assert.False(t, again.Changed, "derivation must be idempotent")
		})
	}
}

func TestDaysUntil(t *testing.T) {
	assert.Equal(t, 30, DaysUntil(today.AddDate(0, 0, 30), today))
	assert.Equal(t, 1, DaysUntil(today.AddDate(0, 0, 1), today))
	assert.Equal(t, 0, DaysUntil(today, today))
	assert.Equal(t, -3, DaysUntil(today.AddDate(0, 0, -3), today))

	// time-of-day never affects the day count
	lateEvening := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)
	earlyMorning := time.Date(2026, 4, 9, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 30, DaysUntil(earlyMorning, lateEvening))
}
