package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/devravindu/upsupply-vms/internal/model"
	"github.com/devravindu/upsupply-vms/internal/repository"
	"github.com/devravindu/upsupply-vms/internal/scope"
	"github.com/devravindu/upsupply-vms/internal/verification"
)

// StatusPublisher pushes vendor status transitions to connected clients.
type StatusPublisher interface {
	PublishStatusChange(vendorID, status string)
}

// StatusReconciler re-derives a vendor's lifecycle status from its
// certification set and persists the result. It is the single write path
// for certification-driven transitions: certification mutations and the
// expiry sweep both end here, so one re-evaluation per mutation is enough
// and no recursion can occur.
type StatusReconciler struct {
	vendorRepo  repository.VendorRepository
	certRepo    repository.CertificationRepository
	historyRepo repository.HistoryRepository
	publisher   StatusPublisher
}

func NewStatusReconciler(
	vendorRepo repository.VendorRepository,
	certRepo repository.CertificationRepository,
	historyRepo repository.HistoryRepository,
	publisher StatusPublisher,
) *StatusReconciler {
	return &StatusReconciler{
		vendorRepo:  vendorRepo,
		certRepo:    certRepo,
		historyRepo: historyRepo,
		publisher:   publisher,
	}
}

// Refresh applies the verification rules to the vendor as of the given
// date. When the derived status differs from the persisted one it saves
// the vendor and appends exactly one system-attributed history row.
// Callers are expected to run it inside the same transaction as the
// mutation that triggered it.
func (r *StatusReconciler) Refresh(ctx context.Context, vendorID uuid.UUID, asOf time.Time) (bool, error) {
	vendor, err := r.vendorRepo.FindByID(ctx, scope.System(), vendorID)
	if err != nil {
		return false, err
	}

	certs, err := r.certRepo.ListByVendor(ctx, vendorID)
	if err != nil {
		return false, err
	}

	out := verification.DeriveNextStatus(vendor.Status, vendor.RiskTier, certs, asOf)
	if !out.Changed {
		return false, nil
	}

	vendor.Status = out.Status
	vendor.RiskTier = out.RiskTier
	if err := r.vendorRepo.Update(ctx, vendor); err != nil {
		return false, fmt.Errorf("failed to persist vendor status: %w", err)
	}

	entry := &model.VendorHistory{
		VendorID: vendor.ID,
		Status:   out.Status,
		// system-initiated: no acting user
	}
	if err := r.historyRepo.Append(ctx, entry); err != nil {
		return false, fmt.Errorf("failed to append vendor history: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"vendor_id": vendor.ID,
		"status":    out.Status,
		"risk_tier": out.RiskTier,
	}).Info("vendor status reconciled")

	if r.publisher != nil {
		r.publisher.PublishStatusChange(vendor.ID.String(), out.Status)
	}

	return true, nil
}
