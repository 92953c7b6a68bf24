package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/devravindu/upsupply-vms/internal/model"
	"github.com/devravindu/upsupply-vms/internal/notify"
	"github.com/devravindu/upsupply-vms/internal/repository"
	"github.com/devravindu/upsupply-vms/internal/verification"
)

// SweepService is the daily batch job: it fires one-shot expiry notices
// at 30/15/1 days out and deactivates verified vendors whose last
// approved certification has lapsed with no explicit write. Designed to
// be invoked by an external scheduler once per day; re-running on the
// same day is harmless.
type SweepService interface {
	Run(ctx context.Context, today time.Time) error
}

type sweepService struct {
	certRepo   repository.CertificationRepository
	vendorRepo repository.VendorRepository
	txManager  repository.TransactionManager
	reconciler *StatusReconciler
	sender     notify.Sender
}

func NewSweepService(
	certRepo repository.CertificationRepository,
	vendorRepo repository.VendorRepository,
	txManager repository.TransactionManager,
	reconciler *StatusReconciler,
	sender notify.Sender,
) SweepService {
	return &sweepService{
		certRepo:   certRepo,
		vendorRepo: vendorRepo,
		txManager:  txManager,
		reconciler: reconciler,
		sender:     sender,
	}
}

// notification thresholds, in days before expiry, with their one-shot flag
// columns
var expiryThresholds = []struct {
	days   int
	column string
	fired  func(*model.Certification) bool
}{
	{30, "notified_30_days", func(c *model.Certification) bool { return c.Notified30Days }},
	{15, "notified_15_days", func(c *model.Certification) bool { return c.Notified15Days }},
	{1, "notified_1_day", func(c *model.Certification) bool { return c.Notified1Day }},
}

func (s *sweepService) Run(ctx context.Context, today time.Time) error {
	today = model.DateOf(today)
	log := logrus.WithField("sweep_date", today.Format("2006-01-02"))
	log.Info("starting certification sweep")

	if err := s.notifyUpcomingExpiries(ctx, today, log); err != nil {
		return err
	}
	if err := s.reconcileVerifiedVendors(ctx, today, log); err != nil {
		return err
	}

	log.Info("certification sweep finished")
	return nil
}

func (s *sweepService) notifyUpcomingExpiries(ctx context.Context, today time.Time, log *logrus.Entry) error {
	certs, err := s.certRepo.ListCurrent(ctx)
	if err != nil {
		return fmt.Errorf("failed to load current certifications: %w", err)
	}

	for i := range certs {
		cert := &certs[i]
		days := verification.DaysUntil(cert.ExpiryDate, today)

		for _, t := range expiryThresholds {
			if days != t.days || t.fired(cert) {
				continue
			}

			// Best-effort: a failed dispatch never blocks the sweep, and the
			// flag is still set so the same notice is not retried forever.
			if err := s.sender.Send(
				fmt.Sprintf("Certification expiry alert: %d day(s) remaining", days),
				expiryNoticeBody(cert),
				expiryRecipients(cert),
			); err != nil {
				log.WithError(err).WithField("certification_id", cert.ID).
					Warn("expiry notice dispatch failed")
			}

			if err := s.certRepo.SetNotifiedFlag(ctx, cert.ID, t.column); err != nil {
				log.WithError(err).WithField("certification_id", cert.ID).
					Error("failed to persist notification flag")
			}
		}
	}
	return nil
}

func (s *sweepService) reconcileVerifiedVendors(ctx context.Context, today time.Time, log *logrus.Entry) error {
	vendors, err := s.vendorRepo.ListByStatus(ctx, model.VendorStatusVerified)
	if err != nil {
		return fmt.Errorf("failed to load verified vendors: %w", err)
	}

	for _, vendor := range vendors {
		vendorID := vendor.ID
		err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
			_, err := s.reconciler.Refresh(txCtx, vendorID, today)
			return err
		})
		if err != nil {
			// Per-vendor isolation: keep sweeping the rest
			log.WithError(err).WithField("vendor_id", vendorID).
				Error("vendor status reconciliation failed")
		}
	}
	return nil
}

// expiryRecipients unions the vendor contact and the assigned internal
// representative; either or both may be missing.
func expiryRecipients(cert *model.Certification) []string {
	var recipients []string
	if cert.Vendor != nil {
		if cert.Vendor.ContactEmail != "" {
			recipients = append(recipients, cert.Vendor.ContactEmail)
		}
		if cert.Vendor.InternalRep != nil && cert.Vendor.InternalRep.Email != "" {
			recipients = append(recipients, cert.Vendor.InternalRep.Email)
		}
	}
	return recipients
}

func expiryNoticeBody(cert *model.Certification) string {
	vendorName := ""
	if cert.Vendor != nil {
		vendorName = cert.Vendor.Name
	}
	return fmt.Sprintf(
		"Certification %s for vendor %s expires on %s. Please upload and review renewal documents.",
		cert.CertType, vendorName, cert.ExpiryDate.Format("2006-01-02"),
	)
}
