package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/devravindu/upsupply-vms/internal/config"
	"github.com/devravindu/upsupply-vms/internal/database"
	"github.com/devravindu/upsupply-vms/internal/notify"
	"github.com/devravindu/upsupply-vms/internal/repository"
	"github.com/devravindu/upsupply-vms/internal/service"
)

// One-shot certification sweep. Run it daily (cron or a scheduler job):
// it sends expiry reminders at the 30/15/1 day marks and demotes verified
// vendors whose last valid certification has lapsed.
func main() {
	cfg := config.Load()

	db, err := database.NewConnection(cfg.DatabaseDSN)
	if err != nil {
		logrus.WithError(err).Fatal("database connection failed")
	}

	var sender notify.Sender
	if cfg.SMTPAddr != "" {
		sender = notify.NewSMTPSender(cfg.SMTPAddr, cfg.SMTPFrom)
	} else {
		logrus.Warn("SMTP_ADDR not set, expiry alerts will only be logged")
		sender = notify.LogSender{}
	}

	vendorRepo := repository.NewVendorRepository(db)
	certRepo := repository.NewCertificationRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	txManager := repository.NewTransactionManager(db)

	reconciler := service.NewStatusReconciler(vendorRepo, certRepo, historyRepo, nil)
	sweep := service.NewSweepService(certRepo, vendorRepo, txManager, reconciler, sender)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := sweep.Run(ctx, time.Now()); err != nil {
		logrus.WithError(err).Fatal("sweep failed")
	}
	logrus.Info("sweep completed")
}
