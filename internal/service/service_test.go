package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/devravindu/upsupply-vms/internal/database"
	"github.com/devravindu/upsupply-vms/internal/model"
	"github.com/devravindu/upsupply-vms/internal/repository"
	"github.com/devravindu/upsupply-vms/internal/scope"
)

// fakePublisher records status events instead of pushing them to a hub.
type fakePublisher struct {
	events []statusEvent
}

type statusEvent struct {
	VendorID string
	Status   string
}

func (f *fakePublisher) PublishStatusChange(vendorID, status string) {
	f.events = append(f.events, statusEvent{VendorID: vendorID, Status: status})
}

// fakeSender captures outbound mail; fail makes every dispatch error.
type fakeSender struct {
	sent []sentMail
	fail bool
}

type sentMail struct {
	Subject    string
	Body       string
	Recipients []string
}

func (f *fakeSender) Send(subject, body string, recipients []string) error {
	if f.fail {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, sentMail{Subject: subject, Body: body, Recipients: recipients})
	return nil
}

// fixture wires the full service stack over an in-memory database.
type fixture struct {
	db        *gorm.DB
	publisher *fakePublisher
	sender    *fakeSender

	vendorRepo  repository.VendorRepository
	certRepo    repository.CertificationRepository
	historyRepo repository.HistoryRepository

	reconciler *StatusReconciler

	vendors   VendorService
	certs     CertificationService
	products  ProductService
	contracts ContractService
	users     UserService
	sweep     SweepService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every session on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	f := &fixture{
		db:        db,
		publisher: &fakePublisher{},
		sender:    &fakeSender{},
	}

	f.vendorRepo = repository.NewVendorRepository(db)
	f.certRepo = repository.NewCertificationRepository(db)
	f.historyRepo = repository.NewHistoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	contractRepo := repository.NewContractRepository(db)
	userRepo := repository.NewUserRepository(db)
	txManager := repository.NewTransactionManager(db)

	f.reconciler = NewStatusReconciler(f.vendorRepo, f.certRepo, f.historyRepo, f.publisher)

	f.vendors = NewVendorService(f.vendorRepo, f.certRepo, f.historyRepo, txManager, f.publisher)
	f.certs = NewCertificationService(f.certRepo, f.vendorRepo, txManager, f.reconciler)
	f.products = NewProductService(productRepo, f.vendorRepo)
	f.contracts = NewContractService(contractRepo, f.vendorRepo)
	f.users = NewUserService(userRepo)
	f.sweep = NewSweepService(f.certRepo, f.vendorRepo, txManager, f.reconciler, f.sender)

	return f
}

func staffPrincipal() scope.Principal {
	return scope.Principal{UserID: uuid.New(), Elevated: true}
}

func vendorPrincipal(userID uuid.UUID) scope.Principal {
	return scope.Principal{UserID: userID}
}

// historyRows reads the vendor's trail directly, oldest first.
func (f *fixture) historyRows(t *testing.T, vendorID uuid.UUID) []model.VendorHistory {
	t.Helper()
	var rows []model.VendorHistory
	require.NoError(t, f.db.
		Where("vendor_id = ?", vendorID).
		Order("created_at ASC").
		Find(&rows).Error)
	return rows
}

func (f *fixture) reloadVendor(t *testing.T, id uuid.UUID) model.Vendor {
	t.Helper()
	var v model.Vendor
	require.NoError(t, f.db.First(&v, "id = ?", id).Error)
	return v
}

func (f *fixture) reloadCert(t *testing.T, id uuid.UUID) model.Certification {
	t.Helper()
	var c model.Certification
	require.NoError(t, f.db.First(&c, "id = ?", id).Error)
	return c
}

// insertApprovedCert seeds a reviewed certification without going through
// the service layer, so no reconciliation fires.
func (f *fixture) insertApprovedCert(t *testing.T, vendorID uuid.UUID, expiry time.Time) model.Certification {
	t.Helper()
	cert := model.Certification{
		VendorID:       vendorID,
		CertType:       model.CertTypeISO,
		IssueDate:      expiry.AddDate(-1, 0, 0),
		ExpiryDate:     expiry,
		IsCurrent:      true,
		ApprovalStatus: model.ApprovalApproved,
	}
	require.NoError(t, f.db.Create(&cert).Error)
	return cert
}

func strPtr(s string) *string { return &s }

func dateStr(t time.Time) string { return t.Format("2006-01-02") }
