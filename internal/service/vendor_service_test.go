package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devravindu/upsupply-vms/internal/apperror"
	"github.com/devravindu/upsupply-vms/internal/model"
)

func TestCreateVendorDefaults(t *testing.T) {
	f := newFixture(t)
	staff := staffPrincipal()

	res, err := f.vendors.CreateVendor(context.Background(), staff, CreateVendorRequest{
		Name:         "Acme Supplies",
		ContactEmail: "ops@acme.example",
	})
	require.NoError(t, err)

	assert.Equal(t, model.VendorStatusPending, res.Status)
	assert.Equal(t, model.RiskTierMedium, res.RiskTier)
	assert.Equal(t, model.VendorTypeWholesaler, res.VendorType)

	rows := f.historyRows(t, res.ID)
	require.Len(t, rows, 1, "creation writes the initial history row")
	assert.Equal(t, model.VendorStatusPending, rows[0].Status)
	require.NotNil(t, rows[0].ChangedByID)
	assert.Equal(t, staff.UserID, *rows[0].ChangedByID)
}

func TestCreateVendorValidation(t *testing.T) {
	f := newFixture(t)
	staff := staffPrincipal()
	ctx := context.Background()

	_, err := f.vendors.CreateVendor(ctx, staff, CreateVendorRequest{})
	assert.True(t, apperror.IsValidation(err), "missing name")

	_, err = f.vendors.CreateVendor(ctx, staff, CreateVendorRequest{Name: "X", Status: "archived"})
	assert.True(t, apperror.IsValidation(err), "unknown status")

	_, err = f.vendors.CreateVendor(ctx, staff, CreateVendorRequest{Name: "X", RiskTier: "Extreme"})
	assert.True(t, apperror.IsValidation(err), "unknown risk tier")

	_, err = f.vendors.CreateVendor(ctx, staff, CreateVendorRequest{Name: "X", ContactEmail: "not-an-email"})
	assert.True(t, apperror.IsValidation(err), "malformed contact email")
}

func TestCreateVendorCannotStartVerified(t *testing.T) {
	f := newFixture(t)

	_, err := f.vendors.CreateVendor(context.Background(), staffPrincipal(), CreateVendorRequest{
		Name:   "Eager Corp",
		Status: model.VendorStatusVerified,
	})
	assert.True(t, apperror.IsValidation(err))
}

func TestUpdateVendorVerifyGuard(t *testing.T) {
	f := newFixture(t)
	staff := staffPrincipal()
	ctx := context.Background()

	created, err := f.vendors.CreateVendor(ctx, staff, CreateVendorRequest{Name: "Acme"})
	require.NoError(t, err)

	// no certification at all
	_, err = f.vendors.UpdateVendor(ctx, staff, created.ID.String(), UpdateVendorRequest{
		Status: strPtr(model.VendorStatusVerified),
	})
	assert.True(t, apperror.IsValidation(err))
	assert.Len(t, f.historyRows(t, created.ID), 1, "failed verify leaves no trace")

	// an expired approved certification is not enough either
	f.insertApprovedCert(t, created.ID, time.Now().AddDate(0, 0, -10))
	_, err = f.vendors.UpdateVendor(ctx, staff, created.ID.String(), UpdateVendorRequest{
		Status: strPtr(model.VendorStatusVerified),
	})
	assert.True(t, apperror.IsValidation(err))

	// a valid one satisfies the guard
	f.insertApprovedCert(t, created.ID, time.Now().AddDate(1, 0, 0))
	res, err := f.vendors.UpdateVendor(ctx, staff, created.ID.String(), UpdateVendorRequest{
		Status: strPtr(model.VendorStatusVerified),
	})
	require.NoError(t, err)
	assert.Equal(t, model.VendorStatusVerified, res.Status)

	rows := f.historyRows(t, created.ID)
	require.Len(t, rows, 2, "exactly one row per status change")
	assert.Equal(t, model.VendorStatusVerified, rows[1].Status)
	require.NotNil(t, rows[1].ChangedByID)
	assert.Equal(t, staff.UserID, *rows[1].ChangedByID)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, model.VendorStatusVerified, f.publisher.events[0].Status)
}

func TestUpdateVendorNonStatusFieldWritesNoHistory(t *testing.T) {
	f := newFixture(t)
	staff := staffPrincipal()
	ctx := context.Background()

	created, err := f.vendors.CreateVendor(ctx, staff, CreateVendorRequest{Name: "Acme"})
	require.NoError(t, err)

	res, err := f.vendors.UpdateVendor(ctx, staff, created.ID.String(), UpdateVendorRequest{
		Name:    strPtr("Acme International"),
		Country: strPtr("Germany"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme International", res.Name)

	assert.Len(t, f.historyRows(t, created.ID), 1)
	assert.Empty(t, f.publisher.events)
}

func TestUpdateVendorSameStatusIsNotATransition(t *testing.T) {
	f := newFixture(t)
	staff := staffPrincipal()
	ctx := context.Background()

	created, err := f.vendors.CreateVendor(ctx, staff, CreateVendorRequest{Name: "Acme"})
	require.NoError(t, err)

	_, err = f.vendors.UpdateVendor(ctx, staff, created.ID.String(), UpdateVendorRequest{
		Status: strPtr(model.VendorStatusPending),
	})
	require.NoError(t, err)

	assert.Len(t, f.historyRows(t, created.ID), 1)
	assert.Empty(t, f.publisher.events)
}

func TestVendorScoping(t *testing.T) {
	f := newFixture(t)
	staff := staffPrincipal()
	ctx := context.Background()

	ownerID := uuid.New()
	otherID := uuid.New()

	created, err := f.vendors.CreateVendor(ctx, staff, CreateVendorRequest{
		Name:   "Scoped Vendor",
		UserID: strPtr(ownerID.String()),
	})
	require.NoError(t, err)

	// the owning vendor account sees its record
	_, err = f.vendors.GetVendor(ctx, vendorPrincipal(ownerID), created.ID.String())
	assert.NoError(t, err)

	// an unrelated vendor account gets not-found, never forbidden
	_, err = f.vendors.GetVendor(ctx, vendorPrincipal(otherID), created.ID.String())
	assert.True(t, apperror.IsNotFound(err))

	list, total, err := f.vendors.ListVendors(ctx, vendorPrincipal(otherID), "", "", 1, 20)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, total)

	// staff sees everything
	list, total, err = f.vendors.ListVendors(ctx, staff, "", "", 1, 20)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.EqualValues(t, 1, total)
}

func TestVendorHistoryScoping(t *testing.T) {
	f := newFixture(t)
	staff := staffPrincipal()
	ctx := context.Background()

	ownerID := uuid.New()
	created, err := f.vendors.CreateVendor(ctx, staff, CreateVendorRequest{
		Name:   "Trail Vendor",
		UserID: strPtr(ownerID.String()),
	})
	require.NoError(t, err)

	entries, total, err := f.vendors.GetVendorHistory(ctx, vendorPrincipal(ownerID), created.ID.String(), 1, 20)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.EqualValues(t, 1, total)

	entries, total, err = f.vendors.GetVendorHistory(ctx, vendorPrincipal(uuid.New()), created.ID.String(), 1, 20)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Zero(t, total)
}

func TestDeleteVendor(t *testing.T) {
	f := newFixture(t)
	staff := staffPrincipal()
	ctx := context.Background()

	created, err := f.vendors.CreateVendor(ctx, staff, CreateVendorRequest{Name: "Doomed"})
	require.NoError(t, err)

	require.NoError(t, f.vendors.DeleteVendor(ctx, staff, created.ID.String()))

	_, err = f.vendors.GetVendor(ctx, staff, created.ID.String())
	assert.True(t, apperror.IsNotFound(err))
}
