package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devravindu/upsupply-vms/internal/model"
)

func TestSweepSendsOneShotExpiryNotices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	today := model.DateOf(time.Now())

	vendor := f.createVendor(t, "expiring", nil)
	cert := f.insertApprovedCert(t, vendor.ID, today.AddDate(0, 0, 30))

	require.NoError(t, f.sweep.Run(ctx, today))

	require.Len(t, f.sender.sent, 1)
	assert.Contains(t, f.sender.sent[0].Subject, "30 day(s)")
	assert.Contains(t, f.sender.sent[0].Recipients, "contact@expiring.example")
	assert.Contains(t, f.sender.sent[0].Body, "expiring")

	reloaded := f.reloadCert(t, cert.ID)
	assert.True(t, reloaded.Notified30Days)
	assert.False(t, reloaded.Notified15Days)
	assert.False(t, reloaded.Notified1Day)

	// re-running the same day never re-sends
	require.NoError(t, f.sweep.Run(ctx, today))
	assert.Len(t, f.sender.sent, 1)
}

func TestSweepFiresEachThresholdIndependently(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	today := model.DateOf(time.Now())

	vendor := f.createVendor(t, "vendor", nil)
	cert := f.insertApprovedCert(t, vendor.ID, today.AddDate(0, 0, 30))

	require.NoError(t, f.sweep.Run(ctx, today))
	require.Len(t, f.sender.sent, 1)

	// 15 days out
	require.NoError(t, f.sweep.Run(ctx, today.AddDate(0, 0, 15)))
	require.Len(t, f.sender.sent, 2)
	assert.Contains(t, f.sender.sent[1].Subject, "15 day(s)")

	// 1 day out
	require.NoError(t, f.sweep.Run(ctx, today.AddDate(0, 0, 29)))
	require.Len(t, f.sender.sent, 3)
	assert.Contains(t, f.sender.sent[2].Subject, "1 day(s)")

	reloaded := f.reloadCert(t, cert.ID)
	assert.True(t, reloaded.Notified30Days)
	assert.True(t, reloaded.Notified15Days)
	assert.True(t, reloaded.Notified1Day)

	// a day between thresholds fires nothing
	require.NoError(t, f.sweep.Run(ctx, today.AddDate(0, 0, 20)))
	assert.Len(t, f.sender.sent, 3)
}

func TestSweepFlagSetEvenWhenDispatchFails(t *testing.T) {
	f := newFixture(t)
	f.sender.fail = true
	ctx := context.Background()
	today := model.DateOf(time.Now())

	vendor := f.createVendor(t, "unreachable", nil)
	cert := f.insertApprovedCert(t, vendor.ID, today.AddDate(0, 0, 15))

	// a failing mail relay never fails the sweep
	require.NoError(t, f.sweep.Run(ctx, today))

	reloaded := f.reloadCert(t, cert.ID)
	assert.True(t, reloaded.Notified15Days, "flag persists so the notice is not retried forever")
}

func TestSweepDeactivatesVendorWithLapsedCertification(t *testing.T) {
	f := newFixture(t)
	staff := staffPrincipal()
	ctx := context.Background()
	today := model.DateOf(time.Now())

	vendor := f.createVendor(t, "lapsing", nil)
	f.insertApprovedCert(t, vendor.ID, today.AddDate(0, 0, 1))

	// promote through the normal write path
	_, err := f.vendors.UpdateVendor(ctx, staff, vendor.ID.String(), UpdateVendorRequest{
		Status: strPtr(model.VendorStatusVerified),
	})
	require.NoError(t, err)

	// on expiry day the certification still counts
	require.NoError(t, f.sweep.Run(ctx, today.AddDate(0, 0, 1)))
	assert.Equal(t, model.VendorStatusVerified, f.reloadVendor(t, vendor.ID).Status)

	// the day after it no longer does
	require.NoError(t, f.sweep.Run(ctx, today.AddDate(0, 0, 2)))
	v := f.reloadVendor(t, vendor.ID)
	assert.Equal(t, model.VendorStatusInactive, v.Status)
	assert.Equal(t, model.RiskTierHigh, v.RiskTier)

	// pending -> verified -> inactive, with the demotion system-attributed
	rows := f.historyRows(t, vendor.ID)
	require.Len(t, rows, 3)
	assert.Equal(t, model.VendorStatusInactive, rows[2].Status)
	assert.Nil(t, rows[2].ChangedByID)
}

func TestSweepLeavesHealthyVendorsAlone(t *testing.T) {
	f := newFixture(t)
	staff := staffPrincipal()
	ctx := context.Background()
	today := model.DateOf(time.Now())

	vendor := f.createVendor(t, "healthy", nil)
	f.insertApprovedCert(t, vendor.ID, today.AddDate(1, 0, 0))
	_, err := f.vendors.UpdateVendor(ctx, staff, vendor.ID.String(), UpdateVendorRequest{
		Status: strPtr(model.VendorStatusVerified),
	})
	require.NoError(t, err)

	require.NoError(t, f.sweep.Run(ctx, today))

	assert.Equal(t, model.VendorStatusVerified, f.reloadVendor(t, vendor.ID).Status)
	assert.Len(t, f.historyRows(t, vendor.ID), 2)
	assert.Empty(t, f.sender.sent)
}
