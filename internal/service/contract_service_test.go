package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devravindu/upsupply-vms/internal/apperror"
)

func TestCreateContract(t *testing.T) {
	f := newFixture(t)
	staff := staffPrincipal()
	ctx := context.Background()
	vendor := f.createVendor(t, "acme", nil)

	res, err := f.contracts.CreateContract(ctx, staff, CreateContractRequest{
		VendorID:   vendor.ID.String(),
		ContractID: "CTR-2026-001",
		TotalValue: decimal.NewFromInt(150000),
		StartDate:  dateStr(time.Now().AddDate(0, -1, 0)),
		EndDate:    dateStr(time.Now().AddDate(1, 0, 0)),
	})
	require.NoError(t, err)
	assert.Equal(t, "CTR-2026-001", res.ContractID)
	assert.True(t, res.IsActive, "today falls inside the window")
}

func TestContractDateValidation(t *testing.T) {
	f := newFixture(t)
	staff := staffPrincipal()
	ctx := context.Background()
	vendor := f.createVendor(t, "acme", nil)

	_, err := f.contracts.CreateContract(ctx, staff, CreateContractRequest{
		VendorID:   vendor.ID.String(),
		ContractID: "CTR-1",
		StartDate:  "2026-09-01",
		EndDate:    "2026-08-31",
	})
	assert.True(t, apperror.IsValidation(err), "end before start")

	// single-day contracts are allowed
	res, err := f.contracts.CreateContract(ctx, staff, CreateContractRequest{
		VendorID:   vendor.ID.String(),
		ContractID: "CTR-2",
		StartDate:  "2026-09-01",
		EndDate:    "2026-09-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-09-01", res.StartDate)
	assert.Equal(t, "2026-09-01", res.EndDate)
}

func TestContractIdentifierUniquePerVendor(t *testing.T) {
	f := newFixture(t)
	staff := staffPrincipal()
	ctx := context.Background()
	first := f.createVendor(t, "first", nil)
	second := f.createVendor(t, "second", nil)

	create := func(vendorID, contractID string) error {
		_, err := f.contracts.CreateContract(ctx, staff, CreateContractRequest{
			VendorID:   vendorID,
			ContractID: contractID,
			StartDate:  "2026-01-01",
			EndDate:    "2026-12-31",
		})
		return err
	}

	require.NoError(t, create(first.ID.String(), "CTR-100"))
	assert.True(t, apperror.IsValidation(create(first.ID.String(), "CTR-100")), "duplicate within one vendor")

	// the same identifier under a different vendor is fine
	assert.NoError(t, create(second.ID.String(), "CTR-100"))
}

func TestUpdateContractRejectsInvertedWindow(t *testing.T) {
	f := newFixture(t)
	staff := staffPrincipal()
	ctx := context.Background()
	vendor := f.createVendor(t, "acme", nil)

	created, err := f.contracts.CreateContract(ctx, staff, CreateContractRequest{
		VendorID:   vendor.ID.String(),
		ContractID: "CTR-1",
		StartDate:  "2026-01-01",
		EndDate:    "2026-12-31",
	})
	require.NoError(t, err)

	_, err = f.contracts.UpdateContract(ctx, staff, created.ID.String(), UpdateContractRequest{
		EndDate: strPtr("2025-12-31"),
	})
	assert.True(t, apperror.IsValidation(err))

	_, err = f.contracts.UpdateContract(ctx, staff, created.ID.String(), UpdateContractRequest{
		EndDate: strPtr("2027-06-30"),
	})
	assert.NoError(t, err)
}
