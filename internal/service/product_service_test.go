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

func TestProductActiveOnlyUnderVerifiedVendor(t *testing.T) {
	f := newFixture(t)
	staff := staffPrincipal()
	ctx := context.Background()
	vendor := f.createVendor(t, "acme", nil)

	product, err := f.products.CreateProduct(ctx, staff, CreateProductRequest{
		VendorID: vendor.ID.String(),
		Name:     "Widget",
	})
	require.NoError(t, err)
	assert.Equal(t, model.ProductStatusActive, product.Status)
	assert.False(t, product.IsActive, "vendor is not verified yet")

	// verify the vendor, product becomes visible
	f.insertApprovedCert(t, vendor.ID, time.Now().AddDate(1, 0, 0))
	_, err = f.vendors.UpdateVendor(ctx, staff, vendor.ID.String(), UpdateVendorRequest{
		Status: strPtr(model.VendorStatusVerified),
	})
	require.NoError(t, err)

	got, err := f.products.GetProduct(ctx, staff, product.ID.String())
	require.NoError(t, err)
	assert.True(t, got.IsActive)

	// deactivating the product flips it back regardless of vendor state
	updated, err := f.products.UpdateProduct(ctx, staff, product.ID.String(), UpdateProductRequest{
		Status: strPtr(model.ProductStatusInactive),
	})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
}

func TestProductScoping(t *testing.T) {
	f := newFixture(t)
	staff := staffPrincipal()
	ctx := context.Background()

	ownerID := uuid.New()
	vendor := f.createVendor(t, "scoped", &ownerID)

	product, err := f.products.CreateProduct(ctx, staff, CreateProductRequest{
		VendorID: vendor.ID.String(),
		Name:     "Widget",
	})
	require.NoError(t, err)

	_, err = f.products.GetProduct(ctx, vendorPrincipal(ownerID), product.ID.String())
	assert.NoError(t, err)

	_, err = f.products.GetProduct(ctx, vendorPrincipal(uuid.New()), product.ID.String())
	assert.True(t, apperror.IsNotFound(err))
}
