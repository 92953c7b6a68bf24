package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/devravindu/upsupply-vms/internal/apperror"
	"github.com/devravindu/upsupply-vms/internal/model"
	"github.com/devravindu/upsupply-vms/internal/scope"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, p scope.Principal, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, p scope.Principal, vendorID *uuid.UUID, page, limit int) ([]model.Product, int64, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return GetDB(ctx, r.db).Create(product).Error
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	return GetDB(ctx, r.db).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Product{}).Error
}

func (r *productRepository) FindByID(ctx context.Context, p scope.Principal, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := GetDB(ctx, r.db).
		Scopes(scope.OwnedThroughVendor(p, "products")).
		Preload("Vendor").
		First(&product, "products.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("product")
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, p scope.Principal, vendorID *uuid.UUID, page, limit int) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	db := GetDB(ctx, r.db)
	base := func() *gorm.DB {
		q := db.Model(&model.Product{}).Scopes(scope.OwnedThroughVendor(p, "products"))
		if vendorID != nil {
			q = q.Where("products.vendor_id = ?", *vendorID)
		}
		return q
	}

	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := base().
		Preload("Vendor").
		Order("products.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}
