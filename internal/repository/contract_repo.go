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

type ContractRepository interface {
	Create(ctx context.Context, contract *model.Contract) error
	Update(ctx context.Context, contract *model.Contract) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, p scope.Principal, id uuid.UUID) (*model.Contract, error)
	ExistsForVendor(ctx context.Context, vendorID uuid.UUID, contractID string) (bool, error)
	List(ctx context.Context, p scope.Principal, vendorID *uuid.UUID, page, limit int) ([]model.Contract, int64, error)
}

type contractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) ContractRepository {
	return &contractRepository{db: db}
}

func (r *contractRepository) Create(ctx context.Context, contract *model.Contract) error {
	return GetDB(ctx, r.db).Create(contract).Error
}

func (r *contractRepository) Update(ctx context.Context, contract *model.Contract) error {
	return GetDB(ctx, r.db).Save(contract).Error
}

func (r *contractRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Contract{}).Error
}

func (r *contractRepository) FindByID(ctx context.Context, p scope.Principal, id uuid.UUID) (*model.Contract, error) {
	var contract model.Contract
	err := GetDB(ctx, r.db).
		Scopes(scope.OwnedThroughVendor(p, "contracts")).
		First(&contract, "contracts.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("contract")
		}
		return nil, err
	}
	return &contract, nil
}

// ExistsForVendor backs the vendor-scoped contract identifier uniqueness
// rule; the DB unique index is the backstop for racing writers.
func (r *contractRepository) ExistsForVendor(ctx context.Context, vendorID uuid.UUID, contractID string) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).
		Model(&model.Contract{}).
		Where("vendor_id = ? AND contract_id = ?", vendorID, contractID).
		Count(&count).Error
	return count > 0, err
}

func (r *contractRepository) List(ctx context.Context, p scope.Principal, vendorID *uuid.UUID, page, limit int) ([]model.Contract, int64, error) {
	var contracts []model.Contract
	var total int64

	db := GetDB(ctx, r.db)
	base := func() *gorm.DB {
		q := db.Model(&model.Contract{}).Scopes(scope.OwnedThroughVendor(p, "contracts"))
		if vendorID != nil {
			q = q.Where("contracts.vendor_id = ?", *vendorID)
		}
		return q
	}

	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := base().
		Order("contracts.start_date DESC").
		Offset(offset).Limit(limit).
		Find(&contracts).Error; err != nil {
		return nil, 0, err
	}

	return contracts, total, nil
}
