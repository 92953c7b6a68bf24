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

type VendorRepository interface {
	Create(ctx context.Context, vendor *model.Vendor) error
	Update(ctx context.Context, vendor *model.Vendor) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, p scope.Principal, id uuid.UUID) (*model.Vendor, error)
	GetStatus(ctx context.Context, id uuid.UUID) (string, error)
	List(ctx context.Context, p scope.Principal, status, search string, page, limit int) ([]model.Vendor, int64, error)
	ListByStatus(ctx context.Context, status string) ([]model.Vendor, error)
}

type vendorRepository struct {
	db *gorm.DB
}

func NewVendorRepository(db *gorm.DB) VendorRepository {
	return &vendorRepository{db: db}
}

func (r *vendorRepository) Create(ctx context.Context, vendor *model.Vendor) error {
	return GetDB(ctx, r.db).Create(vendor).Error
}

func (r *vendorRepository) Update(ctx context.Context, vendor *model.Vendor) error {
	return GetDB(ctx, r.db).Save(vendor).Error
}

func (r *vendorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Vendor{}).Error
}

func (r *vendorRepository) FindByID(ctx context.Context, p scope.Principal, id uuid.UUID) (*model.Vendor, error) {
	var vendor model.Vendor
	err := GetDB(ctx, r.db).
		Scopes(scope.Vendors(p)).
		Preload("InternalRep").
		First(&vendor, "vendors.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("vendor")
		}
		return nil, err
	}
	return &vendor, nil
}

// GetStatus reads the currently persisted status only. Used as the
// pre-write snapshot when diffing an in-flight status change.
func (r *vendorRepository) GetStatus(ctx context.Context, id uuid.UUID) (string, error) {
	var row struct{ Status string }
	err := GetDB(ctx, r.db).
		Model(&model.Vendor{}).
		Select("status").
		Where("id = ?", id).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperror.NotFound("vendor")
		}
		return "", err
	}
	return row.Status, nil
}

func (r *vendorRepository) List(ctx context.Context, p scope.Principal, status, search string, page, limit int) ([]model.Vendor, int64, error) {
	var vendors []model.Vendor
	var total int64

	db := GetDB(ctx, r.db)
	base := func() *gorm.DB {
		q := db.Model(&model.Vendor{}).Scopes(scope.Vendors(p))
		if status != "" {
			q = q.Where("vendors.status = ?", status)
		}
		if search != "" {
			q = q.Where("vendors.name ILIKE ? OR vendors.contact_email ILIKE ?", "%"+search+"%", "%"+search+"%")
		}
		return q
	}

	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := base().
		Preload("InternalRep").
		Order("vendors.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&vendors).Error; err != nil {
		return nil, 0, err
	}

	return vendors, total, nil
}

func (r *vendorRepository) ListByStatus(ctx context.Context, status string) ([]model.Vendor, error) {
	var vendors []model.Vendor
	err := GetDB(ctx, r.db).
		Where("status = ?", status).
		Find(&vendors).Error
	return vendors, err
}
