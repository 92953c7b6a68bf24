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

type CertificationRepository interface {
	Create(ctx context.Context, cert *model.Certification) error
	Update(ctx context.Context, cert *model.Certification) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, p scope.Principal, id uuid.UUID) (*model.Certification, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]model.Certification, error)
	List(ctx context.Context, p scope.Principal, vendorID *uuid.UUID, page, limit int) ([]model.Certification, int64, error)
	ListCurrent(ctx context.Context) ([]model.Certification, error)
	SetNotifiedFlag(ctx context.Context, id uuid.UUID, column string) error
}

type certificationRepository struct {
	db *gorm.DB
}

func NewCertificationRepository(db *gorm.DB) CertificationRepository {
	return &certificationRepository{db: db}
}

func (r *certificationRepository) Create(ctx context.Context, cert *model.Certification) error {
	return GetDB(ctx, r.db).Create(cert).Error
}

func (r *certificationRepository) Update(ctx context.Context, cert *model.Certification) error {
	return GetDB(ctx, r.db).Save(cert).Error
}

func (r *certificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Certification{}).Error
}

func (r *certificationRepository) FindByID(ctx context.Context, p scope.Principal, id uuid.UUID) (*model.Certification, error) {
	var cert model.Certification
	err := GetDB(ctx, r.db).
		Scopes(scope.OwnedThroughVendor(p, "certifications")).
		First(&cert, "certifications.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("certification")
		}
		return nil, err
	}
	return &cert, nil
}

// ListByVendor returns the full certification set of one vendor. Callers
// are expected to have scope-checked the vendor already; the rule engine
// and reconciler depend on seeing every certification.
func (r *certificationRepository) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]model.Certification, error) {
	var certs []model.Certification
	err := GetDB(ctx, r.db).
		Where("vendor_id = ?", vendorID).
		Order("expiry_date DESC").
		Find(&certs).Error
	return certs, err
}

func (r *certificationRepository) List(ctx context.Context, p scope.Principal, vendorID *uuid.UUID, page, limit int) ([]model.Certification, int64, error) {
	var certs []model.Certification
	var total int64

	db := GetDB(ctx, r.db)
	base := func() *gorm.DB {
		q := db.Model(&model.Certification{}).Scopes(scope.OwnedThroughVendor(p, "certifications"))
		if vendorID != nil {
			q = q.Where("certifications.vendor_id = ?", *vendorID)
		}
		return q
	}

	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := base().
		Order("certifications.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&certs).Error; err != nil {
		return nil, 0, err
	}

	return certs, total, nil
}

// ListCurrent returns every current certification with its vendor and the
// vendor's internal rep preloaded, for the expiry sweep.
func (r *certificationRepository) ListCurrent(ctx context.Context) ([]model.Certification, error) {
	var certs []model.Certification
	err := GetDB(ctx, r.db).
		Where("is_current = ?", true).
		Preload("Vendor").
		Preload("Vendor.InternalRep").
		Find(&certs).Error
	return certs, err
}

// SetNotifiedFlag persists exactly one one-shot notification flag.
func (r *certificationRepository) SetNotifiedFlag(ctx context.Context, id uuid.UUID, column string) error {
	return GetDB(ctx, r.db).
		Model(&model.Certification{}).
		Where("id = ?", id).
		UpdateColumn(column, true).Error
}
