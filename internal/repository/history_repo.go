package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/devravindu/upsupply-vms/internal/model"
	"github.com/devravindu/upsupply-vms/internal/scope"
)

// HistoryRepository is append-only: there is deliberately no update or
// delete method.
type HistoryRepository interface {
	Append(ctx context.Context, entry *model.VendorHistory) error
	ListByVendor(ctx context.Context, p scope.Principal, vendorID uuid.UUID, page, limit int) ([]model.VendorHistory, int64, error)
}

type historyRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Append(ctx context.Context, entry *model.VendorHistory) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *historyRepository) ListByVendor(ctx context.Context, p scope.Principal, vendorID uuid.UUID, page, limit int) ([]model.VendorHistory, int64, error) {
	var entries []model.VendorHistory
	var total int64

	db := GetDB(ctx, r.db)
	base := func() *gorm.DB {
		return db.Model(&model.VendorHistory{}).
			Scopes(scope.OwnedThroughVendor(p, "vendor_histories")).
			Where("vendor_histories.vendor_id = ?", vendorID)
	}

	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := base().
		Preload("ChangedBy").
		Order("vendor_histories.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
