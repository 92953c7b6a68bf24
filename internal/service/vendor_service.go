package service

import (
	"context"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/devravindu/upsupply-vms/internal/apperror"
	"github.com/devravindu/upsupply-vms/internal/model"
	"github.com/devravindu/upsupply-vms/internal/repository"
	"github.com/devravindu/upsupply-vms/internal/scope"
	"github.com/devravindu/upsupply-vms/internal/verification"
)

// --- DTOs ---

type CreateVendorRequest struct {
	Name                  string  `json:"name" binding:"required"`
	Status                string  `json:"status"`
	RiskTier              string  `json:"risk_tier"`
	VendorType            string  `json:"vendor_type"`
	Country               string  `json:"country"`
	RegistrationNumber    string  `json:"registration_number"`
	StockSymbol           string  `json:"stock_symbol"`
	Website               string  `json:"website"`
	UserID                *string `json:"user_id"`
	InternalRepID         *string `json:"internal_rep_id"`
	RelationshipStartDate string  `json:"relationship_start_date"` // YYYY-MM-DD
	ContactName           string  `json:"contact_name"`
	ContactEmail          string  `json:"contact_email"`
	ContactPhone          string  `json:"contact_phone"`
}

type UpdateVendorRequest struct {
	Name               *string `json:"name"`
	Status             *string `json:"status"`
	RiskTier           *string `json:"risk_tier"`
	VendorType         *string `json:"vendor_type"`
	Country            *string `json:"country"`
	RegistrationNumber *string `json:"registration_number"`
	StockSymbol        *string `json:"stock_symbol"`
	Website            *string `json:"website"`
	InternalRepID      *string `json:"internal_rep_id"`
	ContactName        *string `json:"contact_name"`
	ContactEmail       *string `json:"contact_email"`
	ContactPhone       *string `json:"contact_phone"`
}

type VendorResponse struct {
	ID                    uuid.UUID       `json:"id"`
	Name                  string          `json:"name"`
	Status                string          `json:"status"`
	RiskTier              string          `json:"risk_tier"`
	VendorType            string          `json:"vendor_type"`
	Country               string          `json:"country"`
	RegistrationNumber    string          `json:"registration_number"`
	StockSymbol           string          `json:"stock_symbol"`
	Website               string          `json:"website"`
	UserID                *uuid.UUID      `json:"user_id"`
	InternalRepID         *uuid.UUID      `json:"internal_rep_id"`
	RelationshipStartDate string          `json:"relationship_start_date"`
	ContactName           string          `json:"contact_name"`
	ContactEmail          string          `json:"contact_email"`
	ContactPhone          string          `json:"contact_phone"`
	TotalSpend            decimal.Decimal `json:"total_spend"`
	CreatedAt             time.Time       `json:"created_at"`
}

type VendorHistoryResponse struct {
	ID        uuid.UUID  `json:"id"`
	VendorID  uuid.UUID  `json:"vendor_id"`
	Status    string     `json:"status"`
	ChangedBy *uuid.UUID `json:"changed_by"`
	Timestamp time.Time  `json:"timestamp"`
}

// --- Interface ---

type VendorService interface {
	CreateVendor(ctx context.Context, p scope.Principal, req CreateVendorRequest) (VendorResponse, error)
	UpdateVendor(ctx context.Context, p scope.Principal, id string, req UpdateVendorRequest) (VendorResponse, error)
	DeleteVendor(ctx context.Context, p scope.Principal, id string) error
	GetVendor(ctx context.Context, p scope.Principal, id string) (VendorResponse, error)
	ListVendors(ctx context.Context, p scope.Principal, status, search string, page, limit int) ([]VendorResponse, int64, error)
	GetVendorHistory(ctx context.Context, p scope.Principal, id string, page, limit int) ([]VendorHistoryResponse, int64, error)
}

type vendorService struct {
	vendorRepo  repository.VendorRepository
	certRepo    repository.CertificationRepository
	historyRepo repository.HistoryRepository
	txManager   repository.TransactionManager
	publisher   StatusPublisher
	now         func() time.Time
}

func NewVendorService(
	vendorRepo repository.VendorRepository,
	certRepo repository.CertificationRepository,
	historyRepo repository.HistoryRepository,
	txManager repository.TransactionManager,
	publisher StatusPublisher,
) VendorService {
	return &vendorService{
		vendorRepo:  vendorRepo,
		certRepo:    certRepo,
		historyRepo: historyRepo,
		txManager:   txManager,
		publisher:   publisher,
		now:         time.Now,
	}
}

// --- Validation helpers ---

var validVendorStatuses = map[string]bool{
	model.VendorStatusPending:     true,
	model.VendorStatusUnderReview: true,
	model.VendorStatusVerified:    true,
	model.VendorStatusInactive:    true,
}

var validRiskTiers = map[string]bool{
	model.RiskTierLow:    true,
	model.RiskTierMedium: true,
	model.RiskTierHigh:   true,
}

var validVendorTypes = map[string]bool{
	model.VendorTypeWholesaler:   true,
	model.VendorTypeManufacturer: true,
	model.VendorTypeDistributor:  true,
}

func changedBy(p scope.Principal) *uuid.UUID {
	if p.UserID == uuid.Nil {
		return nil
	}
	id := p.UserID
	return &id
}

func toVendorResponse(v model.Vendor) VendorResponse {
	return VendorResponse{
		ID:                    v.ID,
		Name:                  v.Name,
		Status:                v.Status,
		RiskTier:              v.RiskTier,
		VendorType:            v.VendorType,
		Country:               v.Country,
		RegistrationNumber:    v.RegistrationNumber,
		StockSymbol:           v.StockSymbol,
		Website:               v.Website,
		UserID:                v.UserID,
		InternalRepID:         v.InternalRepID,
		RelationshipStartDate: v.RelationshipStartDate.Format("2006-01-02"),
		ContactName:           v.ContactName,
		ContactEmail:          v.ContactEmail,
		ContactPhone:          v.ContactPhone,
		TotalSpend:            v.TotalSpend,
		CreatedAt:             v.CreatedAt,
	}
}

func parseOptionalUUID(s *string, field string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, apperror.Validation(field, "must be a valid UUID")
	}
	return &id, nil
}

// --- CRUD ---

func (s *vendorService) CreateVendor(ctx context.Context, p scope.Principal, req CreateVendorRequest) (VendorResponse, error) {
	if req.Name == "" {
		return VendorResponse{}, apperror.Validation("name", "name is required")
	}

	status := req.Status
	if status == "" {
		status = model.VendorStatusPending
	}
	if !validVendorStatuses[status] {
		return VendorResponse{}, apperror.Validation("status", "status must be one of: pending, under_review, verified, inactive")
	}
	// A vendor must exist before it can be verified: create it first, add
	// certifications, then verify.
	if status == model.VendorStatusVerified {
		return VendorResponse{}, apperror.Validation("status", "cannot verify a new vendor; create the vendor first, add certifications, then verify")
	}

	riskTier := req.RiskTier
	if riskTier == "" {
		riskTier = model.RiskTierMedium
	}
	if !validRiskTiers[riskTier] {
		return VendorResponse{}, apperror.Validation("risk_tier", "risk tier must be one of: Low, Medium, High")
	}

	vendorType := req.VendorType
	if vendorType == "" {
		vendorType = model.VendorTypeWholesaler
	}
	if !validVendorTypes[vendorType] {
		return VendorResponse{}, apperror.Validation("vendor_type", "vendor type must be one of: wholesaler, manufacturer, distributor")
	}

	if req.ContactEmail != "" {
		if _, err := mail.ParseAddress(req.ContactEmail); err != nil {
			return VendorResponse{}, apperror.Validation("contact_email", "invalid email format")
		}
	}

	userID, err := parseOptionalUUID(req.UserID, "user_id")
	if err != nil {
		return VendorResponse{}, err
	}
	repID, err := parseOptionalUUID(req.InternalRepID, "internal_rep_id")
	if err != nil {
		return VendorResponse{}, err
	}

	vendor := &model.Vendor{
		Name:               req.Name,
		Status:             status,
		RiskTier:           riskTier,
		VendorType:         vendorType,
		Country:            req.Country,
		RegistrationNumber: req.RegistrationNumber,
		StockSymbol:        req.StockSymbol,
		Website:            req.Website,
		UserID:             userID,
		InternalRepID:      repID,
		ContactName:        req.ContactName,
		ContactEmail:       req.ContactEmail,
		ContactPhone:       req.ContactPhone,
	}
	if req.RelationshipStartDate != "" {
		d, err := time.Parse("2006-01-02", req.RelationshipStartDate)
		if err != nil {
			return VendorResponse{}, apperror.Validation("relationship_start_date", "must be a YYYY-MM-DD date")
		}
		vendor.RelationshipStartDate = d
	}

	// Creation always produces the initial history row, attributed to the
	// acting principal.
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.vendorRepo.Create(txCtx, vendor); err != nil {
			return err
		}
		return s.historyRepo.Append(txCtx, &model.VendorHistory{
			VendorID:    vendor.ID,
			Status:      vendor.Status,
			ChangedByID: changedBy(p),
		})
	})
	if err != nil {
		return VendorResponse{}, err
	}

	return toVendorResponse(*vendor), nil
}

func (s *vendorService) UpdateVendor(ctx context.Context, p scope.Principal, id string, req UpdateVendorRequest) (VendorResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return VendorResponse{}, apperror.NotFound("vendor")
	}

	vendor, err := s.vendorRepo.FindByID(ctx, p, uid)
	if err != nil {
		return VendorResponse{}, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return VendorResponse{}, apperror.Validation("name", "name cannot be empty")
		}
		vendor.Name = *req.Name
	}
	if req.Status != nil {
		if !validVendorStatuses[*req.Status] {
			return VendorResponse{}, apperror.Validation("status", "status must be one of: pending, under_review, verified, inactive")
		}
		vendor.Status = *req.Status
	}
	if req.RiskTier != nil {
		if !validRiskTiers[*req.RiskTier] {
			return VendorResponse{}, apperror.Validation("risk_tier", "risk tier must be one of: Low, Medium, High")
		}
		vendor.RiskTier = *req.RiskTier
	}
	if req.VendorType != nil {
		if !validVendorTypes[*req.VendorType] {
			return VendorResponse{}, apperror.Validation("vendor_type", "vendor type must be one of: wholesaler, manufacturer, distributor")
		}
		vendor.VendorType = *req.VendorType
	}
	if req.Country != nil {
		vendor.Country = *req.Country
	}
	if req.RegistrationNumber != nil {
		vendor.RegistrationNumber = *req.RegistrationNumber
	}
	if req.StockSymbol != nil {
		vendor.StockSymbol = *req.StockSymbol
	}
	if req.Website != nil {
		vendor.Website = *req.Website
	}
	if req.InternalRepID != nil {
		repID, err := parseOptionalUUID(req.InternalRepID, "internal_rep_id")
		if err != nil {
			return VendorResponse{}, err
		}
		vendor.InternalRepID = repID
		vendor.InternalRep = nil
	}
	if req.ContactName != nil {
		vendor.ContactName = *req.ContactName
	}
	if req.ContactEmail != nil {
		if *req.ContactEmail != "" {
			if _, err := mail.ParseAddress(*req.ContactEmail); err != nil {
				return VendorResponse{}, apperror.Validation("contact_email", "invalid email format")
			}
		}
		vendor.ContactEmail = *req.ContactEmail
	}
	if req.ContactPhone != nil {
		vendor.ContactPhone = *req.ContactPhone
	}

	// Verification demands at least one approved, current, unexpired
	// certification, checked on every save that lands on verified.
	if vendor.Status == model.VendorStatusVerified {
		certs, err := s.certRepo.ListByVendor(ctx, vendor.ID)
		if err != nil {
			return VendorResponse{}, err
		}
		if !verification.HasApprovedValidCertification(certs, s.now()) {
			return VendorResponse{}, apperror.Validation("status", "cannot verify vendor without at least one valid certification")
		}
	}

	statusChanged := false
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		// Fresh snapshot inside the transaction so the diff cannot race the
		// write it guards.
		persisted, err := s.vendorRepo.GetStatus(txCtx, vendor.ID)
		if err != nil {
			return err
		}
		statusChanged = persisted != vendor.Status

		if statusChanged {
			if err := s.historyRepo.Append(txCtx, &model.VendorHistory{
				VendorID:    vendor.ID,
				Status:      vendor.Status,
				ChangedByID: changedBy(p),
			}); err != nil {
				return err
			}
		}

		return s.vendorRepo.Update(txCtx, vendor)
	})
	if err != nil {
		return VendorResponse{}, err
	}

	if statusChanged && s.publisher != nil {
		s.publisher.PublishStatusChange(vendor.ID.String(), vendor.Status)
	}

	return toVendorResponse(*vendor), nil
}

func (s *vendorService) DeleteVendor(ctx context.Context, p scope.Principal, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return apperror.NotFound("vendor")
	}
	if _, err := s.vendorRepo.FindByID(ctx, p, uid); err != nil {
		return err
	}
	// Children cascade at the database level
	return s.vendorRepo.Delete(ctx, uid)
}

func (s *vendorService) GetVendor(ctx context.Context, p scope.Principal, id string) (VendorResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return VendorResponse{}, apperror.NotFound("vendor")
	}
	vendor, err := s.vendorRepo.FindByID(ctx, p, uid)
	if err != nil {
		return VendorResponse{}, err
	}
	return toVendorResponse(*vendor), nil
}

func (s *vendorService) ListVendors(ctx context.Context, p scope.Principal, status, search string, page, limit int) ([]VendorResponse, int64, error) {
	vendors, total, err := s.vendorRepo.List(ctx, p, status, search, page, limit)
	if err != nil {
		return nil, 0, err
	}
	res := make([]VendorResponse, 0, len(vendors))
	for _, v := range vendors {
		res = append(res, toVendorResponse(v))
	}
	return res, total, nil
}

func (s *vendorService) GetVendorHistory(ctx context.Context, p scope.Principal, id string, page, limit int) ([]VendorHistoryResponse, int64, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, 0, apperror.NotFound("vendor")
	}
	entries, total, err := s.historyRepo.ListByVendor(ctx, p, uid, page, limit)
	if err != nil {
		return nil, 0, err
	}
	res := make([]VendorHistoryResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, VendorHistoryResponse{
			ID:        e.ID,
			VendorID:  e.VendorID,
			Status:    e.Status,
			ChangedBy: e.ChangedByID,
			Timestamp: e.CreatedAt,
		})
	}
	return res, total, nil
}
