package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/devravindu/upsupply-vms/internal/apperror"
	"github.com/devravindu/upsupply-vms/internal/model"
	"github.com/devravindu/upsupply-vms/internal/repository"
	"github.com/devravindu/upsupply-vms/internal/scope"
)

// --- DTOs ---

type CreateCertificationRequest struct {
	VendorID   string `json:"vendor_id" binding:"required"`
	CertType   string `json:"cert_type" binding:"required"`
	FileRef    string `json:"-"` // set by the handler after document upload
	IssueDate  string `json:"issue_date" binding:"required"`  // YYYY-MM-DD
	ExpiryDate string `json:"expiry_date" binding:"required"` // YYYY-MM-DD
	IsCurrent  *bool  `json:"is_current"`
}

type UpdateCertificationRequest struct {
	CertType   *string `json:"cert_type"`
	IssueDate  *string `json:"issue_date"`
	ExpiryDate *string `json:"expiry_date"`
	IsCurrent  *bool   `json:"is_current"`
}

type CertificationResponse struct {
	ID             uuid.UUID  `json:"id"`
	VendorID       uuid.UUID  `json:"vendor_id"`
	CertType       string     `json:"cert_type"`
	FileRef        string     `json:"file_ref"`
	IssueDate      string     `json:"issue_date"`
	ExpiryDate     string     `json:"expiry_date"`
	IsCurrent      bool       `json:"is_current"`
	ApprovalStatus string     `json:"approval_status"`
	ReviewedBy     *uuid.UUID `json:"reviewed_by"`
	ReviewedAt     *time.Time `json:"reviewed_at"`
	IsValid        bool       `json:"is_valid"`
}

// --- Interface ---

type CertificationService interface {
	CreateCertification(ctx context.Context, p scope.Principal, req CreateCertificationRequest) (CertificationResponse, error)
	UpdateCertification(ctx context.Context, p scope.Principal, id string, req UpdateCertificationRequest) (CertificationResponse, error)
	DeleteCertification(ctx context.Context, p scope.Principal, id string) error
	GetCertification(ctx context.Context, p scope.Principal, id string) (CertificationResponse, error)
	ListCertifications(ctx context.Context, p scope.Principal, vendorID string, page, limit int) ([]CertificationResponse, int64, error)
	ApproveCertification(ctx context.Context, p scope.Principal, id string) (CertificationResponse, error)
	RejectCertification(ctx context.Context, p scope.Principal, id string) (CertificationResponse, error)
}

type certificationService struct {
	certRepo   repository.CertificationRepository
	vendorRepo repository.VendorRepository
	txManager  repository.TransactionManager
	reconciler *StatusReconciler
	now        func() time.Time
}

func NewCertificationService(
	certRepo repository.CertificationRepository,
	vendorRepo repository.VendorRepository,
	txManager repository.TransactionManager,
	reconciler *StatusReconciler,
) CertificationService {
	return &certificationService{
		certRepo:   certRepo,
		vendorRepo: vendorRepo,
		txManager:  txManager,
		reconciler: reconciler,
		now:        time.Now,
	}
}

// --- Helpers ---

var validCertTypes = map[string]bool{
	model.CertTypeISO: true,
	model.CertTypeFDA: true,
	model.CertTypeCE:  true,
}

func parseDate(value, field string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, apperror.Validation(field, "must be a YYYY-MM-DD date")
	}
	return d, nil
}

// Expiry must be strictly after issue; equal dates are rejected too.
func validateCertDates(issue, expiry time.Time) error {
	if !expiry.After(issue) {
		return apperror.Validation("expiry_date", "expiry date must be after issue date")
	}
	return nil
}

func toCertificationResponse(c model.Certification, asOf time.Time) CertificationResponse {
	return CertificationResponse{
		ID:             c.ID,
		VendorID:       c.VendorID,
		CertType:       c.CertType,
		FileRef:        c.FileRef,
		IssueDate:      c.IssueDate.Format("2006-01-02"),
		ExpiryDate:     c.ExpiryDate.Format("2006-01-02"),
		IsCurrent:      c.IsCurrent,
		ApprovalStatus: c.ApprovalStatus,
		ReviewedBy:     c.ReviewedByID,
		ReviewedAt:     c.ReviewedAt,
		IsValid:        c.IsValid(asOf),
	}
}

// --- Operations ---

func (s *certificationService) CreateCertification(ctx context.Context, p scope.Principal, req CreateCertificationRequest) (CertificationResponse, error) {
	vendorID, err := uuid.Parse(req.VendorID)
	if err != nil {
		return CertificationResponse{}, apperror.NotFound("vendor")
	}
	// Scope check: the acting principal must be able to see the vendor
	if _, err := s.vendorRepo.FindByID(ctx, p, vendorID); err != nil {
		return CertificationResponse{}, err
	}

	if !validCertTypes[req.CertType] {
		return CertificationResponse{}, apperror.Validation("cert_type", "cert type must be one of: ISO, FDA, CE")
	}

	issue, err := parseDate(req.IssueDate, "issue_date")
	if err != nil {
		return CertificationResponse{}, err
	}
	expiry, err := parseDate(req.ExpiryDate, "expiry_date")
	if err != nil {
		return CertificationResponse{}, err
	}
	if err := validateCertDates(issue, expiry); err != nil {
		return CertificationResponse{}, err
	}

	isCurrent := true
	if req.IsCurrent != nil {
		isCurrent = *req.IsCurrent
	}

	cert := &model.Certification{
		VendorID:       vendorID,
		CertType:       req.CertType,
		FileRef:        req.FileRef,
		IssueDate:      issue,
		ExpiryDate:     expiry,
		IsCurrent:      isCurrent,
		ApprovalStatus: model.ApprovalPending,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.certRepo.Create(txCtx, cert); err != nil {
			return err
		}
		_, err := s.reconciler.Refresh(txCtx, vendorID, s.now())
		return err
	})
	if err != nil {
		return CertificationResponse{}, err
	}

	return toCertificationResponse(*cert, s.now()), nil
}

func (s *certificationService) UpdateCertification(ctx context.Context, p scope.Principal, id string, req UpdateCertificationRequest) (CertificationResponse, error) {
	cert, err := s.findCert(ctx, p, id)
	if err != nil {
		return CertificationResponse{}, err
	}

	if req.CertType != nil {
		if !validCertTypes[*req.CertType] {
			return CertificationResponse{}, apperror.Validation("cert_type", "cert type must be one of: ISO, FDA, CE")
		}
		cert.CertType = *req.CertType
	}
	if req.IssueDate != nil {
		d, err := parseDate(*req.IssueDate, "issue_date")
		if err != nil {
			return CertificationResponse{}, err
		}
		cert.IssueDate = d
	}
	if req.ExpiryDate != nil {
		d, err := parseDate(*req.ExpiryDate, "expiry_date")
		if err != nil {
			return CertificationResponse{}, err
		}
		cert.ExpiryDate = d
	}
	if err := validateCertDates(cert.IssueDate, cert.ExpiryDate); err != nil {
		return CertificationResponse{}, err
	}
	if req.IsCurrent != nil {
		cert.IsCurrent = *req.IsCurrent
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.certRepo.Update(txCtx, cert); err != nil {
			return err
		}
		_, err := s.reconciler.Refresh(txCtx, cert.VendorID, s.now())
		return err
	})
	if err != nil {
		return CertificationResponse{}, err
	}

	return toCertificationResponse(*cert, s.now()), nil
}

func (s *certificationService) DeleteCertification(ctx context.Context, p scope.Principal, id string) error {
	cert, err := s.findCert(ctx, p, id)
	if err != nil {
		return err
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.certRepo.Delete(txCtx, cert.ID); err != nil {
			return err
		}
		_, err := s.reconciler.Refresh(txCtx, cert.VendorID, s.now())
		return err
	})
}

func (s *certificationService) GetCertification(ctx context.Context, p scope.Principal, id string) (CertificationResponse, error) {
	cert, err := s.findCert(ctx, p, id)
	if err != nil {
		return CertificationResponse{}, err
	}
	return toCertificationResponse(*cert, s.now()), nil
}

func (s *certificationService) ListCertifications(ctx context.Context, p scope.Principal, vendorID string, page, limit int) ([]CertificationResponse, int64, error) {
	var vendorFilter *uuid.UUID
	if vendorID != "" {
		id, err := uuid.Parse(vendorID)
		if err != nil {
			return nil, 0, apperror.NotFound("vendor")
		}
		vendorFilter = &id
	}

	certs, total, err := s.certRepo.List(ctx, p, vendorFilter, page, limit)
	if err != nil {
		return nil, 0, err
	}

	asOf := s.now()
	res := make([]CertificationResponse, 0, len(certs))
	for _, c := range certs {
		res = append(res, toCertificationResponse(c, asOf))
	}
	return res, total, nil
}

// ApproveCertification stamps the reviewer and re-derives the owning
// vendor's status: an approved valid certification promotes the vendor.
func (s *certificationService) ApproveCertification(ctx context.Context, p scope.Principal, id string) (CertificationResponse, error) {
	return s.review(ctx, p, id, model.ApprovalApproved)
}

func (s *certificationService) RejectCertification(ctx context.Context, p scope.Principal, id string) (CertificationResponse, error) {
	return s.review(ctx, p, id, model.ApprovalRejected)
}

func (s *certificationService) review(ctx context.Context, p scope.Principal, id, decision string) (CertificationResponse, error) {
	cert, err := s.findCert(ctx, p, id)
	if err != nil {
		return CertificationResponse{}, err
	}

	now := s.now()
	cert.ApprovalStatus = decision
	cert.ReviewedByID = changedBy(p)
	cert.ReviewedAt = &now

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.certRepo.Update(txCtx, cert); err != nil {
			return err
		}
		_, err := s.reconciler.Refresh(txCtx, cert.VendorID, now)
		return err
	})
	if err != nil {
		return CertificationResponse{}, err
	}

	return toCertificationResponse(*cert, now), nil
}

func (s *certificationService) findCert(ctx context.Context, p scope.Principal, id string) (*model.Certification, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.NotFound("certification")
	}
	return s.certRepo.FindByID(ctx, p, uid)
}
