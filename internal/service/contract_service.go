package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/devravindu/upsupply-vms/internal/apperror"
	"github.com/devravindu/upsupply-vms/internal/model"
	"github.com/devravindu/upsupply-vms/internal/repository"
	"github.com/devravindu/upsupply-vms/internal/scope"
)

// --- DTOs ---

type CreateContractRequest struct {
	VendorID   string          `json:"vendor_id" binding:"required"`
	ContractID string          `json:"contract_id" binding:"required"`
	TotalValue decimal.Decimal `json:"total_value"`
	StartDate  string          `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate    string          `json:"end_date" binding:"required"`   // YYYY-MM-DD
}

type UpdateContractRequest struct {
	ContractID *string          `json:"contract_id"`
	TotalValue *decimal.Decimal `json:"total_value"`
	StartDate  *string          `json:"start_date"`
	EndDate    *string          `json:"end_date"`
}

type ContractResponse struct {
	ID         uuid.UUID       `json:"id"`
	VendorID   uuid.UUID       `json:"vendor_id"`
	ContractID string          `json:"contract_id"`
	TotalValue decimal.Decimal `json:"total_value"`
	StartDate  string          `json:"start_date"`
	EndDate    string          `json:"end_date"`
	IsActive   bool            `json:"is_active"`
}

// --- Interface ---

type ContractService interface {
	CreateContract(ctx context.Context, p scope.Principal, req CreateContractRequest) (ContractResponse, error)
	UpdateContract(ctx context.Context, p scope.Principal, id string, req UpdateContractRequest) (ContractResponse, error)
	DeleteContract(ctx context.Context, p scope.Principal, id string) error
	GetContract(ctx context.Context, p scope.Principal, id string) (ContractResponse, error)
	ListContracts(ctx context.Context, p scope.Principal, vendorID string, page, limit int) ([]ContractResponse, int64, error)
}

type contractService struct {
	contractRepo repository.ContractRepository
	vendorRepo   repository.VendorRepository
	now          func() time.Time
}

func NewContractService(contractRepo repository.ContractRepository, vendorRepo repository.VendorRepository) ContractService {
	return &contractService{
		contractRepo: contractRepo,
		vendorRepo:   vendorRepo,
		now:          time.Now,
	}
}

// --- Helpers ---

func toContractResponse(c model.Contract, asOf time.Time) ContractResponse {
	return ContractResponse{
		ID:         c.ID,
		VendorID:   c.VendorID,
		ContractID: c.ContractID,
		TotalValue: c.TotalValue,
		StartDate:  c.StartDate.Format("2006-01-02"),
		EndDate:    c.EndDate.Format("2006-01-02"),
		IsActive:   c.IsActive(asOf),
	}
}

// End may equal start (single-day contracts) but never precede it.
func validateContractDates(start, end time.Time) error {
	if end.Before(start) {
		return apperror.Validation("end_date", "contract end date cannot be earlier than start date")
	}
	return nil
}

// --- CRUD ---

func (s *contractService) CreateContract(ctx context.Context, p scope.Principal, req CreateContractRequest) (ContractResponse, error) {
	vendorID, err := uuid.Parse(req.VendorID)
	if err != nil {
		return ContractResponse{}, apperror.NotFound("vendor")
	}
	if _, err := s.vendorRepo.FindByID(ctx, p, vendorID); err != nil {
		return ContractResponse{}, err
	}

	start, err := parseDate(req.StartDate, "start_date")
	if err != nil {
		return ContractResponse{}, err
	}
	end, err := parseDate(req.EndDate, "end_date")
	if err != nil {
		return ContractResponse{}, err
	}
	if err := validateContractDates(start, end); err != nil {
		return ContractResponse{}, err
	}

	exists, err := s.contractRepo.ExistsForVendor(ctx, vendorID, req.ContractID)
	if err != nil {
		return ContractResponse{}, err
	}
	if exists {
		return ContractResponse{}, apperror.Validation("contract_id", "contract identifier already exists for this vendor")
	}

	contract := &model.Contract{
		VendorID:   vendorID,
		ContractID: req.ContractID,
		TotalValue: req.TotalValue,
		StartDate:  start,
		EndDate:    end,
	}
	if err := s.contractRepo.Create(ctx, contract); err != nil {
		return ContractResponse{}, err
	}

	return toContractResponse(*contract, s.now()), nil
}

func (s *contractService) UpdateContract(ctx context.Context, p scope.Principal, id string, req UpdateContractRequest) (ContractResponse, error) {
	contract, err := s.findContract(ctx, p, id)
	if err != nil {
		return ContractResponse{}, err
	}

	if req.ContractID != nil && *req.ContractID != contract.ContractID {
		if *req.ContractID == "" {
			return ContractResponse{}, apperror.Validation("contract_id", "contract identifier cannot be empty")
		}
		exists, err := s.contractRepo.ExistsForVendor(ctx, contract.VendorID, *req.ContractID)
		if err != nil {
			return ContractResponse{}, err
		}
		if exists {
			return ContractResponse{}, apperror.Validation("contract_id", "contract identifier already exists for this vendor")
		}
		contract.ContractID = *req.ContractID
	}
	if req.TotalValue != nil {
		contract.TotalValue = *req.TotalValue
	}
	if req.StartDate != nil {
		d, err := parseDate(*req.StartDate, "start_date")
		if err != nil {
			return ContractResponse{}, err
		}
		contract.StartDate = d
	}
	if req.EndDate != nil {
		d, err := parseDate(*req.EndDate, "end_date")
		if err != nil {
			return ContractResponse{}, err
		}
		contract.EndDate = d
	}
	if err := validateContractDates(contract.StartDate, contract.EndDate); err != nil {
		return ContractResponse{}, err
	}

	if err := s.contractRepo.Update(ctx, contract); err != nil {
		return ContractResponse{}, err
	}
	return toContractResponse(*contract, s.now()), nil
}

func (s *contractService) DeleteContract(ctx context.Context, p scope.Principal, id string) error {
	contract, err := s.findContract(ctx, p, id)
	if err != nil {
		return err
	}
	return s.contractRepo.Delete(ctx, contract.ID)
}

func (s *contractService) GetContract(ctx context.Context, p scope.Principal, id string) (ContractResponse, error) {
	contract, err := s.findContract(ctx, p, id)
	if err != nil {
		return ContractResponse{}, err
	}
	return toContractResponse(*contract, s.now()), nil
}

func (s *contractService) ListContracts(ctx context.Context, p scope.Principal, vendorID string, page, limit int) ([]ContractResponse, int64, error) {
	var vendorFilter *uuid.UUID
	if vendorID != "" {
		id, err := uuid.Parse(vendorID)
		if err != nil {
			return nil, 0, apperror.NotFound("vendor")
		}
		vendorFilter = &id
	}

	contracts, total, err := s.contractRepo.List(ctx, p, vendorFilter, page, limit)
	if err != nil {
		return nil, 0, err
	}

	asOf := s.now()
	res := make([]ContractResponse, 0, len(contracts))
	for _, c := range contracts {
		res = append(res, toContractResponse(c, asOf))
	}
	return res, total, nil
}

func (s *contractService) findContract(ctx context.Context, p scope.Principal, id string) (*model.Contract, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.NotFound("contract")
	}
	return s.contractRepo.FindByID(ctx, p, uid)
}
