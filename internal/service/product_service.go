package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/devravindu/upsupply-vms/internal/apperror"
	"github.com/devravindu/upsupply-vms/internal/model"
	"github.com/devravindu/upsupply-vms/internal/repository"
	"github.com/devravindu/upsupply-vms/internal/scope"
)

// --- DTOs ---

type CreateProductRequest struct {
	VendorID string `json:"vendor_id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Status   string `json:"status"`
}

type UpdateProductRequest struct {
	Name   *string `json:"name"`
	Status *string `json:"status"`
}

type ProductResponse struct {
	ID       uuid.UUID `json:"id"`
	VendorID uuid.UUID `json:"vendor_id"`
	Name     string    `json:"name"`
	Status   string    `json:"status"`
	// Visible to buyers only when the product is active AND its vendor is
	// verified
	IsActive bool `json:"is_active"`
}

// --- Interface ---

type ProductService interface {
	CreateProduct(ctx context.Context, p scope.Principal, req CreateProductRequest) (ProductResponse, error)
	UpdateProduct(ctx context.Context, p scope.Principal, id string, req UpdateProductRequest) (ProductResponse, error)
	DeleteProduct(ctx context.Context, p scope.Principal, id string) error
	GetProduct(ctx context.Context, p scope.Principal, id string) (ProductResponse, error)
	ListProducts(ctx context.Context, p scope.Principal, vendorID string, page, limit int) ([]ProductResponse, int64, error)
}

type productService struct {
	productRepo repository.ProductRepository
	vendorRepo  repository.VendorRepository
}

func NewProductService(productRepo repository.ProductRepository, vendorRepo repository.VendorRepository) ProductService {
	return &productService{productRepo: productRepo, vendorRepo: vendorRepo}
}

// --- Helpers ---

var validProductStatuses = map[string]bool{
	model.ProductStatusActive:   true,
	model.ProductStatusInactive: true,
}

func toProductResponse(p model.Product) ProductResponse {
	return ProductResponse{
		ID:       p.ID,
		VendorID: p.VendorID,
		Name:     p.Name,
		Status:   p.Status,
		IsActive: p.IsActive(),
	}
}

// --- CRUD ---

func (s *productService) CreateProduct(ctx context.Context, p scope.Principal, req CreateProductRequest) (ProductResponse, error) {
	vendorID, err := uuid.Parse(req.VendorID)
	if err != nil {
		return ProductResponse{}, apperror.NotFound("vendor")
	}
	vendor, err := s.vendorRepo.FindByID(ctx, p, vendorID)
	if err != nil {
		return ProductResponse{}, err
	}

	if req.Name == "" {
		return ProductResponse{}, apperror.Validation("name", "name is required")
	}
	status := req.Status
	if status == "" {
		status = model.ProductStatusActive
	}
	if !validProductStatuses[status] {
		return ProductResponse{}, apperror.Validation("status", "status must be one of: active, inactive")
	}

	product := &model.Product{
		VendorID: vendorID,
		Vendor:   vendor,
		Name:     req.Name,
		Status:   status,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return ProductResponse{}, err
	}

	return toProductResponse(*product), nil
}

func (s *productService) UpdateProduct(ctx context.Context, p scope.Principal, id string, req UpdateProductRequest) (ProductResponse, error) {
	product, err := s.findProduct(ctx, p, id)
	if err != nil {
		return ProductResponse{}, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return ProductResponse{}, apperror.Validation("name", "name cannot be empty")
		}
		product.Name = *req.Name
	}
	if req.Status != nil {
		if !validProductStatuses[*req.Status] {
			return ProductResponse{}, apperror.Validation("status", "status must be one of: active, inactive")
		}
		product.Status = *req.Status
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return ProductResponse{}, err
	}
	return toProductResponse(*product), nil
}

func (s *productService) DeleteProduct(ctx context.Context, p scope.Principal, id string) error {
	product, err := s.findProduct(ctx, p, id)
	if err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, product.ID)
}

func (s *productService) GetProduct(ctx context.Context, p scope.Principal, id string) (ProductResponse, error) {
	product, err := s.findProduct(ctx, p, id)
	if err != nil {
		return ProductResponse{}, err
	}
	return toProductResponse(*product), nil
}

func (s *productService) ListProducts(ctx context.Context, p scope.Principal, vendorID string, page, limit int) ([]ProductResponse, int64, error) {
	var vendorFilter *uuid.UUID
	if vendorID != "" {
		id, err := uuid.Parse(vendorID)
		if err != nil {
			return nil, 0, apperror.NotFound("vendor")
		}
		vendorFilter = &id
	}

	products, total, err := s.productRepo.List(ctx, p, vendorFilter, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]ProductResponse, 0, len(products))
	for _, prod := range products {
		res = append(res, toProductResponse(prod))
	}
	return res, total, nil
}

func (s *productService) findProduct(ctx context.Context, p scope.Principal, id string) (*model.Product, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.NotFound("product")
	}
	return s.productRepo.FindByID(ctx, p, uid)
}
