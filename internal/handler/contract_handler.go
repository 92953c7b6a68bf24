package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devravindu/upsupply-vms/internal/middleware"
	"github.com/devravindu/upsupply-vms/internal/service"
	"github.com/devravindu/upsupply-vms/pkg/pagination"
	"github.com/devravindu/upsupply-vms/pkg/response"
)

type ContractHandler struct {
	contractService service.ContractService
}

func NewContractHandler(contractService service.ContractService) *ContractHandler {
	return &ContractHandler{contractService: contractService}
}

func (h *ContractHandler) RegisterRoutes(router *gin.RouterGroup) {
	contracts := router.Group("/api/contracts", middleware.RequireAuth())
	{
		contracts.GET("", h.ListContracts)
		contracts.GET("/:id", h.GetContract)
		contracts.POST("", middleware.RequireStaff(), h.CreateContract)
		contracts.PUT("/:id", middleware.RequireStaff(), h.UpdateContract)
		contracts.DELETE("/:id", middleware.RequireStaff(), h.DeleteContract)
	}
}

// ListContracts returns contracts visible to the caller
// @Summary      List contracts
// @Tags         contracts
// @Security     BearerAuth
// @Produce      json
// @Param        vendor_id  query  string  false  "Filter by vendor"
// @Success      200  {object}  response.Response
// @Router       /api/contracts [get]
func (h *ContractHandler) ListContracts(c *gin.Context) {
	p, _ := middleware.Principal(c)
	params := pagination.Parse(c)

	contracts, total, err := h.contractService.ListContracts(c.Request.Context(), p, c.Query("vendor_id"), params.Page, params.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, contracts, params.Page, params.Limit, total))
}

// GetContract returns one contract
// @Summary      Get contract
// @Tags         contracts
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Contract ID"
// @Success      200  {object}  response.Response
// @Router       /api/contracts/{id} [get]
func (h *ContractHandler) GetContract(c *gin.Context) {
	p, _ := middleware.Principal(c)

	contract, err := h.contractService.GetContract(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, contract))
}

// CreateContract registers a contract for a vendor
// @Summary      Create contract
// @Tags         contracts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateContractRequest  true  "Contract payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/contracts [post]
func (h *ContractHandler) CreateContract(c *gin.Context) {
	p, _ := middleware.Principal(c)

	var req service.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	contract, err := h.contractService.CreateContract(c.Request.Context(), p, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, contract))
}

// UpdateContract updates contract fields
// @Summary      Update contract
// @Tags         contracts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                         true  "Contract ID"
// @Param        payload  body  service.UpdateContractRequest  true  "Update payload"
// @Success      200  {object}  response.Response
// @Router       /api/contracts/{id} [put]
func (h *ContractHandler) UpdateContract(c *gin.Context) {
	p, _ := middleware.Principal(c)

	var req service.UpdateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	contract, err := h.contractService.UpdateContract(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, contract))
}

// DeleteContract removes a contract
// @Summary      Delete contract
// @Tags         contracts
// @Security     BearerAuth
// @Param        id  path  string  true  "Contract ID"
// @Success      200  {object}  response.Response
// @Router       /api/contracts/{id} [delete]
func (h *ContractHandler) DeleteContract(c *gin.Context) {
	p, _ := middleware.Principal(c)

	if err := h.contractService.DeleteContract(c.Request.Context(), p, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
