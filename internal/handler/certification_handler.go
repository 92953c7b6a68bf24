package handler

import (
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/devravindu/upsupply-vms/internal/middleware"
	"github.com/devravindu/upsupply-vms/internal/service"
	"github.com/devravindu/upsupply-vms/internal/storage"
	"github.com/devravindu/upsupply-vms/pkg/pagination"
	"github.com/devravindu/upsupply-vms/pkg/response"
)

type CertificationHandler struct {
	certService service.CertificationService
	documents   storage.DocumentStore
}

func NewCertificationHandler(certService service.CertificationService, documents storage.DocumentStore) *CertificationHandler {
	return &CertificationHandler{certService: certService, documents: documents}
}

func (h *CertificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	certs := router.Group("/api/certifications", middleware.RequireAuth())
	{
		certs.GET("", h.ListCertifications)
		certs.GET("/:id", h.GetCertification)
		certs.POST("", h.CreateCertification)
		certs.PUT("/:id", h.UpdateCertification)
		certs.DELETE("/:id", h.DeleteCertification)
		certs.POST("/:id/approve", middleware.RequireStaff(), h.ApproveCertification)
		certs.POST("/:id/reject", middleware.RequireStaff(), h.RejectCertification)
	}
}

// ListCertifications returns certifications visible to the caller
// @Summary      List certifications
// @Tags         certifications
// @Security     BearerAuth
// @Produce      json
// @Param        vendor_id  query  string  false  "Filter by vendor"
// @Success      200  {object}  response.Response
// @Router       /api/certifications [get]
func (h *CertificationHandler) ListCertifications(c *gin.Context) {
	p, _ := middleware.Principal(c)
	params := pagination.Parse(c)

	certs, total, err := h.certService.ListCertifications(c.Request.Context(), p, c.Query("vendor_id"), params.Page, params.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, certs, params.Page, params.Limit, total))
}

// GetCertification returns one certification
// @Summary      Get certification
// @Tags         certifications
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Certification ID"
// @Success      200  {object}  response.Response
// @Router       /api/certifications/{id} [get]
func (h *CertificationHandler) GetCertification(c *gin.Context) {
	p, _ := middleware.Principal(c)

	cert, err := h.certService.GetCertification(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, cert))
}

// CreateCertification uploads a compliance document and registers the
// certification. Multipart form: file + vendor_id, cert_type, issue_date,
// expiry_date fields.
// @Summary      Upload certification
// @Tags         certifications
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        file         formData  file    true  "Compliance document"
// @Param        vendor_id    formData  string  true  "Owning vendor ID"
// @Param        cert_type    formData  string  true  "ISO, FDA or CE"
// @Param        issue_date   formData  string  true  "YYYY-MM-DD"
// @Param        expiry_date  formData  string  true  "YYYY-MM-DD"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/certifications [post]
func (h *CertificationHandler) CreateCertification(c *gin.Context) {
	p, _ := middleware.Principal(c)

	req := service.CreateCertificationRequest{
		VendorID:   c.PostForm("vendor_id"),
		CertType:   c.PostForm("cert_type"),
		IssueDate:  c.PostForm("issue_date"),
		ExpiryDate: c.PostForm("expiry_date"),
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "file is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "failed to read uploaded file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "failed to read uploaded file"))
		return
	}

	ref, err := h.documents.Put(data, filepath.Ext(fileHeader.Filename))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "failed to store document"))
		return
	}
	req.FileRef = ref

	cert, err := h.certService.CreateCertification(c.Request.Context(), p, req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, cert))
}

// UpdateCertification updates certification metadata
// @Summary      Update certification
// @Tags         certifications
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                              true  "Certification ID"
// @Param        payload  body  service.UpdateCertificationRequest  true  "Update payload"
// @Success      200  {object}  response.Response
// @Router       /api/certifications/{id} [put]
func (h *CertificationHandler) UpdateCertification(c *gin.Context) {
	p, _ := middleware.Principal(c)

	var req service.UpdateCertificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	cert, err := h.certService.UpdateCertification(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, cert))
}

// DeleteCertification removes a certification; the owning vendor's status
// is re-derived in the same transaction
// @Summary      Delete certification
// @Tags         certifications
// @Security     BearerAuth
// @Param        id  path  string  true  "Certification ID"
// @Success      200  {object}  response.Response
// @Router       /api/certifications/{id} [delete]
func (h *CertificationHandler) DeleteCertification(c *gin.Context) {
	p, _ := middleware.Principal(c)

	if err := h.certService.DeleteCertification(c.Request.Context(), p, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}

// ApproveCertification marks the certification approved on behalf of the
// reviewing staff member
// @Summary      Approve certification
// @Tags         certifications
// @Security     BearerAuth
// @Param        id  path  string  true  "Certification ID"
// @Success      200  {object}  response.Response
// @Router       /api/certifications/{id}/approve [post]
func (h *CertificationHandler) ApproveCertification(c *gin.Context) {
	p, _ := middleware.Principal(c)

	cert, err := h.certService.ApproveCertification(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, cert))
}

// RejectCertification marks the certification rejected
// @Summary      Reject certification
// @Tags         certifications
// @Security     BearerAuth
// @Param        id  path  string  true  "Certification ID"
// @Success      200  {object}  response.Response
// @Router       /api/certifications/{id}/reject [post]
func (h *CertificationHandler) RejectCertification(c *gin.Context) {
	p, _ := middleware.Principal(c)

	cert, err := h.certService.RejectCertification(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, cert))
}
