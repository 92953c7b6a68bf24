package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devravindu/upsupply-vms/internal/apperror"
	"github.com/devravindu/upsupply-vms/pkg/response"
)

// writeError maps service errors to HTTP statuses. Validation failures
// carry the violated rule so the UI can attribute them to a field.
func writeError(c *gin.Context, err error) {
	switch {
	case apperror.IsValidation(err):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	case apperror.IsNotFound(err):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
	}
}
