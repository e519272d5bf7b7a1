package handler

import (
	"backend/pkg/apperror"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// writeError maps a service error to the right HTTP status and renders the
// standard envelope with the machine-readable code.
func writeError(c *gin.Context, err error) {
	appErr := apperror.From(err)
	status := apperror.HTTPStatus(err)
	c.JSON(status, response.Error(status, appErr.Code, appErr.Message))
}
