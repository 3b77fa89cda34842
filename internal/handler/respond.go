package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sociogram/backend/internal/apperr"
	"github.com/sociogram/backend/internal/dto"
)

// respond writes the standard envelope: {status, data, message}.
func respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, dto.Envelope{
		Status:  status,
		Data:    data,
		Message: message,
	})
}

// respondError maps an application error onto a status code and a
// client-safe envelope. Wrapped causes never reach the body.
func respondError(c *gin.Context, err error) {
	status := apperr.KindOf(err).HTTPStatus()
	envelope := dto.Envelope{
		Status:  status,
		Message: apperr.MessageOf(err),
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Details != nil {
		envelope.Data = appErr.Details
	}

	c.JSON(status, envelope)
}

// respondBindError reports a request-body binding failure as a 400 with
// the binding message as detail.
func respondBindError(c *gin.Context, err error) {
	respondError(c, apperr.New(apperr.InvalidArgument, "validation failed").WithDetails(err.Error()))
}
