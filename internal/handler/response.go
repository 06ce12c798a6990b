package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/alshifa-clinic/booking-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Code    int         `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, httpStatus int, data interface{}) {
	c.JSON(httpStatus, Response{Status: "success", Data: data})
}

// RespondError maps the core error taxonomy to HTTP statuses. Every rejection
// carries the specific reason; callers never see a generic failure for a
// typed core error.
func RespondError(c *gin.Context, err error) {
	code := apperrors.CodeOf(err)

	var httpStatus int
	switch code {
	case apperrors.ErrNotFound:
		httpStatus = http.StatusNotFound
	case apperrors.ErrIncompleteRequest, apperrors.ErrInvalidSchedule:
		httpStatus = http.StatusBadRequest
	case apperrors.ErrDoctorSlotTaken, apperrors.ErrPatientSlotTaken, apperrors.ErrIllegalTransition:
		httpStatus = http.StatusConflict
	case apperrors.ErrUnauthorized:
		httpStatus = http.StatusUnauthorized
	case apperrors.ErrForbidden:
		httpStatus = http.StatusForbidden
	default:
		httpStatus = http.StatusInternalServerError
	}

	message := "internal server error"
	if httpStatus != http.StatusInternalServerError {
		message = err.Error()
	}

	c.JSON(httpStatus, Response{Status: "error", Message: message, Code: int(code)})
}
