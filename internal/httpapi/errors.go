package httpapi

import (
	"errors"
	"net/http"

	"github.com/MarkoPoloResearchLab/innkeeper/pkg/hotel"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	errorCodeInvalidPayload    = "invalid_payload"
	errorCodeValidation        = "validation_failed"
	errorCodeNotFound          = "not_found"
	errorCodeConflict          = "room_unavailable"
	errorCodeOverpayment       = "overpayment"
	errorCodeIntegrity         = "integrity_violation"
	errorCodeInvalidTransition = "invalid_transition"
	errorCodeInternal          = "internal_error"
)

// classifyError maps a service error to an HTTP status and a stable code.
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, hotel.ErrConflict):
		return http.StatusConflict, errorCodeConflict
	case errors.Is(err, hotel.ErrOverpayment):
		return http.StatusUnprocessableEntity, errorCodeOverpayment
	case errors.Is(err, hotel.ErrNotFound):
		return http.StatusNotFound, errorCodeNotFound
	case errors.Is(err, hotel.ErrInvalidTransition):
		return http.StatusConflict, errorCodeInvalidTransition
	case errors.Is(err, hotel.ErrIntegrity):
		return http.StatusConflict, errorCodeIntegrity
	case errors.Is(err, hotel.ErrValidation):
		return http.StatusBadRequest, errorCodeValidation
	default:
		return http.StatusInternalServerError, errorCodeInternal
	}
}

func (handler *httpHandler) respondError(ctx *gin.Context, err error) {
	status, code := classifyError(err)
	if status == http.StatusInternalServerError {
		handler.logger.Error("request failed", zap.String("route", ctx.FullPath()), zap.Error(err))
		ctx.JSON(status, errorResponse(code, "internal error"))
		return
	}
	body := errorResponse(code, err.Error())
	var conflict hotel.ConflictError
	if errors.As(err, &conflict) {
		body["error"].(gin.H)["conflicting_booking_id"] = conflict.BookingID.Int64()
	}
	var overpayment hotel.OverpaymentError
	if errors.As(err, &overpayment) {
		body["error"].(gin.H)["outstanding_cents"] = overpayment.Outstanding.Int64()
	}
	ctx.JSON(status, body)
}

func respondInvalidPayload(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusBadRequest, errorResponse(errorCodeInvalidPayload, message))
}

func errorResponse(code string, message string) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
}
