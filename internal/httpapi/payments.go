package httpapi

import (
	"net/http"

	"github.com/MarkoPoloResearchLab/innkeeper/pkg/hotel"
	"github.com/gin-gonic/gin"
)

func (handler *httpHandler) handleApplyPayment(ctx *gin.Context) {
	var request paymentRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		respondInvalidPayload(ctx, "expected payment JSON body")
		return
	}
	paymentRequest, err := request.toPaymentRequest()
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	results, err := handler.service.ApplyPayment(ctx.Request.Context(), paymentRequest)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	payload := make([]paymentResultResponse, 0, len(results))
	for _, result := range results {
		payload = append(payload, paymentResultResponse{
			BookingID:          result.BookingID.Int64(),
			AmountAppliedCents: result.AmountApplied.Int64(),
			OutstandingCents:   result.Outstanding.Int64(),
			PaymentStatus:      result.PaymentStatus.String(),
			Reference:          result.Reference,
		})
	}
	ctx.JSON(http.StatusCreated, gin.H{"payments": payload})
}

func (handler *httpHandler) handleListPayments(ctx *gin.Context) {
	bookingID, err := hotel.ParseBookingID(ctx.Param("id"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	payments, err := handler.service.ListPayments(ctx.Request.Context(), bookingID)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	outstanding, err := handler.service.OutstandingBalance(ctx.Request.Context(), bookingID)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	payload := make([]paymentResponse, 0, len(payments))
	for _, payment := range payments {
		payload = append(payload, newPaymentResponse(payment))
	}
	ctx.JSON(http.StatusOK, gin.H{"payments": payload, "outstanding_cents": outstanding.Int64()})
}
