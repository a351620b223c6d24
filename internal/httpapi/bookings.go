package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/MarkoPoloResearchLab/innkeeper/pkg/hotel"
	"github.com/gin-gonic/gin"
)

const defaultBookingListLimit = 200

func (handler *httpHandler) handleCheckAvailability(ctx *gin.Context) {
	var request availabilityRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		respondInvalidPayload(ctx, "expected availability JSON body")
		return
	}
	roomID, err := hotel.NewRoomID(request.RoomID)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	priceType, err := hotel.ParsePriceType(request.PriceType)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	stay, err := request.toStay()
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	query := hotel.AvailabilityQuery{RoomID: roomID, Stay: stay, PriceType: priceType}
	if request.ExcludeBookingID != nil {
		excluded, err := hotel.NewBookingID(*request.ExcludeBookingID)
		if err != nil {
			handler.respondError(ctx, err)
			return
		}
		query.ExcludeBookingID = &excluded
	}
	result, err := handler.service.CheckAvailability(ctx.Request.Context(), query)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	response := availabilityResponse{Available: result.Available}
	if result.ConflictingBookingID != nil {
		conflicting := result.ConflictingBookingID.Int64()
		response.ConflictingBookingID = &conflicting
	}
	ctx.JSON(http.StatusOK, response)
}

func (handler *httpHandler) handleQuote(ctx *gin.Context) {
	var request quoteRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		respondInvalidPayload(ctx, "expected quote JSON body")
		return
	}
	roomID, err := hotel.NewRoomID(request.RoomID)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	priceType, err := hotel.ParsePriceType(request.PriceType)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	price, err := handler.service.QuotePrice(ctx.Request.Context(), roomID, priceType, manualPriceText(request.ManualPrice))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, quoteResponse{Price: price.Float64(), PriceCents: price.Int64()})
}

func (handler *httpHandler) handleListBookings(ctx *gin.Context) {
	paymentState, err := hotel.ParsePaymentState(ctx.Query("payment_state"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	filter := hotel.DetailFilter{
		PaymentState: paymentState,
		Search:       ctx.Query("search"),
		Limit:        defaultBookingListLimit,
	}
	if raw := ctx.Query("check_in_from"); raw != "" {
		from, err := hotel.ParseDate(raw)
		if err != nil {
			handler.respondError(ctx, err)
			return
		}
		filter.CheckInFrom = &from
	}
	for _, day := range []struct {
		param  string
		target **hotel.CalendarDate
	}{
		{"check_in_on", &filter.CheckInOn},
		{"check_out_on", &filter.CheckOutOn},
	} {
		raw := ctx.Query(day.param)
		if raw == "" {
			continue
		}
		date, err := hotel.ParseDate(raw)
		if err != nil {
			handler.respondError(ctx, err)
			return
		}
		*day.target = &date
	}
	if raw := ctx.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			respondInvalidPayload(ctx, "limit must be an integer")
			return
		}
		filter.Limit = limit
	}
	details, err := handler.service.ListBookingDetails(ctx.Request.Context(), filter)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	payload := make([]bookingDetailResponse, 0, len(details))
	for _, detail := range details {
		payload = append(payload, newBookingDetailResponse(detail))
	}
	ctx.JSON(http.StatusOK, gin.H{"bookings": payload})
}

func (handler *httpHandler) handleCreateBooking(ctx *gin.Context) {
	var request bookingRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		respondInvalidPayload(ctx, "expected booking JSON body")
		return
	}
	bookingRequest, err := request.toBookingRequest()
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	created, err := handler.service.CreateBooking(ctx.Request.Context(), bookingRequest)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"booking": newBookingResponse(created)})
}

func (handler *httpHandler) handleGetBooking(ctx *gin.Context) {
	bookingID, err := hotel.ParseBookingID(ctx.Param("id"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	handler.respondBookingDetail(ctx, http.StatusOK, bookingID)
}

func (handler *httpHandler) handleUpdateBooking(ctx *gin.Context) {
	bookingID, err := hotel.ParseBookingID(ctx.Param("id"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	var request bookingRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		respondInvalidPayload(ctx, "expected booking JSON body")
		return
	}
	bookingRequest, err := request.toBookingRequest()
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	updated, err := handler.service.UpdateBooking(ctx.Request.Context(), bookingID, bookingRequest)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"booking": newBookingResponse(updated)})
}

func (handler *httpHandler) handleDeleteBooking(ctx *gin.Context) {
	bookingID, err := hotel.ParseBookingID(ctx.Param("id"))
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	if err := handler.service.DeleteBooking(ctx.Request.Context(), bookingID); err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (handler *httpHandler) handleTransition(transition func(ctx context.Context, bookingID hotel.BookingID) error) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		bookingID, err := hotel.ParseBookingID(ctx.Param("id"))
		if err != nil {
			handler.respondError(ctx, err)
			return
		}
		if err := transition(ctx.Request.Context(), bookingID); err != nil {
			handler.respondError(ctx, err)
			return
		}
		handler.respondBookingDetail(ctx, http.StatusOK, bookingID)
	}
}

func (handler *httpHandler) respondBookingDetail(ctx *gin.Context, status int, bookingID hotel.BookingID) {
	detail, err := handler.service.GetBookingDetail(ctx.Request.Context(), bookingID)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(status, gin.H{"booking": newBookingDetailResponse(detail)})
}
