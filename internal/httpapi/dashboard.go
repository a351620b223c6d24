package httpapi

import (
	"net/http"

	"github.com/MarkoPoloResearchLab/innkeeper/pkg/hotel"
	"github.com/gin-gonic/gin"
)

type dashboardResponse struct {
	Date              string                  `json:"date"`
	TotalBookings     int64                   `json:"total_bookings"`
	TotalGuests       int64                   `json:"total_guests"`
	TotalRevenue      float64                 `json:"total_revenue"`
	TotalRevenueCents int64                   `json:"total_revenue_cents"`
	AvailableRooms    int64                   `json:"available_rooms"`
	CheckingIn        []bookingDetailResponse `json:"checking_in"`
	CheckingOut       []bookingDetailResponse `json:"checking_out"`
}

func newDashboardResponse(dashboard hotel.Dashboard) dashboardResponse {
	response := dashboardResponse{
		Date:              dashboard.Date.String(),
		TotalBookings:     dashboard.Bookings,
		TotalGuests:       dashboard.Guests,
		TotalRevenue:      dashboard.Revenue.Float64(),
		TotalRevenueCents: dashboard.Revenue.Int64(),
		AvailableRooms:    dashboard.AvailableRooms,
		CheckingIn:        make([]bookingDetailResponse, 0, len(dashboard.CheckingIn)),
		CheckingOut:       make([]bookingDetailResponse, 0, len(dashboard.CheckingOut)),
	}
	for _, detail := range dashboard.CheckingIn {
		response.CheckingIn = append(response.CheckingIn, newBookingDetailResponse(detail))
	}
	for _, detail := range dashboard.CheckingOut {
		response.CheckingOut = append(response.CheckingOut, newBookingDetailResponse(detail))
	}
	return response
}

func (handler *httpHandler) handleDashboard(ctx *gin.Context) {
	dashboard, err := handler.service.DashboardSummary(ctx.Request.Context())
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newDashboardResponse(dashboard))
}
