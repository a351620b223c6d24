package httpapi

import (
	"encoding/json"
	"strings"

	"github.com/MarkoPoloResearchLab/innkeeper/pkg/hotel"
)

type stayPayload struct {
	CheckInDate  string `json:"check_in_date"`
	CheckOutDate string `json:"check_out_date"`
	CheckInTime  string `json:"check_in_time"`
	CheckOutTime string `json:"check_out_time"`
}

func (payload stayPayload) toStay() (hotel.Stay, error) {
	checkInDate, err := hotel.ParseDate(payload.CheckInDate)
	if err != nil {
		return hotel.Stay{}, err
	}
	checkOutDate, err := hotel.ParseDate(payload.CheckOutDate)
	if err != nil {
		return hotel.Stay{}, err
	}
	checkInTime, err := hotel.ParseClockTimeOrDefault(payload.CheckInTime, hotel.DefaultCheckInTime())
	if err != nil {
		return hotel.Stay{}, err
	}
	checkOutTime, err := hotel.ParseClockTimeOrDefault(payload.CheckOutTime, hotel.DefaultCheckOutTime())
	if err != nil {
		return hotel.Stay{}, err
	}
	return hotel.Stay{
		CheckInDate:  checkInDate,
		CheckOutDate: checkOutDate,
		CheckInTime:  checkInTime,
		CheckOutTime: checkOutTime,
	}, nil
}

type roomRequest struct {
	Number          string   `json:"number"`
	Type            string   `json:"type"`
	Capacity        int      `json:"capacity"`
	BasePrice       float64  `json:"base_price"`
	LowSeasonPrice  *float64 `json:"low_season_price"`
	HighSeasonPrice *float64 `json:"high_season_price"`
	ThreeHourPrice  *float64 `json:"three_hour_price"`
	Status          string   `json:"status"`
}

func (request roomRequest) toRoom() (hotel.Room, error) {
	basePrice, err := hotel.AmountFromFloat(request.BasePrice)
	if err != nil {
		return hotel.Room{}, err
	}
	room := hotel.Room{
		Number:    request.Number,
		Type:      request.Type,
		Capacity:  request.Capacity,
		BasePrice: basePrice,
	}
	overrides := []struct {
		raw    *float64
		target **hotel.AmountCents
	}{
		{request.LowSeasonPrice, &room.LowSeasonPrice},
		{request.HighSeasonPrice, &room.HighSeasonPrice},
		{request.ThreeHourPrice, &room.ThreeHourPrice},
	}
	for _, override := range overrides {
		if override.raw == nil {
			continue
		}
		amount, err := hotel.AmountFromFloat(*override.raw)
		if err != nil {
			return hotel.Room{}, err
		}
		*override.target = &amount
	}
	if request.Status != "" {
		if room.Status, err = hotel.ParseRoomStatus(request.Status); err != nil {
			return hotel.Room{}, err
		}
	}
	return room, nil
}

type roomResponse struct {
	ID                   int64  `json:"id"`
	Number               string `json:"number"`
	Type                 string `json:"type"`
	Capacity             int    `json:"capacity"`
	BasePriceCents       int64  `json:"base_price_cents"`
	LowSeasonPriceCents  *int64 `json:"low_season_price_cents,omitempty"`
	HighSeasonPriceCents *int64 `json:"high_season_price_cents,omitempty"`
	ThreeHourPriceCents  *int64 `json:"three_hour_price_cents,omitempty"`
	Status               string `json:"status"`
}

func newRoomResponse(room hotel.Room) roomResponse {
	return roomResponse{
		ID:                   room.ID.Int64(),
		Number:               room.Number,
		Type:                 room.Type,
		Capacity:             room.Capacity,
		BasePriceCents:       room.BasePrice.Int64(),
		LowSeasonPriceCents:  centsPointer(room.LowSeasonPrice),
		HighSeasonPriceCents: centsPointer(room.HighSeasonPrice),
		ThreeHourPriceCents:  centsPointer(room.ThreeHourPrice),
		Status:               room.Status.String(),
	}
}

type guestRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Email   string `json:"email"`
}

type guestResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Email   string `json:"email"`
}

func newGuestResponse(guest hotel.Guest) guestResponse {
	return guestResponse{ID: guest.ID.Int64(), Name: guest.Name, Contact: guest.Contact, Email: guest.Email}
}

type historyResponse struct {
	GuestID         int64           `json:"guest_id"`
	RoomID          int64           `json:"room_id"`
	BookingID       int64           `json:"booking_id"`
	CheckInDate     string          `json:"check_in_date"`
	CheckOutDate    string          `json:"check_out_date"`
	Metadata        json.RawMessage `json:"metadata"`
	RecordedUnixUTC int64           `json:"recorded_unix_utc"`
}

func newHistoryResponse(entry hotel.GuestHistoryEntry) historyResponse {
	return historyResponse{
		GuestID:         entry.GuestID.Int64(),
		RoomID:          entry.RoomID.Int64(),
		BookingID:       entry.BookingID.Int64(),
		CheckInDate:     entry.CheckInDate.String(),
		CheckOutDate:    entry.CheckOutDate.String(),
		Metadata:        json.RawMessage(entry.Metadata.String()),
		RecordedUnixUTC: entry.RecordedUnixUTC,
	}
}

type bookingRequest struct {
	stayPayload
	GuestID     int64           `json:"guest_id"`
	RoomID      int64           `json:"room_id"`
	PriceType   string          `json:"price_type"`
	ManualPrice json.RawMessage `json:"manual_price"`
}

func (request bookingRequest) toBookingRequest() (hotel.BookingRequest, error) {
	guestID, err := hotel.NewGuestID(request.GuestID)
	if err != nil {
		return hotel.BookingRequest{}, err
	}
	roomID, err := hotel.NewRoomID(request.RoomID)
	if err != nil {
		return hotel.BookingRequest{}, err
	}
	priceType, err := hotel.ParsePriceType(request.PriceType)
	if err != nil {
		return hotel.BookingRequest{}, err
	}
	stay, err := request.toStay()
	if err != nil {
		return hotel.BookingRequest{}, err
	}
	return hotel.BookingRequest{
		GuestID:     guestID,
		RoomID:      roomID,
		Stay:        stay,
		PriceType:   priceType,
		ManualPrice: manualPriceText(request.ManualPrice),
	}, nil
}

type bookingResponse struct {
	ID                   int64   `json:"id"`
	GuestID              int64   `json:"guest_id"`
	RoomID               int64   `json:"room_id"`
	CheckInDate          string  `json:"check_in_date"`
	CheckOutDate         string  `json:"check_out_date"`
	CheckInTime          string  `json:"check_in_time"`
	CheckOutTime         string  `json:"check_out_time"`
	PriceType            string  `json:"price_type"`
	CalculatedPrice      float64 `json:"calculated_price"`
	CalculatedPriceCents int64   `json:"calculated_price_cents"`
	PaymentStatus        string  `json:"payment_status"`
	Status               string  `json:"status"`
	CreatedUnixUTC       int64   `json:"created_unix_utc"`
	UpdatedUnixUTC       int64   `json:"updated_unix_utc"`
}

func newBookingResponse(booking hotel.Booking) bookingResponse {
	return bookingResponse{
		ID:                   booking.ID.Int64(),
		GuestID:              booking.GuestID.Int64(),
		RoomID:               booking.RoomID.Int64(),
		CheckInDate:          booking.Stay.CheckInDate.String(),
		CheckOutDate:         booking.Stay.CheckOutDate.String(),
		CheckInTime:          booking.Stay.CheckInTime.String(),
		CheckOutTime:         booking.Stay.CheckOutTime.String(),
		PriceType:            booking.PriceType.String(),
		CalculatedPrice:      booking.CalculatedPrice.Float64(),
		CalculatedPriceCents: booking.CalculatedPrice.Int64(),
		PaymentStatus:        booking.PaymentStatus.String(),
		Status:               booking.Status.String(),
		CreatedUnixUTC:       booking.CreatedUnixUTC,
		UpdatedUnixUTC:       booking.UpdatedUnixUTC,
	}
}

type bookingDetailResponse struct {
	bookingResponse
	GuestName        string `json:"guest_name"`
	RoomNumber       string `json:"room_number"`
	PaidCents        int64  `json:"paid_cents"`
	OutstandingCents int64  `json:"outstanding_cents"`
}

func newBookingDetailResponse(detail hotel.BookingDetail) bookingDetailResponse {
	return bookingDetailResponse{
		bookingResponse:  newBookingResponse(detail.Booking),
		GuestName:        detail.GuestName,
		RoomNumber:       detail.RoomNumber,
		PaidCents:        detail.Paid.Int64(),
		OutstandingCents: detail.Outstanding.Int64(),
	}
}

type availabilityRequest struct {
	stayPayload
	RoomID           int64  `json:"room_id"`
	PriceType        string `json:"price_type"`
	ExcludeBookingID *int64 `json:"exclude_booking_id"`
}

type availabilityResponse struct {
	Available            bool   `json:"available"`
	ConflictingBookingID *int64 `json:"conflicting_booking_id,omitempty"`
}

type quoteRequest struct {
	RoomID      int64           `json:"room_id"`
	PriceType   string          `json:"price_type"`
	ManualPrice json.RawMessage `json:"manual_price"`
}

// manualPriceText accepts the manual price as a JSON number or string and leaves validation to pricing.
func manualPriceText(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ""
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	return trimmed
}

type quoteResponse struct {
	Price      float64 `json:"price"`
	PriceCents int64   `json:"price_cents"`
}

type paymentRequest struct {
	BookingIDs []int64         `json:"booking_ids"`
	Amount     float64         `json:"amount"`
	Method     string          `json:"method"`
	Metadata   json.RawMessage `json:"metadata"`
}

func (request paymentRequest) toPaymentRequest() (hotel.PaymentRequest, error) {
	bookingIDs := make([]hotel.BookingID, 0, len(request.BookingIDs))
	for _, raw := range request.BookingIDs {
		bookingID, err := hotel.NewBookingID(raw)
		if err != nil {
			return hotel.PaymentRequest{}, err
		}
		bookingIDs = append(bookingIDs, bookingID)
	}
	cents, err := hotel.AmountFromFloat(request.Amount)
	if err != nil {
		return hotel.PaymentRequest{}, err
	}
	method, err := hotel.ParsePaymentMethod(request.Method)
	if err != nil {
		return hotel.PaymentRequest{}, err
	}
	metadata, err := hotel.NewMetadataJSON(string(request.Metadata))
	if err != nil {
		return hotel.PaymentRequest{}, err
	}
	return hotel.PaymentRequest{
		BookingIDs: bookingIDs,
		Amount:     hotel.PositiveAmountCents(cents.Int64()),
		Method:     method,
		Metadata:   metadata,
	}, nil
}

type paymentResultResponse struct {
	BookingID          int64  `json:"booking_id"`
	AmountAppliedCents int64  `json:"amount_applied_cents"`
	OutstandingCents   int64  `json:"outstanding_cents"`
	PaymentStatus      string `json:"payment_status"`
	Reference          string `json:"reference"`
}

type paymentResponse struct {
	ID          int64           `json:"id"`
	BookingID   int64           `json:"booking_id"`
	AmountCents int64           `json:"amount_cents"`
	Method      string          `json:"method"`
	Reference   string          `json:"reference"`
	Metadata    json.RawMessage `json:"metadata"`
	PaidUnixUTC int64           `json:"paid_unix_utc"`
}

func newPaymentResponse(payment hotel.Payment) paymentResponse {
	return paymentResponse{
		ID:          payment.ID.Int64(),
		BookingID:   payment.BookingID.Int64(),
		AmountCents: payment.Amount.Int64(),
		Method:      payment.Method.String(),
		Reference:   payment.Reference,
		Metadata:    json.RawMessage(payment.Metadata.String()),
		PaidUnixUTC: payment.PaidUnixUTC,
	}
}

func centsPointer(amount *hotel.AmountCents) *int64 {
	if amount == nil {
		return nil
	}
	value := amount.Int64()
	return &value
}
