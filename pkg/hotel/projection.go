package hotel

import (
	"context"
	"fmt"
	"strings"
)

// PaymentState filters booking details by settlement.
type PaymentState string

const (
	PaymentStateAny    PaymentState = ""
	PaymentStatePaid   PaymentState = "paid"
	PaymentStateUnpaid PaymentState = "unpaid"
)

// ParsePaymentState validates a payment-state filter; blank and "all" mean any.
func ParsePaymentState(raw string) (PaymentState, error) {
	switch normalizeLabel(raw) {
	case "", "all":
		return PaymentStateAny, nil
	case "paid":
		return PaymentStatePaid, nil
	case "unpaid":
		return PaymentStateUnpaid, nil
	}
	return "", fmt.Errorf("%w: payment state %q", ErrValidation, raw)
}

// DetailFilter narrows the booking detail projection.
type DetailFilter struct {
	BookingID    *BookingID
	PaymentState PaymentState
	Search       string
	CheckInFrom  *CalendarDate
	CheckInOn    *CalendarDate
	CheckOutOn   *CalendarDate
	Limit        int
}

// BookingDetail is a booking joined with its guest, its room, and its payment totals.
type BookingDetail struct {
	Booking
	GuestName   string
	RoomNumber  string
	Paid        AmountCents
	Outstanding AmountCents
}

// ListBookingDetails reads the booking projection, newest check-in first.
func (service *Service) ListBookingDetails(ctx context.Context, filter DetailFilter) ([]BookingDetail, error) {
	if _, err := ParsePaymentState(string(filter.PaymentState)); err != nil {
		return nil, err
	}
	if filter.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", ErrValidation)
	}
	filter.Search = strings.TrimSpace(filter.Search)
	return service.store.ListBookingDetails(ctx, filter)
}

// GetBookingDetail returns the projection row of one booking.
func (service *Service) GetBookingDetail(ctx context.Context, bookingID BookingID) (BookingDetail, error) {
	details, err := service.store.ListBookingDetails(ctx, DetailFilter{BookingID: &bookingID, Limit: 1})
	if err != nil {
		return BookingDetail{}, err
	}
	if len(details) == 0 {
		return BookingDetail{}, ErrBookingNotFound
	}
	return details[0], nil
}
