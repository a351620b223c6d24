package gormstore

import (
	"github.com/MarkoPoloResearchLab/innkeeper/pkg/hotel"
)

func roomModel(room hotel.Room) Room {
	return Room{
		Number:               room.Number,
		Type:                 room.Type,
		Capacity:             room.Capacity,
		BasePriceCents:       room.BasePrice.Int64(),
		LowSeasonPriceCents:  optionalCents(room.LowSeasonPrice),
		HighSeasonPriceCents: optionalCents(room.HighSeasonPrice),
		ThreeHourPriceCents:  optionalCents(room.ThreeHourPrice),
		Status:               room.Status.String(),
	}
}

func bookingModel(booking hotel.Booking) Booking {
	return Booking{
		GuestID:              booking.GuestID.Int64(),
		RoomID:               booking.RoomID.Int64(),
		CheckInDate:          booking.Stay.CheckInDate.String(),
		CheckOutDate:         booking.Stay.CheckOutDate.String(),
		CheckInTime:          booking.Stay.CheckInTime.String(),
		CheckOutTime:         booking.Stay.CheckOutTime.String(),
		PriceType:            booking.PriceType.String(),
		CalculatedPriceCents: booking.CalculatedPrice.Int64(),
		PaymentStatus:        booking.PaymentStatus.String(),
		Status:               booking.Status.String(),
		CreatedAt:            unixToTime(booking.CreatedUnixUTC),
		UpdatedAt:            unixToTime(booking.UpdatedUnixUTC),
	}
}

func mapRoom(row Room) (hotel.Room, error) {
	roomID, err := hotel.NewRoomID(row.ID)
	if err != nil {
		return hotel.Room{}, err
	}
	basePrice, err := hotel.NewAmountCents(row.BasePriceCents)
	if err != nil {
		return hotel.Room{}, err
	}
	lowSeason, err := mapOptionalCents(row.LowSeasonPriceCents)
	if err != nil {
		return hotel.Room{}, err
	}
	highSeason, err := mapOptionalCents(row.HighSeasonPriceCents)
	if err != nil {
		return hotel.Room{}, err
	}
	threeHour, err := mapOptionalCents(row.ThreeHourPriceCents)
	if err != nil {
		return hotel.Room{}, err
	}
	status, err := hotel.ParseRoomStatus(row.Status)
	if err != nil {
		return hotel.Room{}, err
	}
	return hotel.Room{
		ID:              roomID,
		Number:          row.Number,
		Type:            row.Type,
		Capacity:        row.Capacity,
		BasePrice:       basePrice,
		LowSeasonPrice:  lowSeason,
		HighSeasonPrice: highSeason,
		ThreeHourPrice:  threeHour,
		Status:          status,
	}, nil
}

func mapGuest(row Guest) (hotel.Guest, error) {
	guestID, err := hotel.NewGuestID(row.ID)
	if err != nil {
		return hotel.Guest{}, err
	}
	return hotel.Guest{ID: guestID, Name: row.Name, Contact: row.Contact, Email: row.Email}, nil
}

func mapBooking(row Booking) (hotel.Booking, error) {
	bookingID, err := hotel.NewBookingID(row.ID)
	if err != nil {
		return hotel.Booking{}, err
	}
	guestID, err := hotel.NewGuestID(row.GuestID)
	if err != nil {
		return hotel.Booking{}, err
	}
	roomID, err := hotel.NewRoomID(row.RoomID)
	if err != nil {
		return hotel.Booking{}, err
	}
	stay, err := mapStay(row.CheckInDate, row.CheckOutDate, row.CheckInTime, row.CheckOutTime)
	if err != nil {
		return hotel.Booking{}, err
	}
	priceType, err := hotel.ParsePriceType(row.PriceType)
	if err != nil {
		return hotel.Booking{}, err
	}
	price, err := hotel.NewAmountCents(row.CalculatedPriceCents)
	if err != nil {
		return hotel.Booking{}, err
	}
	paymentStatus, err := hotel.ParsePaymentStatus(row.PaymentStatus)
	if err != nil {
		return hotel.Booking{}, err
	}
	status, err := hotel.ParseBookingStatus(row.Status)
	if err != nil {
		return hotel.Booking{}, err
	}
	return hotel.Booking{
		ID:              bookingID,
		GuestID:         guestID,
		RoomID:          roomID,
		Stay:            stay,
		PriceType:       priceType,
		CalculatedPrice: price,
		PaymentStatus:   paymentStatus,
		Status:          status,
		CreatedUnixUTC:  row.CreatedAt.Unix(),
		UpdatedUnixUTC:  row.UpdatedAt.Unix(),
	}, nil
}

func mapStay(checkInDate string, checkOutDate string, checkInTime string, checkOutTime string) (hotel.Stay, error) {
	inDate, err := hotel.ParseDate(checkInDate)
	if err != nil {
		return hotel.Stay{}, err
	}
	outDate, err := hotel.ParseDate(checkOutDate)
	if err != nil {
		return hotel.Stay{}, err
	}
	inTime, err := hotel.ParseClockTime(checkInTime)
	if err != nil {
		return hotel.Stay{}, err
	}
	outTime, err := hotel.ParseClockTime(checkOutTime)
	if err != nil {
		return hotel.Stay{}, err
	}
	return hotel.Stay{CheckInDate: inDate, CheckOutDate: outDate, CheckInTime: inTime, CheckOutTime: outTime}, nil
}

func mapPayment(row Payment) (hotel.Payment, error) {
	paymentID, err := hotel.NewPaymentID(row.ID)
	if err != nil {
		return hotel.Payment{}, err
	}
	bookingID, err := hotel.NewBookingID(row.BookingID)
	if err != nil {
		return hotel.Payment{}, err
	}
	amount, err := hotel.NewAmountCents(row.AmountCents)
	if err != nil {
		return hotel.Payment{}, err
	}
	method, err := hotel.ParsePaymentMethod(row.Method)
	if err != nil {
		return hotel.Payment{}, err
	}
	metadata, err := hotel.NewMetadataJSON(string(row.Metadata))
	if err != nil {
		return hotel.Payment{}, err
	}
	return hotel.Payment{
		ID:          paymentID,
		BookingID:   bookingID,
		Amount:      amount,
		Method:      method,
		Reference:   row.Reference,
		Metadata:    metadata,
		PaidUnixUTC: row.PaidAt.Unix(),
	}, nil
}

func mapGuestHistory(row GuestHistory) (hotel.GuestHistoryEntry, error) {
	guestID, err := hotel.NewGuestID(row.GuestID)
	if err != nil {
		return hotel.GuestHistoryEntry{}, err
	}
	roomID, err := hotel.NewRoomID(row.RoomID)
	if err != nil {
		return hotel.GuestHistoryEntry{}, err
	}
	bookingID, err := hotel.NewBookingID(row.BookingID)
	if err != nil {
		return hotel.GuestHistoryEntry{}, err
	}
	checkIn, err := hotel.ParseDate(row.CheckInDate)
	if err != nil {
		return hotel.GuestHistoryEntry{}, err
	}
	checkOut, err := hotel.ParseDate(row.CheckOutDate)
	if err != nil {
		return hotel.GuestHistoryEntry{}, err
	}
	metadata, err := hotel.NewMetadataJSON(string(row.Metadata))
	if err != nil {
		return hotel.GuestHistoryEntry{}, err
	}
	return hotel.GuestHistoryEntry{
		GuestID:         guestID,
		RoomID:          roomID,
		BookingID:       bookingID,
		CheckInDate:     checkIn,
		CheckOutDate:    checkOut,
		Metadata:        metadata,
		RecordedUnixUTC: row.RecordedAt.Unix(),
	}, nil
}

func mapOptionalCents(raw *int64) (*hotel.AmountCents, error) {
	if raw == nil {
		return nil, nil
	}
	amount, err := hotel.NewAmountCents(*raw)
	if err != nil {
		return nil, err
	}
	return &amount, nil
}
