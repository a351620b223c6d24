package pgstore

import (
	"github.com/MarkoPoloResearchLab/innkeeper/pkg/hotel"
)

type rowScanner interface {
	Scan(dest ...any) error
}

type bookingRow struct {
	id            int64
	guestID       int64
	roomID        int64
	checkInDate   string
	checkOutDate  string
	checkInTime   string
	checkOutTime  string
	priceType     string
	priceCents    int64
	paymentStatus string
	status        string
	createdUnix   int64
	updatedUnix   int64
}

func (row *bookingRow) targets() []any {
	return []any{
		&row.id, &row.guestID, &row.roomID,
		&row.checkInDate, &row.checkOutDate, &row.checkInTime, &row.checkOutTime,
		&row.priceType, &row.priceCents, &row.paymentStatus, &row.status,
		&row.createdUnix, &row.updatedUnix,
	}
}

func scanRoom(scanner rowScanner) (hotel.Room, error) {
	var (
		id, baseCents                   int64
		number, roomType, status        string
		capacity                        int
		lowCents, highCents, threeCents *int64
	)
	if err := scanner.Scan(&id, &number, &roomType, &capacity, &baseCents, &lowCents, &highCents, &threeCents, &status); err != nil {
		return hotel.Room{}, err
	}
	roomID, err := hotel.NewRoomID(id)
	if err != nil {
		return hotel.Room{}, err
	}
	basePrice, err := hotel.NewAmountCents(baseCents)
	if err != nil {
		return hotel.Room{}, err
	}
	room := hotel.Room{ID: roomID, Number: number, Type: roomType, Capacity: capacity, BasePrice: basePrice}
	overrides := []struct {
		raw    *int64
		target **hotel.AmountCents
	}{
		{lowCents, &room.LowSeasonPrice},
		{highCents, &room.HighSeasonPrice},
		{threeCents, &room.ThreeHourPrice},
	}
	for _, override := range overrides {
		if override.raw == nil {
			continue
		}
		amount, err := hotel.NewAmountCents(*override.raw)
		if err != nil {
			return hotel.Room{}, err
		}
		*override.target = &amount
	}
	if room.Status, err = hotel.ParseRoomStatus(status); err != nil {
		return hotel.Room{}, err
	}
	return room, nil
}

func scanGuest(scanner rowScanner) (hotel.Guest, error) {
	var (
		id                   int64
		name, contact, email string
	)
	if err := scanner.Scan(&id, &name, &contact, &email); err != nil {
		return hotel.Guest{}, err
	}
	guestID, err := hotel.NewGuestID(id)
	if err != nil {
		return hotel.Guest{}, err
	}
	return hotel.Guest{ID: guestID, Name: name, Contact: contact, Email: email}, nil
}

func scanBooking(scanner rowScanner) (hotel.Booking, error) {
	var row bookingRow
	if err := scanner.Scan(row.targets()...); err != nil {
		return hotel.Booking{}, err
	}
	return row.toBooking()
}

func scanBookingDetail(scanner rowScanner) (hotel.BookingDetail, error) {
	var (
		row        bookingRow
		guestName  string
		roomNumber string
		paidCents  int64
	)
	if err := scanner.Scan(append(row.targets(), &guestName, &roomNumber, &paidCents)...); err != nil {
		return hotel.BookingDetail{}, err
	}
	booking, err := row.toBooking()
	if err != nil {
		return hotel.BookingDetail{}, err
	}
	paid, err := hotel.NewAmountCents(paidCents)
	if err != nil {
		return hotel.BookingDetail{}, err
	}
	return hotel.BookingDetail{
		Booking:     booking,
		GuestName:   guestName,
		RoomNumber:  roomNumber,
		Paid:        paid,
		Outstanding: hotel.Outstanding(booking.CalculatedPrice, paid),
	}, nil
}

func (row bookingRow) toBooking() (hotel.Booking, error) {
	bookingID, err := hotel.NewBookingID(row.id)
	if err != nil {
		return hotel.Booking{}, err
	}
	guestID, err := hotel.NewGuestID(row.guestID)
	if err != nil {
		return hotel.Booking{}, err
	}
	roomID, err := hotel.NewRoomID(row.roomID)
	if err != nil {
		return hotel.Booking{}, err
	}
	stay := hotel.Stay{}
	if stay.CheckInDate, err = hotel.ParseDate(row.checkInDate); err != nil {
		return hotel.Booking{}, err
	}
	if stay.CheckOutDate, err = hotel.ParseDate(row.checkOutDate); err != nil {
		return hotel.Booking{}, err
	}
	if stay.CheckInTime, err = hotel.ParseClockTime(row.checkInTime); err != nil {
		return hotel.Booking{}, err
	}
	if stay.CheckOutTime, err = hotel.ParseClockTime(row.checkOutTime); err != nil {
		return hotel.Booking{}, err
	}
	priceType, err := hotel.ParsePriceType(row.priceType)
	if err != nil {
		return hotel.Booking{}, err
	}
	price, err := hotel.NewAmountCents(row.priceCents)
	if err != nil {
		return hotel.Booking{}, err
	}
	paymentStatus, err := hotel.ParsePaymentStatus(row.paymentStatus)
	if err != nil {
		return hotel.Booking{}, err
	}
	status, err := hotel.ParseBookingStatus(row.status)
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
		CreatedUnixUTC:  row.createdUnix,
		UpdatedUnixUTC:  row.updatedUnix,
	}, nil
}

func scanPayment(scanner rowScanner) (hotel.Payment, error) {
	var (
		id, bookingRaw, amountCents, paidUnix int64
		method, reference, metadataRaw        string
	)
	if err := scanner.Scan(&id, &bookingRaw, &amountCents, &method, &reference, &metadataRaw, &paidUnix); err != nil {
		return hotel.Payment{}, err
	}
	paymentID, err := hotel.NewPaymentID(id)
	if err != nil {
		return hotel.Payment{}, err
	}
	bookingID, err := hotel.NewBookingID(bookingRaw)
	if err != nil {
		return hotel.Payment{}, err
	}
	amount, err := hotel.NewAmountCents(amountCents)
	if err != nil {
		return hotel.Payment{}, err
	}
	paymentMethod, err := hotel.ParsePaymentMethod(method)
	if err != nil {
		return hotel.Payment{}, err
	}
	metadata, err := hotel.NewMetadataJSON(metadataRaw)
	if err != nil {
		return hotel.Payment{}, err
	}
	return hotel.Payment{
		ID:          paymentID,
		BookingID:   bookingID,
		Amount:      amount,
		Method:      paymentMethod,
		Reference:   reference,
		Metadata:    metadata,
		PaidUnixUTC: paidUnix,
	}, nil
}

func scanGuestHistory(scanner rowScanner) (hotel.GuestHistoryEntry, error) {
	var (
		guestRaw, roomRaw, bookingRaw, recordedUnix int64
		checkIn, checkOut, metadataRaw              string
	)
	if err := scanner.Scan(&guestRaw, &roomRaw, &bookingRaw, &checkIn, &checkOut, &metadataRaw, &recordedUnix); err != nil {
		return hotel.GuestHistoryEntry{}, err
	}
	entry := hotel.GuestHistoryEntry{RecordedUnixUTC: recordedUnix}
	var err error
	if entry.GuestID, err = hotel.NewGuestID(guestRaw); err != nil {
		return hotel.GuestHistoryEntry{}, err
	}
	if entry.RoomID, err = hotel.NewRoomID(roomRaw); err != nil {
		return hotel.GuestHistoryEntry{}, err
	}
	if entry.BookingID, err = hotel.NewBookingID(bookingRaw); err != nil {
		return hotel.GuestHistoryEntry{}, err
	}
	if entry.CheckInDate, err = hotel.ParseDate(checkIn); err != nil {
		return hotel.GuestHistoryEntry{}, err
	}
	if entry.CheckOutDate, err = hotel.ParseDate(checkOut); err != nil {
		return hotel.GuestHistoryEntry{}, err
	}
	if entry.Metadata, err = hotel.NewMetadataJSON(metadataRaw); err != nil {
		return hotel.GuestHistoryEntry{}, err
	}
	return entry, nil
}
