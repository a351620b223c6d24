package hotel

import "context"

// AvailabilityQuery is a candidate slot to test against the booking set of one room.
type AvailabilityQuery struct {
	RoomID           RoomID
	Stay             Stay
	PriceType        PriceType
	ExcludeBookingID *BookingID
}

// AvailabilityResult reports whether the candidate slot is free.
type AvailabilityResult struct {
	Available            bool
	ConflictingBookingID *BookingID
}

// ValidateStay applies the date and time ordering rules in a fixed order.
func ValidateStay(stay Stay, priceType PriceType, today CalendarDate) error {
	if stay.CheckInDate.IsZero() || stay.CheckOutDate.IsZero() {
		return ErrInvalidDate
	}
	if stay.CheckInDate.Before(today) {
		return ErrPastCheckIn
	}
	if stay.CheckOutDate.Before(stay.CheckInDate) {
		return ErrCheckOutBeforeCheckIn
	}
	sameDay := stay.CheckInDate.Equal(stay.CheckOutDate)
	if sameDay && !stay.CheckInTime.Before(stay.CheckOutTime) {
		return ErrSameDayOrdering
	}
	if priceType == PriceTypeThreeHour && !sameDay {
		return ErrThreeHourSameDay
	}
	return nil
}

// FindConflict returns the first booking in existing that blocks the candidate slot.
// Cancelled bookings and the excluded booking never block.
func FindConflict(candidate Stay, priceType PriceType, existing []Booking, exclude *BookingID) (Booking, bool) {
	for _, booking := range existing {
		if !booking.IsActive() {
			continue
		}
		if exclude != nil && booking.ID == *exclude {
			continue
		}
		if stayConflicts(candidate, priceType, booking) {
			return booking, true
		}
	}
	return Booking{}, false
}

func stayConflicts(candidate Stay, priceType PriceType, existing Booking) bool {
	if priceType == PriceTypeThreeHour && existing.PriceType == PriceTypeThreeHour {
		if !existing.Stay.CheckInDate.Equal(candidate.CheckInDate) {
			return false
		}
		return candidate.CheckInTime.Before(existing.Stay.CheckOutTime) &&
			existing.Stay.CheckInTime.Before(candidate.CheckOutTime)
	}
	datesTouch := !existing.Stay.CheckInDate.After(candidate.CheckOutDate) &&
		!existing.Stay.CheckOutDate.Before(candidate.CheckInDate)
	if !datesTouch {
		return false
	}
	turnover := existing.Stay.CheckOutDate.Equal(candidate.CheckInDate) &&
		!candidate.CheckInTime.Before(existing.Stay.CheckOutTime)
	return !turnover
}

// CheckAvailability gates a candidate slot for one room.
func (service *Service) CheckAvailability(ctx context.Context, query AvailabilityQuery) (AvailabilityResult, error) {
	if query.RoomID.IsZero() {
		return AvailabilityResult{}, ErrInvalidRoomID
	}
	if _, err := ParsePriceType(query.PriceType.String()); err != nil {
		return AvailabilityResult{}, err
	}
	if err := ValidateStay(query.Stay, query.PriceType, service.today()); err != nil {
		return AvailabilityResult{}, err
	}
	if _, err := service.store.GetRoom(ctx, query.RoomID); err != nil {
		return AvailabilityResult{}, err
	}
	conflict, found, err := service.findRoomConflict(ctx, service.store, query)
	if err != nil {
		return AvailabilityResult{}, err
	}
	if found {
		conflictID := conflict.ID
		return AvailabilityResult{Available: false, ConflictingBookingID: &conflictID}, nil
	}
	return AvailabilityResult{Available: true}, nil
}

// ListAvailableRooms filters the catalog down to rooms the gate would accept for the slot.
func (service *Service) ListAvailableRooms(ctx context.Context, stay Stay, priceType PriceType) ([]Room, error) {
	if _, err := ParsePriceType(priceType.String()); err != nil {
		return nil, err
	}
	if err := ValidateStay(stay, priceType, service.today()); err != nil {
		return nil, err
	}
	rooms, err := service.store.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	bookings, err := service.store.ListActiveBookings(ctx, BookingWindow{FromDate: stay.CheckInDate, ToDate: stay.CheckOutDate})
	if err != nil {
		return nil, err
	}
	bookingsByRoom := make(map[RoomID][]Booking, len(rooms))
	for _, booking := range bookings {
		bookingsByRoom[booking.RoomID] = append(bookingsByRoom[booking.RoomID], booking)
	}
	available := make([]Room, 0, len(rooms))
	for _, room := range rooms {
		if _, blocked := FindConflict(stay, priceType, bookingsByRoom[room.ID], nil); blocked {
			continue
		}
		available = append(available, room)
	}
	return available, nil
}

func (service *Service) findRoomConflict(ctx context.Context, store Store, query AvailabilityQuery) (Booking, bool, error) {
	roomID := query.RoomID
	bookings, err := store.ListActiveBookings(ctx, BookingWindow{
		RoomID:   &roomID,
		FromDate: query.Stay.CheckInDate,
		ToDate:   query.Stay.CheckOutDate,
	})
	if err != nil {
		return Booking{}, false, err
	}
	conflict, found := FindConflict(query.Stay, query.PriceType, bookings, query.ExcludeBookingID)
	return conflict, found, nil
}
