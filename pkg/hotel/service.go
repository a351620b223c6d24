package hotel

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service contains the booking, pricing, and payment logic over a Store.
type Service struct {
	store        Store
	nowFn        func() int64
	logger       OperationLogger
	location     *time.Location
	newReference func() string
}

// NewService wires a Service.
func NewService(store Store, now func() int64, options ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store dependency is nil", ErrInvalidServiceConfig)
	}
	if now == nil {
		return nil, fmt.Errorf("%w: clock dependency is nil", ErrInvalidServiceConfig)
	}
	service := &Service{
		store:        store,
		nowFn:        now,
		location:     time.UTC,
		newReference: uuid.NewString,
	}
	for _, option := range options {
		if option != nil {
			option(service)
		}
	}
	return service, nil
}

// QuotePrice prices a booking of an existing room without writing anything.
func (service *Service) QuotePrice(ctx context.Context, roomID RoomID, priceType PriceType, manualPrice string) (AmountCents, error) {
	room, err := service.store.GetRoom(ctx, roomID)
	if err != nil {
		return 0, err
	}
	return ComputePrice(room, priceType, manualPrice)
}

// GetBooking returns a stored booking.
func (service *Service) GetBooking(ctx context.Context, bookingID BookingID) (Booking, error) {
	return service.store.GetBooking(ctx, bookingID)
}

// CreateBooking validates, gates, prices, and inserts a booking in one transaction.
func (service *Service) CreateBooking(ctx context.Context, request BookingRequest) (Booking, error) {
	var created Booking
	operationError := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		room, err := service.prepareBooking(ctx, transactionStore, request, nil)
		if err != nil {
			return err
		}
		price, err := ComputePrice(room, request.PriceType, request.ManualPrice)
		if err != nil {
			return err
		}
		nowUnixUTC := service.nowFn()
		booking := Booking{
			GuestID:         request.GuestID,
			RoomID:          request.RoomID,
			Stay:            request.Stay,
			PriceType:       request.PriceType,
			CalculatedPrice: price,
			PaymentStatus:   PaymentStatusPending,
			Status:          BookingStatusBooking,
			CreatedUnixUTC:  nowUnixUTC,
			UpdatedUnixUTC:  nowUnixUTC,
		}
		bookingID, err := transactionStore.CreateBooking(ctx, booking)
		if err != nil {
			return err
		}
		booking.ID = bookingID
		if err := transactionStore.UpdateRoomStatus(ctx, room.ID, RoomStatusBooked); err != nil {
			return err
		}
		created = booking
		return nil
	})
	logEntry := OperationLog{
		Operation: operationCreateBooking,
		GuestID:   &request.GuestID,
		RoomID:    &request.RoomID,
		Amount:    created.CalculatedPrice,
		PriceType: request.PriceType,
		Error:     operationError,
	}
	if operationError == nil {
		logEntry.BookingID = &created.ID
	}
	service.logOperation(ctx, logEntry)
	if operationError != nil {
		return Booking{}, operationError
	}
	return created, nil
}

// UpdateBooking re-gates and re-prices a booking, then recomputes its payment status.
func (service *Service) UpdateBooking(ctx context.Context, bookingID BookingID, request BookingRequest) (Booking, error) {
	var updated Booking
	operationError := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		current, err := transactionStore.GetBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if current.Status == BookingStatusCancelled {
			return ErrBookingCancelled
		}
		room, err := service.prepareBooking(ctx, transactionStore, request, &bookingID)
		if err != nil {
			return err
		}
		price, err := ComputePrice(room, request.PriceType, request.ManualPrice)
		if err != nil {
			return err
		}
		paid, err := transactionStore.SumPayments(ctx, bookingID)
		if err != nil {
			return err
		}
		if price < paid {
			return fmt.Errorf("%w: paid %s, new price %s", ErrPriceBelowPaid, paid, price)
		}
		previousRoomID := current.RoomID
		current.GuestID = request.GuestID
		current.RoomID = request.RoomID
		current.Stay = request.Stay
		current.PriceType = request.PriceType
		current.CalculatedPrice = price
		current.PaymentStatus = DerivePaymentStatus(price, paid)
		current.UpdatedUnixUTC = service.nowFn()
		if err := transactionStore.UpdateBooking(ctx, current); err != nil {
			return err
		}
		if previousRoomID != room.ID {
			if err := transactionStore.UpdateRoomStatus(ctx, previousRoomID, RoomStatusAvailable); err != nil {
				return err
			}
		}
		if err := transactionStore.UpdateRoomStatus(ctx, room.ID, roomStatusFor(current.Status)); err != nil {
			return err
		}
		updated = current
		return nil
	})
	service.logOperation(ctx, OperationLog{
		Operation: operationUpdateBooking,
		BookingID: &bookingID,
		GuestID:   &request.GuestID,
		RoomID:    &request.RoomID,
		Amount:    updated.CalculatedPrice,
		PriceType: request.PriceType,
		Error:     operationError,
	})
	if operationError != nil {
		return Booking{}, operationError
	}
	return updated, nil
}

// CheckIn moves a booking to CheckedIn and appends a guest history row.
func (service *Service) CheckIn(ctx context.Context, bookingID BookingID) error {
	return service.transition(ctx, operationCheckIn, bookingID, func(ctx context.Context, transactionStore Store, booking *Booking) error {
		switch booking.Status {
		case BookingStatusCheckedIn:
			return ErrAlreadyCheckedIn
		case BookingStatusCheckedOut:
			return ErrAlreadyCheckedOut
		case BookingStatusCancelled:
			return ErrBookingCancelled
		}
		booking.Status = BookingStatusCheckedIn
		if err := transactionStore.UpdateBooking(ctx, *booking); err != nil {
			return err
		}
		entry := GuestHistoryEntry{
			GuestID:         booking.GuestID,
			RoomID:          booking.RoomID,
			BookingID:       booking.ID,
			CheckInDate:     booking.Stay.CheckInDate,
			CheckOutDate:    booking.Stay.CheckOutDate,
			RecordedUnixUTC: booking.UpdatedUnixUTC,
		}
		if err := transactionStore.InsertGuestHistory(ctx, entry); err != nil {
			return err
		}
		return transactionStore.UpdateRoomStatus(ctx, booking.RoomID, RoomStatusOccupied)
	})
}

// CheckOut moves a booking to CheckedOut and releases its room.
func (service *Service) CheckOut(ctx context.Context, bookingID BookingID) error {
	return service.transition(ctx, operationCheckOut, bookingID, func(ctx context.Context, transactionStore Store, booking *Booking) error {
		switch booking.Status {
		case BookingStatusCheckedOut:
			return ErrAlreadyCheckedOut
		case BookingStatusCancelled:
			return ErrBookingCancelled
		}
		booking.Status = BookingStatusCheckedOut
		if err := transactionStore.UpdateBooking(ctx, *booking); err != nil {
			return err
		}
		return transactionStore.UpdateRoomStatus(ctx, booking.RoomID, RoomStatusAvailable)
	})
}

// CancelBooking cancels a booking; cancelling an already cancelled booking is a no-op.
func (service *Service) CancelBooking(ctx context.Context, bookingID BookingID) error {
	return service.transition(ctx, operationCancelBooking, bookingID, func(ctx context.Context, transactionStore Store, booking *Booking) error {
		switch booking.Status {
		case BookingStatusCancelled:
			return nil
		case BookingStatusCheckedOut:
			return fmt.Errorf("%w: checked-out booking cannot be cancelled", ErrInvalidTransition)
		}
		booking.Status = BookingStatusCancelled
		if err := transactionStore.UpdateBooking(ctx, *booking); err != nil {
			return err
		}
		return transactionStore.UpdateRoomStatus(ctx, booking.RoomID, RoomStatusAvailable)
	})
}

// DeleteBooking hard-removes a booking together with its payments.
func (service *Service) DeleteBooking(ctx context.Context, bookingID BookingID) error {
	var roomID *RoomID
	operationError := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		booking, err := transactionStore.GetBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		roomID = &booking.RoomID
		if err := transactionStore.DeleteBooking(ctx, bookingID); err != nil {
			return err
		}
		return transactionStore.UpdateRoomStatus(ctx, booking.RoomID, RoomStatusAvailable)
	})
	service.logOperation(ctx, OperationLog{
		Operation: operationDeleteBooking,
		BookingID: &bookingID,
		RoomID:    roomID,
		Error:     operationError,
	})
	return operationError
}

func (service *Service) transition(ctx context.Context, operation string, bookingID BookingID, apply func(ctx context.Context, transactionStore Store, booking *Booking) error) error {
	var logged Booking
	operationError := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		booking, err := transactionStore.GetBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		booking.UpdatedUnixUTC = service.nowFn()
		logged = booking
		return apply(ctx, transactionStore, &booking)
	})
	logEntry := OperationLog{
		Operation: operation,
		BookingID: &bookingID,
		PriceType: logged.PriceType,
		Error:     operationError,
	}
	if !logged.GuestID.IsZero() {
		logEntry.GuestID = &logged.GuestID
		logEntry.RoomID = &logged.RoomID
	}
	service.logOperation(ctx, logEntry)
	return operationError
}

// prepareBooking runs every check that precedes pricing and returns the room snapshot.
func (service *Service) prepareBooking(ctx context.Context, transactionStore Store, request BookingRequest, exclude *BookingID) (Room, error) {
	if request.GuestID.IsZero() {
		return Room{}, ErrInvalidGuestID
	}
	if request.RoomID.IsZero() {
		return Room{}, ErrInvalidRoomID
	}
	if _, err := ParsePriceType(request.PriceType.String()); err != nil {
		return Room{}, err
	}
	if err := ValidateStay(request.Stay, request.PriceType, service.today()); err != nil {
		return Room{}, err
	}
	if _, err := transactionStore.GetGuest(ctx, request.GuestID); err != nil {
		return Room{}, err
	}
	// the room lock serializes concurrent gates on the same room
	room, err := transactionStore.LockRoom(ctx, request.RoomID)
	if err != nil {
		return Room{}, err
	}
	conflict, found, err := service.findRoomConflict(ctx, transactionStore, AvailabilityQuery{
		RoomID:           request.RoomID,
		Stay:             request.Stay,
		PriceType:        request.PriceType,
		ExcludeBookingID: exclude,
	})
	if err != nil {
		return Room{}, err
	}
	if found {
		return Room{}, ConflictError{BookingID: conflict.ID}
	}
	return room, nil
}

func (service *Service) today() CalendarDate {
	return DateOf(time.Unix(service.nowFn(), 0).In(service.location))
}

func (service *Service) logOperation(ctx context.Context, entry OperationLog) {
	if service.logger == nil {
		return
	}
	if entry.Status == "" {
		if entry.Error != nil {
			entry.Status = operationStatusError
		} else {
			entry.Status = operationStatusOK
		}
	}
	service.logger.LogOperation(ctx, entry)
}

func roomStatusFor(status BookingStatus) RoomStatus {
	switch status {
	case BookingStatusCheckedIn:
		return RoomStatusOccupied
	case BookingStatusBooking:
		return RoomStatusBooked
	default:
		return RoomStatusAvailable
	}
}
