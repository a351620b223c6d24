package hotel

import (
	"context"
	"fmt"
)

// PaymentRequest applies one amount across bookings in the order given.
type PaymentRequest struct {
	BookingIDs []BookingID
	Amount     PositiveAmountCents
	Method     PaymentMethod
	Metadata   MetadataJSON
}

// PaymentResult is the allocation outcome for one booking.
type PaymentResult struct {
	BookingID     BookingID
	AmountApplied AmountCents
	Outstanding   AmountCents
	PaymentStatus PaymentStatus
	Reference     string
}

type bookingBalance struct {
	booking     Booking
	paid        AmountCents
	outstanding AmountCents
}

// AllocateInOrder splits amount greedily across outstanding balances in slice order.
// The returned slice is parallel to outstanding; trailing entries stay zero once amount is exhausted.
func AllocateInOrder(amount AmountCents, outstanding []AmountCents) ([]AmountCents, error) {
	var total AmountCents
	for _, balance := range outstanding {
		total += balance
	}
	if amount > total {
		return nil, OverpaymentError{Requested: amount, Outstanding: total}
	}
	applied := make([]AmountCents, len(outstanding))
	remaining := amount
	for index, balance := range outstanding {
		if remaining == 0 {
			break
		}
		share := min(balance, remaining)
		applied[index] = share
		remaining -= share
	}
	return applied, nil
}

// ApplyPayment allocates one payment across bookings. Either every payment row is written or none is.
func (service *Service) ApplyPayment(ctx context.Context, request PaymentRequest) ([]PaymentResult, error) {
	var results []PaymentResult
	operationError := service.validatePaymentRequest(request)
	if operationError == nil {
		operationError = service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
			balances, err := loadBalances(ctx, transactionStore, request.BookingIDs)
			if err != nil {
				return err
			}
			outstanding := make([]AmountCents, len(balances))
			for index, balance := range balances {
				outstanding[index] = balance.outstanding
			}
			applied, err := AllocateInOrder(request.Amount.ToAmountCents(), outstanding)
			if err != nil {
				return err
			}
			reference := service.newReference()
			nowUnixUTC := service.nowFn()
			allocated := make([]PaymentResult, 0, len(balances))
			for index, balance := range balances {
				if applied[index] == 0 {
					continue
				}
				payment := Payment{
					BookingID:   balance.booking.ID,
					Amount:      applied[index],
					Method:      request.Method,
					Reference:   reference,
					Metadata:    request.Metadata,
					PaidUnixUTC: nowUnixUTC,
				}
				if _, err := transactionStore.InsertPayment(ctx, payment); err != nil {
					return err
				}
				paid := balance.paid + applied[index]
				booking := balance.booking
				booking.PaymentStatus = DerivePaymentStatus(booking.CalculatedPrice, paid)
				booking.UpdatedUnixUTC = nowUnixUTC
				if err := transactionStore.UpdateBooking(ctx, booking); err != nil {
					return err
				}
				allocated = append(allocated, PaymentResult{
					BookingID:     booking.ID,
					AmountApplied: applied[index],
					Outstanding:   Outstanding(booking.CalculatedPrice, paid),
					PaymentStatus: booking.PaymentStatus,
					Reference:     reference,
				})
			}
			results = allocated
			return nil
		})
	}
	logEntry := OperationLog{
		Operation: operationApplyPayment,
		Amount:    request.Amount.ToAmountCents(),
		Error:     operationError,
	}
	if len(request.BookingIDs) == 1 {
		logEntry.BookingID = &request.BookingIDs[0]
	}
	service.logOperation(ctx, logEntry)
	if operationError != nil {
		return nil, operationError
	}
	return results, nil
}

// ListPayments returns the payment history of a booking, oldest first.
func (service *Service) ListPayments(ctx context.Context, bookingID BookingID) ([]Payment, error) {
	if _, err := service.store.GetBooking(ctx, bookingID); err != nil {
		return nil, err
	}
	return service.store.ListPayments(ctx, bookingID)
}

// OutstandingBalance returns what remains to be paid on a booking.
func (service *Service) OutstandingBalance(ctx context.Context, bookingID BookingID) (AmountCents, error) {
	booking, err := service.store.GetBooking(ctx, bookingID)
	if err != nil {
		return 0, err
	}
	paid, err := service.store.SumPayments(ctx, bookingID)
	if err != nil {
		return 0, err
	}
	return Outstanding(booking.CalculatedPrice, paid), nil
}

func (service *Service) validatePaymentRequest(request PaymentRequest) error {
	if len(request.BookingIDs) == 0 {
		return ErrNoBookingsSelected
	}
	seen := make(map[BookingID]struct{}, len(request.BookingIDs))
	for _, bookingID := range request.BookingIDs {
		if bookingID.IsZero() {
			return ErrInvalidBookingID
		}
		if _, duplicate := seen[bookingID]; duplicate {
			return fmt.Errorf("%w: %s", ErrDuplicateBooking, bookingID)
		}
		seen[bookingID] = struct{}{}
	}
	if request.Amount <= 0 {
		return fmt.Errorf("%w: payment must be greater than zero", ErrInvalidAmountCents)
	}
	if _, err := ParsePaymentMethod(request.Method.String()); err != nil {
		return err
	}
	return nil
}

func loadBalances(ctx context.Context, store Store, bookingIDs []BookingID) ([]bookingBalance, error) {
	balances := make([]bookingBalance, 0, len(bookingIDs))
	for _, bookingID := range bookingIDs {
		booking, err := store.GetBooking(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		if booking.Status == BookingStatusCancelled {
			return nil, fmt.Errorf("%w: booking %s", ErrBookingCancelled, bookingID)
		}
		paid, err := store.SumPayments(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		balances = append(balances, bookingBalance{
			booking:     booking,
			paid:        paid,
			outstanding: Outstanding(booking.CalculatedPrice, paid),
		})
	}
	return balances, nil
}
