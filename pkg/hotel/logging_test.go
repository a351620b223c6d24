package hotel

import (
	"context"
	"errors"
	"testing"
)

type recorderLogger struct {
	entries []OperationLog
}

func (logger *recorderLogger) LogOperation(_ context.Context, entry OperationLog) {
	logger.entries = append(logger.entries, entry)
}

func TestServiceLogsCreateBooking(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	logger := &recorderLogger{}
	service := mustNewService(test, store, WithOperationLogger(logger))
	room := store.mustRoom(test, "101", 10000)
	guest := store.mustGuest(test, "Logan")

	booking := mustCreateBooking(test, service, BookingRequest{GuestID: guest.ID, RoomID: room.ID, Stay: nightsStay(test, "2024-06-01", "2024-06-02"), PriceType: PriceTypeHighSeason})
	if len(logger.entries) != 1 {
		test.Fatalf("expected one log entry, got %d", len(logger.entries))
	}
	entry := logger.entries[0]
	if entry.Operation != operationCreateBooking || entry.BookingID == nil || *entry.BookingID != booking.ID || entry.Amount != 11000 || entry.PriceType != PriceTypeHighSeason {
		test.Fatalf("unexpected log entry: %+v", entry)
	}
	if entry.Error != nil || entry.Status != operationStatusOK {
		test.Fatalf("expected successful log entry, got %+v", entry)
	}
}

func TestServiceLogsErrorStatus(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	store.failWith = errStoreUnavailable
	logger := &recorderLogger{}
	service := mustNewService(test, store, WithOperationLogger(logger))

	err := service.CheckIn(context.Background(), BookingID{value: 1})
	if !errors.Is(err, errStoreUnavailable) {
		test.Fatalf("expected store failure, got %v", err)
	}
	if len(logger.entries) != 1 {
		test.Fatalf("expected one log entry, got %d", len(logger.entries))
	}
	entry := logger.entries[0]
	if entry.Operation != operationCheckIn || entry.Status != operationStatusError || !errors.Is(entry.Error, errStoreUnavailable) {
		test.Fatalf("unexpected log entry: %+v", entry)
	}
	if entry.GuestID != nil || entry.RoomID != nil {
		test.Fatalf("expected no guest or room on failed lookup, got %+v", entry)
	}
}

func TestServiceLogsOnePaymentEntryPerCall(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	logger := &recorderLogger{}
	service := mustNewService(test, store, WithOperationLogger(logger))
	bookings := seedOutstandingBookings(test, store, service, "30", "50")
	logger.entries = nil

	_, err := service.ApplyPayment(context.Background(), PaymentRequest{BookingIDs: []BookingID{bookings[0].ID, bookings[1].ID}, Amount: mustPositiveAmount(test, 9000), Method: PaymentMethodCash})
	if !errors.Is(err, ErrOverpayment) {
		test.Fatalf("expected overpayment, got %v", err)
	}
	if len(logger.entries) != 1 || logger.entries[0].Operation != operationApplyPayment || logger.entries[0].Status != operationStatusError {
		test.Fatalf("unexpected log entries: %+v", logger.entries)
	}
}
