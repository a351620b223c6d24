package hotel

import (
	"context"
	"errors"
	"testing"
)

func TestListBookingDetailsFilters(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	service := mustNewService(test, store)
	roomA := store.mustRoom(test, "101", 10000)
	roomB := store.mustRoom(test, "205", 8000)
	alice := store.mustGuest(test, "Alice Smith")
	bob := store.mustGuest(test, "Bob Jones")
	paidBooking := mustCreateBooking(test, service, BookingRequest{GuestID: alice.ID, RoomID: roomA.ID, Stay: nightsStay(test, "2024-06-01", "2024-06-02"), PriceType: PriceTypeNormal})
	openBooking := mustCreateBooking(test, service, BookingRequest{GuestID: bob.ID, RoomID: roomB.ID, Stay: nightsStay(test, "2024-07-01", "2024-07-02"), PriceType: PriceTypeNormal})
	if _, err := service.ApplyPayment(context.Background(), PaymentRequest{BookingIDs: []BookingID{paidBooking.ID}, Amount: mustPositiveAmount(test, 10000), Method: PaymentMethodCash}); err != nil {
		test.Fatalf("apply payment: %v", err)
	}
	julyFirst := mustDate(test, "2024-07-01")

	testCases := []struct {
		name     string
		filter   DetailFilter
		expected []BookingID
	}{
		{name: "all newest first", filter: DetailFilter{}, expected: []BookingID{openBooking.ID, paidBooking.ID}},
		{name: "paid", filter: DetailFilter{PaymentState: PaymentStatePaid}, expected: []BookingID{paidBooking.ID}},
		{name: "unpaid", filter: DetailFilter{PaymentState: PaymentStateUnpaid}, expected: []BookingID{openBooking.ID}},
		{name: "search guest", filter: DetailFilter{Search: " smith "}, expected: []BookingID{paidBooking.ID}},
		{name: "search room", filter: DetailFilter{Search: "205"}, expected: []BookingID{openBooking.ID}},
		{name: "check-in lower bound", filter: DetailFilter{CheckInFrom: &julyFirst}, expected: []BookingID{openBooking.ID}},
	}
	for _, testCase := range testCases {
		details, err := service.ListBookingDetails(context.Background(), testCase.filter)
		if err != nil {
			test.Fatalf("%s: %v", testCase.name, err)
		}
		if len(details) != len(testCase.expected) {
			test.Fatalf("%s: expected %d rows, got %d", testCase.name, len(testCase.expected), len(details))
		}
		for index, detail := range details {
			if detail.ID != testCase.expected[index] {
				test.Fatalf("%s: row %d expected %s, got %s", testCase.name, index, testCase.expected[index], detail.ID)
			}
		}
	}

	detail, err := service.GetBookingDetail(context.Background(), paidBooking.ID)
	if err != nil {
		test.Fatalf("get detail: %v", err)
	}
	if detail.GuestName != "Alice Smith" || detail.RoomNumber != "101" || detail.Paid != 10000 || detail.Outstanding != 0 {
		test.Fatalf("unexpected detail: %+v", detail)
	}
	if _, err := service.GetBookingDetail(context.Background(), BookingID{value: 404}); !errors.Is(err, ErrBookingNotFound) {
		test.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
	if _, err := service.ListBookingDetails(context.Background(), DetailFilter{PaymentState: PaymentState("partly")}); !errors.Is(err, ErrValidation) {
		test.Fatalf("expected validation error, got %v", err)
	}
}
