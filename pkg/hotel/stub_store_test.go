package hotel

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sort"
	"strings"
	"testing"
	"time"
)

var fixedNow = time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC).Unix()

type stubStore struct {
	rooms    map[RoomID]Room
	guests   map[GuestID]Guest
	bookings map[BookingID]Booking
	payments []Payment
	history  []GuestHistoryEntry
	nextID   int64
	failWith error
	locked   []RoomID
}

func newStubStore(test *testing.T) *stubStore {
	test.Helper()
	return &stubStore{
		rooms:    make(map[RoomID]Room),
		guests:   make(map[GuestID]Guest),
		bookings: make(map[BookingID]Booking),
	}
}

func (store *stubStore) allocateID() int64 {
	store.nextID++
	return store.nextID
}

func (store *stubStore) WithTx(ctx context.Context, fn func(ctx context.Context, txStore Store) error) error {
	if store.failWith != nil {
		return store.failWith
	}
	rooms := maps.Clone(store.rooms)
	guests := maps.Clone(store.guests)
	bookings := maps.Clone(store.bookings)
	payments := slices.Clone(store.payments)
	history := slices.Clone(store.history)
	if err := fn(ctx, store); err != nil {
		store.rooms, store.guests, store.bookings = rooms, guests, bookings
		store.payments, store.history = payments, history
		return err
	}
	return nil
}

func (store *stubStore) CreateRoom(_ context.Context, room Room) (RoomID, error) {
	if store.failWith != nil {
		return RoomID{}, store.failWith
	}
	for _, existing := range store.rooms {
		if existing.Number == room.Number {
			return RoomID{}, ErrDuplicateRoom
		}
	}
	room.ID = RoomID{value: store.allocateID()}
	store.rooms[room.ID] = room
	return room.ID, nil
}

func (store *stubStore) UpdateRoom(_ context.Context, room Room) error {
	if _, ok := store.rooms[room.ID]; !ok {
		return ErrRoomNotFound
	}
	store.rooms[room.ID] = room
	return nil
}

func (store *stubStore) UpdateRoomStatus(_ context.Context, roomID RoomID, status RoomStatus) error {
	room, ok := store.rooms[roomID]
	if !ok {
		return ErrRoomNotFound
	}
	room.Status = status
	store.rooms[roomID] = room
	return nil
}

func (store *stubStore) DeleteRoom(_ context.Context, roomID RoomID) error {
	delete(store.rooms, roomID)
	return nil
}

func (store *stubStore) GetRoom(_ context.Context, roomID RoomID) (Room, error) {
	if store.failWith != nil {
		return Room{}, store.failWith
	}
	room, ok := store.rooms[roomID]
	if !ok {
		return Room{}, ErrRoomNotFound
	}
	return room, nil
}

func (store *stubStore) LockRoom(ctx context.Context, roomID RoomID) (Room, error) {
	room, err := store.GetRoom(ctx, roomID)
	if err != nil {
		return Room{}, err
	}
	store.locked = append(store.locked, roomID)
	return room, nil
}

func (store *stubStore) ListRooms(_ context.Context) ([]Room, error) {
	rooms := slices.Collect(maps.Values(store.rooms))
	sort.Slice(rooms, func(left, right int) bool { return rooms[left].Number < rooms[right].Number })
	return rooms, nil
}

func (store *stubStore) CreateGuest(_ context.Context, guest Guest) (GuestID, error) {
	if store.failWith != nil {
		return GuestID{}, store.failWith
	}
	guest.ID = GuestID{value: store.allocateID()}
	store.guests[guest.ID] = guest
	return guest.ID, nil
}

func (store *stubStore) UpdateGuest(_ context.Context, guest Guest) error {
	store.guests[guest.ID] = guest
	return nil
}

func (store *stubStore) DeleteGuest(_ context.Context, guestID GuestID) error {
	delete(store.guests, guestID)
	return nil
}

func (store *stubStore) GetGuest(_ context.Context, guestID GuestID) (Guest, error) {
	guest, ok := store.guests[guestID]
	if !ok {
		return Guest{}, ErrGuestNotFound
	}
	return guest, nil
}

func (store *stubStore) ListGuests(_ context.Context) ([]Guest, error) {
	guests := slices.Collect(maps.Values(store.guests))
	sort.Slice(guests, func(left, right int) bool { return guests[left].Name < guests[right].Name })
	return guests, nil
}

func (store *stubStore) CreateBooking(_ context.Context, booking Booking) (BookingID, error) {
	booking.ID = BookingID{value: store.allocateID()}
	store.bookings[booking.ID] = booking
	return booking.ID, nil
}

func (store *stubStore) UpdateBooking(_ context.Context, booking Booking) error {
	if _, ok := store.bookings[booking.ID]; !ok {
		return ErrBookingNotFound
	}
	store.bookings[booking.ID] = booking
	return nil
}

func (store *stubStore) DeleteBooking(_ context.Context, bookingID BookingID) error {
	delete(store.bookings, bookingID)
	store.payments = slices.DeleteFunc(store.payments, func(payment Payment) bool {
		return payment.BookingID == bookingID
	})
	return nil
}

func (store *stubStore) GetBooking(_ context.Context, bookingID BookingID) (Booking, error) {
	booking, ok := store.bookings[bookingID]
	if !ok {
		return Booking{}, ErrBookingNotFound
	}
	return booking, nil
}

func (store *stubStore) CountBookings(_ context.Context, filter BookingCountFilter) (int64, error) {
	var count int64
	for _, booking := range store.bookings {
		if filter.GuestID != nil && booking.GuestID != *filter.GuestID {
			continue
		}
		if filter.RoomID != nil && booking.RoomID != *filter.RoomID {
			continue
		}
		if filter.ActiveOnly && !booking.IsActive() {
			continue
		}
		count++
	}
	return count, nil
}

func (store *stubStore) sortedBookings() []Booking {
	bookings := slices.Collect(maps.Values(store.bookings))
	sort.Slice(bookings, func(left, right int) bool { return bookings[left].ID.Int64() < bookings[right].ID.Int64() })
	return bookings
}

func (store *stubStore) ListActiveBookings(_ context.Context, window BookingWindow) ([]Booking, error) {
	var matched []Booking
	for _, booking := range store.sortedBookings() {
		if !booking.IsActive() {
			continue
		}
		if window.RoomID != nil && booking.RoomID != *window.RoomID {
			continue
		}
		if booking.Stay.CheckInDate.After(window.ToDate) || booking.Stay.CheckOutDate.Before(window.FromDate) {
			continue
		}
		matched = append(matched, booking)
	}
	return matched, nil
}

func (store *stubStore) ListBookingDetails(ctx context.Context, filter DetailFilter) ([]BookingDetail, error) {
	var details []BookingDetail
	bookings := store.sortedBookings()
	sort.SliceStable(bookings, func(left, right int) bool {
		return bookings[left].Stay.CheckInDate.After(bookings[right].Stay.CheckInDate)
	})
	for _, booking := range bookings {
		if filter.BookingID != nil && booking.ID != *filter.BookingID {
			continue
		}
		if filter.CheckInFrom != nil && booking.Stay.CheckInDate.Before(*filter.CheckInFrom) {
			continue
		}
		if filter.CheckInOn != nil && !booking.Stay.CheckInDate.Equal(*filter.CheckInOn) {
			continue
		}
		if filter.CheckOutOn != nil && !booking.Stay.CheckOutDate.Equal(*filter.CheckOutOn) {
			continue
		}
		paid, _ := store.SumPayments(ctx, booking.ID)
		detail := BookingDetail{
			Booking:     booking,
			GuestName:   store.guests[booking.GuestID].Name,
			RoomNumber:  store.rooms[booking.RoomID].Number,
			Paid:        paid,
			Outstanding: Outstanding(booking.CalculatedPrice, paid),
		}
		if filter.PaymentState == PaymentStatePaid && detail.Outstanding != 0 {
			continue
		}
		if filter.PaymentState == PaymentStateUnpaid && detail.Outstanding == 0 {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(detail.GuestName), needle) && !strings.Contains(strings.ToLower(detail.RoomNumber), needle) {
				continue
			}
		}
		details = append(details, detail)
	}
	if filter.Limit > 0 && len(details) > filter.Limit {
		details = details[:filter.Limit]
	}
	return details, nil
}

func (store *stubStore) InsertPayment(_ context.Context, payment Payment) (PaymentID, error) {
	payment.ID = PaymentID{value: store.allocateID()}
	store.payments = append(store.payments, payment)
	return payment.ID, nil
}

func (store *stubStore) SumPayments(_ context.Context, bookingID BookingID) (AmountCents, error) {
	var total AmountCents
	for _, payment := range store.payments {
		if payment.BookingID == bookingID {
			total += payment.Amount
		}
	}
	return total, nil
}

func (store *stubStore) ListPayments(_ context.Context, bookingID BookingID) ([]Payment, error) {
	var payments []Payment
	for _, payment := range store.payments {
		if payment.BookingID == bookingID {
			payments = append(payments, payment)
		}
	}
	return payments, nil
}

func (store *stubStore) InsertGuestHistory(_ context.Context, entry GuestHistoryEntry) error {
	store.history = append(store.history, entry)
	return nil
}

func (store *stubStore) ListGuestHistory(_ context.Context, guestID GuestID) ([]GuestHistoryEntry, error) {
	var entries []GuestHistoryEntry
	for _, entry := range store.history {
		if entry.GuestID == guestID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (store *stubStore) mustRoom(test *testing.T, number string, basePrice AmountCents) Room {
	test.Helper()
	room := Room{Number: number, Type: "standard", Capacity: 2, BasePrice: basePrice, Status: RoomStatusAvailable}
	roomID, err := store.CreateRoom(context.Background(), room)
	if err != nil {
		test.Fatalf("create room: %v", err)
	}
	room.ID = roomID
	return room
}

func (store *stubStore) mustGuest(test *testing.T, name string) Guest {
	test.Helper()
	guest := Guest{Name: name, Contact: "555-0100"}
	guestID, err := store.CreateGuest(context.Background(), guest)
	if err != nil {
		test.Fatalf("create guest: %v", err)
	}
	guest.ID = guestID
	return guest
}

func (store *stubStore) mustBooking(test *testing.T, bookingID BookingID) Booking {
	test.Helper()
	booking, ok := store.bookings[bookingID]
	if !ok {
		test.Fatalf("booking %s not found", bookingID)
	}
	return booking
}

func mustNewService(test *testing.T, store Store, options ...ServiceOption) *Service {
	test.Helper()
	service, err := NewService(store, func() int64 { return fixedNow }, options...)
	if err != nil {
		test.Fatalf("new service: %v", err)
	}
	return service
}

func mustDate(test *testing.T, raw string) CalendarDate {
	test.Helper()
	date, err := ParseDate(raw)
	if err != nil {
		test.Fatalf("parse date %q: %v", raw, err)
	}
	return date
}

func mustClock(test *testing.T, raw string) ClockTime {
	test.Helper()
	clock, err := ParseClockTime(raw)
	if err != nil {
		test.Fatalf("parse clock %q: %v", raw, err)
	}
	return clock
}

func mustPositiveAmount(test *testing.T, raw int64) PositiveAmountCents {
	test.Helper()
	amount, err := NewPositiveAmountCents(raw)
	if err != nil {
		test.Fatalf("positive amount: %v", err)
	}
	return amount
}

func nightsStay(test *testing.T, checkIn string, checkOut string) Stay {
	test.Helper()
	return Stay{
		CheckInDate:  mustDate(test, checkIn),
		CheckOutDate: mustDate(test, checkOut),
		CheckInTime:  DefaultCheckInTime(),
		CheckOutTime: DefaultCheckOutTime(),
	}
}

func shortStay(test *testing.T, date string, start string, end string) Stay {
	test.Helper()
	return Stay{
		CheckInDate:  mustDate(test, date),
		CheckOutDate: mustDate(test, date),
		CheckInTime:  mustClock(test, start),
		CheckOutTime: mustClock(test, end),
	}
}

func mustCreateBooking(test *testing.T, service *Service, request BookingRequest) Booking {
	test.Helper()
	booking, err := service.CreateBooking(context.Background(), request)
	if err != nil {
		test.Fatalf("create booking: %v", err)
	}
	return booking
}

var errStoreUnavailable = errors.New("store unavailable")

func (store *stubStore) DashboardTotals(_ context.Context) (DashboardTotals, error) {
	if store.failWith != nil {
		return DashboardTotals{}, store.failWith
	}
	totals := DashboardTotals{
		Bookings: int64(len(store.bookings)),
		Guests:   int64(len(store.guests)),
	}
	for _, payment := range store.payments {
		totals.Revenue += payment.Amount
	}
	for _, room := range store.rooms {
		if room.Status == RoomStatusAvailable {
			totals.AvailableRooms++
		}
	}
	return totals, nil
}
