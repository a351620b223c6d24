package gormstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MarkoPoloResearchLab/innkeeper/pkg/hotel"
	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var fixedNow = time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)

func openTestDB(test *testing.T) *gorm.DB {
	test.Helper()
	db, err := gorm.Open(sqlite.Open(test.TempDir()+"/hotel.db?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(test, err)
	sqlDB, err := db.DB()
	require.NoError(test, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(test, AutoMigrate(db))
	return db
}

func newTestService(test *testing.T) (*hotel.Service, *Store) {
	test.Helper()
	store := New(openTestDB(test))
	service, err := hotel.NewService(store, func() int64 { return fixedNow.Unix() })
	require.NoError(test, err)
	return service, store
}

func seedRoomAndGuest(test *testing.T, service *hotel.Service, number string) (hotel.Room, hotel.Guest) {
	test.Helper()
	ctx := context.Background()
	room, err := service.CreateRoom(ctx, hotel.Room{Number: number, Type: "double", Capacity: 2, BasePrice: 10000})
	require.NoError(test, err)
	guest, err := service.CreateGuest(ctx, hotel.Guest{Name: "Ana " + number, Contact: "+855 12 000 " + number})
	require.NoError(test, err)
	return room, guest
}

func nightStay(test *testing.T, checkIn string, checkOut string) hotel.Stay {
	test.Helper()
	inDate, err := hotel.ParseDate(checkIn)
	require.NoError(test, err)
	outDate, err := hotel.ParseDate(checkOut)
	require.NoError(test, err)
	return hotel.Stay{
		CheckInDate:  inDate,
		CheckOutDate: outDate,
		CheckInTime:  hotel.DefaultCheckInTime(),
		CheckOutTime: hotel.DefaultCheckOutTime(),
	}
}

func TestStoreBookingLifecycle(test *testing.T) {
	test.Parallel()
	ctx := context.Background()
	service, _ := newTestService(test)
	room, guest := seedRoomAndGuest(test, service, "101")

	booking, err := service.CreateBooking(ctx, hotel.BookingRequest{
		GuestID:   guest.ID,
		RoomID:    room.ID,
		Stay:      nightStay(test, "2024-05-10", "2024-05-12"),
		PriceType: hotel.PriceTypeNormal,
	})
	require.NoError(test, err)
	require.Equal(test, hotel.AmountCents(10000), booking.CalculatedPrice)
	require.Equal(test, hotel.PaymentStatusPending, booking.PaymentStatus)

	stored, err := service.GetRoom(ctx, room.ID)
	require.NoError(test, err)
	require.Equal(test, hotel.RoomStatusBooked, stored.Status)

	amount, err := hotel.NewPositiveAmountCents(10000)
	require.NoError(test, err)
	results, err := service.ApplyPayment(ctx, hotel.PaymentRequest{
		BookingIDs: []hotel.BookingID{booking.ID},
		Amount:     amount,
		Method:     hotel.PaymentMethodCash,
	})
	require.NoError(test, err)
	require.Len(test, results, 1)
	require.Equal(test, hotel.PaymentStatusPaid, results[0].PaymentStatus)

	_, err = service.CreateBooking(ctx, hotel.BookingRequest{
		GuestID:   guest.ID,
		RoomID:    room.ID,
		Stay:      nightStay(test, "2024-05-11", "2024-05-13"),
		PriceType: hotel.PriceTypeNormal,
	})
	var conflict hotel.ConflictError
	require.ErrorAs(test, err, &conflict)
	require.Equal(test, booking.ID, conflict.BookingID)

	require.NoError(test, service.CheckIn(ctx, booking.ID))
	history, err := service.GuestHistory(ctx, guest.ID)
	require.NoError(test, err)
	require.Len(test, history, 1)
	require.Equal(test, booking.ID, history[0].BookingID)

	require.NoError(test, service.CheckOut(ctx, booking.ID))
	checkedOut, err := service.GetBooking(ctx, booking.ID)
	require.NoError(test, err)
	require.Equal(test, hotel.BookingStatusCheckedOut, checkedOut.Status)
	require.Equal(test, hotel.PaymentStatusPaid, checkedOut.PaymentStatus)

	stored, err = service.GetRoom(ctx, room.ID)
	require.NoError(test, err)
	require.Equal(test, hotel.RoomStatusAvailable, stored.Status)
}

func TestStoreTurnoverAllowsSameDayCheckIn(test *testing.T) {
	test.Parallel()
	ctx := context.Background()
	service, _ := newTestService(test)
	room, guest := seedRoomAndGuest(test, service, "102")

	_, err := service.CreateBooking(ctx, hotel.BookingRequest{
		GuestID:   guest.ID,
		RoomID:    room.ID,
		Stay:      nightStay(test, "2024-05-10", "2024-05-12"),
		PriceType: hotel.PriceTypeNormal,
	})
	require.NoError(test, err)
	_, err = service.CreateBooking(ctx, hotel.BookingRequest{
		GuestID:   guest.ID,
		RoomID:    room.ID,
		Stay:      nightStay(test, "2024-05-12", "2024-05-14"),
		PriceType: hotel.PriceTypeNormal,
	})
	require.NoError(test, err)
}

func TestStoreUniqueIndexRejectsSecondBookingOnSameDay(test *testing.T) {
	test.Parallel()
	ctx := context.Background()
	service, store := newTestService(test)
	room, guest := seedRoomAndGuest(test, service, "103")
	candidate := hotel.Booking{
		GuestID:         guest.ID,
		RoomID:          room.ID,
		Stay:            nightStay(test, "2024-06-01", "2024-06-03"),
		PriceType:       hotel.PriceTypeNormal,
		CalculatedPrice: 10000,
		PaymentStatus:   hotel.PaymentStatusPending,
		Status:          hotel.BookingStatusBooking,
		CreatedUnixUTC:  fixedNow.Unix(),
		UpdatedUnixUTC:  fixedNow.Unix(),
	}
	firstID, err := store.CreateBooking(ctx, candidate)
	require.NoError(test, err)

	_, err = store.CreateBooking(ctx, candidate)
	require.ErrorIs(test, err, hotel.ErrRoomAlreadyBooked)
	require.ErrorIs(test, err, hotel.ErrIntegrity)

	first, err := store.GetBooking(ctx, firstID)
	require.NoError(test, err)
	first.Status = hotel.BookingStatusCancelled
	require.NoError(test, store.UpdateBooking(ctx, first))

	_, err = store.CreateBooking(ctx, candidate)
	require.NoError(test, err)
}

func TestStoreDuplicateRoomNumber(test *testing.T) {
	test.Parallel()
	ctx := context.Background()
	service, _ := newTestService(test)
	seedRoomAndGuest(test, service, "104")

	_, err := service.CreateRoom(ctx, hotel.Room{Number: "104", Capacity: 1, BasePrice: 5000})
	require.ErrorIs(test, err, hotel.ErrDuplicateRoom)
}

func TestStoreNotFoundErrors(test *testing.T) {
	test.Parallel()
	ctx := context.Background()
	_, store := newTestService(test)
	missingRoom, err := hotel.NewRoomID(99)
	require.NoError(test, err)
	missingBooking, err := hotel.NewBookingID(99)
	require.NoError(test, err)

	_, err = store.GetRoom(ctx, missingRoom)
	require.ErrorIs(test, err, hotel.ErrRoomNotFound)
	require.ErrorIs(test, store.UpdateRoomStatus(ctx, missingRoom, hotel.RoomStatusBooked), hotel.ErrRoomNotFound)
	_, err = store.GetBooking(ctx, missingBooking)
	require.ErrorIs(test, err, hotel.ErrBookingNotFound)
	require.ErrorIs(test, store.DeleteBooking(ctx, missingBooking), hotel.ErrNotFound)

	var operationError hotel.OperationError
	require.ErrorAs(test, err, &operationError)
	require.Equal(test, "store", operationError.Operation())
	require.Equal(test, "booking", operationError.Subject())
	require.Equal(test, "get", operationError.Code())
}

func TestStoreDeleteRoomCascadesCancelledBookings(test *testing.T) {
	test.Parallel()
	ctx := context.Background()
	service, store := newTestService(test)
	room, guest := seedRoomAndGuest(test, service, "105")
	booking, err := service.CreateBooking(ctx, hotel.BookingRequest{
		GuestID:   guest.ID,
		RoomID:    room.ID,
		Stay:      nightStay(test, "2024-05-10", "2024-05-11"),
		PriceType: hotel.PriceTypeNormal,
	})
	require.NoError(test, err)

	require.ErrorIs(test, service.DeleteRoom(ctx, room.ID), hotel.ErrRoomHasBookings)
	require.NoError(test, service.CancelBooking(ctx, booking.ID))
	require.NoError(test, service.DeleteRoom(ctx, room.ID))

	_, err = store.GetBooking(ctx, booking.ID)
	require.ErrorIs(test, err, hotel.ErrBookingNotFound)
	require.NoError(test, service.DeleteGuest(ctx, guest.ID))
}

func TestStoreBookingDetails(test *testing.T) {
	test.Parallel()
	ctx := context.Background()
	service, _ := newTestService(test)
	firstRoom, firstGuest := seedRoomAndGuest(test, service, "201")
	secondRoom, secondGuest := seedRoomAndGuest(test, service, "202")

	paidBooking, err := service.CreateBooking(ctx, hotel.BookingRequest{
		GuestID:   firstGuest.ID,
		RoomID:    firstRoom.ID,
		Stay:      nightStay(test, "2024-05-10", "2024-05-11"),
		PriceType: hotel.PriceTypeLowSeason,
	})
	require.NoError(test, err)
	openBooking, err := service.CreateBooking(ctx, hotel.BookingRequest{
		GuestID:   secondGuest.ID,
		RoomID:    secondRoom.ID,
		Stay:      nightStay(test, "2024-05-20", "2024-05-22"),
		PriceType: hotel.PriceTypeNormal,
	})
	require.NoError(test, err)

	amount, err := hotel.NewPositiveAmountCents(9500)
	require.NoError(test, err)
	_, err = service.ApplyPayment(ctx, hotel.PaymentRequest{
		BookingIDs: []hotel.BookingID{paidBooking.ID, openBooking.ID},
		Amount:     amount,
		Method:     hotel.PaymentMethodQRCode,
	})
	require.NoError(test, err)

	all, err := service.ListBookingDetails(ctx, hotel.DetailFilter{})
	require.NoError(test, err)
	require.Len(test, all, 2)
	require.Equal(test, openBooking.ID, all[0].ID)
	require.Equal(test, "202", all[0].RoomNumber)
	require.Equal(test, hotel.AmountCents(500), all[0].Paid)
	require.Equal(test, hotel.AmountCents(9500), all[0].Outstanding)

	paid, err := service.ListBookingDetails(ctx, hotel.DetailFilter{PaymentState: hotel.PaymentStatePaid})
	require.NoError(test, err)
	require.Len(test, paid, 1)
	require.Equal(test, paidBooking.ID, paid[0].ID)
	require.Equal(test, hotel.AmountCents(0), paid[0].Outstanding)

	searched, err := service.ListBookingDetails(ctx, hotel.DetailFilter{Search: "ana 202"})
	require.NoError(test, err)
	require.Len(test, searched, 1)
	require.Equal(test, secondGuest.Name, searched[0].GuestName)

	detail, err := service.GetBookingDetail(ctx, paidBooking.ID)
	require.NoError(test, err)
	require.Equal(test, hotel.AmountCents(9000), detail.Paid)

	payments, err := service.ListPayments(ctx, openBooking.ID)
	require.NoError(test, err)
	require.Len(test, payments, 1)
	require.Equal(test, hotel.PaymentMethodQRCode, payments[0].Method)
	require.NotEmpty(test, payments[0].Reference)
}

func TestStoreRollsBackFailedPayment(test *testing.T) {
	test.Parallel()
	ctx := context.Background()
	service, _ := newTestService(test)
	room, guest := seedRoomAndGuest(test, service, "301")
	booking, err := service.CreateBooking(ctx, hotel.BookingRequest{
		GuestID:   guest.ID,
		RoomID:    room.ID,
		Stay:      nightStay(test, "2024-05-10", "2024-05-11"),
		PriceType: hotel.PriceTypeNormal,
	})
	require.NoError(test, err)

	amount, err := hotel.NewPositiveAmountCents(10001)
	require.NoError(test, err)
	_, err = service.ApplyPayment(ctx, hotel.PaymentRequest{
		BookingIDs: []hotel.BookingID{booking.ID},
		Amount:     amount,
		Method:     hotel.PaymentMethodCash,
	})
	require.ErrorIs(test, err, hotel.ErrOverpayment)

	payments, err := service.ListPayments(ctx, booking.ID)
	require.NoError(test, err)
	require.Empty(test, payments)
}

func TestPostgresUniqueViolationMapsToIntegrity(test *testing.T) {
	test.Parallel()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(test, err)
	test.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(test, err)

	mock.ExpectQuery(`INSERT INTO "bookings"`).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolationCode, ConstraintName: "uniq_bookings_room_check_in"})

	guestID, err := hotel.NewGuestID(1)
	require.NoError(test, err)
	roomID, err := hotel.NewRoomID(1)
	require.NoError(test, err)
	_, err = New(db).CreateBooking(context.Background(), hotel.Booking{
		GuestID:         guestID,
		RoomID:          roomID,
		Stay:            nightStay(test, "2024-06-01", "2024-06-02"),
		PriceType:       hotel.PriceTypeNormal,
		CalculatedPrice: 10000,
		PaymentStatus:   hotel.PaymentStatusPending,
		Status:          hotel.BookingStatusBooking,
	})
	require.ErrorIs(test, err, hotel.ErrRoomAlreadyBooked)
	require.NoError(test, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(test *testing.T) {
	test.Parallel()
	require.False(test, isUniqueViolation(nil))
	require.False(test, isUniqueViolation(errors.New("boom")))
	require.True(test, isUniqueViolation(gorm.ErrDuplicatedKey))
	require.True(test, isUniqueViolation(&pgconn.PgError{Code: pgUniqueViolationCode}))
	require.False(test, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
}

func TestStoreDashboardTotals(test *testing.T) {
	test.Parallel()
	ctx := context.Background()
	service, store := newTestService(test)
	arrivingRoom, guest := seedRoomAndGuest(test, service, "401")
	leavingRoom, _ := seedRoomAndGuest(test, service, "402")
	seedRoomAndGuest(test, service, "403")

	arriving, err := service.CreateBooking(ctx, hotel.BookingRequest{
		GuestID:   guest.ID,
		RoomID:    arrivingRoom.ID,
		Stay:      nightStay(test, "2024-05-01", "2024-05-02"),
		PriceType: hotel.PriceTypeNormal,
	})
	require.NoError(test, err)
	leavingID, err := store.CreateBooking(ctx, hotel.Booking{
		GuestID:         guest.ID,
		RoomID:          leavingRoom.ID,
		Stay:            nightStay(test, "2024-04-28", "2024-05-01"),
		PriceType:       hotel.PriceTypeNormal,
		CalculatedPrice: 10000,
		PaymentStatus:   hotel.PaymentStatusPending,
		Status:          hotel.BookingStatusCheckedIn,
	})
	require.NoError(test, err)

	amount, err := hotel.NewPositiveAmountCents(4000)
	require.NoError(test, err)
	_, err = service.ApplyPayment(ctx, hotel.PaymentRequest{
		BookingIDs: []hotel.BookingID{arriving.ID, leavingID},
		Amount:     amount,
		Method:     hotel.PaymentMethodCash,
	})
	require.NoError(test, err)

	dashboard, err := service.DashboardSummary(ctx)
	require.NoError(test, err)
	require.Equal(test, "2024-05-01", dashboard.Date.String())
	require.Equal(test, int64(2), dashboard.Bookings)
	require.Equal(test, int64(3), dashboard.Guests)
	require.Equal(test, hotel.AmountCents(4000), dashboard.Revenue)
	require.Equal(test, int64(2), dashboard.AvailableRooms)
	require.Len(test, dashboard.CheckingIn, 1)
	require.Equal(test, arriving.ID, dashboard.CheckingIn[0].ID)
	require.Equal(test, hotel.AmountCents(6000), dashboard.CheckingIn[0].Outstanding)
	require.Len(test, dashboard.CheckingOut, 1)
	require.Equal(test, leavingID, dashboard.CheckingOut[0].ID)
	require.Equal(test, "402", dashboard.CheckingOut[0].RoomNumber)
}

func TestStoreDashboardTotalsOnEmptyDatabase(test *testing.T) {
	test.Parallel()
	_, store := newTestService(test)

	totals, err := store.DashboardTotals(context.Background())
	require.NoError(test, err)
	require.Equal(test, hotel.DashboardTotals{}, totals)
}

func TestPostgresLockRoomSelectsForUpdate(test *testing.T) {
	test.Parallel()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(test, err)
	test.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(test, err)

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "rooms" WHERE id = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "number", "type", "capacity", "base_price_cents",
			"low_season_price_cents", "high_season_price_cents", "three_hour_price_cents",
			"status", "created_at", "updated_at",
		}).AddRow(int64(5), "501", "single", 1, int64(8000), nil, nil, nil, "available", now, now))

	roomID, err := hotel.NewRoomID(5)
	require.NoError(test, err)
	room, err := New(db).LockRoom(context.Background(), roomID)
	require.NoError(test, err)
	require.Equal(test, "501", room.Number)
	require.Equal(test, hotel.AmountCents(8000), room.BasePrice)
	require.NoError(test, mock.ExpectationsWereMet())
}
