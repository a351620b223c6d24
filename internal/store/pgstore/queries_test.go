package pgstore

import (
	"context"
	"errors"
	"testing"

	"github.com/MarkoPoloResearchLab/innkeeper/pkg/hotel"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

var bookingColumnNames = []string{
	"id", "guest_id", "room_id", "check_in_date", "check_out_date", "check_in_time", "check_out_time",
	"price_type", "calculated_price_cents", "payment_status", "status", "created_unix", "updated_unix",
}

func newMockStore(test *testing.T) (*Store, pgxmock.PgxPoolIface) {
	test.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(test, err)
	test.Cleanup(mock.Close)
	return newStore(mock), mock
}

func samplePayment(test *testing.T) hotel.Payment {
	test.Helper()
	bookingID, err := hotel.NewBookingID(3)
	require.NoError(test, err)
	metadata, err := hotel.NewMetadataJSON(`{"note":"deposit"}`)
	require.NoError(test, err)
	return hotel.Payment{
		BookingID:   bookingID,
		Amount:      2500,
		Method:      hotel.PaymentMethodCash,
		Reference:   "PAY-1",
		Metadata:    metadata,
		PaidUnixUTC: 1714554000,
	}
}

func TestWithTxRollsBackOnError(test *testing.T) {
	test.Parallel()
	store, mock := newMockStore(test)
	diskFull := errors.New("disk full")

	mock.ExpectBegin()
	mock.ExpectQuery(`insert into payments`).WillReturnError(diskFull)
	mock.ExpectRollback()

	err := store.WithTx(context.Background(), func(ctx context.Context, txStore hotel.Store) error {
		_, err := txStore.InsertPayment(ctx, samplePayment(test))
		return err
	})
	require.ErrorIs(test, err, diskFull)
	require.NoError(test, mock.ExpectationsWereMet())
}

func TestWithTxCommitsOnSuccess(test *testing.T) {
	test.Parallel()
	store, mock := newMockStore(test)

	mock.ExpectBegin()
	mock.ExpectQuery(`insert into payments`).WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectCommit()

	var paymentID hotel.PaymentID
	err := store.WithTx(context.Background(), func(ctx context.Context, txStore hotel.Store) error {
		var err error
		paymentID, err = txStore.InsertPayment(ctx, samplePayment(test))
		return err
	})
	require.NoError(test, err)
	require.Equal(test, int64(11), paymentID.Int64())
	require.NoError(test, mock.ExpectationsWereMet())
}

func TestWithTxWrapsBeginFailure(test *testing.T) {
	test.Parallel()
	store, mock := newMockStore(test)
	refused := errors.New("connection refused")

	mock.ExpectBegin().WillReturnError(refused)

	called := false
	err := store.WithTx(context.Background(), func(context.Context, hotel.Store) error {
		called = true
		return nil
	})
	require.ErrorIs(test, err, refused)
	require.False(test, called)
	require.NoError(test, mock.ExpectationsWereMet())
}

func TestInsertPaymentBindsColumnsInOrder(test *testing.T) {
	test.Parallel()
	store, mock := newMockStore(test)

	mock.ExpectQuery(`insert into payments\(booking_id, amount_cents, method, reference, metadata, paid_at\)`).
		WithArgs(int64(3), int64(2500), "cash", "PAY-1", `{"note":"deposit"}`, int64(1714554000)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))

	paymentID, err := store.InsertPayment(context.Background(), samplePayment(test))
	require.NoError(test, err)
	require.Equal(test, int64(42), paymentID.Int64())
	require.NoError(test, mock.ExpectationsWereMet())
}

func TestGetBookingLocksRow(test *testing.T) {
	test.Parallel()
	store, mock := newMockStore(test)

	mock.ExpectQuery(`from bookings b where b\.id = \$1 for update`).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows(bookingColumnNames).AddRow(
			int64(7), int64(2), int64(5), "2024-05-10", "2024-05-12", "12:00", "10:00",
			"normal", int64(10000), "half_paid", "booking", int64(1714554000), int64(1714557600),
		))

	bookingID, err := hotel.NewBookingID(7)
	require.NoError(test, err)
	booking, err := store.GetBooking(context.Background(), bookingID)
	require.NoError(test, err)
	require.Equal(test, bookingID, booking.ID)
	require.Equal(test, int64(5), booking.RoomID.Int64())
	require.Equal(test, "2024-05-12", booking.Stay.CheckOutDate.String())
	require.Equal(test, hotel.AmountCents(10000), booking.CalculatedPrice)
	require.Equal(test, hotel.PaymentStatusHalfPaid, booking.PaymentStatus)
	require.Equal(test, hotel.BookingStatusBooking, booking.Status)
	require.Equal(test, int64(1714557600), booking.UpdatedUnixUTC)
	require.NoError(test, mock.ExpectationsWereMet())
}

func TestGetBookingMapsMissingRow(test *testing.T) {
	test.Parallel()
	store, mock := newMockStore(test)

	mock.ExpectQuery(`for update`).WithArgs(int64(9)).WillReturnError(pgx.ErrNoRows)

	bookingID, err := hotel.NewBookingID(9)
	require.NoError(test, err)
	_, err = store.GetBooking(context.Background(), bookingID)
	require.ErrorIs(test, err, hotel.ErrBookingNotFound)
	require.NoError(test, mock.ExpectationsWereMet())
}

func TestLockRoomSelectsForUpdate(test *testing.T) {
	test.Parallel()
	store, mock := newMockStore(test)

	mock.ExpectQuery(`from rooms where id = \$1 for update`).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "number", "type", "capacity", "base_price_cents",
			"low_season_price_cents", "high_season_price_cents", "three_hour_price_cents", "status",
		}).AddRow(int64(5), "501", "single", 1, int64(8000), nil, nil, nil, "booked"))

	roomID, err := hotel.NewRoomID(5)
	require.NoError(test, err)
	room, err := store.LockRoom(context.Background(), roomID)
	require.NoError(test, err)
	require.Equal(test, "501", room.Number)
	require.Equal(test, hotel.AmountCents(8000), room.BasePrice)
	require.Nil(test, room.ThreeHourPrice)
	require.Equal(test, hotel.RoomStatusBooked, room.Status)
	require.NoError(test, mock.ExpectationsWereMet())
}

func TestDashboardTotalsScansCounters(test *testing.T) {
	test.Parallel()
	store, mock := newMockStore(test)

	mock.ExpectQuery(`select count\(\*\) from rooms where status = 'available'`).
		WillReturnRows(pgxmock.NewRows([]string{"bookings", "guests", "revenue", "available"}).
			AddRow(int64(12), int64(8), int64(345000), int64(4)))

	totals, err := store.DashboardTotals(context.Background())
	require.NoError(test, err)
	require.Equal(test, hotel.DashboardTotals{Bookings: 12, Guests: 8, Revenue: 345000, AvailableRooms: 4}, totals)
	require.NoError(test, mock.ExpectationsWereMet())
}
