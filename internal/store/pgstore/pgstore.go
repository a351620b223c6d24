package pgstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MarkoPoloResearchLab/innkeeper/pkg/hotel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolationCode     = "23505"
	constraintRoomNumber      = "uniq_rooms_number"
	errorOperationStore       = "store"
	errorSubjectRoom          = "room"
	errorSubjectGuest         = "guest"
	errorSubjectBooking       = "booking"
	errorSubjectBookingDetail = "booking_detail"
	errorSubjectDashboard     = "dashboard"
	errorSubjectPayment       = "payment"
	errorSubjectGuestHistory  = "guest_history"
	errorSubjectTransaction   = "transaction"
	errorCodeBegin            = "begin"
	errorCodeCommit           = "commit"
	errorCodeCount            = "count"
	errorCodeCreate           = "create"
	errorCodeDelete           = "delete"
	errorCodeDuplicate        = "duplicate"
	errorCodeGet              = "get"
	errorCodeInsert           = "insert"
	errorCodeInvalid          = "invalid"
	errorCodeList             = "list"
	errorCodeSum              = "sum"
	errorCodeUpdate           = "update"
	errorCodeUpdateStatus     = "update_status"

	roomColumns = `id, number, type, capacity, base_price_cents, low_season_price_cents, high_season_price_cents, three_hour_price_cents, status`

	bookingColumns = `b.id, b.guest_id, b.room_id, b.check_in_date, b.check_out_date, b.check_in_time, b.check_out_time,
		b.price_type, b.calculated_price_cents, b.payment_status, b.status,
		extract(epoch from b.created_at)::bigint, extract(epoch from b.updated_at)::bigint`

	sqlInsertRoom = `
		insert into rooms(number, type, capacity, base_price_cents, low_season_price_cents, high_season_price_cents, three_hour_price_cents, status, created_at, updated_at)
		values ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		returning id
	`

	sqlUpdateRoom = `
		update rooms
		set number = $2, type = $3, capacity = $4, base_price_cents = $5,
			low_season_price_cents = $6, high_season_price_cents = $7, three_hour_price_cents = $8,
			status = $9, updated_at = now()
		where id = $1
	`

	sqlUpdateRoomStatus   = `update rooms set status = $2, updated_at = now() where id = $1`
	sqlDeleteRoomPayments = `delete from payments where booking_id in (select id from bookings where room_id = $1)`
	sqlDeleteRoomBookings = `delete from bookings where room_id = $1`
	sqlDeleteRoom         = `delete from rooms where id = $1`
	sqlSelectRoom         = `select ` + roomColumns + ` from rooms where id = $1`
	sqlLockRoom           = `select ` + roomColumns + ` from rooms where id = $1 for update`
	sqlListRooms          = `select ` + roomColumns + ` from rooms order by number asc`

	sqlInsertGuest = `
		insert into guests(name, contact, email, created_at, updated_at)
		values ($1, $2, $3, now(), now())
		returning id
	`

	sqlUpdateGuest        = `update guests set name = $2, contact = $3, email = $4, updated_at = now() where id = $1`
	sqlDeleteGuestHistory = `delete from guest_history where guest_id = $1`
	sqlDeleteGuest        = `delete from guests where id = $1`
	sqlSelectGuest        = `select id, name, contact, email from guests where id = $1`
	sqlListGuests         = `select id, name, contact, email from guests order by name asc, id asc`

	sqlInsertBooking = `
		insert into bookings(guest_id, room_id, check_in_date, check_out_date, check_in_time, check_out_time,
			price_type, calculated_price_cents, payment_status, status, created_at, updated_at)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, to_timestamp($11::bigint), to_timestamp($12::bigint))
		returning id
	`

	sqlUpdateBooking = `
		update bookings
		set guest_id = $2, room_id = $3, check_in_date = $4, check_out_date = $5,
			check_in_time = $6, check_out_time = $7, price_type = $8, calculated_price_cents = $9,
			payment_status = $10, status = $11, updated_at = to_timestamp($12::bigint)
		where id = $1
	`

	sqlDeletePaymentsForBooking = `delete from payments where booking_id = $1`
	sqlDeleteBooking            = `delete from bookings where id = $1`
	sqlSelectBookingForUpdate   = `select ` + bookingColumns + ` from bookings b where b.id = $1 for update`

	sqlListActiveBookings = `
		select ` + bookingColumns + `
		from bookings b
		where b.status <> 'cancelled' and b.check_in_date <= $1 and b.check_out_date >= $2
		and ($3::bigint = 0 or b.room_id = $3)
		order by b.id asc
	`

	sqlCountBookings = `
		select count(*) from bookings
		where ($1::bigint = 0 or guest_id = $1)
		and ($2::bigint = 0 or room_id = $2)
		and (not $3 or status <> 'cancelled')
	`

	sqlBookingDetailBase = `
		select ` + bookingColumns + `, g.name, r.number, coalesce(p.total, 0)::bigint
		from bookings b
		join guests g on g.id = b.guest_id
		join rooms r on r.id = b.room_id
		left join (select booking_id, sum(amount_cents) as total from payments group by booking_id) p on p.booking_id = b.id
	`

	sqlBookingDetailOrder = ` order by b.check_in_date desc, b.id desc`

	sqlInsertPayment = `
		insert into payments(booking_id, amount_cents, method, reference, metadata, paid_at)
		values ($1, $2, $3, $4, coalesce(nullif($5,''),'{}')::jsonb, to_timestamp($6::bigint))
		returning id
	`

	sqlSumPayments = `select coalesce(sum(amount_cents),0)::bigint from payments where booking_id = $1`

	sqlDashboardTotals = `
		select
			(select count(*) from bookings),
			(select count(*) from guests),
			(select coalesce(sum(amount_cents),0)::bigint from payments),
			(select count(*) from rooms where status = 'available')
	`

	sqlListPayments = `
		select id, booking_id, amount_cents, method, reference, coalesce(metadata::text,'{}'), extract(epoch from paid_at)::bigint
		from payments where booking_id = $1
		order by paid_at asc, id asc
	`

	sqlInsertGuestHistory = `
		insert into guest_history(guest_id, room_id, booking_id, check_in_date, check_out_date, metadata, recorded_at)
		values ($1, $2, $3, $4, $5, coalesce(nullif($6,''),'{}')::jsonb, to_timestamp($7::bigint))
	`

	sqlListGuestHistory = `
		select guest_id, room_id, booking_id, check_in_date, check_out_date, coalesce(metadata::text,'{}'), extract(epoch from recorded_at)::bigint
		from guest_history where guest_id = $1
		order by recorded_at desc, id desc
	`
)

// querier is the subset of pgx shared by the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// transactor is a querier that can also open transactions, as *pgxpool.Pool does.
type transactor interface {
	querier
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// Store implements hotel.Store using a pgx connection pool (autocommit).
type Store struct {
	queries
	pool transactor
}

// TxStore implements hotel.Store for an active transaction.
type TxStore struct {
	queries
}

// New returns a Store backed by a pgx pool.
func New(pool *pgxpool.Pool) *Store {
	return newStore(pool)
}

func newStore(pool transactor) *Store {
	return &Store{queries: queries{db: pool}, pool: pool}
}

func (store *Store) WithTx(ctx context.Context, fn func(ctx context.Context, txStore hotel.Store) error) error {
	tx, err := store.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return wrapStoreError(errorSubjectTransaction, errorCodeBegin, err)
	}
	transactionStore := &TxStore{queries: queries{db: tx}}
	if err := fn(ctx, transactionStore); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return wrapStoreError(errorSubjectTransaction, errorCodeCommit, err)
	}
	return nil
}

func (store *TxStore) WithTx(ctx context.Context, fn func(ctx context.Context, txStore hotel.Store) error) error {
	return fn(ctx, store)
}

type queries struct {
	db querier
}

func (q queries) CreateRoom(ctx context.Context, room hotel.Room) (hotel.RoomID, error) {
	var id int64
	err := q.db.QueryRow(ctx, sqlInsertRoom,
		room.Number,
		room.Type,
		room.Capacity,
		room.BasePrice.Int64(),
		optionalCents(room.LowSeasonPrice),
		optionalCents(room.HighSeasonPrice),
		optionalCents(room.ThreeHourPrice),
		room.Status.String(),
	).Scan(&id)
	if isUniqueViolation(err, constraintRoomNumber) {
		return hotel.RoomID{}, wrapStoreError(errorSubjectRoom, errorCodeDuplicate, hotel.ErrDuplicateRoom)
	}
	if err != nil {
		return hotel.RoomID{}, wrapStoreError(errorSubjectRoom, errorCodeCreate, err)
	}
	roomID, err := hotel.NewRoomID(id)
	if err != nil {
		return hotel.RoomID{}, wrapStoreError(errorSubjectRoom, errorCodeInvalid, err)
	}
	return roomID, nil
}

func (q queries) UpdateRoom(ctx context.Context, room hotel.Room) error {
	tag, err := q.db.Exec(ctx, sqlUpdateRoom,
		room.ID.Int64(),
		room.Number,
		room.Type,
		room.Capacity,
		room.BasePrice.Int64(),
		optionalCents(room.LowSeasonPrice),
		optionalCents(room.HighSeasonPrice),
		optionalCents(room.ThreeHourPrice),
		room.Status.String(),
	)
	if isUniqueViolation(err, constraintRoomNumber) {
		return wrapStoreError(errorSubjectRoom, errorCodeDuplicate, hotel.ErrDuplicateRoom)
	}
	return checkAffected(tag, err, errorSubjectRoom, errorCodeUpdate, hotel.ErrRoomNotFound)
}

func (q queries) UpdateRoomStatus(ctx context.Context, roomID hotel.RoomID, status hotel.RoomStatus) error {
	tag, err := q.db.Exec(ctx, sqlUpdateRoomStatus, roomID.Int64(), status.String())
	return checkAffected(tag, err, errorSubjectRoom, errorCodeUpdateStatus, hotel.ErrRoomNotFound)
}

// DeleteRoom removes the room with its bookings and their payments. Callers run it inside WithTx.
func (q queries) DeleteRoom(ctx context.Context, roomID hotel.RoomID) error {
	if _, err := q.db.Exec(ctx, sqlDeleteRoomPayments, roomID.Int64()); err != nil {
		return wrapStoreError(errorSubjectPayment, errorCodeDelete, err)
	}
	if _, err := q.db.Exec(ctx, sqlDeleteRoomBookings, roomID.Int64()); err != nil {
		return wrapStoreError(errorSubjectBooking, errorCodeDelete, err)
	}
	tag, err := q.db.Exec(ctx, sqlDeleteRoom, roomID.Int64())
	return checkAffected(tag, err, errorSubjectRoom, errorCodeDelete, hotel.ErrRoomNotFound)
}

func (q queries) GetRoom(ctx context.Context, roomID hotel.RoomID) (hotel.Room, error) {
	room, err := scanRoom(q.db.QueryRow(ctx, sqlSelectRoom, roomID.Int64()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return hotel.Room{}, wrapStoreError(errorSubjectRoom, errorCodeGet, hotel.ErrRoomNotFound)
		}
		return hotel.Room{}, wrapStoreError(errorSubjectRoom, errorCodeGet, err)
	}
	return room, nil
}

// LockRoom reads the room and holds its row lock until the surrounding transaction ends.
func (q queries) LockRoom(ctx context.Context, roomID hotel.RoomID) (hotel.Room, error) {
	room, err := scanRoom(q.db.QueryRow(ctx, sqlLockRoom, roomID.Int64()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return hotel.Room{}, wrapStoreError(errorSubjectRoom, errorCodeGet, hotel.ErrRoomNotFound)
		}
		return hotel.Room{}, wrapStoreError(errorSubjectRoom, errorCodeGet, err)
	}
	return room, nil
}

func (q queries) ListRooms(ctx context.Context) ([]hotel.Room, error) {
	rows, err := q.db.Query(ctx, sqlListRooms)
	if err != nil {
		return nil, wrapStoreError(errorSubjectRoom, errorCodeList, err)
	}
	defer rows.Close()
	var rooms []hotel.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, wrapStoreError(errorSubjectRoom, errorCodeInvalid, err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreError(errorSubjectRoom, errorCodeList, err)
	}
	return rooms, nil
}

func (q queries) CreateGuest(ctx context.Context, guest hotel.Guest) (hotel.GuestID, error) {
	var id int64
	if err := q.db.QueryRow(ctx, sqlInsertGuest, guest.Name, guest.Contact, guest.Email).Scan(&id); err != nil {
		return hotel.GuestID{}, wrapStoreError(errorSubjectGuest, errorCodeCreate, err)
	}
	guestID, err := hotel.NewGuestID(id)
	if err != nil {
		return hotel.GuestID{}, wrapStoreError(errorSubjectGuest, errorCodeInvalid, err)
	}
	return guestID, nil
}

func (q queries) UpdateGuest(ctx context.Context, guest hotel.Guest) error {
	tag, err := q.db.Exec(ctx, sqlUpdateGuest, guest.ID.Int64(), guest.Name, guest.Contact, guest.Email)
	return checkAffected(tag, err, errorSubjectGuest, errorCodeUpdate, hotel.ErrGuestNotFound)
}

// DeleteGuest removes the guest and its check-in history. Callers run it inside WithTx.
func (q queries) DeleteGuest(ctx context.Context, guestID hotel.GuestID) error {
	if _, err := q.db.Exec(ctx, sqlDeleteGuestHistory, guestID.Int64()); err != nil {
		return wrapStoreError(errorSubjectGuestHistory, errorCodeDelete, err)
	}
	tag, err := q.db.Exec(ctx, sqlDeleteGuest, guestID.Int64())
	return checkAffected(tag, err, errorSubjectGuest, errorCodeDelete, hotel.ErrGuestNotFound)
}

func (q queries) GetGuest(ctx context.Context, guestID hotel.GuestID) (hotel.Guest, error) {
	guest, err := scanGuest(q.db.QueryRow(ctx, sqlSelectGuest, guestID.Int64()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return hotel.Guest{}, wrapStoreError(errorSubjectGuest, errorCodeGet, hotel.ErrGuestNotFound)
		}
		return hotel.Guest{}, wrapStoreError(errorSubjectGuest, errorCodeGet, err)
	}
	return guest, nil
}

func (q queries) ListGuests(ctx context.Context) ([]hotel.Guest, error) {
	rows, err := q.db.Query(ctx, sqlListGuests)
	if err != nil {
		return nil, wrapStoreError(errorSubjectGuest, errorCodeList, err)
	}
	defer rows.Close()
	var guests []hotel.Guest
	for rows.Next() {
		guest, err := scanGuest(rows)
		if err != nil {
			return nil, wrapStoreError(errorSubjectGuest, errorCodeInvalid, err)
		}
		guests = append(guests, guest)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreError(errorSubjectGuest, errorCodeList, err)
	}
	return guests, nil
}

func (q queries) CreateBooking(ctx context.Context, booking hotel.Booking) (hotel.BookingID, error) {
	var id int64
	err := q.db.QueryRow(ctx, sqlInsertBooking,
		booking.GuestID.Int64(),
		booking.RoomID.Int64(),
		booking.Stay.CheckInDate.String(),
		booking.Stay.CheckOutDate.String(),
		booking.Stay.CheckInTime.String(),
		booking.Stay.CheckOutTime.String(),
		booking.PriceType.String(),
		booking.CalculatedPrice.Int64(),
		booking.PaymentStatus.String(),
		booking.Status.String(),
		booking.CreatedUnixUTC,
		booking.UpdatedUnixUTC,
	).Scan(&id)
	if isUniqueViolation(err, "") {
		return hotel.BookingID{}, wrapStoreError(errorSubjectBooking, errorCodeDuplicate, hotel.ErrRoomAlreadyBooked)
	}
	if err != nil {
		return hotel.BookingID{}, wrapStoreError(errorSubjectBooking, errorCodeInsert, err)
	}
	bookingID, err := hotel.NewBookingID(id)
	if err != nil {
		return hotel.BookingID{}, wrapStoreError(errorSubjectBooking, errorCodeInvalid, err)
	}
	return bookingID, nil
}

func (q queries) UpdateBooking(ctx context.Context, booking hotel.Booking) error {
	tag, err := q.db.Exec(ctx, sqlUpdateBooking,
		booking.ID.Int64(),
		booking.GuestID.Int64(),
		booking.RoomID.Int64(),
		booking.Stay.CheckInDate.String(),
		booking.Stay.CheckOutDate.String(),
		booking.Stay.CheckInTime.String(),
		booking.Stay.CheckOutTime.String(),
		booking.PriceType.String(),
		booking.CalculatedPrice.Int64(),
		booking.PaymentStatus.String(),
		booking.Status.String(),
		booking.UpdatedUnixUTC,
	)
	if isUniqueViolation(err, "") {
		return wrapStoreError(errorSubjectBooking, errorCodeDuplicate, hotel.ErrRoomAlreadyBooked)
	}
	return checkAffected(tag, err, errorSubjectBooking, errorCodeUpdate, hotel.ErrBookingNotFound)
}

// DeleteBooking removes the booking and its payments. Callers run it inside WithTx.
func (q queries) DeleteBooking(ctx context.Context, bookingID hotel.BookingID) error {
	if _, err := q.db.Exec(ctx, sqlDeletePaymentsForBooking, bookingID.Int64()); err != nil {
		return wrapStoreError(errorSubjectPayment, errorCodeDelete, err)
	}
	tag, err := q.db.Exec(ctx, sqlDeleteBooking, bookingID.Int64())
	return checkAffected(tag, err, errorSubjectBooking, errorCodeDelete, hotel.ErrBookingNotFound)
}

func (q queries) GetBooking(ctx context.Context, bookingID hotel.BookingID) (hotel.Booking, error) {
	booking, err := scanBooking(q.db.QueryRow(ctx, sqlSelectBookingForUpdate, bookingID.Int64()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return hotel.Booking{}, wrapStoreError(errorSubjectBooking, errorCodeGet, hotel.ErrBookingNotFound)
		}
		return hotel.Booking{}, wrapStoreError(errorSubjectBooking, errorCodeGet, err)
	}
	return booking, nil
}

func (q queries) CountBookings(ctx context.Context, filter hotel.BookingCountFilter) (int64, error) {
	var guestID, roomID int64
	if filter.GuestID != nil {
		guestID = filter.GuestID.Int64()
	}
	if filter.RoomID != nil {
		roomID = filter.RoomID.Int64()
	}
	var count int64
	if err := q.db.QueryRow(ctx, sqlCountBookings, guestID, roomID, filter.ActiveOnly).Scan(&count); err != nil {
		return 0, wrapStoreError(errorSubjectBooking, errorCodeCount, err)
	}
	return count, nil
}

func (q queries) ListActiveBookings(ctx context.Context, window hotel.BookingWindow) ([]hotel.Booking, error) {
	var roomID int64
	if window.RoomID != nil {
		roomID = window.RoomID.Int64()
	}
	rows, err := q.db.Query(ctx, sqlListActiveBookings, window.ToDate.String(), window.FromDate.String(), roomID)
	if err != nil {
		return nil, wrapStoreError(errorSubjectBooking, errorCodeList, err)
	}
	defer rows.Close()
	var bookings []hotel.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, wrapStoreError(errorSubjectBooking, errorCodeInvalid, err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreError(errorSubjectBooking, errorCodeList, err)
	}
	return bookings, nil
}

func (q queries) ListBookingDetails(ctx context.Context, filter hotel.DetailFilter) ([]hotel.BookingDetail, error) {
	query, args := buildBookingDetailQuery(filter)
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapStoreError(errorSubjectBookingDetail, errorCodeList, err)
	}
	defer rows.Close()
	var details []hotel.BookingDetail
	for rows.Next() {
		detail, err := scanBookingDetail(rows)
		if err != nil {
			return nil, wrapStoreError(errorSubjectBookingDetail, errorCodeInvalid, err)
		}
		details = append(details, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreError(errorSubjectBookingDetail, errorCodeList, err)
	}
	return details, nil
}

func (q queries) InsertPayment(ctx context.Context, payment hotel.Payment) (hotel.PaymentID, error) {
	var id int64
	err := q.db.QueryRow(ctx, sqlInsertPayment,
		payment.BookingID.Int64(),
		payment.Amount.Int64(),
		payment.Method.String(),
		payment.Reference,
		payment.Metadata.String(),
		payment.PaidUnixUTC,
	).Scan(&id)
	if err != nil {
		return hotel.PaymentID{}, wrapStoreError(errorSubjectPayment, errorCodeInsert, err)
	}
	paymentID, err := hotel.NewPaymentID(id)
	if err != nil {
		return hotel.PaymentID{}, wrapStoreError(errorSubjectPayment, errorCodeInvalid, err)
	}
	return paymentID, nil
}

func (q queries) SumPayments(ctx context.Context, bookingID hotel.BookingID) (hotel.AmountCents, error) {
	var sum int64
	if err := q.db.QueryRow(ctx, sqlSumPayments, bookingID.Int64()).Scan(&sum); err != nil {
		return 0, wrapStoreError(errorSubjectPayment, errorCodeSum, err)
	}
	total, err := hotel.NewAmountCents(sum)
	if err != nil {
		return 0, wrapStoreError(errorSubjectPayment, errorCodeInvalid, err)
	}
	return total, nil
}

func (q queries) DashboardTotals(ctx context.Context) (hotel.DashboardTotals, error) {
	var (
		totals  hotel.DashboardTotals
		revenue int64
	)
	err := q.db.QueryRow(ctx, sqlDashboardTotals).Scan(&totals.Bookings, &totals.Guests, &revenue, &totals.AvailableRooms)
	if err != nil {
		return hotel.DashboardTotals{}, wrapStoreError(errorSubjectDashboard, errorCodeCount, err)
	}
	amount, err := hotel.NewAmountCents(revenue)
	if err != nil {
		return hotel.DashboardTotals{}, wrapStoreError(errorSubjectDashboard, errorCodeInvalid, err)
	}
	totals.Revenue = amount
	return totals, nil
}

func (q queries) ListPayments(ctx context.Context, bookingID hotel.BookingID) ([]hotel.Payment, error) {
	rows, err := q.db.Query(ctx, sqlListPayments, bookingID.Int64())
	if err != nil {
		return nil, wrapStoreError(errorSubjectPayment, errorCodeList, err)
	}
	defer rows.Close()
	var payments []hotel.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, wrapStoreError(errorSubjectPayment, errorCodeInvalid, err)
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreError(errorSubjectPayment, errorCodeList, err)
	}
	return payments, nil
}

func (q queries) InsertGuestHistory(ctx context.Context, entry hotel.GuestHistoryEntry) error {
	_, err := q.db.Exec(ctx, sqlInsertGuestHistory,
		entry.GuestID.Int64(),
		entry.RoomID.Int64(),
		entry.BookingID.Int64(),
		entry.CheckInDate.String(),
		entry.CheckOutDate.String(),
		entry.Metadata.String(),
		entry.RecordedUnixUTC,
	)
	if err != nil {
		return wrapStoreError(errorSubjectGuestHistory, errorCodeInsert, err)
	}
	return nil
}

func (q queries) ListGuestHistory(ctx context.Context, guestID hotel.GuestID) ([]hotel.GuestHistoryEntry, error) {
	rows, err := q.db.Query(ctx, sqlListGuestHistory, guestID.Int64())
	if err != nil {
		return nil, wrapStoreError(errorSubjectGuestHistory, errorCodeList, err)
	}
	defer rows.Close()
	var entries []hotel.GuestHistoryEntry
	for rows.Next() {
		entry, err := scanGuestHistory(rows)
		if err != nil {
			return nil, wrapStoreError(errorSubjectGuestHistory, errorCodeInvalid, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreError(errorSubjectGuestHistory, errorCodeList, err)
	}
	return entries, nil
}

func buildBookingDetailQuery(filter hotel.DetailFilter) (string, []any) {
	var (
		conditions []string
		args       []any
	)
	addArg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.BookingID != nil {
		conditions = append(conditions, "b.id = "+addArg(filter.BookingID.Int64()))
	}
	switch filter.PaymentState {
	case hotel.PaymentStatePaid:
		conditions = append(conditions, "b.calculated_price_cents - coalesce(p.total, 0) <= 0")
	case hotel.PaymentStateUnpaid:
		conditions = append(conditions, "b.calculated_price_cents - coalesce(p.total, 0) > 0")
	}
	if filter.Search != "" {
		placeholder := addArg("%" + strings.ToLower(filter.Search) + "%")
		conditions = append(conditions, "(lower(g.name) like "+placeholder+" or lower(r.number) like "+placeholder+")")
	}
	if filter.CheckInFrom != nil {
		conditions = append(conditions, "b.check_in_date >= "+addArg(filter.CheckInFrom.String()))
	}
	if filter.CheckInOn != nil {
		conditions = append(conditions, "b.check_in_date = "+addArg(filter.CheckInOn.String()))
	}
	if filter.CheckOutOn != nil {
		conditions = append(conditions, "b.check_out_date = "+addArg(filter.CheckOutOn.String()))
	}
	query := sqlBookingDetailBase
	if len(conditions) > 0 {
		query += " where " + strings.Join(conditions, " and ")
	}
	query += sqlBookingDetailOrder
	if filter.Limit > 0 {
		query += " limit " + addArg(filter.Limit)
	}
	return query, args
}

func checkAffected(tag pgconn.CommandTag, err error, subject string, code string, missing error) error {
	if err != nil {
		return wrapStoreError(subject, code, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapStoreError(subject, code, missing)
	}
	return nil
}

func wrapStoreError(subject string, code string, err error) error {
	return hotel.WrapError(errorOperationStore, subject, code, err)
}

func optionalCents(amount *hotel.AmountCents) *int64 {
	if amount == nil {
		return nil
	}
	value := amount.Int64()
	return &value
}

// isUniqueViolation matches any unique violation when constraint is empty.
func isUniqueViolation(err error, constraint string) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolationCode {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
