package gormstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MarkoPoloResearchLab/innkeeper/pkg/hotel"
	gosqlite "github.com/glebarez/go-sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	pgUniqueViolationCode       = "23505"
	sqliteConstraintUnique      = 2067
	sqliteConstraintPrimaryKey  = 1555
	sqliteUniqueMessage         = "UNIQUE constraint failed"
	errorOperationStore         = "store"
	errorSubjectRoom            = "room"
	errorSubjectGuest           = "guest"
	errorSubjectBooking         = "booking"
	errorSubjectBookingDetail   = "booking_detail"
	errorSubjectDashboard       = "dashboard"
	errorSubjectPayment         = "payment"
	errorSubjectGuestHistory    = "guest_history"
	errorCodeCount              = "count"
	errorCodeCreate             = "create"
	errorCodeDelete             = "delete"
	errorCodeDuplicate          = "duplicate"
	errorCodeGet                = "get"
	errorCodeInsert             = "insert"
	errorCodeInvalid            = "invalid"
	errorCodeList               = "list"
	errorCodeSum                = "sum"
	errorCodeUpdate             = "update"
	errorCodeUpdateStatus       = "update_status"
	searchPatternWildcard       = "%"
	bookingDetailOrder          = "bookings.check_in_date DESC, bookings.id DESC"
	bookingDetailPaidSubquery   = "LEFT JOIN (SELECT booking_id, SUM(amount_cents) AS total FROM payments GROUP BY booking_id) AS paid ON paid.booking_id = bookings.id"
	bookingDetailSelectColumns  = "bookings.*, guests.name AS guest_name, rooms.number AS room_number, COALESCE(paid.total, 0) AS paid_cents"
	bookingDetailOutstandingSQL = "bookings.calculated_price_cents - COALESCE(paid.total, 0)"
)

// Store implements hotel.Store using GORM.
type Store struct {
	db *gorm.DB
}

// New returns a Store backed by gorm.DB.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// WithTx executes fn within a transaction.
func (store *Store) WithTx(ctx context.Context, fn func(ctx context.Context, txStore hotel.Store) error) error {
	return store.db.WithContext(ctx).Transaction(func(transaction *gorm.DB) error {
		return fn(ctx, &Store{db: transaction})
	})
}

func (store *Store) CreateRoom(ctx context.Context, room hotel.Room) (hotel.RoomID, error) {
	model := roomModel(room)
	err := store.db.WithContext(ctx).Create(&model).Error
	if isUniqueViolation(err) {
		return hotel.RoomID{}, wrapStoreError(errorSubjectRoom, errorCodeDuplicate, hotel.ErrDuplicateRoom)
	}
	if err != nil {
		return hotel.RoomID{}, wrapStoreError(errorSubjectRoom, errorCodeCreate, err)
	}
	roomID, err := hotel.NewRoomID(model.ID)
	if err != nil {
		return hotel.RoomID{}, wrapStoreError(errorSubjectRoom, errorCodeInvalid, err)
	}
	return roomID, nil
}

func (store *Store) UpdateRoom(ctx context.Context, room hotel.Room) error {
	result := store.db.WithContext(ctx).
		Model(&Room{}).
		Where("id = ?", room.ID.Int64()).
		Updates(map[string]any{
			"number":                  room.Number,
			"type":                    room.Type,
			"capacity":                room.Capacity,
			"base_price_cents":        room.BasePrice.Int64(),
			"low_season_price_cents":  optionalCents(room.LowSeasonPrice),
			"high_season_price_cents": optionalCents(room.HighSeasonPrice),
			"three_hour_price_cents":  optionalCents(room.ThreeHourPrice),
			"status":                  room.Status.String(),
			"updated_at":              time.Now().UTC(),
		})
	if isUniqueViolation(result.Error) {
		return wrapStoreError(errorSubjectRoom, errorCodeDuplicate, hotel.ErrDuplicateRoom)
	}
	if result.Error != nil {
		return wrapStoreError(errorSubjectRoom, errorCodeUpdate, result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapStoreError(errorSubjectRoom, errorCodeUpdate, hotel.ErrRoomNotFound)
	}
	return nil
}

func (store *Store) UpdateRoomStatus(ctx context.Context, roomID hotel.RoomID, status hotel.RoomStatus) error {
	result := store.db.WithContext(ctx).
		Model(&Room{}).
		Where("id = ?", roomID.Int64()).
		Updates(map[string]any{"status": status.String(), "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return wrapStoreError(errorSubjectRoom, errorCodeUpdateStatus, result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapStoreError(errorSubjectRoom, errorCodeUpdateStatus, hotel.ErrRoomNotFound)
	}
	return nil
}

// DeleteRoom removes the room with every booking and payment still pointing at it.
func (store *Store) DeleteRoom(ctx context.Context, roomID hotel.RoomID) error {
	return store.db.WithContext(ctx).Transaction(func(transaction *gorm.DB) error {
		roomBookings := transaction.Model(&Booking{}).Select("id").Where("room_id = ?", roomID.Int64())
		if err := transaction.Where("booking_id IN (?)", roomBookings).Delete(&Payment{}).Error; err != nil {
			return wrapStoreError(errorSubjectPayment, errorCodeDelete, err)
		}
		if err := transaction.Where("room_id = ?", roomID.Int64()).Delete(&Booking{}).Error; err != nil {
			return wrapStoreError(errorSubjectBooking, errorCodeDelete, err)
		}
		result := transaction.Delete(&Room{}, roomID.Int64())
		if result.Error != nil {
			return wrapStoreError(errorSubjectRoom, errorCodeDelete, result.Error)
		}
		if result.RowsAffected == 0 {
			return wrapStoreError(errorSubjectRoom, errorCodeDelete, hotel.ErrRoomNotFound)
		}
		return nil
	})
}

func (store *Store) GetRoom(ctx context.Context, roomID hotel.RoomID) (hotel.Room, error) {
	return takeRoom(store.db.WithContext(ctx), roomID)
}

// LockRoom reads the room with SELECT ... FOR UPDATE; dialects without row locks ignore the clause.
func (store *Store) LockRoom(ctx context.Context, roomID hotel.RoomID) (hotel.Room, error) {
	return takeRoom(store.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), roomID)
}

func takeRoom(query *gorm.DB, roomID hotel.RoomID) (hotel.Room, error) {
	var model Room
	err := query.Where("id = ?", roomID.Int64()).Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return hotel.Room{}, wrapStoreError(errorSubjectRoom, errorCodeGet, hotel.ErrRoomNotFound)
		}
		return hotel.Room{}, wrapStoreError(errorSubjectRoom, errorCodeGet, err)
	}
	room, err := mapRoom(model)
	if err != nil {
		return hotel.Room{}, wrapStoreError(errorSubjectRoom, errorCodeInvalid, err)
	}
	return room, nil
}

func (store *Store) ListRooms(ctx context.Context) ([]hotel.Room, error) {
	var rows []Room
	if err := store.db.WithContext(ctx).Order("number ASC").Find(&rows).Error; err != nil {
		return nil, wrapStoreError(errorSubjectRoom, errorCodeList, err)
	}
	rooms := make([]hotel.Room, 0, len(rows))
	for _, row := range rows {
		room, err := mapRoom(row)
		if err != nil {
			return nil, wrapStoreError(errorSubjectRoom, errorCodeInvalid, err)
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func (store *Store) CreateGuest(ctx context.Context, guest hotel.Guest) (hotel.GuestID, error) {
	model := Guest{Name: guest.Name, Contact: guest.Contact, Email: guest.Email}
	if err := store.db.WithContext(ctx).Create(&model).Error; err != nil {
		return hotel.GuestID{}, wrapStoreError(errorSubjectGuest, errorCodeCreate, err)
	}
	guestID, err := hotel.NewGuestID(model.ID)
	if err != nil {
		return hotel.GuestID{}, wrapStoreError(errorSubjectGuest, errorCodeInvalid, err)
	}
	return guestID, nil
}

func (store *Store) UpdateGuest(ctx context.Context, guest hotel.Guest) error {
	result := store.db.WithContext(ctx).
		Model(&Guest{}).
		Where("id = ?", guest.ID.Int64()).
		Updates(map[string]any{
			"name":       guest.Name,
			"contact":    guest.Contact,
			"email":      guest.Email,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return wrapStoreError(errorSubjectGuest, errorCodeUpdate, result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapStoreError(errorSubjectGuest, errorCodeUpdate, hotel.ErrGuestNotFound)
	}
	return nil
}

// DeleteGuest removes the guest together with its check-in history.
func (store *Store) DeleteGuest(ctx context.Context, guestID hotel.GuestID) error {
	return store.db.WithContext(ctx).Transaction(func(transaction *gorm.DB) error {
		if err := transaction.Where("guest_id = ?", guestID.Int64()).Delete(&GuestHistory{}).Error; err != nil {
			return wrapStoreError(errorSubjectGuestHistory, errorCodeDelete, err)
		}
		result := transaction.Delete(&Guest{}, guestID.Int64())
		if result.Error != nil {
			return wrapStoreError(errorSubjectGuest, errorCodeDelete, result.Error)
		}
		if result.RowsAffected == 0 {
			return wrapStoreError(errorSubjectGuest, errorCodeDelete, hotel.ErrGuestNotFound)
		}
		return nil
	})
}

func (store *Store) GetGuest(ctx context.Context, guestID hotel.GuestID) (hotel.Guest, error) {
	var model Guest
	err := store.db.WithContext(ctx).Where("id = ?", guestID.Int64()).Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return hotel.Guest{}, wrapStoreError(errorSubjectGuest, errorCodeGet, hotel.ErrGuestNotFound)
		}
		return hotel.Guest{}, wrapStoreError(errorSubjectGuest, errorCodeGet, err)
	}
	guest, err := mapGuest(model)
	if err != nil {
		return hotel.Guest{}, wrapStoreError(errorSubjectGuest, errorCodeInvalid, err)
	}
	return guest, nil
}

func (store *Store) ListGuests(ctx context.Context) ([]hotel.Guest, error) {
	var rows []Guest
	if err := store.db.WithContext(ctx).Order("name ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, wrapStoreError(errorSubjectGuest, errorCodeList, err)
	}
	guests := make([]hotel.Guest, 0, len(rows))
	for _, row := range rows {
		guest, err := mapGuest(row)
		if err != nil {
			return nil, wrapStoreError(errorSubjectGuest, errorCodeInvalid, err)
		}
		guests = append(guests, guest)
	}
	return guests, nil
}

func (store *Store) CreateBooking(ctx context.Context, booking hotel.Booking) (hotel.BookingID, error) {
	model := bookingModel(booking)
	err := store.db.WithContext(ctx).Omit(clause.Associations).Create(&model).Error
	if isUniqueViolation(err) {
		return hotel.BookingID{}, wrapStoreError(errorSubjectBooking, errorCodeDuplicate, hotel.ErrRoomAlreadyBooked)
	}
	if err != nil {
		return hotel.BookingID{}, wrapStoreError(errorSubjectBooking, errorCodeInsert, err)
	}
	bookingID, err := hotel.NewBookingID(model.ID)
	if err != nil {
		return hotel.BookingID{}, wrapStoreError(errorSubjectBooking, errorCodeInvalid, err)
	}
	return bookingID, nil
}

func (store *Store) UpdateBooking(ctx context.Context, booking hotel.Booking) error {
	result := store.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ?", booking.ID.Int64()).
		Updates(map[string]any{
			"guest_id":               booking.GuestID.Int64(),
			"room_id":                booking.RoomID.Int64(),
			"check_in_date":          booking.Stay.CheckInDate.String(),
			"check_out_date":         booking.Stay.CheckOutDate.String(),
			"check_in_time":          booking.Stay.CheckInTime.String(),
			"check_out_time":         booking.Stay.CheckOutTime.String(),
			"price_type":             booking.PriceType.String(),
			"calculated_price_cents": booking.CalculatedPrice.Int64(),
			"payment_status":         booking.PaymentStatus.String(),
			"status":                 booking.Status.String(),
			"updated_at":             unixToTime(booking.UpdatedUnixUTC),
		})
	if isUniqueViolation(result.Error) {
		return wrapStoreError(errorSubjectBooking, errorCodeDuplicate, hotel.ErrRoomAlreadyBooked)
	}
	if result.Error != nil {
		return wrapStoreError(errorSubjectBooking, errorCodeUpdate, result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapStoreError(errorSubjectBooking, errorCodeUpdate, hotel.ErrBookingNotFound)
	}
	return nil
}

// DeleteBooking removes the booking and its payments.
func (store *Store) DeleteBooking(ctx context.Context, bookingID hotel.BookingID) error {
	return store.db.WithContext(ctx).Transaction(func(transaction *gorm.DB) error {
		if err := transaction.Where("booking_id = ?", bookingID.Int64()).Delete(&Payment{}).Error; err != nil {
			return wrapStoreError(errorSubjectPayment, errorCodeDelete, err)
		}
		result := transaction.Delete(&Booking{}, bookingID.Int64())
		if result.Error != nil {
			return wrapStoreError(errorSubjectBooking, errorCodeDelete, result.Error)
		}
		if result.RowsAffected == 0 {
			return wrapStoreError(errorSubjectBooking, errorCodeDelete, hotel.ErrBookingNotFound)
		}
		return nil
	})
}

func (store *Store) GetBooking(ctx context.Context, bookingID hotel.BookingID) (hotel.Booking, error) {
	var model Booking
	err := store.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", bookingID.Int64()).
		Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return hotel.Booking{}, wrapStoreError(errorSubjectBooking, errorCodeGet, hotel.ErrBookingNotFound)
		}
		return hotel.Booking{}, wrapStoreError(errorSubjectBooking, errorCodeGet, err)
	}
	booking, err := mapBooking(model)
	if err != nil {
		return hotel.Booking{}, wrapStoreError(errorSubjectBooking, errorCodeInvalid, err)
	}
	return booking, nil
}

func (store *Store) CountBookings(ctx context.Context, filter hotel.BookingCountFilter) (int64, error) {
	query := store.db.WithContext(ctx).Model(&Booking{})
	if filter.GuestID != nil {
		query = query.Where("guest_id = ?", filter.GuestID.Int64())
	}
	if filter.RoomID != nil {
		query = query.Where("room_id = ?", filter.RoomID.Int64())
	}
	if filter.ActiveOnly {
		query = query.Where("status <> ?", hotel.BookingStatusCancelled.String())
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, wrapStoreError(errorSubjectBooking, errorCodeCount, err)
	}
	return count, nil
}

func (store *Store) ListActiveBookings(ctx context.Context, window hotel.BookingWindow) ([]hotel.Booking, error) {
	query := store.db.WithContext(ctx).
		Where("status <> ?", hotel.BookingStatusCancelled.String()).
		Where("check_in_date <= ? AND check_out_date >= ?", window.ToDate.String(), window.FromDate.String())
	if window.RoomID != nil {
		query = query.Where("room_id = ?", window.RoomID.Int64())
	}
	var rows []Booking
	if err := query.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, wrapStoreError(errorSubjectBooking, errorCodeList, err)
	}
	bookings := make([]hotel.Booking, 0, len(rows))
	for _, row := range rows {
		booking, err := mapBooking(row)
		if err != nil {
			return nil, wrapStoreError(errorSubjectBooking, errorCodeInvalid, err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, nil
}

func (store *Store) ListBookingDetails(ctx context.Context, filter hotel.DetailFilter) ([]hotel.BookingDetail, error) {
	query := store.db.WithContext(ctx).
		Table("bookings").
		Select(bookingDetailSelectColumns).
		Joins("JOIN guests ON guests.id = bookings.guest_id").
		Joins("JOIN rooms ON rooms.id = bookings.room_id").
		Joins(bookingDetailPaidSubquery)
	if filter.BookingID != nil {
		query = query.Where("bookings.id = ?", filter.BookingID.Int64())
	}
	switch filter.PaymentState {
	case hotel.PaymentStatePaid:
		query = query.Where(bookingDetailOutstandingSQL + " <= 0")
	case hotel.PaymentStateUnpaid:
		query = query.Where(bookingDetailOutstandingSQL + " > 0")
	}
	if filter.Search != "" {
		pattern := searchPatternWildcard + strings.ToLower(filter.Search) + searchPatternWildcard
		query = query.Where("(LOWER(guests.name) LIKE ? OR LOWER(rooms.number) LIKE ?)", pattern, pattern)
	}
	if filter.CheckInFrom != nil {
		query = query.Where("bookings.check_in_date >= ?", filter.CheckInFrom.String())
	}
	if filter.CheckInOn != nil {
		query = query.Where("bookings.check_in_date = ?", filter.CheckInOn.String())
	}
	if filter.CheckOutOn != nil {
		query = query.Where("bookings.check_out_date = ?", filter.CheckOutOn.String())
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	var rows []bookingDetailRow
	if err := query.Order(bookingDetailOrder).Scan(&rows).Error; err != nil {
		return nil, wrapStoreError(errorSubjectBookingDetail, errorCodeList, err)
	}
	details := make([]hotel.BookingDetail, 0, len(rows))
	for _, row := range rows {
		booking, err := mapBooking(row.model())
		if err != nil {
			return nil, wrapStoreError(errorSubjectBookingDetail, errorCodeInvalid, err)
		}
		paid, err := hotel.NewAmountCents(row.PaidCents)
		if err != nil {
			return nil, wrapStoreError(errorSubjectBookingDetail, errorCodeInvalid, err)
		}
		details = append(details, hotel.BookingDetail{
			Booking:     booking,
			GuestName:   row.GuestName,
			RoomNumber:  row.RoomNumber,
			Paid:        paid,
			Outstanding: hotel.Outstanding(booking.CalculatedPrice, paid),
		})
	}
	return details, nil
}

func (store *Store) InsertPayment(ctx context.Context, payment hotel.Payment) (hotel.PaymentID, error) {
	model := Payment{
		BookingID:   payment.BookingID.Int64(),
		AmountCents: payment.Amount.Int64(),
		Method:      payment.Method.String(),
		Reference:   payment.Reference,
		Metadata:    datatypesJSON(payment.Metadata.String()),
		PaidAt:      unixToTime(payment.PaidUnixUTC),
	}
	if err := store.db.WithContext(ctx).Omit(clause.Associations).Create(&model).Error; err != nil {
		return hotel.PaymentID{}, wrapStoreError(errorSubjectPayment, errorCodeInsert, err)
	}
	paymentID, err := hotel.NewPaymentID(model.ID)
	if err != nil {
		return hotel.PaymentID{}, wrapStoreError(errorSubjectPayment, errorCodeInvalid, err)
	}
	return paymentID, nil
}

func (store *Store) SumPayments(ctx context.Context, bookingID hotel.BookingID) (hotel.AmountCents, error) {
	var sum sqlSum
	err := store.db.WithContext(ctx).
		Model(&Payment{}).
		Select("coalesce(sum(amount_cents),0) as total").
		Where("booking_id = ?", bookingID.Int64()).
		Scan(&sum).Error
	if err != nil {
		return 0, wrapStoreError(errorSubjectPayment, errorCodeSum, err)
	}
	total, err := hotel.NewAmountCents(sum.Total)
	if err != nil {
		return 0, wrapStoreError(errorSubjectPayment, errorCodeInvalid, err)
	}
	return total, nil
}

func (store *Store) DashboardTotals(ctx context.Context) (hotel.DashboardTotals, error) {
	db := store.db.WithContext(ctx)
	var totals hotel.DashboardTotals
	if err := db.Model(&Booking{}).Count(&totals.Bookings).Error; err != nil {
		return hotel.DashboardTotals{}, wrapStoreError(errorSubjectDashboard, errorCodeCount, err)
	}
	if err := db.Model(&Guest{}).Count(&totals.Guests).Error; err != nil {
		return hotel.DashboardTotals{}, wrapStoreError(errorSubjectDashboard, errorCodeCount, err)
	}
	if err := db.Model(&Room{}).Where("status = ?", hotel.RoomStatusAvailable.String()).Count(&totals.AvailableRooms).Error; err != nil {
		return hotel.DashboardTotals{}, wrapStoreError(errorSubjectDashboard, errorCodeCount, err)
	}
	var revenue sqlSum
	if err := db.Model(&Payment{}).Select("coalesce(sum(amount_cents),0) as total").Scan(&revenue).Error; err != nil {
		return hotel.DashboardTotals{}, wrapStoreError(errorSubjectDashboard, errorCodeSum, err)
	}
	amount, err := hotel.NewAmountCents(revenue.Total)
	if err != nil {
		return hotel.DashboardTotals{}, wrapStoreError(errorSubjectDashboard, errorCodeInvalid, err)
	}
	totals.Revenue = amount
	return totals, nil
}

func (store *Store) ListPayments(ctx context.Context, bookingID hotel.BookingID) ([]hotel.Payment, error) {
	var rows []Payment
	err := store.db.WithContext(ctx).
		Where("booking_id = ?", bookingID.Int64()).
		Order("paid_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectPayment, errorCodeList, err)
	}
	payments := make([]hotel.Payment, 0, len(rows))
	for _, row := range rows {
		payment, err := mapPayment(row)
		if err != nil {
			return nil, wrapStoreError(errorSubjectPayment, errorCodeInvalid, err)
		}
		payments = append(payments, payment)
	}
	return payments, nil
}

func (store *Store) InsertGuestHistory(ctx context.Context, entry hotel.GuestHistoryEntry) error {
	model := GuestHistory{
		GuestID:      entry.GuestID.Int64(),
		RoomID:       entry.RoomID.Int64(),
		BookingID:    entry.BookingID.Int64(),
		CheckInDate:  entry.CheckInDate.String(),
		CheckOutDate: entry.CheckOutDate.String(),
		Metadata:     datatypesJSON(entry.Metadata.String()),
		RecordedAt:   unixToTime(entry.RecordedUnixUTC),
	}
	if err := store.db.WithContext(ctx).Create(&model).Error; err != nil {
		return wrapStoreError(errorSubjectGuestHistory, errorCodeInsert, err)
	}
	return nil
}

func (store *Store) ListGuestHistory(ctx context.Context, guestID hotel.GuestID) ([]hotel.GuestHistoryEntry, error) {
	var rows []GuestHistory
	err := store.db.WithContext(ctx).
		Where("guest_id = ?", guestID.Int64()).
		Order("recorded_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectGuestHistory, errorCodeList, err)
	}
	entries := make([]hotel.GuestHistoryEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := mapGuestHistory(row)
		if err != nil {
			return nil, wrapStoreError(errorSubjectGuestHistory, errorCodeInvalid, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func wrapStoreError(subject string, code string, err error) error {
	return hotel.WrapError(errorOperationStore, subject, code, err)
}

type sqlSum struct {
	Total int64
}

type bookingDetailRow struct {
	ID                   int64
	GuestID              int64
	RoomID               int64
	CheckInDate          string
	CheckOutDate         string
	CheckInTime          string
	CheckOutTime         string
	PriceType            string
	CalculatedPriceCents int64
	PaymentStatus        string
	Status               string
	CreatedAt            time.Time
	UpdatedAt            time.Time
	GuestName            string
	RoomNumber           string
	PaidCents            int64
}

func (row bookingDetailRow) model() Booking {
	return Booking{
		ID:                   row.ID,
		GuestID:              row.GuestID,
		RoomID:               row.RoomID,
		CheckInDate:          row.CheckInDate,
		CheckOutDate:         row.CheckOutDate,
		CheckInTime:          row.CheckInTime,
		CheckOutTime:         row.CheckOutTime,
		PriceType:            row.PriceType,
		CalculatedPriceCents: row.CalculatedPriceCents,
		PaymentStatus:        row.PaymentStatus,
		Status:               row.Status,
		CreatedAt:            row.CreatedAt,
		UpdatedAt:            row.UpdatedAt,
	}
}

func datatypesJSON(raw string) datatypes.JSON {
	normalized, err := hotel.NewMetadataJSON(raw)
	if err != nil {
		return datatypes.JSON([]byte("{}"))
	}
	return datatypes.JSON([]byte(normalized.String()))
}

func unixToTime(unixUTC int64) time.Time {
	if unixUTC == 0 {
		return time.Now().UTC()
	}
	return time.Unix(unixUTC, 0).UTC()
}

func optionalCents(amount *hotel.AmountCents) *int64 {
	if amount == nil {
		return nil
	}
	value := amount.Int64()
	return &value
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolationCode
	}
	var sqliteErr *gosqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		if code == sqliteConstraintUnique || code == sqliteConstraintPrimaryKey {
			return true
		}
	}
	return strings.Contains(err.Error(), sqliteUniqueMessage)
}
