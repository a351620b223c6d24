package hotel

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// AmountCents is a non-negative currency amount in cents.
type AmountCents int64

// MaxAmountCents is the largest amount that still scales by the seasonal percentages without overflowing.
const MaxAmountCents AmountCents = (math.MaxInt64 - 100) / highSeasonPercent

// NewAmountCents validates an amount and ensures it is neither negative nor above MaxAmountCents.
func NewAmountCents(raw int64) (AmountCents, error) {
	if raw < 0 {
		return 0, fmt.Errorf("%w: must not be negative", ErrInvalidAmountCents)
	}
	if raw > int64(MaxAmountCents) {
		return 0, fmt.Errorf("%w: exceeds %d cents", ErrInvalidAmountCents, int64(MaxAmountCents))
	}
	return AmountCents(raw), nil
}

// Int64 returns the raw cents value.
func (amount AmountCents) Int64() int64 {
	return int64(amount)
}

// Float64 returns the amount in currency units.
func (amount AmountCents) Float64() float64 {
	return float64(amount) / 100
}

// String formats the amount as a decimal currency value.
func (amount AmountCents) String() string {
	return fmt.Sprintf("%d.%02d", int64(amount)/100, int64(amount)%100)
}

// PositiveAmountCents is a strictly positive amount in cents.
type PositiveAmountCents int64

// NewPositiveAmountCents validates an amount and ensures it is strictly positive.
func NewPositiveAmountCents(raw int64) (PositiveAmountCents, error) {
	if raw <= 0 {
		return 0, fmt.Errorf("%w: must be greater than zero", ErrInvalidAmountCents)
	}
	return PositiveAmountCents(raw), nil
}

// ToAmountCents converts to the non-negative representation.
func (amount PositiveAmountCents) ToAmountCents() AmountCents {
	return AmountCents(amount)
}

// ParseAmount parses a decimal currency string such as "45" or "45.50" into cents.
func ParseAmount(raw string) (AmountCents, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidAmountCents)
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidAmountCents, trimmed)
	}
	return AmountFromFloat(value)
}

// AmountFromFloat converts a currency value to cents, rounding to the nearest cent.
func AmountFromFloat(value float64) (AmountCents, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: not a finite number", ErrInvalidAmountCents)
	}
	cents := math.Round(value * 100)
	if cents < 0 {
		return 0, fmt.Errorf("%w: must not be negative", ErrInvalidAmountCents)
	}
	// the int64 conversion is only defined inside the range
	if cents > float64(MaxAmountCents) {
		return 0, fmt.Errorf("%w: exceeds %d cents", ErrInvalidAmountCents, int64(MaxAmountCents))
	}
	return NewAmountCents(int64(cents))
}

// RoomID identifies a room.
type RoomID struct {
	value int64
}

// NewRoomID validates a room id.
func NewRoomID(raw int64) (RoomID, error) {
	if raw <= 0 {
		return RoomID{}, fmt.Errorf("%w: must be positive", ErrInvalidRoomID)
	}
	return RoomID{value: raw}, nil
}

// ParseRoomID parses a decimal room id.
func ParseRoomID(raw string) (RoomID, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return RoomID{}, fmt.Errorf("%w: %q", ErrInvalidRoomID, raw)
	}
	return NewRoomID(value)
}

// Int64 returns the raw identifier.
func (id RoomID) Int64() int64 {
	return id.value
}

// String returns the decimal identifier.
func (id RoomID) String() string {
	return strconv.FormatInt(id.value, 10)
}

// IsZero reports whether the id is unset.
func (id RoomID) IsZero() bool {
	return id.value == 0
}

// GuestID identifies a guest.
type GuestID struct {
	value int64
}

// NewGuestID validates a guest id.
func NewGuestID(raw int64) (GuestID, error) {
	if raw <= 0 {
		return GuestID{}, fmt.Errorf("%w: must be positive", ErrInvalidGuestID)
	}
	return GuestID{value: raw}, nil
}

// ParseGuestID parses a decimal guest id.
func ParseGuestID(raw string) (GuestID, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return GuestID{}, fmt.Errorf("%w: %q", ErrInvalidGuestID, raw)
	}
	return NewGuestID(value)
}

// Int64 returns the raw identifier.
func (id GuestID) Int64() int64 {
	return id.value
}

// String returns the decimal identifier.
func (id GuestID) String() string {
	return strconv.FormatInt(id.value, 10)
}

// IsZero reports whether the id is unset.
func (id GuestID) IsZero() bool {
	return id.value == 0
}

// BookingID identifies a booking.
type BookingID struct {
	value int64
}

// NewBookingID validates a booking id.
func NewBookingID(raw int64) (BookingID, error) {
	if raw <= 0 {
		return BookingID{}, fmt.Errorf("%w: must be positive", ErrInvalidBookingID)
	}
	return BookingID{value: raw}, nil
}

// ParseBookingID parses a decimal booking id.
func ParseBookingID(raw string) (BookingID, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return BookingID{}, fmt.Errorf("%w: %q", ErrInvalidBookingID, raw)
	}
	return NewBookingID(value)
}

// Int64 returns the raw identifier.
func (id BookingID) Int64() int64 {
	return id.value
}

// String returns the decimal identifier.
func (id BookingID) String() string {
	return strconv.FormatInt(id.value, 10)
}

// IsZero reports whether the id is unset.
func (id BookingID) IsZero() bool {
	return id.value == 0
}

// PaymentID identifies a payment row.
type PaymentID struct {
	value int64
}

// NewPaymentID validates a payment id.
func NewPaymentID(raw int64) (PaymentID, error) {
	if raw <= 0 {
		return PaymentID{}, fmt.Errorf("%w: must be positive", ErrInvalidPaymentID)
	}
	return PaymentID{value: raw}, nil
}

// Int64 returns the raw identifier.
func (id PaymentID) Int64() int64 {
	return id.value
}

// String returns the decimal identifier.
func (id PaymentID) String() string {
	return strconv.FormatInt(id.value, 10)
}

// CalendarDate is a day without time-of-day or zone.
type CalendarDate struct {
	value time.Time
}

// NewDate builds a calendar date.
func NewDate(year int, month time.Month, day int) CalendarDate {
	return CalendarDate{value: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of an instant as seen in its own location.
func DateOf(instant time.Time) CalendarDate {
	return NewDate(instant.Year(), instant.Month(), instant.Day())
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(raw string) (CalendarDate, error) {
	parsed, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return CalendarDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return DateOf(parsed), nil
}

// String returns the YYYY-MM-DD form.
func (date CalendarDate) String() string {
	return date.value.Format(dateLayout)
}

// Before reports whether date is strictly earlier than other.
func (date CalendarDate) Before(other CalendarDate) bool {
	return date.value.Before(other.value)
}

// After reports whether date is strictly later than other.
func (date CalendarDate) After(other CalendarDate) bool {
	return date.value.After(other.value)
}

// Equal reports whether both dates name the same day.
func (date CalendarDate) Equal(other CalendarDate) bool {
	return date.value.Equal(other.value)
}

// AddDays shifts the date by a number of days.
func (date CalendarDate) AddDays(days int) CalendarDate {
	return CalendarDate{value: date.value.AddDate(0, 0, days)}
}

// IsZero reports whether the date is unset.
func (date CalendarDate) IsZero() bool {
	return date.value.IsZero()
}

// ClockTime is a time of day with minute precision.
type ClockTime struct {
	minutes int
}

// NewClockTime validates an hour and minute pair.
func NewClockTime(hour int, minute int) (ClockTime, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return ClockTime{}, fmt.Errorf("%w: %02d:%02d out of range", ErrInvalidClockTime, hour, minute)
	}
	return ClockTime{minutes: hour*60 + minute}, nil
}

// ParseClockTime parses HH:MM or HH:MM:SS; seconds are discarded.
func ParseClockTime(raw string) (ClockTime, error) {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range []string{clockLayout, clockLayoutSeconds} {
		parsed, err := time.Parse(layout, trimmed)
		if err == nil {
			return NewClockTime(parsed.Hour(), parsed.Minute())
		}
	}
	return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidClockTime, raw)
}

// ParseClockTimeOrDefault returns fallback for blank input.
func ParseClockTimeOrDefault(raw string, fallback ClockTime) (ClockTime, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	return ParseClockTime(raw)
}

// Minutes returns minutes since midnight.
func (clock ClockTime) Minutes() int {
	return clock.minutes
}

// String returns the HH:MM form.
func (clock ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", clock.minutes/60, clock.minutes%60)
}

// Before reports whether clock is strictly earlier than other.
func (clock ClockTime) Before(other ClockTime) bool {
	return clock.minutes < other.minutes
}

// DefaultCheckInTime is used when a booking omits its check-in time.
func DefaultCheckInTime() ClockTime {
	return ClockTime{minutes: defaultCheckInHour * 60}
}

// DefaultCheckOutTime is used when a booking omits its check-out time.
func DefaultCheckOutTime() ClockTime {
	return ClockTime{minutes: defaultCheckOutHour * 60}
}

// Stay is the requested occupancy interval of a booking.
type Stay struct {
	CheckInDate  CalendarDate
	CheckOutDate CalendarDate
	CheckInTime  ClockTime
	CheckOutTime ClockTime
}

// PriceType selects the pricing policy for a booking.
type PriceType string

const (
	PriceTypeNormal     PriceType = "normal"
	PriceTypeLowSeason  PriceType = "low_season"
	PriceTypeHighSeason PriceType = "high_season"
	PriceTypeThreeHour  PriceType = "three_hour"
)

// ParsePriceType accepts canonical identifiers and legacy display labels ("3 Hour").
func ParsePriceType(raw string) (PriceType, error) {
	switch normalizeLabel(raw) {
	case "normal":
		return PriceTypeNormal, nil
	case "low_season":
		return PriceTypeLowSeason, nil
	case "high_season":
		return PriceTypeHighSeason, nil
	case "three_hour", "3_hour":
		return PriceTypeThreeHour, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPriceType, raw)
}

// String returns the canonical identifier.
func (priceType PriceType) String() string {
	return string(priceType)
}

// PaymentStatus is the coarse settlement state of a booking.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusHalfPaid PaymentStatus = "half_paid"
	PaymentStatusPaid     PaymentStatus = "paid"
)

// ParsePaymentStatus accepts canonical identifiers and legacy labels ("HALF PAID").
func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	switch normalizeLabel(raw) {
	case "pending":
		return PaymentStatusPending, nil
	case "half_paid":
		return PaymentStatusHalfPaid, nil
	case "paid":
		return PaymentStatusPaid, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, raw)
}

// String returns the canonical identifier.
func (status PaymentStatus) String() string {
	return string(status)
}

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingStatusBooking    BookingStatus = "booking"
	BookingStatusCheckedIn  BookingStatus = "checked_in"
	BookingStatusCheckedOut BookingStatus = "checked_out"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// ParseBookingStatus accepts canonical identifiers and legacy labels ("CHECKED-IN").
func ParseBookingStatus(raw string) (BookingStatus, error) {
	switch normalizeLabel(raw) {
	case "booking", "pending":
		return BookingStatusBooking, nil
	case "checked_in":
		return BookingStatusCheckedIn, nil
	case "checked_out":
		return BookingStatusCheckedOut, nil
	case "cancelled", "canceled":
		return BookingStatusCancelled, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidBookingStatus, raw)
}

// String returns the canonical identifier.
func (status BookingStatus) String() string {
	return string(status)
}

// RoomStatus is informational only; availability is derived from bookings.
type RoomStatus string

const (
	RoomStatusAvailable RoomStatus = "available"
	RoomStatusBooked    RoomStatus = "booked"
	RoomStatusOccupied  RoomStatus = "occupied"
)

// ParseRoomStatus validates a room status label.
func ParseRoomStatus(raw string) (RoomStatus, error) {
	switch normalizeLabel(raw) {
	case "available":
		return RoomStatusAvailable, nil
	case "booked":
		return RoomStatusBooked, nil
	case "occupied":
		return RoomStatusOccupied, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRoomStatus, raw)
}

// String returns the canonical identifier.
func (status RoomStatus) String() string {
	return string(status)
}

// PaymentMethod names how a payment was tendered.
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodQRCode PaymentMethod = "qr_code"
)

// ParsePaymentMethod accepts canonical identifiers and legacy labels ("KHQR").
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	switch normalizeLabel(raw) {
	case "cash":
		return PaymentMethodCash, nil
	case "qr_code", "qrcode", "qr", "khqr":
		return PaymentMethodQRCode, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, raw)
}

// String returns the canonical identifier.
func (method PaymentMethod) String() string {
	return string(method)
}

// MetadataJSON stores arbitrary request metadata.
type MetadataJSON struct {
	value string
}

// NewMetadataJSON validates metadata string (defaulting to "{}" for empty inputs).
func NewMetadataJSON(raw string) (MetadataJSON, error) {
	normalized := strings.TrimSpace(raw)
	if normalized == "" {
		normalized = defaultMetadataJSON
	}
	if !json.Valid([]byte(normalized)) {
		return MetadataJSON{}, fmt.Errorf("%w: must be valid json", ErrInvalidMetadataJSON)
	}
	return MetadataJSON{value: normalized}, nil
}

// String returns the normalized JSON blob.
func (metadata MetadataJSON) String() string {
	if metadata.value == "" {
		return defaultMetadataJSON
	}
	return metadata.value
}

// Room is a bookable unit from the catalog.
type Room struct {
	ID              RoomID
	Number          string
	Type            string
	Capacity        int
	BasePrice       AmountCents
	LowSeasonPrice  *AmountCents
	HighSeasonPrice *AmountCents
	ThreeHourPrice  *AmountCents
	Status          RoomStatus
}

// Validate checks the catalog fields of a room.
func (room Room) Validate() error {
	if strings.TrimSpace(room.Number) == "" {
		return fmt.Errorf("%w: room number is required", ErrInvalidRoom)
	}
	if room.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", ErrInvalidRoom)
	}
	if room.BasePrice < 0 || room.BasePrice > MaxAmountCents {
		return fmt.Errorf("%w: base price must be between 0 and %s", ErrInvalidRoom, MaxAmountCents)
	}
	for _, override := range []*AmountCents{room.LowSeasonPrice, room.HighSeasonPrice, room.ThreeHourPrice} {
		if override != nil && (*override < 0 || *override > MaxAmountCents) {
			return fmt.Errorf("%w: price override must be between 0 and %s", ErrInvalidRoom, MaxAmountCents)
		}
	}
	if room.Status != "" {
		if _, err := ParseRoomStatus(room.Status.String()); err != nil {
			return err
		}
	}
	return nil
}

// Guest is a person who can hold bookings.
type Guest struct {
	ID      GuestID
	Name    string
	Contact string
	Email   string
}

// Validate checks the catalog fields of a guest.
func (guest Guest) Validate() error {
	if strings.TrimSpace(guest.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidGuest)
	}
	if strings.TrimSpace(guest.Contact) == "" {
		return fmt.Errorf("%w: contact is required", ErrInvalidGuest)
	}
	return nil
}

// Booking is a stored reservation of a room by a guest.
type Booking struct {
	ID              BookingID
	GuestID         GuestID
	RoomID          RoomID
	Stay            Stay
	PriceType       PriceType
	CalculatedPrice AmountCents
	PaymentStatus   PaymentStatus
	Status          BookingStatus
	CreatedUnixUTC  int64
	UpdatedUnixUTC  int64
}

// IsActive reports whether the booking still holds its room.
func (booking Booking) IsActive() bool {
	return booking.Status != BookingStatusCancelled
}

// Payment is an append-only amount recorded against a booking.
type Payment struct {
	ID          PaymentID
	BookingID   BookingID
	Amount      AmountCents
	Method      PaymentMethod
	Reference   string
	Metadata    MetadataJSON
	PaidUnixUTC int64
}

// GuestHistoryEntry is the audit row written at check-in.
type GuestHistoryEntry struct {
	GuestID         GuestID
	RoomID          RoomID
	BookingID       BookingID
	CheckInDate     CalendarDate
	CheckOutDate    CalendarDate
	Metadata        MetadataJSON
	RecordedUnixUTC int64
}

// BookingRequest carries the caller-supplied fields of a create or update.
type BookingRequest struct {
	GuestID     GuestID
	RoomID      RoomID
	Stay        Stay
	PriceType   PriceType
	ManualPrice string
}

// BookingWindow selects non-cancelled bookings whose date range touches [FromDate, ToDate].
type BookingWindow struct {
	RoomID   *RoomID
	FromDate CalendarDate
	ToDate   CalendarDate
}

// Store is the persistence contract used by Service.
type Store interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, txStore Store) error) error

	CreateRoom(ctx context.Context, room Room) (RoomID, error)
	UpdateRoom(ctx context.Context, room Room) error
	UpdateRoomStatus(ctx context.Context, roomID RoomID, status RoomStatus) error
	DeleteRoom(ctx context.Context, roomID RoomID) error
	GetRoom(ctx context.Context, roomID RoomID) (Room, error)
	// LockRoom reads a room and holds a row lock on it until the surrounding transaction ends.
	LockRoom(ctx context.Context, roomID RoomID) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)

	CreateGuest(ctx context.Context, guest Guest) (GuestID, error)
	UpdateGuest(ctx context.Context, guest Guest) error
	DeleteGuest(ctx context.Context, guestID GuestID) error
	GetGuest(ctx context.Context, guestID GuestID) (Guest, error)
	ListGuests(ctx context.Context) ([]Guest, error)

	CreateBooking(ctx context.Context, booking Booking) (BookingID, error)
	UpdateBooking(ctx context.Context, booking Booking) error
	DeleteBooking(ctx context.Context, bookingID BookingID) error
	GetBooking(ctx context.Context, bookingID BookingID) (Booking, error)
	CountBookings(ctx context.Context, filter BookingCountFilter) (int64, error)
	ListActiveBookings(ctx context.Context, window BookingWindow) ([]Booking, error)
	ListBookingDetails(ctx context.Context, filter DetailFilter) ([]BookingDetail, error)

	InsertPayment(ctx context.Context, payment Payment) (PaymentID, error)
	SumPayments(ctx context.Context, bookingID BookingID) (AmountCents, error)
	ListPayments(ctx context.Context, bookingID BookingID) ([]Payment, error)

	InsertGuestHistory(ctx context.Context, entry GuestHistoryEntry) error
	ListGuestHistory(ctx context.Context, guestID GuestID) ([]GuestHistoryEntry, error)

	DashboardTotals(ctx context.Context) (DashboardTotals, error)
}

// BookingCountFilter counts bookings referencing a guest or a room.
type BookingCountFilter struct {
	GuestID    *GuestID
	RoomID     *RoomID
	ActiveOnly bool
}

func normalizeLabel(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(lowered)
}
