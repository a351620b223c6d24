package gormstore

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Room mirrors the rooms table.
type Room struct {
	ID                   int64     `gorm:"primaryKey;autoIncrement"`
	Number               string    `gorm:"size:32;not null;uniqueIndex:uniq_rooms_number"`
	Type                 string    `gorm:"size:64;not null;default:''"`
	Capacity             int       `gorm:"not null"`
	BasePriceCents       int64     `gorm:"not null"`
	LowSeasonPriceCents  *int64    `gorm:""`
	HighSeasonPriceCents *int64    `gorm:""`
	ThreeHourPriceCents  *int64    `gorm:""`
	Status               string    `gorm:"size:16;not null"`
	CreatedAt            time.Time `gorm:"not null"`
	UpdatedAt            time.Time `gorm:"not null"`
}

func (Room) TableName() string { return "rooms" }

// Guest mirrors the guests table.
type Guest struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"size:255;not null;index:idx_guests_name"`
	Contact   string    `gorm:"size:255;not null"`
	Email     string    `gorm:"size:255;not null;default:''"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Guest) TableName() string { return "guests" }

// Booking mirrors the bookings table. Dates are stored as YYYY-MM-DD and times as HH:MM
// so range predicates compare lexicographically on every driver.
type Booking struct {
	ID                   int64     `gorm:"primaryKey;autoIncrement"`
	GuestID              int64     `gorm:"not null;index:idx_bookings_guest"`
	Guest                *Guest    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	RoomID               int64     `gorm:"not null;index:idx_bookings_room_dates,priority:1;uniqueIndex:uniq_bookings_room_check_in,priority:1,where:price_type <> 'three_hour' AND status <> 'cancelled' AND check_out_date <> check_in_date"`
	Room                 *Room     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	CheckInDate          string    `gorm:"size:10;not null;index:idx_bookings_room_dates,priority:2;uniqueIndex:uniq_bookings_room_check_in,priority:2"`
	CheckOutDate         string    `gorm:"size:10;not null;index:idx_bookings_room_dates,priority:3"`
	CheckInTime          string    `gorm:"size:5;not null"`
	CheckOutTime         string    `gorm:"size:5;not null"`
	PriceType            string    `gorm:"size:16;not null"`
	CalculatedPriceCents int64     `gorm:"not null"`
	PaymentStatus        string    `gorm:"size:16;not null"`
	Status               string    `gorm:"size:16;not null;index:idx_bookings_status"`
	CreatedAt            time.Time `gorm:"not null"`
	UpdatedAt            time.Time `gorm:"not null"`
}

func (Booking) TableName() string { return "bookings" }

// Payment mirrors the append-only payments table.
type Payment struct {
	ID          int64          `gorm:"primaryKey;autoIncrement"`
	BookingID   int64          `gorm:"not null;index:idx_payments_booking_paid,priority:1"`
	Booking     *Booking       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	AmountCents int64          `gorm:"not null"`
	Method      string         `gorm:"size:16;not null"`
	Reference   string         `gorm:"size:64;not null;index:idx_payments_reference"`
	Metadata    datatypes.JSON `gorm:"not null"`
	PaidAt      time.Time      `gorm:"not null;index:idx_payments_booking_paid,priority:2"`
}

func (Payment) TableName() string { return "payments" }

// GuestHistory mirrors the guest_history audit table. It outlives the booking it records.
type GuestHistory struct {
	ID           int64          `gorm:"primaryKey;autoIncrement"`
	GuestID      int64          `gorm:"not null;index:idx_guest_history_guest"`
	RoomID       int64          `gorm:"not null"`
	BookingID    int64          `gorm:"not null"`
	CheckInDate  string         `gorm:"size:10;not null"`
	CheckOutDate string         `gorm:"size:10;not null"`
	Metadata     datatypes.JSON `gorm:"not null"`
	RecordedAt   time.Time      `gorm:"not null"`
}

func (GuestHistory) TableName() string { return "guest_history" }

// AutoMigrate creates or updates every table the store needs.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Room{}, &Guest{}, &Booking{}, &Payment{}, &GuestHistory{})
}
