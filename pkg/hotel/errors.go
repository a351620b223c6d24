package hotel

import (
	"errors"
	"fmt"
)

// Error categories returned by the hotel service. Every specific error below
// matches exactly one category through errors.Is.
var (
	ErrValidation           = errors.New("validation failed")
	ErrConflict             = errors.New("room unavailable")
	ErrOverpayment          = errors.New("payment exceeds outstanding balance")
	ErrNotFound             = errors.New("not found")
	ErrIntegrity            = errors.New("integrity violation")
	ErrInvalidTransition    = errors.New("invalid booking transition")
	ErrInvalidServiceConfig = errors.New("invalid service config")
)

// Validation failures.
var (
	ErrPastCheckIn           = newCategoryError(ErrValidation, "past check-in")
	ErrCheckOutBeforeCheckIn = newCategoryError(ErrValidation, "checkout before checkin")
	ErrSameDayOrdering       = newCategoryError(ErrValidation, "same-day ordering")
	ErrThreeHourSameDay      = newCategoryError(ErrValidation, "three-hour must be same day")
	ErrMissingThreeHourPrice = newCategoryError(ErrValidation, "missing three-hour price")
	ErrInvalidCustomPrice    = newCategoryError(ErrValidation, "invalid custom price")
	ErrInvalidRoomID         = newCategoryError(ErrValidation, "invalid room id")
	ErrInvalidGuestID        = newCategoryError(ErrValidation, "invalid guest id")
	ErrInvalidBookingID      = newCategoryError(ErrValidation, "invalid booking id")
	ErrInvalidPaymentID      = newCategoryError(ErrValidation, "invalid payment id")
	ErrInvalidAmountCents    = newCategoryError(ErrValidation, "invalid amount cents")
	ErrInvalidDate           = newCategoryError(ErrValidation, "invalid date")
	ErrInvalidClockTime      = newCategoryError(ErrValidation, "invalid clock time")
	ErrInvalidPriceType      = newCategoryError(ErrValidation, "invalid price type")
	ErrInvalidPaymentMethod  = newCategoryError(ErrValidation, "invalid payment method")
	ErrInvalidPaymentStatus  = newCategoryError(ErrValidation, "invalid payment status")
	ErrInvalidBookingStatus  = newCategoryError(ErrValidation, "invalid booking status")
	ErrInvalidRoomStatus     = newCategoryError(ErrValidation, "invalid room status")
	ErrInvalidRoom           = newCategoryError(ErrValidation, "invalid room")
	ErrInvalidGuest          = newCategoryError(ErrValidation, "invalid guest")
	ErrInvalidMetadataJSON   = newCategoryError(ErrValidation, "invalid metadata json")
	ErrNoBookingsSelected    = newCategoryError(ErrValidation, "no bookings selected")
	ErrDuplicateBooking      = newCategoryError(ErrValidation, "booking selected more than once")
)

// Lookup failures.
var (
	ErrRoomNotFound    = newCategoryError(ErrNotFound, "room not found")
	ErrGuestNotFound   = newCategoryError(ErrNotFound, "guest not found")
	ErrBookingNotFound = newCategoryError(ErrNotFound, "booking not found")
)

// Lifecycle and referential failures.
var (
	ErrAlreadyCheckedIn  = newCategoryError(ErrInvalidTransition, "guest already checked in")
	ErrAlreadyCheckedOut = newCategoryError(ErrInvalidTransition, "guest already checked out")
	ErrBookingCancelled  = newCategoryError(ErrInvalidTransition, "booking cancelled")
	ErrGuestHasBookings  = newCategoryError(ErrIntegrity, "guest has bookings")
	ErrRoomHasBookings   = newCategoryError(ErrIntegrity, "room has active bookings")
	ErrDuplicateRoom     = newCategoryError(ErrIntegrity, "room number already exists")
	ErrRoomAlreadyBooked = newCategoryError(ErrIntegrity, "room already booked for check-in date")
	ErrPriceBelowPaid    = newCategoryError(ErrOverpayment, "price below amount already paid")
)

type categoryError struct {
	category error
	message  string
}

func newCategoryError(category error, message string) error {
	return &categoryError{category: category, message: message}
}

func (categoryErr *categoryError) Error() string {
	return categoryErr.message
}

func (categoryErr *categoryError) Is(target error) bool {
	return target == categoryErr.category
}

// ConflictError reports the booking that blocks a candidate stay.
type ConflictError struct {
	BookingID BookingID
}

// Error returns the formatted error message.
func (conflictError ConflictError) Error() string {
	return fmt.Sprintf("room unavailable: conflicts with booking %s", conflictError.BookingID.String())
}

// Is reports whether target is the conflict category.
func (conflictError ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// OverpaymentError reports an allocation attempt above the outstanding total.
type OverpaymentError struct {
	Requested   AmountCents
	Outstanding AmountCents
}

// Error returns the formatted error message.
func (overpaymentError OverpaymentError) Error() string {
	return fmt.Sprintf("payment exceeds outstanding balance: requested %s, outstanding %s", overpaymentError.Requested.String(), overpaymentError.Outstanding.String())
}

// Is reports whether target is the overpayment category.
func (overpaymentError OverpaymentError) Is(target error) bool {
	return target == ErrOverpayment
}

// OperationError wraps a failure with a stable operation code.
type OperationError struct {
	operation string
	subject   string
	code      string
	err       error
}

// Error returns the formatted error message.
func (operationError OperationError) Error() string {
	return fmt.Sprintf("%s.%s.%s: %v", operationError.operation, operationError.subject, operationError.code, operationError.err)
}

// Unwrap returns the underlying error.
func (operationError OperationError) Unwrap() error {
	return operationError.err
}

// Operation returns the operation segment.
func (operationError OperationError) Operation() string {
	return operationError.operation
}

// Subject returns the subject segment.
func (operationError OperationError) Subject() string {
	return operationError.subject
}

// Code returns the stable error code segment.
func (operationError OperationError) Code() string {
	return operationError.code
}

// WrapError wraps an error with operation, subject, and code metadata.
func WrapError(operation string, subject string, code string, err error) error {
	if err == nil {
		return nil
	}
	return OperationError{
		operation: operation,
		subject:   subject,
		code:      code,
		err:       err,
	}
}
