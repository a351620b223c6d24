package hotel

const (
	operationCreateBooking = "create_booking"
	operationUpdateBooking = "update_booking"
	operationCheckIn       = "check_in"
	operationCheckOut      = "check_out"
	operationCancelBooking = "cancel_booking"
	operationDeleteBooking = "delete_booking"
	operationApplyPayment  = "apply_payment"
	operationCreateRoom    = "create_room"
	operationUpdateRoom    = "update_room"
	operationDeleteRoom    = "delete_room"
	operationCreateGuest   = "create_guest"
	operationUpdateGuest   = "update_guest"
	operationDeleteGuest   = "delete_guest"

	operationStatusOK    = "ok"
	operationStatusError = "error"

	dateLayout         = "2006-01-02"
	clockLayout        = "15:04"
	clockLayoutSeconds = "15:04:05"

	defaultCheckInHour  = 12
	defaultCheckOutHour = 10

	defaultMetadataJSON = "{}"

	lowSeasonPercent  = 90
	highSeasonPercent = 110
)
