package hotel

import "context"

// DashboardTotals are the front-desk headline counters.
type DashboardTotals struct {
	Bookings       int64
	Guests         int64
	Revenue        AmountCents
	AvailableRooms int64
}

// Dashboard is the front-desk overview for the current day.
type Dashboard struct {
	DashboardTotals
	Date        CalendarDate
	CheckingIn  []BookingDetail
	CheckingOut []BookingDetail
}

// DashboardSummary returns the headline counters plus the bookings arriving and leaving today.
// Revenue is the sum of every recorded payment; available rooms count the informational status.
func (service *Service) DashboardSummary(ctx context.Context) (Dashboard, error) {
	today := service.today()
	totals, err := service.store.DashboardTotals(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	checkingIn, err := service.store.ListBookingDetails(ctx, DetailFilter{CheckInOn: &today})
	if err != nil {
		return Dashboard{}, err
	}
	checkingOut, err := service.store.ListBookingDetails(ctx, DetailFilter{CheckOutOn: &today})
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		DashboardTotals: totals,
		Date:            today,
		CheckingIn:      checkingIn,
		CheckingOut:     checkingOut,
	}, nil
}
