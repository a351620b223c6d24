package hotel

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ComputePrice prices a booking of room under priceType.
// manualPrice is read only for three-hour bookings on rooms without a configured three-hour price.
func ComputePrice(room Room, priceType PriceType, manualPrice string) (AmountCents, error) {
	switch priceType {
	case PriceTypeNormal:
		return room.BasePrice, nil
	case PriceTypeLowSeason:
		if room.LowSeasonPrice != nil {
			return *room.LowSeasonPrice, nil
		}
		return scalePercent(room.BasePrice, lowSeasonPercent)
	case PriceTypeHighSeason:
		if room.HighSeasonPrice != nil {
			return *room.HighSeasonPrice, nil
		}
		return scalePercent(room.BasePrice, highSeasonPercent)
	case PriceTypeThreeHour:
		if room.ThreeHourPrice != nil {
			return *room.ThreeHourPrice, nil
		}
		return parseManualPrice(manualPrice)
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidPriceType, priceType)
}

// DerivePaymentStatus recomputes the coarse settlement state from the price and the amount paid.
func DerivePaymentStatus(price AmountCents, paid AmountCents) PaymentStatus {
	switch {
	case paid >= price:
		return PaymentStatusPaid
	case paid > 0:
		return PaymentStatusHalfPaid
	default:
		return PaymentStatusPending
	}
}

// Outstanding returns price minus paid, floored at zero.
func Outstanding(price AmountCents, paid AmountCents) AmountCents {
	if paid >= price {
		return 0
	}
	return price - paid
}

func parseManualPrice(raw string) (AmountCents, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, ErrMissingThreeHourPrice
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCustomPrice, trimmed)
	}
	if value <= 0 {
		return 0, ErrMissingThreeHourPrice
	}
	amount, err := AmountFromFloat(value)
	if err != nil || amount == 0 {
		return 0, ErrMissingThreeHourPrice
	}
	return amount, nil
}

// scalePercent rounds half up to the nearest cent.
func scalePercent(amount AmountCents, percent int64) (AmountCents, error) {
	if amount < 0 || amount > MaxAmountCents {
		return 0, fmt.Errorf("%w: base price %d cents out of range", ErrInvalidRoom, amount.Int64())
	}
	return AmountCents((amount.Int64()*percent + 50) / 100), nil
}
