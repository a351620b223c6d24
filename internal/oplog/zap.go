package oplog

import (
	"context"
	"errors"

	"github.com/MarkoPoloResearchLab/innkeeper/pkg/hotel"
	"go.uber.org/zap"
)

var domainCategories = []error{
	hotel.ErrValidation,
	hotel.ErrConflict,
	hotel.ErrOverpayment,
	hotel.ErrNotFound,
	hotel.ErrIntegrity,
	hotel.ErrInvalidTransition,
}

// ZapLogger writes one structured line per hotel operation.
type ZapLogger struct {
	logger *zap.Logger
}

// NewZapLogger wraps logger; a nil logger discards entries.
func NewZapLogger(logger *zap.Logger) *ZapLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapLogger{logger: logger}
}

func (zapLogger *ZapLogger) LogOperation(_ context.Context, entry hotel.OperationLog) {
	fields := []zap.Field{
		zap.String("operation", entry.Operation),
		zap.String("status", entry.Status),
	}
	if entry.BookingID != nil {
		fields = append(fields, zap.Int64("booking_id", entry.BookingID.Int64()))
	}
	if entry.GuestID != nil {
		fields = append(fields, zap.Int64("guest_id", entry.GuestID.Int64()))
	}
	if entry.RoomID != nil {
		fields = append(fields, zap.Int64("room_id", entry.RoomID.Int64()))
	}
	if entry.Amount != 0 {
		fields = append(fields, zap.Int64("amount_cents", entry.Amount.Int64()))
	}
	if entry.PriceType != "" {
		fields = append(fields, zap.String("price_type", entry.PriceType.String()))
	}
	switch {
	case entry.Error == nil:
		zapLogger.logger.Info("hotel operation", fields...)
	case IsDomainRejection(entry.Error):
		zapLogger.logger.Warn("hotel operation rejected", append(fields, zap.Error(entry.Error))...)
	default:
		zapLogger.logger.Error("hotel operation failed", append(fields, zap.Error(entry.Error))...)
	}
}

// IsDomainRejection reports whether err is a business rule outcome rather than an infrastructure failure.
func IsDomainRejection(err error) bool {
	for _, category := range domainCategories {
		if errors.Is(err, category) {
			return true
		}
	}
	return false
}
