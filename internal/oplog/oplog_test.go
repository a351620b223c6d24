package oplog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MarkoPoloResearchLab/innkeeper/pkg/hotel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recorderLogger struct {
	entries []hotel.OperationLog
}

func (logger *recorderLogger) LogOperation(_ context.Context, entry hotel.OperationLog) {
	logger.entries = append(logger.entries, entry)
}

func mustBookingID(test *testing.T, raw int64) hotel.BookingID {
	test.Helper()
	bookingID, err := hotel.NewBookingID(raw)
	require.NoError(test, err)
	return bookingID
}

func TestZapLoggerLevels(test *testing.T) {
	test.Parallel()
	core, observed := observer.New(zapcore.DebugLevel)
	logger := NewZapLogger(zap.New(core))
	bookingID := mustBookingID(test, 12)

	logger.LogOperation(context.Background(), hotel.OperationLog{
		Operation: "create_booking",
		BookingID: &bookingID,
		Amount:    10000,
		PriceType: hotel.PriceTypeNormal,
		Status:    "ok",
	})
	logger.LogOperation(context.Background(), hotel.OperationLog{
		Operation: "create_booking",
		Status:    "error",
		Error:     hotel.ConflictError{BookingID: bookingID},
	})
	logger.LogOperation(context.Background(), hotel.OperationLog{
		Operation: "apply_payment",
		Status:    "error",
		Error:     errors.New("connection reset"),
	})

	entries := observed.All()
	require.Len(test, entries, 3)
	require.Equal(test, zapcore.InfoLevel, entries[0].Level)
	require.Equal(test, int64(12), entries[0].ContextMap()["booking_id"])
	require.Equal(test, int64(10000), entries[0].ContextMap()["amount_cents"])
	require.Equal(test, "normal", entries[0].ContextMap()["price_type"])
	require.Equal(test, zapcore.WarnLevel, entries[1].Level)
	require.Equal(test, zapcore.ErrorLevel, entries[2].Level)
}

func TestIsDomainRejection(test *testing.T) {
	test.Parallel()
	require.True(test, IsDomainRejection(hotel.ErrPastCheckIn))
	require.True(test, IsDomainRejection(hotel.OverpaymentError{Requested: 2, Outstanding: 1}))
	require.True(test, IsDomainRejection(hotel.WrapError("store", "room", "get", hotel.ErrRoomNotFound)))
	require.False(test, IsDomainRejection(errors.New("disk full")))
}

func TestMetricsCountOperations(test *testing.T) {
	test.Parallel()
	registry := prometheus.NewRegistry()
	metrics, err := NewMetrics("innkeeper", registry)
	require.NoError(test, err)

	metrics.LogOperation(context.Background(), hotel.OperationLog{Operation: "create_booking", Status: "ok", Amount: 9000, PriceType: hotel.PriceTypeLowSeason})
	metrics.LogOperation(context.Background(), hotel.OperationLog{Operation: "apply_payment", Status: "ok", Amount: 4000})
	metrics.LogOperation(context.Background(), hotel.OperationLog{Operation: "apply_payment", Status: "error", Amount: 100, Error: hotel.ErrOverpayment})
	metrics.ObserveHTTPRequest("POST", "/api/payments", 201, 15*time.Millisecond)

	require.Equal(test, float64(1), testutil.ToFloat64(metrics.operationsTotal.WithLabelValues("create_booking", "ok")))
	require.Equal(test, float64(1), testutil.ToFloat64(metrics.operationsTotal.WithLabelValues("apply_payment", "error")))
	require.Equal(test, float64(4000), testutil.ToFloat64(metrics.paymentsCentsTotal))
	require.Equal(test, float64(1), testutil.ToFloat64(metrics.httpRequestsTotal.WithLabelValues("POST", "/api/payments", "201")))
	require.Equal(test, 1, testutil.CollectAndCount(metrics.bookingPriceCents))

	_, err = NewMetrics("innkeeper", registry)
	require.Error(test, err)
}

func TestMultiFansOut(test *testing.T) {
	test.Parallel()
	first := &recorderLogger{}
	second := &recorderLogger{}
	multi := Multi{first, nil, second}

	multi.LogOperation(context.Background(), hotel.OperationLog{Operation: "check_in", Status: "ok"})

	require.Len(test, first.entries, 1)
	require.Len(test, second.entries, 1)
	require.Equal(test, "check_in", second.entries[0].Operation)
}
