package hotel

import (
	"context"
	"time"
)

// ServiceOption configures a Service instance.
type ServiceOption func(*Service)

// OperationLogger records domain-level events emitted by Service operations.
type OperationLogger interface {
	LogOperation(ctx context.Context, entry OperationLog)
}

// OperationLog describes a state-changing hotel operation.
type OperationLog struct {
	Operation string
	BookingID *BookingID
	GuestID   *GuestID
	RoomID    *RoomID
	Amount    AmountCents
	PriceType PriceType
	Status    string
	Error     error
}

// WithOperationLogger wires a logger that receives callbacks for every operation.
func WithOperationLogger(logger OperationLogger) ServiceOption {
	return func(service *Service) {
		service.logger = logger
	}
}

// WithLocation sets the zone used to decide what "today" is for the past check-in rule.
func WithLocation(location *time.Location) ServiceOption {
	return func(service *Service) {
		if location != nil {
			service.location = location
		}
	}
}

// WithReferenceGenerator overrides how payment batch references are produced.
func WithReferenceGenerator(generate func() string) ServiceOption {
	return func(service *Service) {
		if generate != nil {
			service.newReference = generate
		}
	}
}
