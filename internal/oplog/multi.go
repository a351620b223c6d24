package oplog

import (
	"context"

	"github.com/MarkoPoloResearchLab/innkeeper/pkg/hotel"
)

// Multi fans one operation out to several loggers.
type Multi []hotel.OperationLogger

func (loggers Multi) LogOperation(ctx context.Context, entry hotel.OperationLog) {
	for _, logger := range loggers {
		if logger != nil {
			logger.LogOperation(ctx, entry)
		}
	}
}
