package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/ericfisherdev/ibank/internal/domain/port/driven"
)

// Observe wraps svc so every call is logged and reported to recorder under the
// given source name. The outcome is returned unchanged. Either recorder or
// logger may be nil.
func Observe(source string, svc ItemService, recorder driven.LoadRecorder, logger *slog.Logger) ItemService {
	if recorder == nil && logger == nil {
		return svc
	}

	return ItemServiceFunc(func(ctx context.Context) ([]ListItem, error) {
		start := time.Now()
		items, err := svc.LoadItems(ctx)
		elapsed := time.Since(start)

		if recorder != nil {
			recorder.RecordLoad(source, err, elapsed)
		}
		if logger != nil {
			if err != nil {
				logger.Warn("item source failed", "source", source, "duration", elapsed, "error", err)
			} else {
				logger.Debug("item source loaded", "source", source, "count", len(items), "duration", elapsed)
			}
		}

		return items, err
	})
}
