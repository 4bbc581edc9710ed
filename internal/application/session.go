package application

import (
	"context"
	"log/slog"

	"github.com/ericfisherdev/ibank/internal/domain/port/driven"
)

// ResolvePremium decides once whether the viewer is premium. A non-nil
// override wins; otherwise the session endpoint is asked. A failed lookup is
// logged and treated as non-premium.
func ResolvePremium(ctx context.Context, session driven.SessionAPI, override *bool, logger *slog.Logger) bool {
	if logger == nil {
		logger = slog.Default()
	}

	if override != nil {
		logger.Info("premium status overridden by config", "premium", *override)
		return *override
	}

	if session == nil {
		return false
	}

	user, err := session.FetchUser(ctx)
	if err != nil {
		logger.Warn("session lookup failed, treating viewer as non-premium", "error", err)
		return false
	}

	logger.Info("session resolved", "user", user.Name, "premium", user.IsPremium)
	return user.IsPremium
}
