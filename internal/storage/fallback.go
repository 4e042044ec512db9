package storage

import (
	"fmt"

	"github.com/pinspire/backend/internal/logger"
)

// withFallback runs primary and, if it fails, tries fallback exactly once.
// Both remote backends route their SDK calls through this helper so the
// single-retry policy lives in one place. A fallback failure is reported
// as a transport error; the caller surfaces it without further retries.
func withFallback(op string, primary, fallback func() error) error {
	err := primary()
	if err == nil {
		return nil
	}
	logger.Log.Warnw("primary storage client failed, trying raw HTTP fallback",
		"op", op, "error", err)

	if ferr := fallback(); ferr != nil {
		logger.Log.Errorw("storage fallback failed", "op", op, "error", ferr)
		return fmt.Errorf("%s: %w: %v", op, ErrTransport, ferr)
	}
	return nil
}
