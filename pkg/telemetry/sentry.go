package telemetry

import (
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/pulse-social/pulse/internal/config"
)

// SetupSentry initialises the Sentry client. It reports false when no DSN is
// configured.
func SetupSentry(cfg config.SentryConfig) (bool, error) {
	if cfg.DSN == "" {
		return false, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		AttachStacktrace: true,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func FlushSentry() {
	sentry.Flush(2 * time.Second)
}
