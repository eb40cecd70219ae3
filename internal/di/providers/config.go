// Package providers contains dependency injection providers for the Legacy25 backend.
package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/config"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.Load()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting Legacy25 backend",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"store_path", cfg.Store.Path,
	)

	return log, nil
}

// ProvideSlogLogger provides access to the underlying slog.Logger for packages that need it.
func ProvideSlogLogger(i do.Injector) (*slog.Logger, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return log.Logger, nil
}
