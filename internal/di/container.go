// Package di provides dependency injection configuration for the Legacy25 backend.
package di

import (
	"github.com/samber/do/v2"

	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/auth"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/config"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/di/providers"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/logger"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Outbound integrations
	do.Provide(injector, providers.ProvideMailer)
	do.Provide(injector, providers.ProvidePaymentProvider)

	// Business services
	do.Provide(injector, providers.ProvideUserService)
	do.Provide(injector, providers.ProvideEventService)
	do.Provide(injector, providers.ProvideRegistrationService)
	do.Provide(injector, providers.ProvideTeamService)
	do.Provide(injector, providers.ProvideAdminService)
	do.Provide(injector, providers.ProvideAdminInviteService)
	do.Provide(injector, providers.ProvidePaymentService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns once the server is running.
// This triggers lazy initialization of the full dependency graph.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.UserService](injector)
	_ = do.MustInvoke[*service.EventService](injector)
	_ = do.MustInvoke[*service.RegistrationService](injector)
	_ = do.MustInvoke[*service.TeamService](injector)
	_ = do.MustInvoke[*service.AdminService](injector)
	_ = do.MustInvoke[*service.AdminInviteService](injector)
	_ = do.MustInvoke[*service.PaymentService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
