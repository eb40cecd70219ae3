package providers

import (
	"github.com/samber/do/v2"

	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/auth"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/config"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/logger"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/mail"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/payment"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/service"
)

// ProvideMailer provides the outbound mailer. Mail is a no-op when SMTP is
// disabled so development servers run without a relay.
func ProvideMailer(i do.Injector) (mail.Mailer, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Mail.Enabled {
		log.Info("Outbound mail disabled; using no-op mailer")
		return mail.Noop{}, nil
	}

	return mail.NewClient(cfg.Mail, log.Logger), nil
}

// ProvidePaymentProvider provides the payment gateway client.
func ProvidePaymentProvider(i do.Injector) (payment.Provider, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return payment.NewClient(cfg.Payment), nil
}

// ProvideUserService provides the user account service.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	mailer := do.MustInvoke[mail.Mailer](i)
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUserService(storeHandle.Store, tokenService, mailer, cfg.Frontend.BaseURL, log.Logger), nil
}

// ProvideEventService provides the event catalog service.
func ProvideEventService(i do.Injector) (*service.EventService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewEventService(storeHandle.Store, log.Logger), nil
}

// ProvideRegistrationService provides the registration service.
func ProvideRegistrationService(i do.Injector) (*service.RegistrationService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewRegistrationService(storeHandle.Store, log.Logger), nil
}

// ProvideTeamService provides the team formation service.
func ProvideTeamService(i do.Injector) (*service.TeamService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTeamService(storeHandle.Store, log.Logger), nil
}

// ProvideAdminService provides the admin dashboard service.
func ProvideAdminService(i do.Injector) (*service.AdminService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAdminService(storeHandle.Store, log.Logger), nil
}

// ProvideAdminInviteService provides the admin invitation service.
func ProvideAdminInviteService(i do.Injector) (*service.AdminInviteService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	mailer := do.MustInvoke[mail.Mailer](i)
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAdminInviteService(storeHandle.Store, mailer, cfg.Frontend.BaseURL, log.Logger), nil
}

// ProvidePaymentService provides the payment-gated signup service.
func ProvidePaymentService(i do.Injector) (*service.PaymentService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	provider := do.MustInvoke[payment.Provider](i)
	userService := do.MustInvoke[*service.UserService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPaymentService(storeHandle.Store, provider, userService, log.Logger), nil
}
