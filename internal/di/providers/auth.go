package providers

import (
	"github.com/samber/do/v2"

	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/auth"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/config"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/logger"
)

// AuthKey is the hex-encoded PASETO symmetric key.
type AuthKey string

// ProvideAuthKey loads the authentication key from configuration or, in
// development, from (or into) the data directory.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Auth.TokenKeyHex != "" {
		return AuthKey(cfg.Auth.TokenKeyHex), nil
	}

	key, err := auth.LoadOrGenerateKey(cfg.Store.Path)
	if err != nil {
		return "", err
	}
	cfg.Auth.TokenKeyHex = key

	log.Info("Authentication key loaded",
		"access_token_duration", cfg.Auth.AccessTokenDuration,
	)

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	authKey := do.MustInvoke[AuthKey](i)

	return auth.NewTokenService(string(authKey), cfg.Auth.AccessTokenDuration)
}
