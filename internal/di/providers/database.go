package providers

import (
	"github.com/samber/do/v2"

	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/config"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/logger"
	"github.com/sandosh-prabu-2005/Legacy25-Backend/internal/store"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the document store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	db, err := store.NewWithRetry(cfg.Store.Path, log.Logger, cfg.Store.OpenRetries, cfg.Store.OpenRetryDelay)
	if err != nil {
		return nil, err
	}

	log.Info("Store initialized", "path", cfg.Store.Path)

	return &StoreHandle{Store: db}, nil
}
