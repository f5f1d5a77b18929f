package providers

import (
	"context"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/iohusni/garaadsom-book-shop/internal/config"
	"github.com/iohusni/garaadsom-book-shop/internal/logger"
	"github.com/iohusni/garaadsom-book-shop/internal/service"
	"github.com/iohusni/garaadsom-book-shop/internal/store"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the database store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := filepath.Join(cfg.Data.BasePath, "db")
	db, err := store.New(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}

// Bootstrap marks that startup records exist. The system actor backs
// every scheduler audit entry, so it must be in place before the first
// sweep runs.
type Bootstrap struct {
	SystemUserReady bool
}

// ProvideBootstrap ensures the reserved system user exists.
func ProvideBootstrap(i do.Injector) (*Bootstrap, error) {
	log := do.MustInvoke[*logger.Logger](i)
	userService := do.MustInvoke[*service.UserService](i)

	if err := userService.EnsureSystemUser(context.Background()); err != nil {
		return nil, err
	}

	log.Info("System user ready")

	return &Bootstrap{SystemUserReady: true}, nil
}
