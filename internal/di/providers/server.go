package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/iohusni/garaadsom-book-shop/internal/api"
	"github.com/iohusni/garaadsom-book-shop/internal/config"
	"github.com/iohusni/garaadsom-book-shop/internal/logger"
	"github.com/iohusni/garaadsom-book-shop/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	// The system user must exist before requests come in.
	_ = do.MustInvoke[*Bootstrap](i)

	services := &api.Services{
		Auth:         do.MustInvoke[*service.AuthService](i),
		Users:        do.MustInvoke[*service.UserService](i),
		Books:        do.MustInvoke[*service.BookService](i),
		Transactions: do.MustInvoke[*service.TransactionService](i),
		Audit:        do.MustInvoke[*service.AuditService](i),
		Stats:        do.MustInvoke[*service.StatsService](i),
	}

	handler := api.NewServer(storeHandle.Store, services, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr, "name", cfg.Server.Name)

	return &HTTPServerHandle{Server: srv}, nil
}
