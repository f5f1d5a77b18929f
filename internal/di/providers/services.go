package providers

import (
	"github.com/samber/do/v2"

	"github.com/iohusni/garaadsom-book-shop/internal/auth"
	"github.com/iohusni/garaadsom-book-shop/internal/logger"
	"github.com/iohusni/garaadsom-book-shop/internal/service"
)

// ProvideAuditService provides the action log service.
func ProvideAuditService(i do.Injector) (*service.AuditService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuditService(storeHandle.Store, log.Logger), nil
}

// ProvideSessionService provides the session management service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	sessionService := do.MustInvoke[*service.SessionService](i)
	audit := do.MustInvoke[*service.AuditService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, sessionService, audit, log.Logger), nil
}

// ProvideUserService provides the user management service.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sessionService := do.MustInvoke[*service.SessionService](i)
	audit := do.MustInvoke[*service.AuditService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUserService(storeHandle.Store, sessionService, audit, log.Logger), nil
}

// ProvideBookService provides the book lifecycle service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	audit := do.MustInvoke[*service.AuditService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookService(storeHandle.Store, audit, log.Logger), nil
}

// ProvideTransactionService provides the transaction service.
func ProvideTransactionService(i do.Injector) (*service.TransactionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	audit := do.MustInvoke[*service.AuditService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTransactionService(storeHandle.Store, audit, log.Logger), nil
}

// ProvideStatsService provides the aggregate stats service.
func ProvideStatsService(i do.Injector) (*service.StatsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewStatsService(storeHandle.Store, log.Logger), nil
}

// ProvideNotifier provides the new-book notifier.
func ProvideNotifier(i do.Injector) (service.Notifier, error) {
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLogNotifier(log.Logger), nil
}

// ProvideSchedulerService provides the book lifecycle scheduler.
func ProvideSchedulerService(i do.Injector) (*service.SchedulerService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	audit := do.MustInvoke[*service.AuditService](i)
	notifier := do.MustInvoke[service.Notifier](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSchedulerService(storeHandle.Store, audit, notifier, log.Logger), nil
}
