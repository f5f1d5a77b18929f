package api

import (
	"github.com/iohusni/garaadsom-book-shop/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth         *service.AuthService
	Users        *service.UserService
	Books        *service.BookService
	Transactions *service.TransactionService
	Audit        *service.AuditService
	Stats        *service.StatsService
}
