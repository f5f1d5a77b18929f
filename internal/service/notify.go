package service

import (
	"context"
	"log/slog"

	"github.com/iohusni/garaadsom-book-shop/internal/domain"
)

// Notifier delivers "a new book is open" notices to members. The portal
// ships with a console implementation; push or email delivery plugs in
// behind the same interface.
type Notifier interface {
	NotifyNewBook(ctx context.Context, recipient *domain.User, book *domain.Book) error
}

// LogNotifier writes notification intents to the application log.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a console-backed notifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// NotifyNewBook implements Notifier.
func (n *LogNotifier) NotifyNewBook(_ context.Context, recipient *domain.User, book *domain.Book) error {
	if n.logger != nil {
		n.logger.Info("New book notification",
			"recipient", recipient.ID,
			"username", recipient.Username,
			"book_id", book.ID,
			"title", book.Title,
		)
	}
	return nil
}
