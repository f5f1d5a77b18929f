package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iohusni/garaadsom-book-shop/internal/domain"
	"github.com/iohusni/garaadsom-book-shop/internal/id"
	"github.com/iohusni/garaadsom-book-shop/internal/store"
)

// SchedulerService owns the book lifecycle rules driven by timers: closing
// overdue books and opening the next weekly period. The tick methods are
// public and side-effect complete, so the timer job just calls them and
// tests can drive single ticks.
type SchedulerService struct {
	store    *store.Store
	audit    *AuditService
	notifier Notifier
	logger   *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewSchedulerService creates a new scheduler service.
func NewSchedulerService(store *store.Store, audit *AuditService, notifier Notifier, logger *slog.Logger) *SchedulerService {
	return &SchedulerService{
		store:    store,
		audit:    audit,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// SetClock overrides the scheduler's time source. Test hook.
func (s *SchedulerService) SetClock(now func() time.Time) {
	s.now = now
}

// CloseExpiredBooks closes every ACTIVE book whose end date has passed and
// returns how many were closed. Idempotent: a second run finds nothing to
// do.
func (s *SchedulerService) CloseExpiredBooks(ctx context.Context) (int, error) {
	now := s.now()

	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return 0, fmt.Errorf("list books: %w", err)
	}

	closed := 0
	for _, book := range books {
		if !book.IsOverdue(now) {
			continue
		}

		book.Status = domain.BookStatusClosed
		book.Touch()
		if err := s.store.UpdateBook(ctx, book); err != nil {
			if s.logger != nil {
				s.logger.Error("Failed to close overdue book", "book_id", book.ID, "error", err)
			}
			continue
		}

		s.audit.Record(ctx, domain.SystemUserID, domain.ActionBookClosed, domain.TargetBook, book.ID,
			fmt.Sprintf("Book automatically closed: %s", book.Title))

		if s.logger != nil {
			s.logger.Info("Book automatically closed", "book_id", book.ID, "title", book.Title)
		}
		closed++
	}

	return closed, nil
}

// GenerateNextBook opens the weekly successor of the most recent book. It
// does nothing while a book is ACTIVE, and nothing when no prior book
// exists to continue from (the first book is always opened by an admin).
func (s *SchedulerService) GenerateNextBook(ctx context.Context) (*domain.Book, error) {
	_, err := s.store.GetActiveBook(ctx)
	if err == nil {
		return nil, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check active book: %w", err)
	}

	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	if len(books) == 0 {
		return nil, nil
	}

	// Continue from the latest window end, scanned directly so the choice
	// does not depend on list ordering
	latest := books[0]
	for _, b := range books[1:] {
		if b.EndDate.After(latest.EndDate) {
			latest = b
		}
	}
	start, end := latest.NextPeriod()

	bookID, err := id.Generate("book")
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	book := &domain.Book{
		ID:           bookID,
		Title:        domain.WeeklyTitle(start),
		StartDate:    start,
		EndDate:      end,
		// The weekly window counts both endpoints, so seven days
		DurationDays: 7,
		Status:       domain.BookStatusActive,
		CreatedBy:    domain.SystemUserID,
	}
	book.InitTimestamps()

	if err := s.store.CreateBook(ctx, book); err != nil {
		// A concurrent admin create can win the active slot between the
		// check and the claim; that's a no-op for this tick, not a failure
		if errors.Is(err, store.ErrActiveBookExists) {
			return nil, nil
		}
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.audit.Record(ctx, domain.SystemUserID, domain.ActionBookCreated, domain.TargetBook, bookID,
		fmt.Sprintf("Auto-generated book: %s", book.Title))

	if s.logger != nil {
		s.logger.Info("Book auto-generated", "book_id", bookID, "title", book.Title)
	}

	s.notifyNewBook(ctx, book)

	return book, nil
}

// notifyNewBook fans "a new book is open" out to every member who can log
// in. Notification failures are logged and never fail the tick.
func (s *SchedulerService) notifyNewBook(ctx context.Context, book *domain.Book) {
	if s.notifier == nil {
		return
	}

	for user, err := range s.store.Users.List(ctx) {
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("Failed to list users for notification", "error", err)
			}
			return
		}
		if !user.CanLogin() {
			continue
		}
		if err := s.notifier.NotifyNewBook(ctx, user, book); err != nil && s.logger != nil {
			s.logger.Warn("Notification failed", "recipient", user.ID, "error", err)
		}
	}
}
