package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iohusni/garaadsom-book-shop/internal/domain"
	domainerrors "github.com/iohusni/garaadsom-book-shop/internal/errors"
	"github.com/iohusni/garaadsom-book-shop/internal/id"
	"github.com/iohusni/garaadsom-book-shop/internal/store"
)

// BookService handles the reporting period lifecycle.
type BookService struct {
	store  *store.Store
	audit  *AuditService
	logger *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(store *store.Store, audit *AuditService, logger *slog.Logger) *BookService {
	return &BookService{store: store, audit: audit, logger: logger}
}

// CreateBookRequest contains the data for opening a new reporting period.
type CreateBookRequest struct {
	Title        string    `json:"title" validate:"required,booktitle"`
	StartDate    time.Time `json:"start_date" validate:"required"`
	EndDate      time.Time `json:"end_date" validate:"required"`
	DurationDays int       `json:"duration_days" validate:"required,gt=0"`
	Status       string    `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

// UpdateBookRequest contains admin-editable book fields. Nil pointers leave
// the field unchanged.
type UpdateBookRequest struct {
	Title     *string    `json:"title,omitempty" validate:"omitempty,booktitle"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Status    *string    `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE INACTIVE CLOSED"`
}

// Create opens a new book. Only one book may be ACTIVE at a time; the
// conflict comes back from the store's transactional claim, not from a
// read-then-write in this layer.
func (s *BookService) Create(ctx context.Context, actorID string, req CreateBookRequest) (*domain.Book, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, domainerrors.DateRange("end date must not be before start date")
	}

	status := domain.BookStatusActive
	if req.Status != "" {
		status = domain.BookStatus(req.Status)
	}

	bookID, err := id.Generate("book")
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	book := &domain.Book{
		ID:           bookID,
		Title:        req.Title,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		DurationDays: req.DurationDays,
		Status:       status,
		CreatedBy:    actorID,
	}
	book.InitTimestamps()

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actorID, domain.ActionBookCreated, domain.TargetBook, bookID,
		fmt.Sprintf("Book created: %s", book.Title))

	if s.logger != nil {
		s.logger.Info("Book created", "book_id", bookID, "title", book.Title, "actor", actorID)
	}

	return book, nil
}

// Get retrieves a book by ID.
func (s *BookService) Get(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("book %s not found", bookID)
		}
		return nil, err
	}
	return book, nil
}

// GetActive returns the single ACTIVE book, or NotFound when no book is
// open.
func (s *BookService) GetActive(ctx context.Context) (*domain.Book, error) {
	book, err := s.store.GetActiveBook(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("no active book")
		}
		return nil, err
	}
	return book, nil
}

// List returns books newest first, optionally filtered by status.
func (s *BookService) List(ctx context.Context, status string) ([]*domain.Book, error) {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, err
	}

	if status == "" {
		return books, nil
	}

	filtered := books[:0]
	for _, book := range books {
		if book.Status == domain.BookStatus(status) {
			filtered = append(filtered, book)
		}
	}
	return filtered, nil
}

// Update applies admin edits to a book. DurationDays is recomputed whenever
// a date changes. CLOSED is terminal: a closed book cannot return to ACTIVE
// or INACTIVE.
func (s *BookService) Update(ctx context.Context, actorID, bookID string, req UpdateBookRequest) (*domain.Book, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	book, err := s.Get(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.StartDate != nil {
		book.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		book.EndDate = *req.EndDate
	}
	if req.StartDate != nil || req.EndDate != nil {
		if book.EndDate.Before(book.StartDate) {
			return nil, domainerrors.DateRange("end date must not be before start date")
		}
		book.DurationDays = domain.DurationDaysBetween(book.StartDate, book.EndDate)
	}
	if req.Status != nil {
		newStatus := domain.BookStatus(*req.Status)
		if book.IsClosed() && newStatus != domain.BookStatusClosed {
			return nil, domainerrors.StateInvalid("a closed book cannot be reopened")
		}
		book.Status = newStatus
	}
	book.Touch()

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actorID, domain.ActionBookUpdated, domain.TargetBook, bookID,
		fmt.Sprintf("Book updated: %s", book.Title))

	return book, nil
}

// Delete removes a book. Blocked while transactions reference it.
func (s *BookService) Delete(ctx context.Context, actorID, bookID string) error {
	book, err := s.Get(ctx, bookID)
	if err != nil {
		return err
	}

	existing, err := s.store.ListBookTransactions(ctx, bookID, 1)
	if err != nil {
		return fmt.Errorf("check book transactions: %w", err)
	}
	if len(existing) > 0 {
		return domainerrors.Conflict("book has transactions and cannot be deleted")
	}

	if err := s.store.DeleteBook(ctx, bookID); err != nil {
		return err
	}

	s.audit.Record(ctx, actorID, domain.ActionBookDeleted, domain.TargetBook, bookID,
		fmt.Sprintf("Book deleted: %s", book.Title))

	if s.logger != nil {
		s.logger.Info("Book deleted", "book_id", bookID, "actor", actorID)
	}

	return nil
}

// BookReport is the export read model: a book, its transactions, and the
// aggregate amounts. Rendering (PDF, spreadsheet) happens client-side.
type BookReport struct {
	Book         *domain.Book          `json:"book"`
	Transactions []*domain.Transaction `json:"transactions"`
	TotalGained  float64               `json:"total_gained"`
	TotalSpent   float64               `json:"total_spent"`
	Net          float64               `json:"net"`
}

// Report assembles the report for a book. Admins may scope to one user via
// filterUserID; non-admins always get only their own rows.
func (s *BookService) Report(ctx context.Context, caller *domain.User, bookID, filterUserID string) (*BookReport, error) {
	book, err := s.Get(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if !caller.IsAdmin() {
		filterUserID = caller.ID
	}

	transactions, err := s.store.ListBookTransactions(ctx, bookID, 0)
	if err != nil {
		return nil, err
	}

	report := &BookReport{Book: book, Transactions: make([]*domain.Transaction, 0, len(transactions))}
	for _, t := range transactions {
		if filterUserID != "" && t.UserID != filterUserID {
			continue
		}
		report.Transactions = append(report.Transactions, t)
		report.TotalGained += t.AmountGained
		report.TotalSpent += t.AmountSpent
	}
	report.Net = report.TotalGained - report.TotalSpent

	return report, nil
}
