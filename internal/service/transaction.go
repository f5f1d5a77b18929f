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

// TransactionService handles member gain/spend records.
type TransactionService struct {
	store  *store.Store
	audit  *AuditService
	logger *slog.Logger
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(store *store.Store, audit *AuditService, logger *slog.Logger) *TransactionService {
	return &TransactionService{store: store, audit: audit, logger: logger}
}

// CreateTransactionRequest contains a new gain/spend entry.
type CreateTransactionRequest struct {
	BookID          string    `json:"book_id" validate:"required"`
	TransactionDate time.Time `json:"transaction_date" validate:"required"`
	AmountGained    float64   `json:"amount_gained" validate:"gte=0"`
	AmountSpent     float64   `json:"amount_spent" validate:"gte=0"`
	Note            string    `json:"note,omitempty" validate:"max=500"`
}

// UpdateTransactionRequest contains owner-editable fields. Nil pointers
// leave the field unchanged; the book and owner can never change.
type UpdateTransactionRequest struct {
	TransactionDate *time.Time `json:"transaction_date,omitempty"`
	AmountGained    *float64   `json:"amount_gained,omitempty" validate:"omitempty,gte=0"`
	AmountSpent     *float64   `json:"amount_spent,omitempty" validate:"omitempty,gte=0"`
	Note            *string    `json:"note,omitempty" validate:"omitempty,max=500"`
}

// activeBook re-reads the book and checks it still accepts writes. Every
// mutation goes through this inside the request, so a book closed between
// requests is caught immediately.
func (s *TransactionService) activeBook(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("book %s not found", bookID)
		}
		return nil, err
	}
	if !book.IsActive() {
		return nil, domainerrors.StateInvalid("book is not accepting transactions")
	}
	return book, nil
}

// admitBook additionally checks that the given date falls inside the book
// period. Applied when a date is being written, not on delete.
func (s *TransactionService) admitBook(ctx context.Context, bookID string, date time.Time) (*domain.Book, error) {
	book, err := s.activeBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !book.ContainsDate(date) {
		return nil, domainerrors.DateRange("transaction date is outside the book period")
	}
	return book, nil
}

// Create logs a new transaction for the caller against an ACTIVE book.
func (s *TransactionService) Create(ctx context.Context, caller *domain.User, req CreateTransactionRequest) (*domain.Transaction, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.admitBook(ctx, req.BookID, req.TransactionDate); err != nil {
		return nil, err
	}

	txnID, err := id.Generate("txn")
	if err != nil {
		return nil, fmt.Errorf("generate transaction ID: %w", err)
	}

	txn := &domain.Transaction{
		ID:              txnID,
		UserID:          caller.ID,
		BookID:          req.BookID,
		TransactionDate: req.TransactionDate,
		AmountGained:    req.AmountGained,
		AmountSpent:     req.AmountSpent,
		Note:            req.Note,
	}
	txn.InitTimestamps()

	if err := s.store.CreateTransaction(ctx, txn); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, caller.ID, domain.ActionTransactionCreated, domain.TargetTransaction, txnID,
		fmt.Sprintf("Transaction logged: gained %.2f, spent %.2f", txn.AmountGained, txn.AmountSpent))

	return txn, nil
}

// Get retrieves a transaction visible to the caller: the owner or an admin.
func (s *TransactionService) Get(ctx context.Context, caller *domain.User, txnID string) (*domain.Transaction, error) {
	txn, err := s.store.GetTransaction(ctx, txnID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("transaction %s not found", txnID)
		}
		return nil, err
	}

	if !txn.OwnedBy(caller.ID) && !caller.IsAdmin() {
		return nil, domainerrors.Forbidden("you can only view your own transactions")
	}

	return txn, nil
}

// List returns transactions newest first, filtered by book and/or user.
// Non-admins are always restricted to their own rows.
func (s *TransactionService) List(ctx context.Context, caller *domain.User, bookID, userID string) ([]*domain.Transaction, error) {
	if !caller.IsAdmin() {
		userID = caller.ID
	}

	switch {
	case userID != "":
		transactions, err := s.store.ListUserTransactions(ctx, userID, 0)
		if err != nil {
			return nil, err
		}
		if bookID == "" {
			return transactions, nil
		}
		filtered := transactions[:0]
		for _, t := range transactions {
			if t.BookID == bookID {
				filtered = append(filtered, t)
			}
		}
		return filtered, nil
	case bookID != "":
		return s.store.ListBookTransactions(ctx, bookID, 0)
	default:
		// Admin, no filters: everything across all books
		books, err := s.store.ListBooks(ctx)
		if err != nil {
			return nil, err
		}
		var all []*domain.Transaction
		for _, book := range books {
			transactions, err := s.store.ListBookTransactions(ctx, book.ID, 0)
			if err != nil {
				return nil, err
			}
			all = append(all, transactions...)
		}
		return all, nil
	}
}

// Update edits a transaction. Only the owner may edit; there is no admin
// override. The book must still be ACTIVE and the new date in range.
func (s *TransactionService) Update(ctx context.Context, caller *domain.User, txnID string, req UpdateTransactionRequest) (*domain.Transaction, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	txn, err := s.store.GetTransaction(ctx, txnID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("transaction %s not found", txnID)
		}
		return nil, err
	}

	if !txn.OwnedBy(caller.ID) {
		return nil, domainerrors.Forbidden("only the owner can edit a transaction")
	}

	if req.TransactionDate != nil {
		txn.TransactionDate = *req.TransactionDate
	}
	if req.AmountGained != nil {
		txn.AmountGained = *req.AmountGained
	}
	if req.AmountSpent != nil {
		txn.AmountSpent = *req.AmountSpent
	}
	if req.Note != nil {
		txn.Note = *req.Note
	}

	if _, err := s.admitBook(ctx, txn.BookID, txn.TransactionDate); err != nil {
		return nil, err
	}

	txn.Touch()
	if err := s.store.UpdateTransaction(ctx, txn); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, caller.ID, domain.ActionTransactionUpdated, domain.TargetTransaction, txnID,
		fmt.Sprintf("Transaction updated: gained %.2f, spent %.2f", txn.AmountGained, txn.AmountSpent))

	return txn, nil
}

// Delete removes a transaction. Owner only, and the book must still be
// ACTIVE. The stored date is not re-checked, so a row stays deletable even
// after the book window is edited out from under it.
func (s *TransactionService) Delete(ctx context.Context, caller *domain.User, txnID string) error {
	txn, err := s.store.GetTransaction(ctx, txnID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFoundf("transaction %s not found", txnID)
		}
		return err
	}

	if !txn.OwnedBy(caller.ID) {
		return domainerrors.Forbidden("only the owner can delete a transaction")
	}

	if _, err := s.activeBook(ctx, txn.BookID); err != nil {
		return err
	}

	if err := s.store.DeleteTransaction(ctx, txnID); err != nil {
		return err
	}

	s.audit.Record(ctx, caller.ID, domain.ActionTransactionDeleted, domain.TargetTransaction, txnID,
		"Transaction deleted")

	return nil
}
