package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/iohusni/garaadsom-book-shop/internal/domain"
	"github.com/iohusni/garaadsom-book-shop/internal/store"
)

// StatsService computes the dashboard overview aggregates.
type StatsService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewStatsService creates a new stats service.
func NewStatsService(store *store.Store, logger *slog.Logger) *StatsService {
	return &StatsService{store: store, logger: logger}
}

// Overview is the dashboard read model.
type Overview struct {
	TotalBooks        int     `json:"total_books"`
	ActiveBooks       int     `json:"active_books"`
	TotalUsers        int     `json:"total_users"`
	TotalTransactions int     `json:"total_transactions"`
	TotalGained       float64 `json:"total_gained"`
	TotalSpent        float64 `json:"total_spent"`
	Net               float64 `json:"net"`
}

// Overview aggregates counts and amounts. Admins see portal-wide numbers;
// members see the shared book counts but only their own transaction
// aggregates.
func (s *StatsService) Overview(ctx context.Context, caller *domain.User) (*Overview, error) {
	overview := &Overview{}

	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	overview.TotalBooks = len(books)
	for _, book := range books {
		if book.IsActive() {
			overview.ActiveBooks++
		}
	}

	if caller.IsAdmin() {
		for user, err := range s.store.Users.List(ctx) {
			if err != nil {
				return nil, fmt.Errorf("count users: %w", err)
			}
			if !user.IsSystem() {
				overview.TotalUsers++
			}
		}

		for _, book := range books {
			gained, spent, count, err := s.store.BookTotals(ctx, book.ID)
			if err != nil {
				return nil, fmt.Errorf("book totals: %w", err)
			}
			overview.TotalGained += gained
			overview.TotalSpent += spent
			overview.TotalTransactions += count
		}
	} else {
		transactions, err := s.store.ListUserTransactions(ctx, caller.ID, 0)
		if err != nil {
			return nil, fmt.Errorf("list user transactions: %w", err)
		}
		overview.TotalTransactions = len(transactions)
		for _, t := range transactions {
			overview.TotalGained += t.AmountGained
			overview.TotalSpent += t.AmountSpent
		}
	}

	overview.Net = overview.TotalGained - overview.TotalSpent
	return overview, nil
}
