package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iohusni/garaadsom-book-shop/internal/domain"
	domainerrors "github.com/iohusni/garaadsom-book-shop/internal/errors"
	"github.com/iohusni/garaadsom-book-shop/internal/store"
)

func testTransaction(id, userID, bookID string, gained, spent float64, createdAt time.Time) *domain.Transaction {
	return &domain.Transaction{
		Timestamps:      domain.Timestamps{CreatedAt: createdAt, UpdatedAt: createdAt},
		ID:              id,
		UserID:          userID,
		BookID:          bookID,
		TransactionDate: createdAt,
		AmountGained:    gained,
		AmountSpent:     spent,
	}
}

func TestTransactions_CreateAndGet(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	now := time.Now()

	tx := testTransaction("txn-1", "user-1", "book-1", 50, 20, now)
	require.NoError(t, s.CreateTransaction(ctx, tx))

	got, err := s.GetTransaction(ctx, "txn-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)
	assert.InDelta(t, 30.0, got.Net(), 1e-9)

	// Duplicate ID
	err = s.CreateTransaction(ctx, tx)
	assert.True(t, domainerrors.Is(err, store.ErrAlreadyExists))
}

func TestTransactions_ListByBookNewestFirst(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, time.July, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.CreateTransaction(ctx, testTransaction("txn-1", "user-1", "book-1", 10, 0, base)))
	require.NoError(t, s.CreateTransaction(ctx, testTransaction("txn-2", "user-2", "book-1", 20, 0, base.Add(time.Hour))))
	require.NoError(t, s.CreateTransaction(ctx, testTransaction("txn-3", "user-1", "book-2", 30, 0, base.Add(2*time.Hour))))

	transactions, err := s.ListBookTransactions(ctx, "book-1", 0)
	require.NoError(t, err)
	require.Len(t, transactions, 2)
	assert.Equal(t, "txn-2", transactions[0].ID)
	assert.Equal(t, "txn-1", transactions[1].ID)
}

func TestTransactions_ListByUserHonorsLimit(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, time.July, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"txn-1", "txn-2", "txn-3"} {
		tx := testTransaction(id, "user-1", "book-1", 10, 0, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, s.CreateTransaction(ctx, tx))
	}

	transactions, err := s.ListUserTransactions(ctx, "user-1", 2)
	require.NoError(t, err)
	require.Len(t, transactions, 2)
	assert.Equal(t, "txn-3", transactions[0].ID)
}

func TestTransactions_DeleteRemovesFromIndexes(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, s.CreateTransaction(ctx, testTransaction("txn-1", "user-1", "book-1", 10, 5, now)))
	require.NoError(t, s.DeleteTransaction(ctx, "txn-1"))

	_, err := s.GetTransaction(ctx, "txn-1")
	assert.True(t, domainerrors.Is(err, store.ErrNotFound))

	transactions, err := s.ListBookTransactions(ctx, "book-1", 0)
	require.NoError(t, err)
	assert.Empty(t, transactions)

	// Idempotent delete
	require.NoError(t, s.DeleteTransaction(ctx, "txn-1"))
}

func TestTransactions_BookTotals(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, s.CreateTransaction(ctx, testTransaction("txn-1", "user-1", "book-1", 100, 40, now)))
	require.NoError(t, s.CreateTransaction(ctx, testTransaction("txn-2", "user-2", "book-1", 50, 10, now.Add(time.Minute))))

	gained, spent, count, err := s.BookTotals(ctx, "book-1")
	require.NoError(t, err)
	assert.InDelta(t, 150.0, gained, 1e-9)
	assert.InDelta(t, 50.0, spent, 1e-9)
	assert.Equal(t, 2, count)
}
